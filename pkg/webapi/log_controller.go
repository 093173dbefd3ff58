package webapi

import (
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/teamup-uiuc/teamup/pkg/clog"
)

// LogController lets an operator change the level and output of each logging context
// of a running server.
type LogController struct {
	mu      sync.Mutex
	outputs map[string]string
}

type loggingState struct {
	Levels  map[string]string `json:"levels"`
	Outputs map[string]string `json:"outputs"`
}

func NewLogController() *LogController {
	return &LogController{outputs: make(map[string]string)}
}

func (c *LogController) ShowCurrentLogging(ctx echo.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ctx.JSON(http.StatusOK, c.state())
}

// SetLogging changes the level and/or output of one context. An empty context means
// the global logger.
func (c *LogController) SetLogging(ctx echo.Context) error {
	var req struct {
		Context   string `json:"context"`
		LogLevel  string `json:"log_level"`
		LogOutput string `json:"log_output"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	if req.Context == "" {
		req.Context = clog.GlobalLoggerCtx
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	oldLevel, known := clog.Levels()[req.Context]
	if !known {
		return badRequest("no such logging context '%s'", req.Context)
	}

	if req.LogLevel != "" {
		if err := clog.SetLevelFromString(req.Context, req.LogLevel); err != nil {
			return badRequest("invalid log level '%s'", req.LogLevel)
		}
	}

	if req.LogOutput != "" {
		if err := c.setLoggingOutput(req.Context, req.LogOutput); err != nil {
			// Put the level back so a failed request changes nothing.
			_ = clog.SetLevelFromString(req.Context, oldLevel)
			return badRequest("%s", err)
		}
	}

	return ctx.JSON(http.StatusOK, c.state())
}

func (c *LogController) setLoggingOutput(logCtx, logOutput string) error {
	var w io.WriteCloser
	switch logOutput {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	default:
		f, err := os.OpenFile(logOutput, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "failed to open log output %s", logOutput)
		}
		w = f
	}

	if err := clog.SetOutput(logCtx, w); err != nil {
		if w != os.Stdout && w != os.Stderr {
			_ = w.Close()
		}
		return err
	}

	c.outputs[logCtx] = logOutput
	return nil
}

func (c *LogController) state() loggingState {
	state := loggingState{Levels: clog.Levels(), Outputs: make(map[string]string)}
	for logCtx := range state.Levels {
		state.Outputs[logCtx] = "stdout"
		if output, ok := c.outputs[logCtx]; ok {
			state.Outputs[logCtx] = output
		}
	}

	return state
}
