package clog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

// Handler writes apex log entries as single text lines:
//
//	LEVEL 2006-01-02 15:04:05 [ctx] message key=value ...
//
// Fields are written sorted by name so lines are stable for grepping.
type Handler struct {
	mu     sync.Mutex
	Writer io.WriteCloser
	now    func() time.Time
}

var levelNames = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  "INFO",
	log.WarnLevel:  "WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

func NewHandler(w io.WriteCloser) *Handler {
	return &Handler{Writer: w, now: time.Now}
}

func (h *Handler) SetOutput(w io.WriteCloser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeWriter()
	h.Writer = w
}

func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeWriter()
}

// closeWriter never closes the process stdout/stderr.
func (h *Handler) closeWriter() {
	if h.Writer == nil || h.Writer == os.Stdout || h.Writer == os.Stderr {
		return
	}

	_ = h.Writer.Close()
}

func (h *Handler) HandleLog(e *log.Entry) error {
	names := make([]string, 0, len(e.Fields))
	ctx := ""
	for name, value := range e.Fields {
		if name == "ctx" {
			ctx = fmt.Sprint(value)
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, "%5s %s", levelNames[e.Level], h.now().Format(time.DateTime))
	if ctx != "" {
		_, _ = fmt.Fprintf(&b, " [%s]", ctx)
	}
	_, _ = fmt.Fprintf(&b, " %-25s", e.Message)
	for _, name := range names {
		_, _ = fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.Writer, b.String())
	return err
}
