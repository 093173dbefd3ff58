package clog

import (
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"
)

// ContextLogger routes log entries for named subsystems ("matching", "http", "notify")
// to their own apex loggers so each can have its own level and output. Entries for a
// context that was never added go to the global logger.
type ContextLogger struct {
	GlobalLogger *log.Logger

	mu      sync.RWMutex
	loggers map[string]*log.Logger
}

const GlobalLoggerCtx = "global"

func NewContextLogger(globalLoggerWriter io.WriteCloser) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: newLogger(globalLoggerWriter),
		loggers:      make(map[string]*log.Logger),
	}
}

func newLogger(w io.WriteCloser) *log.Logger {
	return &log.Logger{
		Handler: NewHandler(w),
		Level:   log.InfoLevel,
	}
}

func (l *ContextLogger) AddLoggingContext(ctx string, w io.WriteCloser) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.loggers[ctx]; ok {
		closeHandler(existing)
	}
	l.loggers[ctx] = newLogger(w)
}

func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	l.mu.Lock()
	logger, ok := l.loggers[ctx]
	delete(l.loggers, ctx)
	l.mu.Unlock()

	if ok {
		closeHandler(logger)
	}
}

func (l *ContextLogger) SetLevel(ctx string, level log.Level) error {
	logger := l.loggerFor(ctx)
	if logger == nil {
		return fmt.Errorf("no such logging context %s", ctx)
	}

	logger.Level = level
	return nil
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	return l.SetLevel(ctx, level)
}

func (l *ContextLogger) SetOutput(ctx string, w io.WriteCloser) error {
	logger := l.loggerFor(ctx)
	if logger == nil {
		return fmt.Errorf("no such logging context %s", ctx)
	}

	logger.Handler.(*Handler).SetOutput(w)
	return nil
}

// Levels reports the current level of the global logger and every added context.
func (l *ContextLogger) Levels() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	levels := map[string]string{GlobalLoggerCtx: l.GlobalLogger.Level.String()}
	for ctx, logger := range l.loggers {
		levels[ctx] = logger.Level.String()
	}

	return levels
}

func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	if logger := l.loggerFor(ctx); logger != nil {
		return logger.WithField("ctx", ctx)
	}

	return l.GlobalLogger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.GlobalLogger.WithField("ctx", GlobalLoggerCtx)
}

func (l *ContextLogger) loggerFor(ctx string) *log.Logger {
	if ctx == GlobalLoggerCtx {
		return l.GlobalLogger
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loggers[ctx]
}

func closeHandler(logger *log.Logger) {
	if h, ok := logger.Handler.(*Handler); ok {
		h.Close()
	}
}
