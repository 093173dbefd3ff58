package clog

import (
	"io"
	"os"

	"github.com/apex/log"
)

var clogger = NewContextLogger(os.Stdout)

func AddLoggingContext(ctx string, w io.WriteCloser) {
	clogger.AddLoggingContext(ctx, w)
}

func SetLevelFromString(ctx, s string) error {
	return clogger.SetLevelFromString(ctx, s)
}

func SetGlobalLoggerLevelFromString(s string) error {
	return clogger.SetLevelFromString(GlobalLoggerCtx, s)
}

func SetOutput(ctx string, w io.WriteCloser) error {
	return clogger.SetOutput(ctx, w)
}

func Levels() map[string]string {
	return clogger.Levels()
}

func UsingCtx(ctx string) *log.Entry {
	return clogger.UsingCtx(ctx)
}

func Global() *log.Entry {
	return clogger.Global()
}
