package clog

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestHandlerFormatsContextAndSortedFields(t *testing.T) {
	var out bufferCloser
	h := NewHandler(&out)
	h.now = func() time.Time { return time.Date(2024, 9, 1, 10, 30, 0, 0, time.UTC) }

	logger := &log.Logger{Handler: h, Level: log.DebugLevel}
	logger.WithFields(log.Fields{"ctx": "matching", "team_id": 7, "post_id": 3}).Info("request accepted")

	line := out.String()
	assert.True(t, strings.HasPrefix(line, " INFO 2024-09-01 10:30:00 [matching] request accepted"), line)
	assert.Less(t, strings.Index(line, "post_id=3"), strings.Index(line, "team_id=7"))
	assert.NotContains(t, line, "ctx=")
}

func TestContextLoggerLevels(t *testing.T) {
	var global, matching bufferCloser
	l := NewContextLogger(&global)
	l.AddLoggingContext("matching", &matching)

	require.NoError(t, l.SetLevelFromString("matching", "warn"))
	l.UsingCtx("matching").Info("dropped")
	l.UsingCtx("matching").Warn("kept")
	l.UsingCtx("unknown").Info("falls back to global")

	assert.NotContains(t, matching.String(), "dropped")
	assert.Contains(t, matching.String(), "kept")
	assert.Contains(t, global.String(), "[unknown] falls back to global")

	levels := l.Levels()
	assert.Equal(t, "warn", levels["matching"])
	assert.Equal(t, "info", levels[GlobalLoggerCtx])

	assert.Error(t, l.SetLevelFromString("nope", "debug"))
	assert.Error(t, l.SetLevelFromString("matching", "loud"))
}

func TestContextLoggerSetOutputClosesPrevious(t *testing.T) {
	var first, second bufferCloser
	l := NewContextLogger(&bufferCloser{})
	l.AddLoggingContext("notify", &first)

	require.NoError(t, l.SetOutput("notify", &second))
	assert.True(t, first.closed)

	l.UsingCtx("notify").Info("after switch")
	assert.Contains(t, second.String(), "after switch")

	l.RemoveLoggingContext("notify")
	assert.True(t, second.closed)
	assert.Error(t, l.SetOutput("notify", &first))
}
