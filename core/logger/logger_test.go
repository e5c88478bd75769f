package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
}

func TestLogger_DebugGatedOnConsole(t *testing.T) {
	var console bytes.Buffer
	l := New(&console)
	l.SetColor(false)
	l.now = fixedClock

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)

	assert.NotContains(t, console.String(), "hidden 1")
	assert.Equal(t, "[25-03-04 05:06:07] INFO  shown 2\n", console.String())

	l.SetVerbose(true)
	l.Debug("now visible")
	assert.Contains(t, console.String(), "DEBUG now visible")
}

func TestLogger_SinkReceivesEveryLevelWithoutColor(t *testing.T) {
	var console, sink bytes.Buffer
	l := New(&console)
	l.now = fixedClock
	l.AddSink(&sink)

	l.Debug("Found file: %s", "/src/a.h")
	l.Warn("careful")

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[25-03-04 05:06:07] DEBUG Found file: /src/a.h", lines[0])
	assert.Equal(t, "[25-03-04 05:06:07] WARN  careful", lines[1])
	assert.NotContains(t, sink.String(), ColorReset)
	assert.Contains(t, console.String(), ColorYellow)

	l.RemoveSink(&sink)
	l.Error("after removal")
	assert.NotContains(t, sink.String(), "after removal")
}

func TestOpenRunLog_RecreatesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/headersync.log", []byte("stale\n"), 0o644))

	l := Discard()
	rl, err := OpenRunLog(fs, "/work/headersync.log", l)
	require.NoError(t, err)
	l.Info("fresh")
	require.NoError(t, rl.Close())

	data, err := afero.ReadFile(fs, "/work/headersync.log")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "INFO  fresh")
}
