package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.InfoLevel, &buf)

	l.Info("Checking %d keys on %s", 7, "127.0.0.1:5052")

	line := regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \[INFO\]: Checking 7 keys on 127\.0\.0\.1:5052\n$`)
	assert.Regexp(t, line, buf.String())
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(zerolog.WarnLevel, &buf)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.ErrorWithPrefix("beacon", "boom")

	out := buf.String()
	assert.NotContains(t, out, "debug")
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN]: warn")
	assert.Contains(t, out, "[ERROR]: [beacon] boom")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("ERROR"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("verbose"))
}

func TestSetupWritesLogFiles(t *testing.T) {
	previous := Log
	t.Cleanup(func() {
		Log.Close()
		Log = previous
	})

	dir := t.TempDir()
	require.NoError(t, Setup("info", dir))

	Info("Start Checking Keys")
	Error("No available Fullnodes")

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	require.NoError(t, err)
	errorsOnly, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)

	assert.Contains(t, string(combined), "[INFO]: Start Checking Keys")
	assert.Contains(t, string(combined), "[ERROR]: No available Fullnodes")
	assert.NotContains(t, string(errorsOnly), "Start Checking Keys")
	assert.Contains(t, string(errorsOnly), "[ERROR]: No available Fullnodes")
}

func TestFatalExits(t *testing.T) {
	var code int
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	var buf bytes.Buffer
	l := NewLogger(zerolog.InfoLevel, &buf)
	l.Fatal("No Validator Data")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL]: No Validator Data")
}
