package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const timeFormat = "2006-01-02 15:04:05"

type Logger struct {
	zl    zerolog.Logger
	files []*os.File
}

// Log is the exported, initialized logger instance
var Log *Logger

// exit is swapped out by tests that exercise Fatal.
var exit = os.Exit

// init function initializes Log with the log level from LOG_LEVEL environment variable
func init() {
	Log = NewLogger(parseLogLevel(os.Getenv("LOG_LEVEL")), os.Stdout)
}

// parseLogLevel maps a LOG_LEVEL value to a zerolog level.
// Defaults to INFO if the value is unset or invalid.
func parseLogLevel(logLevelStr string) zerolog.Level {
	switch strings.ToUpper(logLevelStr) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// consoleWriter renders events as "2006-01-02 15:04:05 [LEVEL]: message".
func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: timeFormat,
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("[%s]:", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}

// minLevelWriter drops events below min.
type minLevelWriter struct {
	io.Writer
	min zerolog.Level
}

func (w minLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < w.min {
		return len(p), nil
	}
	return w.Writer.Write(p)
}

func NewLogger(level zerolog.Level, out io.Writer, extra ...io.Writer) *Logger {
	writers := []io.Writer{consoleWriter(out)}
	writers = append(writers, extra...)
	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Setup replaces Log with a logger writing to stdout and, if dir is not empty, to
// dir/combined.log (every level) and dir/error.log (error and above).
func Setup(level string, dir string) error {
	lvl := parseLogLevel(level)
	if dir == "" {
		Log = NewLogger(lvl, os.Stdout)
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log dir %s: %w", dir, err)
	}
	combined, err := openLogFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		return err
	}
	errorsOnly, err := openLogFile(filepath.Join(dir, "error.log"))
	if err != nil {
		combined.Close()
		return err
	}

	l := NewLogger(lvl, os.Stdout,
		consoleWriter(combined),
		minLevelWriter{Writer: consoleWriter(errorsOnly), min: zerolog.ErrorLevel},
	)
	l.files = []*os.File{combined, errorsOnly}

	previous := Log
	Log = l
	previous.Close()
	return nil
}

func openLogFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// Close releases any log files held by the logger.
func (l *Logger) Close() {
	for _, f := range l.files {
		f.Close()
	}
	l.files = nil
}

// formatMessage formats the message with an optional prefix
func formatMessage(prefix, msg string) string {
	if prefix != "" {
		return "[" + prefix + "] " + msg
	}
	return msg
}

// Debug logs debug messages with an optional prefix if the level is set to DEBUG or lower
func (l *Logger) Debug(msg string, v ...interface{}) {
	l.DebugWithPrefix("", msg, v...)
}

// DebugWithPrefix logs debug messages with a specific prefix
func (l *Logger) DebugWithPrefix(prefix, msg string, v ...interface{}) {
	l.zl.Debug().Msgf(formatMessage(prefix, msg), v...)
}

// Info logs informational messages with an optional prefix if the level is set to INFO or lower
func (l *Logger) Info(msg string, v ...interface{}) {
	l.InfoWithPrefix("", msg, v...)
}

// InfoWithPrefix logs informational messages with a specific prefix
func (l *Logger) InfoWithPrefix(prefix, msg string, v ...interface{}) {
	l.zl.Info().Msgf(formatMessage(prefix, msg), v...)
}

// Warn logs warning messages with an optional prefix if the level is set to WARN or lower
func (l *Logger) Warn(msg string, v ...interface{}) {
	l.WarnWithPrefix("", msg, v...)
}

// WarnWithPrefix logs warning messages with a specific prefix
func (l *Logger) WarnWithPrefix(prefix, msg string, v ...interface{}) {
	l.zl.Warn().Msgf(formatMessage(prefix, msg), v...)
}

// Error logs error messages with an optional prefix if the level is set to ERROR or lower
func (l *Logger) Error(msg string, v ...interface{}) {
	l.ErrorWithPrefix("", msg, v...)
}

// ErrorWithPrefix logs error messages with a specific prefix
func (l *Logger) ErrorWithPrefix(prefix, msg string, v ...interface{}) {
	l.zl.Error().Msgf(formatMessage(prefix, msg), v...)
}

// Fatal logs fatal messages and exits the program
func (l *Logger) Fatal(msg string, v ...interface{}) {
	l.FatalWithPrefix("", msg, v...)
}

// FatalWithPrefix logs fatal messages with a specific prefix and exits the program
func (l *Logger) FatalWithPrefix(prefix, msg string, v ...interface{}) {
	// WithLevel does not exit by itself, so files get closed first.
	l.zl.WithLevel(zerolog.FatalLevel).Msgf(formatMessage(prefix, msg), v...)
	l.Close()
	exit(1) // Exit the program with a non-zero status code
}

// Wrapper functions to simplify logging with optional prefix

func Debug(msg string, v ...interface{}) {
	Log.Debug(msg, v...)
}

func DebugWithPrefix(prefix, msg string, v ...interface{}) {
	Log.DebugWithPrefix(prefix, msg, v...)
}

func Info(msg string, v ...interface{}) {
	Log.Info(msg, v...)
}

func InfoWithPrefix(prefix, msg string, v ...interface{}) {
	Log.InfoWithPrefix(prefix, msg, v...)
}

func Warn(msg string, v ...interface{}) {
	Log.Warn(msg, v...)
}

func WarnWithPrefix(prefix, msg string, v ...interface{}) {
	Log.WarnWithPrefix(prefix, msg, v...)
}

func Error(msg string, v ...interface{}) {
	Log.Error(msg, v...)
}

func ErrorWithPrefix(prefix, msg string, v ...interface{}) {
	Log.ErrorWithPrefix(prefix, msg, v...)
}

func Fatal(msg string, v ...interface{}) {
	Log.Fatal(msg, v...)
}

func FatalWithPrefix(prefix, msg string, v ...interface{}) {
	Log.FatalWithPrefix(prefix, msg, v...)
}
