package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger tags every record with its component. The handler is looked up on
// each call, so package-level loggers created before Init still follow it.
type Logger struct {
	section string
	attrs   []any
}

// Init installs the process-wide handler. Production gets JSON on stdout,
// everything else gets the text handler.
func Init(isProd bool, level string) {
	InitWithWriter(os.Stdout, isProd, level)
}

// InitWithWriter is Init with a custom sink. The terminal UI and the MCP
// server use it to keep stdout clean.
func InitWithWriter(w io.Writer, isProd bool, level string) {
	options := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if isProd {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewLogger(section string) *Logger {
	return &Logger{section: section}
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	base := slog.Default()
	if !base.Enabled(context.Background(), level) {
		return
	}
	base.With("component", l.section).With(l.attrs...).Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, args...)
	return &Logger{section: l.section, attrs: attrs}
}
