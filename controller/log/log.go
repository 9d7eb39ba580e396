// Package log is the server's leveled logger. Output goes through log/slog
// so records carry a level and timestamp in a consistent text format.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Config controls which levels are written.
type Config struct {
	HideDebug bool
	HideWarn  bool
	JSON      bool
}

// Logger writes leveled messages.
type Logger struct {
	l         *slog.Logger
	hideDebug bool
	hideWarn  bool
}

// Default is the logger used by the package level functions.
var Default = New(os.Stderr, &Config{HideDebug: true})

// New creates a logger writing to w. A nil config shows every level.
func New(w io.Writer, c *Config) *Logger {
	if c == nil {
		c = &Config{}
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	var h slog.Handler
	if c.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return &Logger{l: slog.New(h), hideDebug: c.HideDebug, hideWarn: c.HideWarn}
}

// With returns a logger that adds the key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l: l.l.With(args...), hideDebug: l.hideDebug, hideWarn: l.hideWarn}
}

func (l *Logger) log(level slog.Level, msg string) {
	l.l.Log(context.Background(), level, msg)
}

// Debugf writes a debug message.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.hideDebug {
		l.log(slog.LevelDebug, fmt.Sprintf(format, args...))
	}
}

// Infof writes an info message.
func (l *Logger) Infof(format string, args ...any) {
	l.log(slog.LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf writes a warning.
func (l *Logger) Warnf(format string, args ...any) {
	if !l.hideWarn {
		l.log(slog.LevelWarn, fmt.Sprintf(format, args...))
	}
}

// Errorf writes an error.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(slog.LevelError, fmt.Sprintf(format, args...))
}

func Debug(args ...any) {
	Default.Debugf("%s", fmt.Sprint(args...))
}

func Debugf(format string, args ...any) {
	Default.Debugf(format, args...)
}

func Info(args ...any) {
	Default.Infof("%s", fmt.Sprint(args...))
}

func Infof(format string, args ...any) {
	Default.Infof(format, args...)
}

// Printf is an alias of Infof.
func Printf(format string, args ...any) {
	Default.Infof(format, args...)
}

func Warn(args ...any) {
	Default.Warnf("%s", fmt.Sprint(args...))
}

func Warnf(format string, args ...any) {
	Default.Warnf(format, args...)
}

func Error(args ...any) {
	Default.Errorf("%s", fmt.Sprint(args...))
}

func Errorf(format string, args ...any) {
	Default.Errorf(format, args...)
}

// Fatal writes an error and exits the process.
func Fatal(args ...any) {
	Default.Errorf("%s", fmt.Sprint(args...))
	os.Exit(1)
}

// Fatalf writes an error and exits the process.
func Fatalf(format string, args ...any) {
	Default.Errorf(format, args...)
	os.Exit(1)
}
