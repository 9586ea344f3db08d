// Package wlog is the structured logging wrapper every core package
// uses as its sole error/warning sink (spec.md §7: the core never
// returns errors upward, it only logs and recovers locally).
// Grounded on the internal/logger pattern in bnema/waymon (its go.mod
// pulls in github.com/charmbracelet/log for exactly this), since the
// teacher itself only reaches for the stdlib "log" package.
package wlog

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

// Logger is a thin facade over charmbracelet/log, scoped with a
// "target" field the way the Rust source tags every log::warn!/error!
// call site (e.g. `target: "Output Manager"`).
type Logger struct {
	inner *charmlog.Logger
}

// New builds a Logger writing to stderr with the given component name
// as its persistent "target" field.
func New(target string) *Logger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          target,
	})
	return &Logger{inner: l}
}

func (l *Logger) Info(msg string, kv ...any)  { l.inner.Info(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.inner.Warn(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.inner.Error(msg, kv...) }
func (l *Logger) Debug(msg string, kv ...any) { l.inner.Debug(msg, kv...) }

// With returns a derived Logger carrying additional persistent fields.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{inner: l.inner.With(kv...)}
}
