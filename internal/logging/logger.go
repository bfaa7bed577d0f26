// Package logging provides leveled diagnostics.
package logging

import (
	"io"
	"log"
	"strings"
)

// Level represents logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel maps ERROR, WARN, INFO and DEBUG (any case) to a level.
// Unknown names fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger provides leveled logging.
type Logger struct {
	level Level
	l     *log.Logger
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, l: log.New(w, "", log.LstdFlags)}
}

// Discard returns a logger that writes nothing.
func Discard() *Logger {
	return New(io.Discard, LevelError)
}

func (l *Logger) Error(format string, args ...any) {
	if l.level >= LevelError {
		l.l.Printf("[ERROR] "+format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.level >= LevelWarn {
		l.l.Printf("[WARN] "+format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.level >= LevelInfo {
		l.l.Printf("[INFO] "+format, args...)
	}
}

func (l *Logger) Debug(format string, args ...any) {
	if l.level >= LevelDebug {
		l.l.Printf("[DEBUG] "+format, args...)
	}
}
