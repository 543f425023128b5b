// Package logs implements a leveled logger the way logger/logger.go uses
// it: a Backend fans formatted records out to a set of BackendWriters,
// and each subsystem gets its own Logger with an independently settable
// level.
package logs

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"
)

// Level is a logging priority.
type Level uint32

// Supported log levels, lowest to highest severity.
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelStrings = map[Level]string{
	LevelTrace:    "TRC",
	LevelDebug:    "DBG",
	LevelInfo:     "INF",
	LevelWarn:     "WRN",
	LevelError:    "ERR",
	LevelCritical: "CRT",
	LevelOff:      "OFF",
}

func (l Level) String() string {
	if s, ok := levelStrings[l]; ok {
		return s
	}
	return "UNK"
}

// LevelFromString parses a level name, matching it case-insensitively. It
// returns LevelInfo and false when the string isn't recognized.
func LevelFromString(s string) (l Level, ok bool) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "critical":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	}
	return LevelInfo, false
}

// BackendWriter is an io.Writer that is only fed records at or above a
// minimum level.
type BackendWriter struct {
	w        io.Writer
	minLevel Level
}

// NewAllLevelsBackendWriter wraps w so it receives every record.
func NewAllLevelsBackendWriter(w io.Writer) *BackendWriter {
	return &BackendWriter{w: w, minLevel: LevelTrace}
}

// NewErrorBackendWriter wraps w so it receives only Error and Critical
// records.
func NewErrorBackendWriter(w io.Writer) *BackendWriter {
	return &BackendWriter{w: w, minLevel: LevelError}
}

// Backend multiplexes formatted log records to a set of BackendWriters.
type Backend struct {
	writers []*BackendWriter
}

// NewBackend creates a Backend writing to the given writers.
func NewBackend(writers []*BackendWriter) *Backend {
	return &Backend{writers: writers}
}

// Logger returns a new subsystem Logger backed by b, tagged with subsystem.
func (b *Backend) Logger(subsystem string) Logger {
	l := &logger{subsystem: subsystem, backend: b}
	l.level.Store(uint32(LevelInfo))
	return l
}

func (b *Backend) write(level Level, subsystem, msg string) {
	line := fmt.Sprintf("%s [%s] %s %s\n", time.Now().Format("2006-01-02 15:04:05.000"), level, subsystem, msg)
	for _, w := range b.writers {
		if level >= w.minLevel {
			_, _ = io.WriteString(w.w, line)
		}
	}
}

// Logger is a per-subsystem leveled logger, matching the surface the
// teacher's logger package expects (Tracef/Debugf/.../SetLevel).
type Logger interface {
	Tracef(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Criticalf(format string, args ...interface{})
	SetLevel(level Level)
	Level() Level
}

type logger struct {
	subsystem string
	backend   *Backend
	level     atomic.Value
}

func (l *logger) SetLevel(level Level) { l.level.Store(uint32(level)) }
func (l *logger) Level() Level         { return Level(l.level.Load().(uint32)) }

func (l *logger) logf(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	l.backend.write(level, l.subsystem, fmt.Sprintf(format, args...))
}

func (l *logger) Tracef(format string, args ...interface{})    { l.logf(LevelTrace, format, args...) }
func (l *logger) Debugf(format string, args ...interface{})    { l.logf(LevelDebug, format, args...) }
func (l *logger) Infof(format string, args ...interface{})     { l.logf(LevelInfo, format, args...) }
func (l *logger) Warnf(format string, args ...interface{})     { l.logf(LevelWarn, format, args...) }
func (l *logger) Errorf(format string, args ...interface{})    { l.logf(LevelError, format, args...) }
func (l *logger) Criticalf(format string, args ...interface{}) { l.logf(LevelCritical, format, args...) }
