package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is the printf-style logger the SDK writes through.
//
// Plug in your own implementation, or wrap a *zap.Logger with NewZapLogger.
// Implementations that also have SetLevel(Level) can be retuned at runtime
// through Client.SetLogLevel.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders severities: Debug < Info < Warn < Error < Off. Messages below
// the configured level are dropped.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR", "OFF"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelOff {
		return fmt.Sprintf("LEVEL(%d)", int32(l))
	}
	return levelNames[l]
}

// ParseLevel accepts the names printed by String, case-insensitively, plus
// "warning" and "none".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "off", "none":
		return LevelOff, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// StdLogger writes through the standard library log package as
// "<LEVEL>: <tag>: <message>". The level may be changed while requests are
// in flight.
type StdLogger struct {
	l     *stdlog.Logger
	level atomic.Int32
	tag   atomic.Pointer[string]
}

func NewStdLogger(w io.Writer, level Level) *StdLogger {
	if w == nil {
		w = os.Stderr
	}
	s := &StdLogger{l: stdlog.New(w, "", stdlog.LstdFlags)}
	s.SetLevel(level)
	s.SetTag("Walley")
	return s
}

// NewDefault logs at info level to stderr.
func NewDefault() *StdLogger {
	return NewStdLogger(os.Stderr, LevelInfo)
}

func (s *StdLogger) SetLevel(level Level) {
	if s == nil {
		return
	}
	s.level.Store(int32(level))
}

func (s *StdLogger) Level() Level {
	if s == nil {
		return LevelOff
	}
	return Level(s.level.Load())
}

// SetTag replaces the "Walley" prefix. An empty tag drops it.
func (s *StdLogger) SetTag(tag string) {
	if s == nil {
		return
	}
	s.tag.Store(&tag)
}

func (s *StdLogger) Debugf(format string, args ...any) { s.logf(LevelDebug, format, args) }
func (s *StdLogger) Infof(format string, args ...any)  { s.logf(LevelInfo, format, args) }
func (s *StdLogger) Warnf(format string, args ...any)  { s.logf(LevelWarn, format, args) }
func (s *StdLogger) Errorf(format string, args ...any) { s.logf(LevelError, format, args) }

func (s *StdLogger) logf(level Level, format string, args []any) {
	if s == nil || level < s.Level() {
		return
	}
	prefix := level.String() + ": "
	if tag := s.tag.Load(); tag != nil && *tag != "" {
		prefix += *tag + ": "
	}
	s.l.Printf(prefix+format, args...)
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
