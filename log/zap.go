package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger adapts a *zap.Logger to Logger.
//
// Level filtering is done by an AtomicLevel owned by the adapter, so SetLevel
// works regardless of how the wrapped core was configured.
type ZapLogger struct {
	s     *zap.SugaredLogger
	level zap.AtomicLevel
}

// NewZapLogger wraps l. A nil l falls back to zap.NewNop().
func NewZapLogger(l *zap.Logger, level Level) *ZapLogger {
	if l == nil {
		l = zap.NewNop()
	}
	lvl := zap.NewAtomicLevelAt(zapLevel(level))
	core := l.Core()
	filtered := l.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return &levelCore{Core: core, enabler: lvl}
	}))
	return &ZapLogger{s: filtered.Sugar().Named("walley"), level: lvl}
}

// NewProductionZapLogger builds a JSON zap logger at the given level.
func NewProductionZapLogger(level Level) (*ZapLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(l, level), nil
}

func (z *ZapLogger) SetLevel(level Level) {
	if z == nil {
		return
	}
	z.level.SetLevel(zapLevel(level))
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	if z == nil {
		return nil
	}
	return z.s.Sync()
}

func (z *ZapLogger) Debugf(format string, args ...any) { z.s.Debugf(format, args...) }
func (z *ZapLogger) Infof(format string, args ...any)  { z.s.Infof(format, args...) }
func (z *ZapLogger) Warnf(format string, args ...any)  { z.s.Warnf(format, args...) }
func (z *ZapLogger) Errorf(format string, args ...any) { z.s.Errorf(format, args...) }

func zapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		// Off: nothing the SDK emits reaches fatal.
		return zapcore.FatalLevel
	}
}

type levelCore struct {
	zapcore.Core
	enabler zapcore.LevelEnabler
}

func (c *levelCore) Enabled(l zapcore.Level) bool {
	return c.enabler.Enabled(l) && c.Core.Enabled(l)
}

func (c *levelCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelCore{Core: c.Core.With(fields), enabler: c.enabler}
}

func (c *levelCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(e.Level) {
		return ce
	}
	return c.Core.Check(e, ce)
}
