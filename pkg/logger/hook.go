package logger

import (
	"sync"

	"github.com/courierhub/labelqr/pkg/logger/types"
	"go.uber.org/zap/zapcore"
)

var hookMu sync.RWMutex

func currentHook() types.LogHook {
	hookMu.RLock()
	defer hookMu.RUnlock()
	return logHook
}

// hookCore hands entries at or above its level to the log hook. It writes
// nothing itself and sits next to the console and file cores in the tee.
type hookCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func newHookCore(level zapcore.LevelEnabler) *hookCore {
	return &hookCore{LevelEnabler: level}
}

func (c *hookCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &hookCore{
		LevelEnabler: c.LevelEnabler,
		fields:       make([]zapcore.Field, 0, len(c.fields)+len(fields)),
	}
	clone.fields = append(clone.fields, c.fields...)
	clone.fields = append(clone.fields, fields...)
	return clone
}

func (c *hookCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) && currentHook() != nil {
		return ce.AddCore(entry, c)
	}
	return ce
}

func (c *hookCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	hook := currentHook()
	if hook == nil {
		return nil
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	log := types.Log{
		Timestamp:  entry.Time,
		LoggerName: entry.LoggerName,
		Level:      entry.Level,
		Message:    entry.Message,
	}
	if entry.Caller.Defined {
		log.Caller = entry.Caller.TrimmedPath()
	}
	if len(enc.Fields) > 0 {
		log.Fields = enc.Fields
	}
	hook(log)
	return nil
}

func (c *hookCore) Sync() error { return nil }
