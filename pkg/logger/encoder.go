package logger

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// prefixEncoder writes a fixed prefix before every console entry, so output
// of several services sharing a terminal stays apart.
type prefixEncoder struct {
	zapcore.Encoder

	pool   buffer.Pool
	prefix string
}

func newPrefixEncoder(enc zapcore.Encoder, prefix string) zapcore.Encoder {
	return &prefixEncoder{Encoder: enc, pool: buffer.NewPool(), prefix: prefix}
}

func (e *prefixEncoder) Clone() zapcore.Encoder {
	return &prefixEncoder{Encoder: e.Encoder.Clone(), pool: e.pool, prefix: e.prefix}
}

func (e *prefixEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	buf := e.pool.Get()
	buf.AppendString(e.prefix)
	buf.AppendString(" ")

	inner, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		buf.Free()
		return nil, err
	}
	defer inner.Free()

	if _, err = buf.Write(inner.Bytes()); err != nil {
		buf.Free()
		return nil, err
	}
	return buf, nil
}
