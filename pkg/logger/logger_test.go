package logger

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/courierhub/labelqr/pkg/logger/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesFileAndCallsHook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Config{Debug: true, TimeLocation: time.UTC, LogToFile: true, LogsDir: dir, Prefix: "[labelqr]", HookLevel: zapcore.WarnLevel}))
	assert.Equal(t, dir, Log.LogsPath)

	var (
		mu      sync.Mutex
		entries []types.Log
	)
	SetLogHook(func(l types.Log) {
		mu.Lock()
		defer mu.Unlock()
		entries = append(entries, l)
	})
	defer SetLogHook(nil)

	l, err := Named("renderer")
	require.NoError(t, err)
	assert.Equal(t, "renderer", l.Name)
	l.Infow("rendered", "strategy", "organic")
	l.With("tracking_code", "PKG-1").Warnw("render degraded", "strategy", "standard")
	require.NoError(t, l.Sync())

	mu.Lock()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "main.renderer", entries[0].LoggerName)
	assert.Equal(t, "render degraded", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"tracking_code": "PKG-1", "strategy": "standard"}, entries[0].Fields)
	assert.NotEmpty(t, entries[0].Caller)
	mu.Unlock()

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(dir + "/" + files[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"render degraded"`)
	assert.False(t, strings.HasPrefix(string(data), "[labelqr]"))
}

func TestPrefixEncoder(t *testing.T) {
	enc := newPrefixEncoder(zapcore.NewConsoleEncoder(zapcore.EncoderConfig{MessageKey: "message"}), "[svc]")
	buf, err := enc.EncodeEntry(zapcore.Entry{Message: "hello"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "[svc] hello\n", buf.String())

	clone := enc.Clone()
	buf, err = clone.EncodeEntry(zapcore.Entry{Message: "again"}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "[svc] "))
}

func TestJournal(t *testing.T) {
	j := NewJournal(3)
	assert.Empty(t, j.Entries(""))

	for i, name := range []string{"main.render", "main.http", "main.render", "main.render"} {
		j.Add(types.Log{LoggerName: name, Message: string(rune('a' + i))})
	}
	// The ring holds three entries; the first one is gone.
	all := j.Entries("")
	require.Len(t, all, 3)
	assert.Equal(t, "d", all[0].Message)
	assert.Equal(t, "b", all[2].Message)

	render := j.Entries("render")
	require.Len(t, render, 2)
	assert.Equal(t, "d", render[0].Message)
	assert.Equal(t, "c", render[1].Message)
	assert.Len(t, j.Entries("main.http"), 1)
	assert.Empty(t, j.Entries("der"))
}

func TestJournalAsHook(t *testing.T) {
	require.NoError(t, Init(Config{TimeLocation: time.UTC, HookLevel: zapcore.WarnLevel}))
	j := NewJournal(0)
	SetLogHook(j.Add)
	defer SetLogHook(nil)

	l, err := Named("render")
	require.NoError(t, err)
	l.Errorw("fallback failed", "err", "boom")

	entries := j.Entries("render")
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].Fields["err"])
}
