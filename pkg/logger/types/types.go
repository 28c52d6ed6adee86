package types

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a named child of the main logger.
type Logger struct {
	*zap.SugaredLogger
	LogsPath string
	Name     string
}

// Log is one entry handed to a LogHook, with the structured fields of the
// call and of the logger it was written through.
type Log struct {
	Timestamp  time.Time              `json:"timestamp"`
	Caller     string                 `json:"caller,omitempty"`
	LoggerName string                 `json:"logger"`
	Level      zapcore.Level          `json:"level"`
	Message    string                 `json:"message"`
	Fields     map[string]interface{} `json:"fields,omitempty"`
}

// LogHook receives every entry at or above the hook level.
type LogHook func(log Log)
