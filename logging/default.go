package logging

import (
	"context"
	"io"
	"maps"
	"os"

	"github.com/sirupsen/logrus"
)

// LogrusLogger is the default Logger, backed by logrus.
// Debug/Info/Warn/Error go through the underlying logrus.Logger; Fatal exits via its ExitFunc.
type LogrusLogger struct {
	base   *logrus.Logger
	fields Fields
}

// NewDefaultLogger creates a logrus-backed logger writing text to stderr at InfoLevel
func NewDefaultLogger() *LogrusLogger {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(logrus.InfoLevel)
	return NewLogrusLogger(base)
}

// NewLogrusLogger wraps an existing logrus logger
func NewLogrusLogger(base *logrus.Logger) *LogrusLogger {
	if base == nil {
		base = logrus.New()
	}
	return &LogrusLogger{base: base, fields: make(Fields)}
}

// NewJSONLogger creates a logger emitting one JSON object per line to w
func NewJSONLogger(w io.Writer) *LogrusLogger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.JSONFormatter{})
	return NewLogrusLogger(base)
}

func (l *LogrusLogger) entry(fields []Fields) *logrus.Entry {
	all := make(logrus.Fields, len(l.fields))
	maps.Copy(all, logrus.Fields(l.fields))
	for _, f := range fields {
		maps.Copy(all, logrus.Fields(f))
	}
	return l.base.WithFields(all)
}

func (l *LogrusLogger) Debug(msg string, fields ...Fields) {
	l.entry(fields).Debug(msg)
}

func (l *LogrusLogger) Info(msg string, fields ...Fields) {
	l.entry(fields).Info(msg)
}

func (l *LogrusLogger) Warn(msg string, fields ...Fields) {
	l.entry(fields).Warn(msg)
}

func (l *LogrusLogger) Error(err error, msg string, fields ...Fields) {
	l.entry(fields).WithError(err).Error(msg)
}

func (l *LogrusLogger) Fatal(err error, msg string, fields ...Fields) {
	l.entry(fields).WithError(err).Fatal(msg)
}

func (l *LogrusLogger) WithFields(fields Fields) Logger {
	newFields := make(Fields, len(l.fields)+len(fields))
	maps.Copy(newFields, l.fields)
	maps.Copy(newFields, fields)

	return &LogrusLogger{
		base:   l.base,
		fields: newFields,
	}
}

func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return l.WithFields(fields)
	}
	return l
}

// SetLevel changes the level of the shared logrus logger, so it affects every derived logger
func (l *LogrusLogger) SetLevel(level Level) {
	l.base.SetLevel(toLogrusLevel(level))
}

// Base exposes the underlying logrus logger
func (l *LogrusLogger) Base() *logrus.Logger {
	return l.base
}

func toLogrusLevel(level Level) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// NoOpLogger discards everything. Tests install it to keep output quiet.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
