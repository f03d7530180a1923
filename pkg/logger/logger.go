package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"pdf-compare/internal/domain"

	"github.com/sirupsen/logrus"
)

// AppLogger implements the domain.Logger interface on top of logrus
type AppLogger struct {
	entry *logrus.Entry
}

// NewLogger creates a new logger instance writing to stdout
func NewLogger(levelStr string) domain.Logger {
	return NewWithOutput(levelStr, os.Stdout)
}

// NewWithOutput creates a logger writing to w
func NewWithOutput(levelStr string, w io.Writer) *AppLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(parseLogLevel(levelStr))
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})
	return &AppLogger{entry: logrus.NewEntry(l)}
}

// With returns a logger that adds the given key/value pairs to every entry
func (l *AppLogger) With(fields ...interface{}) *AppLogger {
	return &AppLogger{entry: l.entry.WithFields(toFields(fields))}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Info(msg)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).WithError(err).Error(msg)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Debug(msg)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.entry.WithFields(toFields(fields)).Warn(msg)
}

// toFields pairs up alternating keys and values. A trailing key without a
// value is kept under "extra".
func toFields(kv []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 >= len(kv) {
			fields["extra"] = kv[i]
			break
		}
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}

// parseLogLevel converts string log level to a logrus level
func parseLogLevel(levelStr string) logrus.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
