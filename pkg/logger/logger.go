// Package logger carries a logrus entry through context so every layer of a
// command logs with the fields its callers attached.
package logger

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

type loggerKey struct{}

var (
	// L is the fallback entry used when a context carries no logger.
	L = logrus.NewEntry(defaultLogger())
	// G retrieves the logger for a context; alias for GetLogger.
	G = GetLogger
)

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	applyFormat(l, "fmt")
	return l
}

// WithLogger returns a context carrying entry; GetLogger on the result
// yields it back.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, entry.WithContext(ctx))
}

// GetLogger returns the entry attached to ctx, or the global L bound to
// ctx when none was attached.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry := ctx.Value(loggerKey{}); entry != nil {
		return entry.(*logrus.Entry)
	}
	return L.WithContext(ctx)
}

func applyFormat(l *logrus.Logger, format string) {
	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "logLevel",
				logrus.FieldKeyMsg:   "message",
			},
			TimestampFormat: time.RFC3339Nano,
		}
	default:
		l.Formatter = &logrus.TextFormatter{
			TimestampFormat: time.RFC3339Nano,
			FullTimestamp:   true,
		}
	}
}

// SetLogLevel adjusts the global logger's level.
func SetLogLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	L.Logger.SetLevel(parsed)
	return nil
}

// SetLogFormat switches the global logger between "json" and text output.
func SetLogFormat(format string) {
	applyFormat(L.Logger, format)
}

// SetLogOutput redirects the global logger, used by tests and by commands
// that keep stdout clean for piping.
func SetLogOutput(w io.Writer) {
	L.Logger.SetOutput(w)
}
