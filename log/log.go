package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

var base = logrus.New()

func init() {
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// GetLogger returns the entry attached to ctx, or a plain entry when none is.
func GetLogger(ctx context.Context) *logrus.Entry {
	if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
		return entry
	}
	return logrus.NewEntry(base)
}

// NewContext attaches entry to ctx so downstream calls share its fields.
func NewContext(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// WithFields is a shortcut for building an entry off the base logger.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return base.WithFields(fields)
}
