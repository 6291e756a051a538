package logging

import (
	"go.uber.org/zap"
)

// Logger is the structured logger handed to models and commands.
type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})

	// Sublogger returns a logger whose name is this logger's name with subname appended.
	Sublogger(subname string) Logger
	// Desugar exposes the underlying zap logger.
	Desugar() *zap.Logger
	Sync() error
}

type zLogger struct {
	*zap.SugaredLogger
}

func (l *zLogger) Sublogger(subname string) Logger {
	return &zLogger{l.SugaredLogger.Named(subname)}
}
