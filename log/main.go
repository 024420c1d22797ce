package log

import (
	"fmt"
	"io"
	"os"

	"github.com/netrixframework/cexsimplify/config"
	"github.com/sirupsen/logrus"
)

// DefaultLogger is used by components created without a logger
var DefaultLogger = mustLogger(config.LogConfig{Format: "text", Level: "info"})

// LogParams wrapper around key values used for logging
type LogParams map[string]interface{}

// Logger for logging
type Logger struct {
	entry *logrus.Entry

	file *os.File
}

// NewLogger instantiates a logger from the config. Path is a file name, or
// one of "stderr" (the default) and "stdout".
func NewLogger(c config.LogConfig) (*Logger, error) {
	l := logrus.New()
	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: c.Path != ""})
	default:
		return nil, fmt.Errorf("unknown log format %q", c.Format)
	}
	if c.Level != "" {
		level, err := logrus.ParseLevel(c.Level)
		if err != nil {
			return nil, err
		}
		l.SetLevel(level)
	}

	logger := &Logger{entry: logrus.NewEntry(l)}
	switch c.Path {
	case "", "stderr":
		l.SetOutput(os.Stderr)
	case "stdout":
		l.SetOutput(os.Stdout)
	default:
		f, err := os.Create(c.Path)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		l.SetOutput(f)
		logger.file = f
	}
	return logger, nil
}

func mustLogger(c config.LogConfig) *Logger {
	l, err := NewLogger(c)
	if err != nil {
		panic(err)
	}
	return l
}

// Discard returns a logger that drops every message
func Discard() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

// Debug logs a debug message
func (l *Logger) Debug(s string) {
	l.entry.Debug(s)
}

// Fatal logs the message and exits with non-zero exit code
func (l *Logger) Fatal(s string) {
	l.entry.Fatal(s)
}

// Info logs a message with level `info`
func (l *Logger) Info(s string) {
	l.entry.Info(s)
}

// Warn logs a message with level `warning`
func (l *Logger) Warn(s string) {
	l.entry.Warn(s)
}

// Error logs a message with level `error`
func (l *Logger) Error(s string) {
	l.entry.Error(s)
}

// With returns a logger initialized with the parameters. The returned logger
// shares the output of l.
func (l *Logger) With(params LogParams) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(params))}
}

// Destroy closes the log file, if any
func (l *Logger) Destroy() {
	if l.file != nil {
		l.file.Close()
	}
}

// Init replaces the DefaultLogger with one built from the config
func Init(c config.LogConfig) error {
	l, err := NewLogger(c)
	if err != nil {
		return err
	}
	DefaultLogger = l
	return nil
}

// Destroy closes the log file of the DefaultLogger
func Destroy() {
	DefaultLogger.Destroy()
}
