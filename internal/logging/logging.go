// Package logging builds the logrus logger shared by the CLI and the HTTP API.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr at the given level.
// An unparsable level falls back to info.
func New(level string, asJSON bool) *logrus.Logger {
	return NewWithWriter(os.Stderr, level, asJSON)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, asJSON bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if asJSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// Discard returns a logger that drops everything. Used by tests and quiet runs.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
