// Package logging builds the process-wide structured logger.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing human-readable lines to w. Verbose mode
// lowers the level to debug so lock waits, codec anomalies and backend
// probes become visible.
func New(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
	return log
}

// Component returns a child logger tagged with the component name.
// Every package that logs takes one of these rather than the root logger.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}

// Discard returns a logger that drops everything. Used by tests and by
// callers that have no logger to pass.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
