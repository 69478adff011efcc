// Package logging configures the CLI's structured logger. Library
// packages (pkg/...) never log; only the command layer does, via this
// package.
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger writing to stderr: a human-friendly
// colored formatter when stderr is a terminal, JSON otherwise (e.g.
// when output is piped into log aggregation).
func New(jsonOut bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	switch {
	case jsonOut:
		log.SetFormatter(&logrus.JSONFormatter{})
	case isatty.IsTerminal(os.Stderr.Fd()):
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if lvl := os.Getenv("IPFSLOG_LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			log.SetLevel(parsed)
		}
	}

	return log
}
