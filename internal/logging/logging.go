// Package logging builds the logrus logger shared by prefstore components.
package logging

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/prefstore/internal/config"
)

// New returns a logger entry configured from cfg and writing to out.
func New(cfg config.LogConfig, out io.Writer) (*logrus.Entry, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(level)

	switch cfg.Format {
	case config.FormatJSON:
		logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	default:
		formatter := new(logrus.TextFormatter)
		formatter.TimestampFormat = time.RFC3339
		formatter.FullTimestamp = true
		logger.SetFormatter(formatter)
	}

	return logrus.NewEntry(logger).WithField("app", "prefstore"), nil
}

// Discard returns a logger entry that drops everything.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
