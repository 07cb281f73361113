package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
	logFileMaxAgeDays = 28
)

// newLogger returns a logger at the given level. When logFile is non-empty,
// entries are written as JSON to a size-rotated file instead of to stderr. The
// returned function releases the file, if any.
func newLogger(level, logFile string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error parsing log level %q", level)
	}
	logger := logrus.New()
	logger.SetLevel(lvl)
	if logFile == "" {
		logger.SetOutput(os.Stderr)
		return logger, func() error { return nil }, nil
	}
	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		MaxAge:     logFileMaxAgeDays,
	}
	logger.SetOutput(rotator)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, rotator.Close, nil
}
