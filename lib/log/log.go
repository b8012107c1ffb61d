// Package log provides the shared logger for the module loader and its hosts.
package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.Formatter = &logrus.TextFormatter{
		TimestampFormat: "Jan 02 15:04:05",
		FullTimestamp:   true,
		DisableColors:   true,
	}
}

// Get returns the shared logger with its level taken from the
// MODULE_LOGLEVEL environment variable. The default level is info.
func Get() *logrus.Logger {
	switch strings.ToLower(os.Getenv("MODULE_LOGLEVEL")) {
	case "error":
		log.Level = logrus.ErrorLevel
	case "warn":
		log.Level = logrus.WarnLevel
	case "debug":
		log.Level = logrus.DebugLevel
	default:
		log.Level = logrus.InfoLevel
	}
	return log
}
