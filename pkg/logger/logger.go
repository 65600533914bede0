package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Setup configures the global logrus logger.
// format is "json" or "text" (default); level falls back to info.
func Setup(level, format string) {
	if strings.EqualFold(format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}
