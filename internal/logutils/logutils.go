// Package logutils configures logrus loggers for the command line tools.
package logutils

import "github.com/sirupsen/logrus"

// SetLoggerLevel parses level and applies it to log. Unknown levels fall
// back to info.
func SetLoggerLevel(log *logrus.Logger, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
}
