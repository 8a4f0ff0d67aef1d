// README: Process-wide logrus logger setup.
package infra

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger returns the shared structured logger. Level is controlled by
// QUICKBITE_LOG_LEVEL (debug, info, warn, error); unknown values fall
// back to info.
func NewLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if lvl, err := logrus.ParseLevel(os.Getenv("QUICKBITE_LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
