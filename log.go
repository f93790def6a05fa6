package sop

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// InitLoggers sets up the shared logger. Higher levels are more verbose,
// range 1-4 (error, info, debug, spam).
func InitLoggers(logLvl int) {
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	switch {
	case logLvl <= 1:
		logger.SetLevel(logrus.ErrorLevel)
	case logLvl == 2:
		logger.SetLevel(logrus.InfoLevel)
	case logLvl == 3:
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.TraceLevel)
	}
}

func Log(msgLvl int, printF string, args ...interface{}) {
	switch msgLvl {
	case 1:
		logger.Errorf(printF, args...)
	case 2:
		logger.Infof(printF, args...)
	case 3:
		logger.Debugf(printF, args...)
	default:
		logger.Tracef(printF, args...)
	}
}
