package logger

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// New builds the process-wide structured logger. Level comes from
// LOG_LEVEL/log.level, defaulting to info.
func New() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})

	viper.SetDefault("log.level", "info")
	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
