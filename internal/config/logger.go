package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetLevel(logrus.InfoLevel)
	logg.SetOutput(os.Stdout)
}

// Log: uygulama genelinde kullanılan logger
func Log() *logrus.Logger {
	return logg
}

func SetLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logg.Warnf("LOG_LEVEL geçersiz (%q), info kullanılıyor", level)
		lvl = logrus.InfoLevel
	}
	logg.SetLevel(lvl)
}
