package app

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// NewLogger создаёт logrus-логгер с уровнем и форматом из конфигурации.
// Некорректный уровень заменяется на info: Validate отсекает его раньше.
func NewLogger(cfg Config) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.LogFormat == LogFormatJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return logger
}
