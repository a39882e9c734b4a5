// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/config"
)

// Setup applies level, format and output from cfg to the standard logger and
// returns it. When LOG_FILE is set output goes to a rotating file.
func Setup(cfg *config.Config) *log.Logger {
	logger := log.StandardLogger()
	Configure(logger, cfg)
	return logger
}

// Configure applies cfg to logger.
func Configure(logger *log.Logger, cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "json") {
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logger.SetOutput(output(cfg))
}

func output(cfg *config.Config) io.Writer {
	if cfg.LogFile == "" {
		return os.Stdout
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogMaxSizeMB, // megabytes
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays, // days
		Compress:   true,
	}
}

// Component returns an entry tagged with the component name.
func Component(logger *log.Logger, name string) *log.Entry {
	return logger.WithField("component", name)
}
