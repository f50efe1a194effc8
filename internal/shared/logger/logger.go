package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// GetLogger returns zap.Logger instance, but using singleton pattern creates only one reusable instace.
// APP_ENV=production selects the production config, otherwise development config is used.
// LOG_LEVEL (debug, info, warn, error) overrides the default level of the selected config
func GetLogger() *zap.Logger {
	once.Do(func() {
		var err error
		logger, err = build(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL"))
		if err != nil {
			panic("failed logger setup : " + err.Error())
		}
	})
	return logger
}

func build(env, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if env == "production" {
		cfg = zap.NewProductionConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}
