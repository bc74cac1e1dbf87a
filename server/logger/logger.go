package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// level is shared by every logger handed out, so the cli can adjust
// verbosity after package level loggers have been created.
var level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

func NewLogger() *zap.SugaredLogger {
	config := zap.NewDevelopmentConfig()
	config.Level = level
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := config.Build()
	if err != nil {
		log.Panic(err)
	}

	// flushes buffer, if any
	defer logger.Sync()

	return logger.Sugar()
}

// SetLevel changes the level of all loggers e.g. "debug", "info", "warn"
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}
