// Package logger provides structured logging for CargoExpress.
//
// It wraps Uber's zap logger with a process-wide instance configured from
// the LOG_LEVEL setting. Initialize once at startup:
//
//	logger.InitLogger("debug") // Options: debug, info, warn, error
//
// then log through the global:
//
//	logger.Log.Info("dashboard token issued",
//	    zap.Int64("admin_id", adminID),
//	)
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It defaults to a no-op logger so library
// code and tests can log before InitLogger runs.
var Log = zap.NewNop()

func InitLogger(level string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	Log, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}
