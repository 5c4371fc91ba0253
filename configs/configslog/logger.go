package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log yapısal (structured) loglama için, SLog ise printf tarzı loglama için kullanılır.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

// InitLogger ortam değişkenine göre production veya development logger'ı başlatır.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.AddCallerSkip(0))
	if err != nil {
		panic("logger başlatılamadı: " + err.Error())
	}

	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger buffer'daki logları flush eder. main içinde defer ile çağrılmalı.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
