package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	Log   *zap.Logger
	Sugar *zap.SugaredLogger
)

// Until Init runs (unit tests, library use) logging is discarded.
func init() {
	Log = zap.NewNop()
	Sugar = Log.Sugar()
}

// Init initializes the global logger configuration. An unknown level falls
// back to info.
func Init(level string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	// Custom JSON config
	encoder := zapcore.NewJSONEncoder(encoderConfig)
	writer := zapcore.AddSync(os.Stdout)

	core := zapcore.NewCore(encoder, writer, lvl)

	Log = zap.New(core, zap.AddCaller())
	Sugar = Log.Sugar()
}

// Sync flushes buffered entries. Errors from syncing stdout are ignored.
func Sync() {
	_ = Log.Sync()
}
