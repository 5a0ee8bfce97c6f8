package zap

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger() *zap.SugaredLogger {
	logger, _ := zap.NewDevelopment()
	return logger.Sugar()
}

// NewProductionLogger logs at info level and above as JSON.
func NewProductionLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		return NewNop()
	}
	return logger.Sugar()
}

func NewNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// NewWriterLogger logs console-encoded lines without timestamps to w.
func NewWriterLogger(w io.Writer, debug bool) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}
