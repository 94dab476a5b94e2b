// Package logging wires the process-wide zap logger with file
// rotation. Packages log through L(); before Init the logger is a
// no-op, which keeps tests quiet.
package logging

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop().Sugar()
)

// Config controls the logger. An empty Path disables the file sink.
type Config struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Init builds the global logger: console output plus an optional
// size-rotated log file.
func Init(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	syncer := zapcore.AddSync(os.Stdout)
	if cfg.Path != "" {
		rotated := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		syncer = zapcore.NewMultiWriteSyncer(syncer, rotated)
	}

	core := zapcore.NewCore(encoder, syncer, level)
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(0))

	mu.Lock()
	logger = base.Sugar()
	mu.Unlock()
	return nil
}

// L returns the current sugared logger.
func L() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}
