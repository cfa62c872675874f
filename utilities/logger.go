package utilities

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"antibias-assessment/internal/config"
)

var (
	logMutex sync.RWMutex
	logger   = zap.NewNop()
	sugar    = logger.Sugar()
	rotator  *lumberjack.Logger
)

// SetupLogging replaces the package logger with one that writes JSON lines to
// a rolling file under cfg.Dir and, when enabled, console lines to stdout.
func SetupLogging(cfg config.LoggingConfig) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}

	var cores []zapcore.Core
	var fileSink *lumberjack.Logger
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		fileSink = &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "assessment.log"),
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(fileSink), level))
	}
	if cfg.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	var l *zap.Logger
	if len(cores) == 0 {
		l = zap.NewNop()
	} else {
		l = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	}

	logMutex.Lock()
	defer logMutex.Unlock()
	if rotator != nil {
		_ = rotator.Close()
	}
	logger = l
	sugar = l.Sugar()
	rotator = fileSink
	return nil
}

// SetLogger installs an existing logger, e.g. an observer in tests.
func SetLogger(l *zap.Logger) {
	logMutex.Lock()
	defer logMutex.Unlock()
	logger = l
	sugar = l.Sugar()
}

// Logger returns the structured logger for callers that want fields.
func Logger() *zap.Logger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return logger
}

func SyncLogging() {
	logMutex.RLock()
	defer logMutex.RUnlock()
	_ = logger.Sync()
}

func current() *zap.SugaredLogger {
	logMutex.RLock()
	defer logMutex.RUnlock()
	return sugar
}

func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}
