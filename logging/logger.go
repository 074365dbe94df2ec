package logging

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogFile returns ~/.cache/pushit/pushit.log, or a path under the
// system temp dir when the home directory is unknown.
func DefaultLogFile() string {
	if cacheDir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cacheDir, "pushit", "pushit.log")
	}
	return filepath.Join(os.TempDir(), "pushit", "pushit.log")
}

// New builds the run logger. Entries are written as JSON to a rotated
// file; with debug set they are also echoed to stderr. Every entry carries
// the run_id of this invocation.
func New(logFile string, debug bool) (*zap.Logger, error) {
	if logFile == "" {
		logFile = DefaultLogFile()
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create log directory for %s", logFile)
	}

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	})

	jsonCfg := zap.NewProductionEncoderConfig()
	jsonCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{zapcore.NewCore(zapcore.NewJSONEncoder(jsonCfg), writer, level)}
	if debug {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig()), zapcore.Lock(os.Stderr), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger.With(zap.String("run_id", uuid.NewString())), nil
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}
