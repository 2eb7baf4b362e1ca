// Package logger holds the process-wide zap logger.
//
// Until Init runs every helper writes to a no-op logger, so packages and
// tests can log without any setup.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger.
	Log = zap.NewNop()
	// Sugar is Log with printf-style helpers.
	Sugar = Log.Sugar()
)

// FileConfig describes the rotating log file. An empty Path disables it.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns the rotation policy used when only a path is known.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
	}
}

// Options selects the minimum level and the sinks.
type Options struct {
	Level   string // debug, info, warn or error; empty means info
	Console bool
	File    FileConfig
}

// Init replaces the global logger. An unknown level is an error and leaves
// the previous logger in place. With no sink enabled the logger discards
// everything.
func Init(opts Options) error {
	lvl, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, consoleCore(lvl))
	}
	if opts.File.Path != "" {
		cores = append(cores, fileCore(opts.File, lvl))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	}
	Sugar = Log.Sugar()
	return nil
}

func consoleCore(lvl zapcore.Level) zapcore.Core {
	enc := encoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), lvl)
}

func fileCore(cfg FileConfig, lvl zapcore.Level) zapcore.Core {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	enc := encoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "component",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// Named returns a component logger. It drops the caller skip the package
// helpers need so call sites are reported correctly.
func Named(component string) *zap.Logger {
	return Log.Named(component).WithOptions(zap.AddCallerSkip(-1))
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	_ = Log.Sync()
}

func Debug(msg string, fields ...zap.Field) { Log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Log.Error(msg, fields...) }

// Fatal logs and exits the process.
func Fatal(msg string, fields ...zap.Field) { Log.Fatal(msg, fields...) }
