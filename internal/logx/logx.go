// Package logx provides structured logging functionality
package logx

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zap.Logger to provide a consistent interface
type Logger struct {
	zap *zap.Logger
}

var globalLogger atomic.Pointer[Logger]

// fileSinks keeps one rotating writer per path across Init calls.
var fileSinks sync.Map // path -> *lumberjack.Logger

func fileSink(path string) *lumberjack.Logger {
	w, _ := fileSinks.LoadOrStore(path, &lumberjack.Logger{
		Filename: path, MaxSize: 100, MaxAge: 28, MaxBackups: 5, Compress: true,
	})
	return w.(*lumberjack.Logger)
}

func init() {
	l, err := New()
	if err != nil {
		panic(err)
	}
	globalLogger.Store(l)
}

// IsLocalDev checks if the environment is local development
func IsLocalDev(appEnv string) bool {
	return appEnv == "local" || appEnv == "dev" || appEnv == "development"
}

// New creates a console logger whose level follows APP_ENV.
func New() (*Logger, error) {
	config := getLoggerConfig()
	if IsLocalDev(os.Getenv("APP_ENV")) {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return wrap(zapLogger), nil
}

func wrap(z *zap.Logger) *Logger {
	return &Logger{zap: z}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

func getLoggerConfig() zap.Config {
	config := zap.NewProductionConfig()
	config.Development = false
	config.DisableCaller = false
	config.DisableStacktrace = false
	config.Sampling = nil

	config.EncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	config.Encoding = "console"
	return config
}

// Option tweaks Init.
type Option func(*options)

type options struct {
	file string
}

// WithFile additionally writes JSON log lines to a size-rotated file.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// Init (re)configures the global logger. It is safe to call while other
// goroutines are logging; scoped loggers pick up the new configuration.
func Init(level, format string, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	config := getLoggerConfig()
	switch strings.ToLower(format) {
	case "json":
		config.Encoding = "json"
		config.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	default:
		config.Encoding = "console"
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	lvl := ParseLevel(level)
	config.Level = zap.NewAtomicLevelAt(lvl)

	buildOpts := []zap.Option{}
	if o.file != "" {
		fileEnc := config.EncoderConfig
		fileEnc.EncodeLevel = zapcore.LowercaseLevelEncoder
		fileCore := zapcore.NewCore(
			zapcore.NewJSONEncoder(fileEnc),
			zapcore.AddSync(fileSink(o.file)),
			lvl,
		)
		buildOpts = append(buildOpts, zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return zapcore.NewTee(c, fileCore)
		}))
	}

	zapLogger, err := config.Build(buildOpts...)
	if err != nil {
		panic(err)
	}

	prev := globalLogger.Swap(wrap(zapLogger))
	if prev != nil {
		_ = prev.Close()
	}
}

// Global returns the global logger instance
func Global() *Logger {
	return globalLogger.Load()
}

// ParseLevel maps a textual level to zap, defaulting to info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether s names a level ParseLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	if l.zap != nil {
		return l.zap.Sync()
	}
	return nil
}
