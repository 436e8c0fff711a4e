package logger

import (
	"context"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.Logger
	once sync.Once
	atom zap.AtomicLevel
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
)

// Options configures the logger beyond the environment preset.
type Options struct {
	Env   string
	Level string
	// File is a strftime pattern such as "logs/app.%Y%m%d.log"; empty disables the file sink.
	File string
}

var newRotateLogs = func(pattern string) (zapcore.WriteSyncer, error) {
	w, err := rotatelogs.New(
		pattern,
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(w), nil
}

// Init initializes the logger
func Init(env string) {
	InitWithOptions(Options{Env: env})
}

// InitWithOptions initializes the logger once with a level and an optional rotating file sink.
func InitWithOptions(opts Options) {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		if opts.Env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}

		if opts.Level != "" {
			if lvl, err := zapcore.ParseLevel(opts.Level); err == nil {
				config.Level.SetLevel(lvl)
			}
		}

		buildOpts := []zap.Option{zap.AddCallerSkip(1)}
		if opts.File != "" {
			sink, err := newRotateLogs(opts.File)
			if err != nil {
				panic(err)
			}
			fileEncoder := zap.NewProductionEncoderConfig()
			fileEncoder.TimeKey = "timestamp"
			fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder
			fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), sink, config.Level)
			buildOpts = append(buildOpts, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, fileCore)
			}))
		}

		var err error
		log, err = config.Build(buildOpts...)
		if err != nil {
			panic(err)
		}
		atom = config.Level
	})
}

// GetLogger returns the underlying zap logger
func GetLogger() *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// SetLevel changes the minimum enabled level at runtime
func SetLevel(level zapcore.Level) {
	atom.SetLevel(level)
}

// WithContext adds context fields (request_id, user_id) to the logger
func WithContext(ctx context.Context) *zap.Logger {
	base := GetLogger()
	if ctx == nil {
		return base
	}

	var fields []zap.Field
	if reqID, ok := ctx.Value("request_id").(string); ok { // gin stores it under a plain string key
		fields = append(fields, zap.String("request_id", reqID))
	} else if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		fields = append(fields, zap.String("request_id", reqID))
	}
	if userID, ok := ctx.Value(UserIDKey).(string); ok {
		fields = append(fields, zap.String("user_id", userID))
	}

	if len(fields) > 0 {
		return base.With(fields...)
	}
	return base
}

// Info logs a message at InfoLevel
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Warn(msg, fields...)
}

// Sync flushes buffered entries
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}

// LogRequest logs an HTTP request details
func LogRequest(ctx context.Context, method, path string, status int, latency time.Duration, clientIP string) {
	WithContext(ctx).Info("HTTP Request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", clientIP),
	)
}
