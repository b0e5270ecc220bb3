package log

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ Log = (*Logger)(nil)

var (
	ErrUnknownLevel    = errors.New("unknown log level")
	ErrUnknownEncoding = errors.New("unknown log encoding")
)

var (
	innerLogger          *Logger
	loggerInitializeOnce sync.Once
)

// Config selects how log lines are encoded and where they are written.
type Config struct {
	Level       Level
	Encoding    string // "json" or "console"
	OutputPaths []string
}

// DefaultConfig writes json lines at info level to stderr.
func DefaultConfig() Config {
	return Config{
		Level:       LevelInfo,
		Encoding:    "json",
		OutputPaths: []string{"stderr"},
	}
}

type Logger struct {
	zapLogger *zap.Logger
	level     zap.AtomicLevel
}

// New builds a json logger at the given level and panics if zap refuses the config.
func New(level Level) *Logger {
	cfg := DefaultConfig()
	cfg.Level = level
	logger, err := NewWithConfig(cfg)
	if err != nil {
		panic(err)
	}
	return logger
}

func NewWithConfig(cfg Config) (*Logger, error) {
	switch cfg.Encoding {
	case "":
		cfg.Encoding = "json"
	case "json", "console":
	default:
		return nil, ErrUnknownEncoding
	}
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stderr"}
	}

	level := zap.NewAtomicLevelAt(toZapLevel(cfg.Level))
	config := zap.Config{
		Level:            level,
		Development:      false,
		Encoding:         cfg.Encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	logger := &Logger{
		zapLogger: zapLogger,
		level:     level,
	}

	loggerInitializeOnce.Do(func() { innerLogger = logger })

	return logger, nil
}

// NewWithCore wraps an existing core, typically an observer core in tests.
func NewWithCore(core zapcore.Core) *Logger {
	level := zap.NewAtomicLevelAt(zap.DebugLevel)
	return &Logger{
		zapLogger: zap.New(core),
		level:     level,
	}
}

// Provide returns the first logger built by New or NewWithConfig.
func Provide() *Logger {
	return innerLogger
}

func (l *Logger) Log(level Level, msg string, fields ...Field) {
	if !l.checkLevel(level) {
		return
	}
	l.zapLogger.Log(toZapLevel(level), msg, toZapFields(fields...)...)
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.Log(LevelDebug, msg, fields...)
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.Log(LevelInfo, msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.Log(LevelWarn, msg, fields...)
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.Log(LevelError, msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...Field) {
	l.zapLogger.Fatal(msg, toZapFields(fields...)...)
}

func (l *Logger) With(fields ...Field) Log {
	return &Logger{
		zapLogger: l.zapLogger.With(toZapFields(fields...)...),
		level:     l.level,
	}
}

// Named appends name to the logger name, so "app" then "metrics" yields "app.metrics".
func (l *Logger) Named(name string) Log {
	return &Logger{
		zapLogger: l.zapLogger.Named(name),
		level:     l.level,
	}
}

func (l *Logger) WithContext(_ context.Context) Log {
	return l
}

// SetLevel changes the level for this logger and every logger derived from it.
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(toZapLevel(level))
}

func (l *Logger) GetLevel() Level {
	return fromZapLevel(l.level.Level())
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

func (l *Logger) checkLevel(level Level) bool {
	return l.level.Enabled(toZapLevel(level))
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case LevelDebug:
		return zap.DebugLevel
	case LevelInfo:
		return zap.InfoLevel
	case LevelWarn:
		return zap.WarnLevel
	case LevelError:
		return zap.ErrorLevel
	case LevelFatal:
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func fromZapLevel(level zapcore.Level) Level {
	switch level {
	case zap.DebugLevel:
		return LevelDebug
	case zap.InfoLevel:
		return LevelInfo
	case zap.WarnLevel:
		return LevelWarn
	case zap.ErrorLevel:
		return LevelError
	case zap.FatalLevel:
		return LevelFatal
	default:
		return LevelInfo
	}
}

func toZapFields(fields ...Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, f := range fields {
		switch f.Type {
		case BoolType:
			zapFields[i] = zap.Bool(f.Key, f.Value.(bool))
		case DurationType:
			zapFields[i] = zap.Duration(f.Key, f.Value.(time.Duration))
		case Float64Type:
			zapFields[i] = zap.Float64(f.Key, f.Value.(float64))
		case IntType:
			zapFields[i] = zap.Int(f.Key, f.Value.(int))
		case Int64Type:
			zapFields[i] = zap.Int64(f.Key, f.Value.(int64))
		case StringType:
			zapFields[i] = zap.String(f.Key, f.Value.(string))
		case TimeType:
			zapFields[i] = zap.Time(f.Key, f.Value.(time.Time))
		case Uint64Type:
			zapFields[i] = zap.Uint64(f.Key, f.Value.(uint64))
		case ErrorType:
			err, _ := f.Value.(error)
			zapFields[i] = zap.NamedError(f.Key, err)
		default:
			zapFields[i] = zap.Any(f.Key, f.Value)
		}
	}
	return zapFields
}
