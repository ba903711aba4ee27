package logger

import (
	"log"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
	// With returns a child logger carrying the given key/value pairs.
	With(keysAndValues ...interface{}) Logger
	// Std bridges to a standard library logger for packages that need one (gorm).
	Std() *log.Logger
	Sync() error
}

type zapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// New builds a zap-backed Logger. Production uses the JSON encoder at the
// configured level; everything else gets the colored development console.
func New(env, level string) Logger {
	var cfg zap.Config
	if strings.EqualFold(env, "production") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, parseErr := zapcore.ParseLevel(strings.ToLower(level))
	if parseErr != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		log.Fatalf("🔴 ERROR: failed to initialize logger: %v", err)
	}
	if parseErr != nil {
		z.Warn("invalid log level, defaulting to info", zap.String("level", level))
	}
	return FromZap(z)
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	return &zapLogger{logger: z, sugar: z.Sugar()}
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() Logger {
	return FromZap(zap.NewNop())
}

func (l *zapLogger) Error(msg string, err error) {
	if err == nil {
		l.logger.Error(msg)
		return
	}
	l.logger.Error(msg, zap.Error(err))
}

func (l *zapLogger) Warn(msg string) {
	l.logger.Warn(msg)
}

func (l *zapLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *zapLogger) Debug(msg string) {
	l.logger.Debug(msg)
}

func (l *zapLogger) With(keysAndValues ...interface{}) Logger {
	child := l.sugar.With(keysAndValues...)
	return &zapLogger{logger: child.Desugar(), sugar: child}
}

func (l *zapLogger) Std() *log.Logger {
	return zap.NewStdLog(l.logger)
}

func (l *zapLogger) Sync() error {
	return l.logger.Sync()
}
