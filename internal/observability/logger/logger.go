package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the zap logger.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
	Format      string
	// Debug disables sampling and attaches stack traces to error entries.
	Debug bool
}

// New builds the process logger, installs it as the zap global and syncs it on shutdown.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	levelText := strings.TrimSpace(cfg.Level)
	if levelText == "" {
		levelText = "info"
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelText, err)
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(level))
	options := []zap.Option{
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	}
	if cfg.Debug {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	} else {
		core = zapcore.NewSamplerWithOptions(core, time.Second, 100, 100)
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "clinicbill"
	}
	logger := zap.New(core, options...).With(
		zap.String("service", serviceName),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	)
	zap.ReplaceGlobals(logger)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				_ = logger.Sync()
				return nil
			},
		})
	}

	return logger, nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if normalizeFormat(format) == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderCfg)
	}
	return zapcore.NewJSONEncoder(encoderCfg)
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "console" {
		return "console"
	}
	return "json"
}

// FromContext returns a logger enriched with request-scoped fields.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches the provided logger with correlation fields.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}
	requestID := RequestIDFromContext(ctx)
	if requestID == "" {
		return base
	}
	return base.With(zap.String("request_id", requestID))
}

// WithDocument adds the document identifier to the logger.
func WithDocument(log *zap.Logger, documentID string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(zap.String("document_id", strings.TrimSpace(documentID)))
}
