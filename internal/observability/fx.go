package observability

import (
	"github.com/smallbiznis/clinicbill/internal/observability/logger"
	"github.com/smallbiznis/clinicbill/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		provideLoggerConfig,
		logger.New,
		provideMetricsConfig,
		metrics.NewDefault,
	),
)

func provideLoggerConfig(cfg Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Debug:       cfg.Debug(),
	}
}

func provideMetricsConfig(cfg Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}
