package observability

import (
	"strings"

	"github.com/smallbiznis/clinicbill/internal/config"
)

// Config holds the observability settings derived from the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string
}

func LoadConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "clinicbill"
	}
	logLevel := strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if logLevel == "" {
		logLevel = "info"
	}

	return Config{
		ServiceName: serviceName,
		Environment: strings.TrimSpace(cfg.Environment),
		Version:     strings.TrimSpace(cfg.AppVersion),
		LogLevel:    logLevel,
		LogFormat:   strings.ToLower(strings.TrimSpace(cfg.LogFormat)),
	}
}

func (c Config) Debug() bool {
	if strings.EqualFold(strings.TrimSpace(c.LogLevel), "debug") {
		return true
	}
	return isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	switch env {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}
