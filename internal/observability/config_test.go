package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smallbiznis/clinicbill/internal/config"
)

func TestLoadConfig(t *testing.T) {
	cfg := LoadConfig(config.Config{AppVersion: " 1.2.0 ", Environment: "production", LogLevel: "WARN"})

	assert.Equal(t, "clinicbill", cfg.ServiceName)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Debug())
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{LogLevel: "debug", Environment: "production"}.Debug())
	assert.True(t, Config{LogLevel: "info", Environment: "local"}.Debug())
	assert.False(t, Config{LogLevel: "info", Environment: "staging"}.Debug())
}
