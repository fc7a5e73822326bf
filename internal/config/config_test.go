package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smallbiznis/clinicbill/internal/money"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "clinicbill", cfg.AppName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "INV-{YYYY}{MM}{DD}-{SEQ3}", cfg.InvoiceNumberTemplate)
	assert.Equal(t, money.DefaultLocale, cfg.Currency)
	assert.Equal(t, 10, cfg.DBMaxIdleConn)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "Production")
	t.Setenv("DATABASE_TYPE", "SQLITE")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "7")
	t.Setenv("CURRENCY_SYMBOL", "$")
	t.Setenv("CURRENCY_SYMBOL_SPACE", "false")
	t.Setenv("PRACTICE_NAME", "  Sunrise Vet Clinic ")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, 7, cfg.DBMaxOpenConn)
	assert.Equal(t, "$", cfg.Currency.Symbol)
	assert.False(t, cfg.Currency.SymbolSpace)
	assert.Equal(t, "Sunrise Vet Clinic", cfg.Practice.Name)
}

func TestPracticeConfigHolder_FallsBackToEnvironment(t *testing.T) {
	cfg := Config{
		ConfigDir: t.TempDir(),
		Practice:  PracticeConfig{Name: "Env Clinic", Phone: "021 555 0100"},
	}

	holder, err := NewPracticeConfigHolder(cfg, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "Env Clinic", got.Name)
	assert.Equal(t, "021 555 0100", got.Phone)
}

func TestPracticeConfigHolder_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	body := []byte("practice:\n  name: File Clinic\n  tagline: Caring since 1999\n  primary_color: \"#0a84ff\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "practice.yml"), body, 0o600))

	holder, err := NewPracticeConfigHolder(Config{
		ConfigDir: dir,
		Practice:  PracticeConfig{Name: "Env Clinic", Email: "desk@clinic.example"},
	}, zap.NewNop())
	require.NoError(t, err)

	got := holder.Get()
	assert.Equal(t, "File Clinic", got.Name)
	assert.Equal(t, "Caring since 1999", got.Tagline)
	assert.Equal(t, "#0a84ff", got.PrimaryColor)
	assert.Equal(t, "desk@clinic.example", got.Email)
}

func TestPracticeConfigHolder_RejectsInvalidEmail(t *testing.T) {
	_, err := NewPracticeConfigHolder(Config{
		ConfigDir: t.TempDir(),
		Practice:  PracticeConfig{Email: "not-an-email"},
	}, zap.NewNop())
	assert.Error(t, err)
}
