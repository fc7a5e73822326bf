package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/smallbiznis/clinicbill/internal/money"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	ConfigDir   string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	LogLevel  string
	LogFormat string

	Currency              money.Locale
	InvoiceNumberTemplate string

	Practice PracticeConfig
}

var defaults = map[string]any{
	"APP_SERVICE":                "clinicbill",
	"APP_VERSION":                "0.1.0",
	"ENVIRONMENT":                "development",
	"HTTP_ADDR":                  ":8080",
	"CONFIG_DIR":                 ".",
	"DATABASE_TYPE":              "postgres",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "clinicbill",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_IDLE_CONN":     10,
	"DATABASE_MAX_OPEN_CONN":     50,
	"DATABASE_CONN_MAX_LIFETIME": 300,
	"DATABASE_CONN_MAX_IDLE":     60,
	"LOG_LEVEL":                  "info",
	"LOG_FORMAT":                 "json",
	"CURRENCY_SYMBOL":            money.DefaultLocale.Symbol,
	"CURRENCY_SYMBOL_SPACE":      money.DefaultLocale.SymbolSpace,
	"CURRENCY_GROUP_SEPARATOR":   money.DefaultLocale.GroupSeparator,
	"CURRENCY_DECIMAL_SEPARATOR": money.DefaultLocale.DecimalSeparator,
	"INVOICE_NUMBER_TEMPLATE":    "INV-{YYYY}{MM}{DD}-{SEQ3}",
	"PRACTICE_NAME":              "",
	"PRACTICE_TAGLINE":           "",
	"PRACTICE_ADDRESS":           "",
	"PRACTICE_EMAIL":             "",
	"PRACTICE_PHONE":             "",
	"PRACTICE_FOOTER":            "",
	"PRACTICE_PRIMARY_COLOR":     "#111827",
	"PRACTICE_LOGO_PATH":         "",
}

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return Config{
		AppName:     trimmed(v, "APP_SERVICE"),
		AppVersion:  trimmed(v, "APP_VERSION"),
		Environment: strings.ToLower(trimmed(v, "ENVIRONMENT")),
		HTTPAddr:    trimmed(v, "HTTP_ADDR"),
		ConfigDir:   trimmed(v, "CONFIG_DIR"),

		DBType:            strings.ToLower(trimmed(v, "DATABASE_TYPE")),
		DBHost:            trimmed(v, "DATABASE_HOST"),
		DBPort:            trimmed(v, "DATABASE_PORT"),
		DBName:            trimmed(v, "DATABASE_NAME"),
		DBUser:            trimmed(v, "DATABASE_USER"),
		DBPassword:        v.GetString("DATABASE_PASSWORD"),
		DBSSLMode:         trimmed(v, "DATABASE_SSLMODE"),
		DBMaxIdleConn:     v.GetInt("DATABASE_MAX_IDLE_CONN"),
		DBMaxOpenConn:     v.GetInt("DATABASE_MAX_OPEN_CONN"),
		DBConnMaxLifetime: v.GetInt("DATABASE_CONN_MAX_LIFETIME"),
		DBConnMaxIdleTime: v.GetInt("DATABASE_CONN_MAX_IDLE"),

		LogLevel:  strings.ToLower(trimmed(v, "LOG_LEVEL")),
		LogFormat: strings.ToLower(trimmed(v, "LOG_FORMAT")),

		Currency: money.Locale{
			Symbol:           trimmed(v, "CURRENCY_SYMBOL"),
			SymbolSpace:      v.GetBool("CURRENCY_SYMBOL_SPACE"),
			GroupSeparator:   v.GetString("CURRENCY_GROUP_SEPARATOR"),
			DecimalSeparator: v.GetString("CURRENCY_DECIMAL_SEPARATOR"),
		},
		InvoiceNumberTemplate: trimmed(v, "INVOICE_NUMBER_TEMPLATE"),

		Practice: PracticeConfig{
			Name:         trimmed(v, "PRACTICE_NAME"),
			Tagline:      trimmed(v, "PRACTICE_TAGLINE"),
			Address:      trimmed(v, "PRACTICE_ADDRESS"),
			Email:        trimmed(v, "PRACTICE_EMAIL"),
			Phone:        trimmed(v, "PRACTICE_PHONE"),
			FooterNotes:  trimmed(v, "PRACTICE_FOOTER"),
			PrimaryColor: trimmed(v, "PRACTICE_PRIMARY_COLOR"),
			LogoPath:     trimmed(v, "PRACTICE_LOGO_PATH"),
		},
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func trimmed(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}
