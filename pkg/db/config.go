package db

import (
	"strings"

	"github.com/smallbiznis/clinicbill/internal/config"
)

type Config struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	// Metrics enables the gorm prometheus plugin.
	Metrics bool
	// LogQueries logs every statement at debug level.
	LogQueries bool
}

func FromAppConfig(cfg config.Config) Config {
	return Config{
		Type:            cfg.DBType,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		Metrics:         true,
		LogQueries:      strings.EqualFold(strings.TrimSpace(cfg.LogLevel), "debug"),
	}
}
