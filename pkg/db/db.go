package db

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"

	"github.com/smallbiznis/clinicbill/internal/observability/logger"
)

// Open connects with the configured dialect, routes GORM logs to zap and applies pool limits.
func Open(cfg Config, log *zap.Logger) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.NewGormLogger(log, gormLoggerConfig(cfg)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if cfg.Metrics {
		err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          cfg.Name,
			RefreshInterval: 15,
			StartServer:     false,
		}))
		if err != nil {
			return nil, err
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Second)
	}

	return conn, nil
}

func provide(lc fx.Lifecycle, cfg Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := Open(cfg, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		OnStop: func(ctx context.Context) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			log.Info("closing database connection")
			return sqlDB.Close()
		},
	})

	return conn, nil
}

func gormLoggerConfig(cfg Config) logger.GormLoggerConfig {
	out := logger.DefaultGormLoggerConfig()
	out.Debug = cfg.LogQueries
	return out
}

var Module = fx.Module("db",
	fx.Provide(
		FromAppConfig,
		provide,
	),
)
