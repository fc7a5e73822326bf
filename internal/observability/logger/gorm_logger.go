package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// GormLoggerConfig configures how database statements reach the zap logger.
type GormLoggerConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// Debug logs every statement at debug level instead of only errors and slow queries.
	Debug bool
}

func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: 200 * time.Millisecond,
	}
}

// GormLogger sends GORM output to zap, tagged with the request id and the table touched.
// Bound values are never logged since line items and bill-to fields carry patient data.
type GormLogger struct {
	base          *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(base *zap.Logger, cfg GormLoggerConfig) *GormLogger {
	if base == nil {
		base = zap.L()
	}
	level := cfg.Level
	if cfg.Debug {
		level = gormlogger.Info
	}
	return &GormLogger{
		base:          base.Named("gorm"),
		level:         level,
		slowThreshold: cfg.SlowThreshold,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Info, zap.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Warn, zap.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.message(ctx, gormlogger.Error, zap.ErrorLevel, msg, data)
}

func (l *GormLogger) message(ctx context.Context, min gormlogger.LogLevel, level zapcore.Level, msg string, data []interface{}) {
	if l.level < min {
		return
	}
	var fields []zap.Field
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	if ce := WithContext(ctx, l.base).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

// Trace logs failed statements, slow statements and, in debug mode, everything else.
// A missing document is an expected outcome and is never reported as an error.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.logQuery(ctx, fc, elapsed, err, zap.ErrorLevel)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		l.logQuery(ctx, fc, elapsed, nil, zap.WarnLevel)
	case l.level >= gormlogger.Info:
		l.logQuery(ctx, fc, elapsed, nil, zap.DebugLevel)
	}
}

// ParamsFilter drops bound values so patient details stay out of the logs.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) logQuery(ctx context.Context, fc func() (string, int64), elapsed time.Duration, err error, level zapcore.Level) {
	ce := WithContext(ctx, l.base).Check(level, "gorm.query")
	if ce == nil {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.String("operation", operationFromSQL(sql)),
		zap.String("table", tableFromSQL(sql)),
		zap.String("sql", strings.TrimSpace(sql)),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	ce.Write(fields...)
}

func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		token = strings.Trim(token, "();")
		switch token {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "SAVEPOINT", "RELEASE", "ROLLBACK":
			return token
		}
	}
	return "UNKNOWN"
}

// tableFromSQL returns the first table named after FROM, INTO or UPDATE.
func tableFromSQL(sql string) string {
	tokens := strings.Fields(sql)
	for i := 0; i < len(tokens)-1; i++ {
		switch strings.ToUpper(tokens[i]) {
		case "FROM", "INTO", "UPDATE":
			return strings.Trim(tokens[i+1], "`\"();")
		}
	}
	return ""
}

var _ gormlogger.Interface = (*GormLogger)(nil)
