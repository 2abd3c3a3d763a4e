package logger

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// GormLogger routes gorm SQL logging through zap.
type GormLogger struct {
	ZapLogger *zap.Logger
	LogLevel  logger.LogLevel
}

func NewGormLogger(baseLogger *zap.Logger, gormLogLevel int) logger.Interface {
	return &GormLogger{
		ZapLogger: baseLogger.Named("gorm"),
		LogLevel:  logger.LogLevel(gormLogLevel),
	}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &GormLogger{
		ZapLogger: l.ZapLogger,
		LogLevel:  level,
	}
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Info {
		l.ZapLogger.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Warn {
		l.ZapLogger.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= logger.Error {
		l.ZapLogger.Sugar().Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && l.LogLevel >= logger.Error {
		l.ZapLogger.Sugar().Errorf("sql error: %s, elapsed: %v, rows: %d, sql: %s", err, elapsed, rows, sql)
	} else if elapsed > 200*time.Millisecond && l.LogLevel >= logger.Warn {
		l.ZapLogger.Sugar().Warnf("slow sql: elapsed: %v, rows: %d, sql: %s", elapsed, rows, sql)
	} else if l.LogLevel >= logger.Info {
		l.ZapLogger.Sugar().Infof("sql: elapsed: %v, rows: %d, sql: %s", elapsed, rows, sql)
	}
}
