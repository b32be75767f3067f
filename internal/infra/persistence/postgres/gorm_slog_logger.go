package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"venuegate/config"
	deliverycontext "venuegate/internal/delivery/context"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormSlogLogger routes GORM output to slog. Queries are logged on failure, when slower
// than store.slowQuery, and at info level in debug environments.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg.Env.Debug {
		level = logger.Info
	}

	return &gormSlogLogger{
		logger:        baseLogger.With(slog.String("store", "postgres")),
		level:         level,
		slowThreshold: cfg.Store.SlowQuery,
	}
}

// log prefers the request-scoped logger so query logs carry the request id.
func (l *gormSlogLogger) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, l.logger)
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) message(ctx context.Context, min logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.level < min {
		return
	}
	l.log(ctx).LogAttrs(ctx, level, "GORM "+level.String(), slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg, extra := l.classify(elapsed, err)
	if msg == "" {
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if extra.Key != "" {
		attrs = append(attrs, extra)
	}
	l.log(ctx).LogAttrs(ctx, level, msg, attrs...)
}

// classify picks the log line for a finished query. An empty message means nothing is logged.
func (l *gormSlogLogger) classify(elapsed time.Duration, err error) (slog.Level, string, slog.Attr) {
	switch {
	case err != nil && l.level >= logger.Error && !isExpectedQueryError(err):
		return slog.LevelError, "Postgres query failed", slog.String("error", err.Error())
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		return slog.LevelWarn, "Postgres slow query", slog.Duration("slow_threshold", l.slowThreshold)
	case l.level >= logger.Info:
		return slog.LevelInfo, "Postgres query", slog.Attr{}
	default:
		return slog.LevelInfo, "", slog.Attr{}
	}
}

// isExpectedQueryError reports store answers that are not failures: missing rows and
// unique key conflicts from nonce collisions and device upserts.
func isExpectedQueryError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || isUniqueConstraintViolation(err)
}
