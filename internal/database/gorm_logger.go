package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/yukikurage/event-management-api/internal/logging"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger routes gorm logs through zerolog.
type GormLogger struct {
	level         logger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger parses silent, error, warn or info.
func NewGormLogger(level string) GormLogger {
	l := logger.Warn
	switch level {
	case "silent":
		l = logger.Silent
	case "error":
		l = logger.Error
	case "info":
		l = logger.Info
	}
	return GormLogger{level: l, slowThreshold: 200 * time.Millisecond}
}

func (g GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	g.level = level
	return g
}

func (g GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		logging.Ctx(ctx).Info().Msgf(msg, args...)
	}
}

func (g GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		logging.Ctx(ctx).Warn().Msgf(msg, args...)
	}
}

func (g GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		logging.Ctx(ctx).Error().Msgf(msg, args...)
	}
}

func (g GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	var event *zerolog.Event
	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		event = logging.Ctx(ctx).Error().Err(err)
	case elapsed > g.slowThreshold && g.level >= logger.Warn:
		event = logging.Ctx(ctx).Warn().Bool("slow", true)
	case g.level >= logger.Info:
		event = logging.Ctx(ctx).Debug()
	default:
		return
	}

	sql, rows := fc()
	event.Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
}
