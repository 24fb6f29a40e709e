package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger adapts zerolog to gorm's logger.Interface.
//
// Statements slower than SlowThreshold are logged at warn; failed
// statements at error, except record-not-found which callers handle; all
// other statements at debug (only when the level is Info).
type GormLogger struct {
	Log           zerolog.Logger
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
}

// NewGormLogger returns a GormLogger at Warn level with the given slow
// statement threshold (0 disables slow logging).
func NewGormLogger(l zerolog.Logger, slow time.Duration) *GormLogger {
	return &GormLogger{
		Log:           l.With().Str("component", "gorm").Logger(),
		Level:         gormlogger.Warn,
		SlowThreshold: slow,
	}
}

// LogMode returns a copy at the given level.
func (g *GormLogger) LogMode(lvl gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.Level = lvl
	return &cp
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Info {
		g.Log.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Warn {
		g.Log.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Error {
		g.Log.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

// Trace logs one executed statement.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && g.Level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		sql, rows := fc()
		g.Log.Error().Err(err).
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("gorm query failed")
	case g.SlowThreshold > 0 && elapsed > g.SlowThreshold && g.Level >= gormlogger.Warn:
		sql, rows := fc()
		g.Log.Warn().
			Dur("elapsed", elapsed).
			Dur("threshold", g.SlowThreshold).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("slow query")
	case g.Level >= gormlogger.Info:
		sql, rows := fc()
		g.Log.Debug().
			Dur("elapsed", elapsed).
			Int64("rows", rows).
			Str("sql", sql).
			Msg("gorm query")
	}
}
