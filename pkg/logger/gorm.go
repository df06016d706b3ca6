package logger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Constraint violations the repositories turn into business errors. They are
// expected under contention and logged below error level.
var expectedViolations = map[string]string{
	"chk_inventories_quantity":  "insufficient stock",
	"idx_ledger_entries_origin": "duplicate posting",
	"idx_daily_balances_date":   "duplicate balance",
}

var tablePattern = regexp.MustCompile(`(?i)\b(?:FROM|INTO|UPDATE)\s+"?([a-z_]+)"?`)

// GormLogger writes gorm's query trace through slog, tagged with the request
// id and the statement's verb and table.
type GormLogger struct {
	LogLevel      logger.LogLevel
	SlowThreshold time.Duration
}

// NewGormLogger creates a gorm logger with the given level and slow query threshold
func NewGormLogger(logLevel logger.LogLevel, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{LogLevel: logLevel, SlowThreshold: slowThreshold}
}

func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Info, slog.LevelInfo, fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Warn, slog.LevelWarn, fmt.Sprintf(msg, data...))
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.emit(ctx, logger.Error, slog.LevelError, fmt.Sprintf(msg, data...))
}

func (l *GormLogger) emit(ctx context.Context, min logger.LogLevel, level slog.Level, msg string, attrs ...any) {
	if l.LogLevel < min {
		return
	}
	if id := ctx.Value(RequestIDKey); id != nil {
		attrs = append(attrs, slog.Any("request_id", id))
	}
	Log.Log(ctx, level, msg, attrs...)
}

// Trace logs one statement. Lookups that miss and constraint violations the
// repositories translate are not errors for this service.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.LogLevel <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	op, table := Statement(sql)
	attrs := []any{
		slog.String("op", op),
		slog.String("table", table),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
		slog.String("sql", sql),
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		attrs = append(attrs, slog.String("error", err.Error()))
		if reason, expected := ExpectedFailure(err); expected {
			l.emit(ctx, logger.Warn, slog.LevelDebug, "query rejected: "+reason, attrs...)
			return
		}
		l.emit(ctx, logger.Error, slog.LevelError, "query failed", attrs...)
		return
	}

	if l.SlowThreshold != 0 && elapsed > l.SlowThreshold {
		attrs = append(attrs, slog.Duration("threshold", l.SlowThreshold))
		l.emit(ctx, logger.Warn, slog.LevelWarn, fmt.Sprintf("slow %s on %s", op, table), attrs...)
		return
	}

	l.emit(ctx, logger.Info, slog.LevelDebug, "query", attrs...)
}

// Statement returns the SQL verb and the first table a statement touches
func Statement(sql string) (op, table string) {
	trimmed := strings.TrimSpace(sql)
	if i := strings.IndexAny(trimmed, " \n\t"); i > 0 {
		op = strings.ToUpper(trimmed[:i])
	} else {
		op = strings.ToUpper(trimmed)
	}
	if m := tablePattern.FindStringSubmatch(trimmed); m != nil {
		table = m[1]
	}
	return op, table
}

// ExpectedFailure reports whether err is a constraint violation or a
// serialization conflict the repositories already map to a business error.
func ExpectedFailure(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case "40001", "40P01", "55P03":
		return "serialization conflict", true
	case "23505", "23514":
		reason, ok := expectedViolations[pgErr.ConstraintName]
		return reason, ok
	}
	return "", false
}
