package logger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// captureLog swaps the global logger for one writing to a buffer
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Log
	Log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() { Log = prev })
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestGormLogger_LogMode(t *testing.T) {
	l := NewGormLogger(gormlogger.Warn, time.Second)
	quiet := l.LogMode(gormlogger.Silent).(*GormLogger)

	assert.Equal(t, gormlogger.Silent, quiet.LogLevel)
	assert.Equal(t, gormlogger.Warn, l.LogLevel)
}

func TestStatement(t *testing.T) {
	tests := []struct {
		sql   string
		op    string
		table string
	}{
		{`SELECT * FROM "orders" WHERE "orders"."id" = 4`, "SELECT", "orders"},
		{`INSERT INTO "ledger_entries" ("entry_date") VALUES ('2024-01-02')`, "INSERT", "ledger_entries"},
		{`UPDATE "inventories" SET "quantity"=quantity - 3 WHERE product_id = 1`, "UPDATE", "inventories"},
		{"  select 1", "SELECT", ""},
	}
	for _, tt := range tests {
		op, table := Statement(tt.sql)
		assert.Equal(t, tt.op, op, tt.sql)
		assert.Equal(t, tt.table, table, tt.sql)
	}
}

func TestExpectedFailure(t *testing.T) {
	reason, ok := ExpectedFailure(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23514", ConstraintName: "chk_inventories_quantity"}))
	assert.True(t, ok)
	assert.Equal(t, "insufficient stock", reason)

	reason, ok = ExpectedFailure(&pgconn.PgError{Code: "40001"})
	assert.True(t, ok)
	assert.Equal(t, "serialization conflict", reason)

	_, ok = ExpectedFailure(&pgconn.PgError{Code: "23514", ConstraintName: "chk_order_items_quantity"})
	assert.False(t, ok, "other constraints are real errors")
	_, ok = ExpectedFailure(errors.New("connection refused"))
	assert.False(t, ok)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	update := func() (string, int64) { return `UPDATE "inventories" SET "quantity"=quantity - 3`, 0 }

	t.Run("record not found is silent", func(t *testing.T) {
		buf := captureLog(t)
		NewGormLogger(gormlogger.Warn, 0).Trace(ctx, time.Now(), update, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("stock check is not an error", func(t *testing.T) {
		buf := captureLog(t)
		err := &pgconn.PgError{Code: "23514", ConstraintName: "chk_inventories_quantity"}
		NewGormLogger(gormlogger.Warn, 0).Trace(ctx, time.Now(), update, err)
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), "insufficient stock")
		assert.Contains(t, buf.String(), "table=inventories")
	})

	t.Run("unexpected failure is an error", func(t *testing.T) {
		buf := captureLog(t)
		NewGormLogger(gormlogger.Error, 0).Trace(ctx, time.Now(), update, errors.New("connection reset"))
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "request_id=req-42")
	})

	t.Run("slow statement names op and table", func(t *testing.T) {
		buf := captureLog(t)
		NewGormLogger(gormlogger.Warn, time.Millisecond).Trace(ctx, time.Now().Add(-time.Second), update, nil)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="slow UPDATE on inventories"`)
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		buf := captureLog(t)
		NewGormLogger(gormlogger.Silent, 0).Trace(ctx, time.Now(), update, errors.New("boom"))
		assert.Empty(t, buf.String())
	})
}
