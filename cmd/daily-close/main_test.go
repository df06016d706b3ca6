package main

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/ventas-api/internal/repository"
	"github.com/sjperalta/ventas-api/internal/repository/memory"
	"github.com/sjperalta/ventas-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() (*services.DailyBalanceService, *memory.Store) {
	store := memory.New()
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })
	svc := services.NewServices(store, nil, services.Options{
		Calendar: services.Calendar{Location: time.UTC, Now: func() time.Time { return now }},
	}).DailyBalance
	return svc, store
}

func TestRun_FlagCombinations(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	assert.ErrorContains(t, run(ctx, svc, 0, "2024-03-01", "2024-03-01", "", time.UTC), "cannot be combined")
	assert.ErrorContains(t, run(ctx, svc, 0, "", "2024-03-01", "", time.UTC), "together")
	assert.ErrorContains(t, run(ctx, svc, 0, "", "01/03/2024", "2024-03-02", time.UTC), "invalid -from")
	assert.ErrorContains(t, run(ctx, svc, 0, "yesterday", "", "", time.UTC), "invalid -date")
}

func TestRun_ClosesDayAndRange(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	require.NoError(t, run(ctx, svc, 0, "", "", "", time.UTC))
	require.NoError(t, run(ctx, svc, 0, "", "2024-03-01", "2024-03-03", time.UTC))

	balances, err := store.Repos().DailyBalance.List(ctx, repository.DateRange{})
	require.NoError(t, err)
	assert.Len(t, balances, 4, "today plus three re-closed days")
}
