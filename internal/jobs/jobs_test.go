package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCloser struct {
	today        time.Time
	CloseDayFunc func(ctx context.Context, actorID uint, date *time.Time) (*models.DailyBalance, error)
}

func (m *mockCloser) Today() time.Time {
	return m.today
}

func (m *mockCloser) CloseDay(ctx context.Context, actorID uint, date *time.Time) (*models.DailyBalance, error) {
	return m.CloseDayFunc(ctx, actorID, date)
}

type mockLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	released int
}

type mockLock struct{ l *mockLocker }

func (m mockLock) Release(context.Context) error {
	m.l.mu.Lock()
	defer m.l.mu.Unlock()
	m.l.held = false
	m.l.released++
	return nil
}

func (m *mockLocker) Obtain(context.Context, string, time.Duration) (Lock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if m.held {
		return nil, ErrLockHeld
	}
	m.held = true
	return mockLock{l: m}, nil
}

func TestDailyCloseJob_ClosesPreviousDay(t *testing.T) {
	var gotDate *time.Time
	var gotActor uint = 99
	closer := &mockCloser{today: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), CloseDayFunc: func(_ context.Context, actorID uint, date *time.Time) (*models.DailyBalance, error) {
		gotActor, gotDate = actorID, date
		return &models.DailyBalance{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ClosingBalance: decimal.NewFromInt(300)}, nil
	}}
	locker := &mockLocker{}

	balance, err := NewDailyCloseJob(closer, locker).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, balance)
	require.NotNil(t, gotDate)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *gotDate)
	assert.Equal(t, SystemActorID, gotActor)
	assert.Equal(t, 1, locker.released)
	assert.False(t, locker.held)
}

func TestDailyCloseJob_SkipsWhenLockHeld(t *testing.T) {
	called := false
	closer := &mockCloser{CloseDayFunc: func(context.Context, uint, *time.Time) (*models.DailyBalance, error) {
		called = true
		return &models.DailyBalance{}, nil
	}}
	locker := &mockLocker{held: true}

	balance, err := NewDailyCloseJob(closer, locker).Run(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, balance)
	assert.False(t, called)
}

func TestDailyCloseJob_Errors(t *testing.T) {
	closer := &mockCloser{CloseDayFunc: func(context.Context, uint, *time.Time) (*models.DailyBalance, error) {
		return nil, errors.New("db down")
	}}

	locker := &mockLocker{}
	_, err := NewDailyCloseJob(closer, locker).Run(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Equal(t, 1, locker.released, "lock is released on failure")

	_, err = NewDailyCloseJob(closer, &mockLocker{err: errors.New("redis unreachable")}).Run(context.Background())
	assert.ErrorContains(t, err, "redis unreachable")
}

func TestDailyCloseJob_NilLockerRunsUnlocked(t *testing.T) {
	closer := &mockCloser{CloseDayFunc: func(context.Context, uint, *time.Time) (*models.DailyBalance, error) {
		return &models.DailyBalance{}, nil
	}}
	err := NewDailyCloseJob(closer, nil).Job()(context.Background())
	assert.NoError(t, err)
}

func TestWorker_RunsQueuedAndAsyncJobs(t *testing.T) {
	w := NewWorker(2)

	var ran int32
	for i := 0; i < 5; i++ {
		w.Enqueue("count", func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})
	}
	w.EnqueueAsync("fail", func(context.Context) error { return errors.New("boom") })
	w.EnqueueAsync("panic", func(context.Context) error { panic("kaboom") })
	w.Shutdown()

	assert.EqualValues(t, 5, atomic.LoadInt32(&ran))
	stats := w.GetStats()
	assert.EqualValues(t, 7, stats.CompletedJobs)
	assert.EqualValues(t, 2, stats.FailedJobs)
	assert.Zero(t, stats.ActiveJobs)
}
