package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/sjperalta/ventas-api/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RegisterRejectsBadSpec(t *testing.T) {
	w := jobs.NewWorker(1)
	defer w.Shutdown()

	s := New(time.UTC, w)
	err := s.Register("daily_close", "not a cron spec", func(context.Context) error { return nil })
	assert.ErrorContains(t, err, "daily_close")
}

func TestScheduler_NextUsesLocation(t *testing.T) {
	w := jobs.NewWorker(1)
	defer w.Shutdown()

	loc := time.FixedZone("MMT", 6*3600+1800)
	s := New(loc, w)
	require.NoError(t, s.Register("daily_close", "0 5 0 * * *", func(context.Context) error { return nil }))

	s.Start()
	defer s.Stop()

	next := s.Next()
	require.Len(t, next, 1)
	local := next[0].In(loc)
	assert.Equal(t, 0, local.Hour())
	assert.Equal(t, 5, local.Minute())
}

func TestScheduler_TickQueuesJob(t *testing.T) {
	w := jobs.NewWorker(1)
	ran := make(chan struct{}, 1)

	s := New(time.UTC, w)
	require.NoError(t, s.Register("tick", "* * * * * *", func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}))
	s.Start()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run within 3s")
	}
	s.Stop()
	w.Shutdown()
}
