package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sjperalta/ventas-api/internal/models"
	"github.com/sjperalta/ventas-api/pkg/logger"
)

// DayCloser closes a business day; nil means today
type DayCloser interface {
	Today() time.Time
	CloseDay(ctx context.Context, actorID uint, date *time.Time) (*models.DailyBalance, error)
}

// SystemActorID is recorded as the actor of scheduled work
const SystemActorID uint = 0

const (
	dailyCloseLockKey = "ventas:daily-close"
	dailyCloseLockTTL = 2 * time.Minute
)

// DailyCloseJob closes the previous business day. It runs after midnight so
// postings confirmed late in the evening land before the close. Replicas
// race for a lock so the day is closed once per run; losers skip quietly.
type DailyCloseJob struct {
	closer DayCloser
	locker Locker
}

// NewDailyCloseJob creates the job. A nil locker means single-instance mode.
func NewDailyCloseJob(closer DayCloser, locker Locker) *DailyCloseJob {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &DailyCloseJob{closer: closer, locker: locker}
}

// Run closes yesterday and reports the balance written, or nil when skipped
func (j *DailyCloseJob) Run(ctx context.Context) (*models.DailyBalance, error) {
	lock, err := j.locker.Obtain(ctx, dailyCloseLockKey, dailyCloseLockTTL)
	if errors.Is(err, ErrLockHeld) {
		logger.Info("daily close skipped, another instance holds the lock")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain daily close lock: %w", err)
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logger.Warn("failed to release daily close lock", "error", err)
		}
	}()

	day := j.closer.Today().AddDate(0, 0, -1)
	balance, err := j.closer.CloseDay(ctx, SystemActorID, &day)
	if err != nil {
		return nil, fmt.Errorf("daily close of %s failed: %w", day.Format(models.DateLayout), err)
	}
	logger.Info("daily balance closed",
		"date", balance.Date.Format(models.DateLayout),
		"opening", balance.OpeningBalance.StringFixed(2),
		"closing", balance.ClosingBalance.StringFixed(2),
	)
	return balance, nil
}

// Job adapts Run to the worker's job signature
func (j *DailyCloseJob) Job() Job {
	return func(ctx context.Context) error {
		_, err := j.Run(ctx)
		return err
	}
}
