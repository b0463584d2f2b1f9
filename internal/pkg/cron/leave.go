package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hrms-core-go/internal/domain/leave"
)

// LeaveJobs keeps every active plan's current leave year open.
type LeaveJobs struct {
	leaveService leave.LeaveService
	interval     time.Duration
	now          func() time.Time

	mu      sync.Mutex
	lastDay time.Time
}

func NewLeaveJobs(leaveService leave.LeaveService, interval time.Duration) *LeaveJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &LeaveJobs{
		leaveService: leaveService,
		interval:     interval,
		now:          time.Now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("leave_year_rollover", j.interval, j.RolloverLeaveYear)
}

// RolloverLeaveYear runs at most once per UTC day; later ticks on the same
// day are no-ops.
func (j *LeaveJobs) RolloverLeaveYear(ctx context.Context) error {
	now := j.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.lastDay.Equal(today) {
		return nil
	}

	slog.Info("Cron: Starting leave year rollover", "date", today.Format("2006-01-02"))

	result, err := j.leaveService.RolloverLeaveYear(ctx, today)
	if err != nil {
		return fmt.Errorf("leave year rollover: %w", err)
	}
	j.lastDay = today

	slog.Info("Cron: Leave year rollover completed",
		"plans", result.Plans,
		"initialized", result.Initialized,
		"carried_forward", result.CarriedForward,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return nil
}
