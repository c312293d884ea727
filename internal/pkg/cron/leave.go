package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

// YearRoller opens a new balance year for every user.
type YearRoller interface {
	RolloverYear(ctx context.Context, year int) (leave.BulkInitializeResponse, error)
}

type LeaveJobs struct {
	roller YearRoller
	now    func() time.Time

	mu       sync.Mutex
	lastYear int
}

func NewLeaveJobs(roller YearRoller) *LeaveJobs {
	return &LeaveJobs{
		roller: roller,
		now:    time.Now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("leave_year_rollover", 1*time.Hour, j.RolloverYear)
}

// RolloverYear initializes the current year's balances the first time it
// runs in a new calendar year. Rows that already exist are left untouched,
// so running it after a restart is harmless.
func (j *LeaveJobs) RolloverYear(ctx context.Context) error {
	year := j.now().Year()

	j.mu.Lock()
	defer j.mu.Unlock()
	if year == j.lastYear {
		return nil
	}

	slog.Info("Cron: Starting leave year rollover", "year", year)

	result, err := j.roller.RolloverYear(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to roll over leave year %d: %w", year, err)
	}

	annual := result.ByLeaveType[string(leave.LeaveTypeAnnual)]
	slog.Info("Cron: Leave year rollover completed",
		"year", year,
		"users_succeeded", result.UsersSucceeded,
		"users_failed", result.UsersFailed,
		"annual_created", annual.Created,
		"annual_skipped", annual.Skipped,
	)

	// Retry next tick when any user failed.
	if result.UsersFailed == 0 {
		j.lastYear = year
	}
	return nil
}
