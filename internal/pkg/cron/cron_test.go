package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoller struct {
	years  []int
	failed int
	err    error
}

func (f *fakeRoller) RolloverYear(_ context.Context, year int) (leave.BulkInitializeResponse, error) {
	f.years = append(f.years, year)
	if f.err != nil {
		return leave.BulkInitializeResponse{}, f.err
	}
	return leave.BulkInitializeResponse{Year: year, UsersFailed: f.failed}, nil
}

type fakePruner struct {
	calls int
}

func (f *fakePruner) DeleteExpired(context.Context) (int64, error) {
	f.calls++
	return 2, nil
}

func TestLeaveJobs_RolloverYear_OncePerYear(t *testing.T) {
	roller := &fakeRoller{}
	jobs := NewLeaveJobs(roller)
	now := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	jobs.now = func() time.Time { return now }

	require.NoError(t, jobs.RolloverYear(context.Background()))
	require.NoError(t, jobs.RolloverYear(context.Background()))
	assert.Equal(t, []int{2025}, roller.years)

	now = time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)
	require.NoError(t, jobs.RolloverYear(context.Background()))
	require.NoError(t, jobs.RolloverYear(context.Background()))
	assert.Equal(t, []int{2025, 2026}, roller.years)
}

func TestLeaveJobs_RolloverYear_RetriesAfterFailure(t *testing.T) {
	roller := &fakeRoller{failed: 1}
	jobs := NewLeaveJobs(roller)
	jobs.now = func() time.Time { return time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.RolloverYear(context.Background()))
	roller.failed = 0
	require.NoError(t, jobs.RolloverYear(context.Background()))
	require.NoError(t, jobs.RolloverYear(context.Background()))
	assert.Equal(t, []int{2026, 2026}, roller.years)

	roller.err = errors.New("db down")
	jobs.lastYear = 0
	err := jobs.RolloverYear(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	pruner := &fakePruner{}
	NewTokenJobs(pruner).RegisterJobs(s)
	NewLeaveJobs(&fakeRoller{}).RegisterJobs(s)
	s.AddJob("explodes", time.Minute, func(context.Context) error { panic("boom") })

	assert.Equal(t, []string{"cleanup_revoked_tokens", "leave_year_rollover", "explodes"}, s.Jobs())

	err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "explodes panicked")
	assert.Equal(t, 1, pruner.calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(context.Background())
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}
