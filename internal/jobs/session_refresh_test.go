package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quran_app_backend/internal/config"
)

type countingRefresher struct {
	calls atomic.Int64
	err   error
}

func (r *countingRefresher) RefreshSession(ctx context.Context) error {
	r.calls.Add(1)
	return r.err
}

func TestSessionRefreshJobRunsOnSchedule(t *testing.T) {
	refresher := &countingRefresher{}
	job := NewSessionRefreshJob(refresher, zap.NewNop(), &config.Config{
		SessionRefreshJobSchedule: "@every 10ms",
	})

	require.NoError(t, job.SetupAndStart())
	t.Cleanup(job.Stop)

	assert.Eventually(t, func() bool {
		return refresher.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSessionRefreshJobWithoutScheduleDoesNotRun(t *testing.T) {
	refresher := &countingRefresher{}
	job := NewSessionRefreshJob(refresher, zap.NewNop(), &config.Config{})

	require.NoError(t, job.SetupAndStart())
	t.Cleanup(job.Stop)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, refresher.calls.Load())
}

func TestSessionRefreshJobSurvivesFailedRuns(t *testing.T) {
	refresher := &countingRefresher{err: assert.AnError}
	job := NewSessionRefreshJob(refresher, zap.NewNop(), &config.Config{
		SessionRefreshJobSchedule: "@every 10ms",
	})

	require.NoError(t, job.SetupAndStart())
	t.Cleanup(job.Stop)

	assert.Eventually(t, func() bool {
		return refresher.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)
}
