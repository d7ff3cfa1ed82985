package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopJob(ctx context.Context) error { return nil }

func TestNewJobWorker(t *testing.T) {
	worker, err := NewJobWorker("upload-sweeper", "5m", time.Hour, noopJob, logger.Nop())

	assert.NoError(t, err)
	assert.NotNil(t, worker)
	assert.Equal(t, "upload-sweeper", worker.name)
	assert.NotNil(t, worker.cron)
	assert.NotNil(t, worker.job)
	assert.Equal(t, 5*time.Minute, worker.interval)
	assert.NotNil(t, worker.logger)
}

func TestJobWorker_Defaults(t *testing.T) {
	worker, err := NewJobWorker("rating-recalc", "", 6*time.Hour, noopJob, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour, worker.interval)
}

func TestJobWorker_InvalidConfig(t *testing.T) {
	_, err := NewJobWorker("upload-sweeper", "invalid-duration", time.Hour, noopJob, logger.Nop())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid upload-sweeper interval")

	_, err = NewJobWorker("upload-sweeper", "-5m", time.Hour, noopJob, logger.Nop())
	assert.Error(t, err)

	_, err = NewJobWorker("upload-sweeper", "5m", time.Hour, nil, logger.Nop())
	assert.Error(t, err)
}

func TestJobWorker_Start_Stop(t *testing.T) {
	worker, err := NewJobWorker("limiter-cleanup", "5m", time.Hour, noopJob, logger.Nop())
	require.NoError(t, err)

	assert.False(t, worker.IsRunning())

	require.NoError(t, worker.Start(context.Background()))
	assert.True(t, worker.IsRunning())

	require.NoError(t, worker.Stop())
	assert.False(t, worker.IsRunning())
}

func TestJobWorker_RunOnce(t *testing.T) {
	var calls atomic.Int32
	job := func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("db unavailable")
	}

	worker, err := NewJobWorker("rating-recalc", "1h", time.Hour, job, logger.Nop())
	require.NoError(t, err)

	// failures are logged, not propagated
	worker.RunOnce(context.Background())
	worker.RunOnce(context.Background())
	assert.Equal(t, int32(2), calls.Load())
}

func TestJobWorker_RunsOnSchedule(t *testing.T) {
	ran := make(chan struct{}, 1)
	job := func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}

	worker, err := NewJobWorker("fast", "1s", time.Hour, job, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, worker.Start(context.Background()))
	defer worker.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestDurationToCronExpression(t *testing.T) {
	worker, err := NewJobWorker("expr", "", time.Minute, noopJob, logger.Nop())
	require.NoError(t, err)

	testCases := []struct {
		duration time.Duration
		expected string
	}{
		{5 * time.Minute, "*/5 * * * *"},
		{2 * time.Hour, "0 */2 * * *"},
		{90 * time.Minute, "@every 1h30m0s"},
		{30 * time.Second, "@every 30s"},
		{48 * time.Hour, "@every 48h0m0s"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, worker.durationToCronExpression(tc.duration))
	}
}
