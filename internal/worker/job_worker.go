package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/Softwarica-Projects/Sem5-WebApp-MovieHub-sub000/pkg/logger"
	"github.com/robfig/cron/v3"
)

// JobFunc defines the function signature for scheduled maintenance jobs
type JobFunc func(ctx context.Context) error

// JobWorker runs a maintenance job on a fixed interval
type JobWorker struct {
	name     string
	cron     *cron.Cron
	job      JobFunc
	interval time.Duration
	logger   *logger.Logger
	entryID  cron.EntryID
	cancel   context.CancelFunc
}

// NewJobWorker creates a cron-scheduled worker with validation and defaults
func NewJobWorker(name, interval string, fallback time.Duration, job JobFunc, log *logger.Logger) (*JobWorker, error) {
	if job == nil {
		return nil, fmt.Errorf("job worker %s has no job", name)
	}

	every := fallback
	if interval != "" {
		duration, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid %s interval '%s': %v", name, interval, err)
		}
		every = duration
	}
	if every <= 0 {
		return nil, fmt.Errorf("invalid %s interval '%v': must be positive", name, every)
	}

	return &JobWorker{
		name:     name,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:      job,
		interval: every,
		logger:   log.WithComponent("job-worker"),
	}, nil
}

// Start schedules the job; runs stop when ctx is cancelled or Stop is called
func (w *JobWorker) Start(ctx context.Context) error {
	spec := w.durationToCronExpression(w.interval)
	w.logger.Info(fmt.Sprintf("Starting job worker: %s (every %v)", w.name, w.interval))

	runCtx, cancel := context.WithCancel(ctx)

	entryID, err := w.cron.AddFunc(spec, func() { w.RunOnce(runCtx) })
	if err != nil {
		cancel()
		w.logger.Error("Failed to schedule job worker " + w.name + ": " + err.Error())
		return err
	}

	w.entryID = entryID
	w.cancel = cancel
	w.cron.Start()

	w.logger.Info("Job worker started successfully: " + w.name)

	return nil
}

// RunOnce executes the job immediately and logs the outcome
func (w *JobWorker) RunOnce(ctx context.Context) {
	w.logger.Debug("Executing job for worker: " + w.name)

	started := time.Now()
	if err := w.job(ctx); err != nil {
		w.logger.Error("Job failed for worker " + w.name + ": " + err.Error())
		return
	}
	w.logger.Debug(fmt.Sprintf("Job completed for worker %s in %v", w.name, time.Since(started)))
}

// Stop gracefully shuts down the worker, waiting for a running job
func (w *JobWorker) Stop() error {
	w.logger.Info("Stopping job worker: " + w.name)

	if w.entryID > 0 {
		w.cron.Remove(w.entryID)
		w.entryID = 0
	}
	if w.cancel != nil {
		w.cancel()
	}

	ctx := w.cron.Stop()
	<-ctx.Done()

	w.logger.Info("Job worker stopped: " + w.name)

	return nil
}

// IsRunning checks if the worker has active cron entries
func (w *JobWorker) IsRunning() bool {
	return len(w.cron.Entries()) > 0
}

// durationToCronExpression converts duration to cron format, falling back to @every
func (w *JobWorker) durationToCronExpression(duration time.Duration) string {
	minutes := int(duration.Minutes())
	hours := int(duration.Hours())

	if duration%time.Minute == 0 {
		if hours > 0 && hours < 24 && minutes%60 == 0 {
			return fmt.Sprintf("0 */%d * * *", hours)
		} else if minutes > 0 && minutes < 60 {
			return fmt.Sprintf("*/%d * * * *", minutes)
		}
	}

	return "@every " + duration.String()
}
