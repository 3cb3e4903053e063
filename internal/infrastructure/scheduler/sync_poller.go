package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dealerdesk/backend/internal/domain/accounting"
)

// JobProcessor runs one due sync job through its lifecycle
type JobProcessor interface {
	Process(ctx context.Context, job *accounting.SyncJob) error
}

// SyncPollerConfig holds configuration for the sync job poller
type SyncPollerConfig struct {
	// Enabled indicates if the poller is enabled
	Enabled bool
	// PollInterval is the time between sweeps of the job table
	PollInterval time.Duration
	// BatchSize is the maximum number of jobs picked up per sweep
	BatchSize int
	// JobTimeout is the maximum time a single job may run
	JobTimeout time.Duration
}

// DefaultSyncPollerConfig returns default configuration
func DefaultSyncPollerConfig() SyncPollerConfig {
	return SyncPollerConfig{
		Enabled:      true,
		PollInterval: 15 * time.Second,
		BatchSize:    20,
		JobTimeout:   2 * time.Minute,
	}
}

// Validate validates the configuration
func (c *SyncPollerConfig) Validate() error {
	if c.PollInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.BatchSize <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SyncPoller sweeps the sync job table on an interval and hands due jobs
// to the processor. Due means queued, or failed with next_retry_at in the
// past and attempts below the limit. Jobs run sequentially within a sweep
// so one company's burst cannot exhaust provider rate limits.
type SyncPoller struct {
	config    SyncPollerConfig
	jobRepo   accounting.SyncJobRepository
	processor JobProcessor
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncPoller creates a new SyncPoller
func NewSyncPoller(config SyncPollerConfig, jobRepo accounting.SyncJobRepository, processor JobProcessor, logger *zap.Logger) (*SyncPoller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SyncPoller{
		config:    config,
		jobRepo:   jobRepo,
		processor: processor,
		logger:    logger,
	}, nil
}

// Start starts the sweep loop
func (p *SyncPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(ctx)

	p.logger.Info("sync poller started",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize))
	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (p *SyncPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("sync poller stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("sync poller stop timed out")
		return ctx.Err()
	}
}

func (p *SyncPoller) loop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep(ctx)
		}
	}
}

// Sweep picks up due jobs and processes them. Failed jobs are reset to
// queued first so the processor sees a uniform starting state.
func (p *SyncPoller) Sweep(ctx context.Context) {
	jobs, err := p.jobRepo.FindDue(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("sync job sweep failed", zap.Error(err))
		return
	}

	for i := range jobs {
		job := &jobs[i]
		if ctx.Err() != nil {
			return
		}

		if job.Status == accounting.JobStatusFailed {
			if err := job.ResetForRetry(time.Now()); err != nil {
				continue
			}
			if err := p.jobRepo.Save(ctx, job); err != nil {
				p.logger.Error("failed to reset sync job for retry",
					zap.String("job_id", job.ID.String()),
					zap.Error(err))
				continue
			}
		}

		jobCtx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
		if err := p.processor.Process(jobCtx, job); err != nil {
			p.logger.Error("sync job processing error",
				zap.String("job_id", job.ID.String()),
				zap.String("job_type", job.JobType.String()),
				zap.Error(err))
		}
		cancel()
	}
}
