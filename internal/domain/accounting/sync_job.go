package accounting

import (
	"time"

	"github.com/dealerdesk/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobStatus is the sync job lifecycle state
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusDone      JobStatus = "done"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// IsValid returns true if the status is a valid JobStatus
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusQueued, JobStatusRunning, JobStatusDone, JobStatusFailed, JobStatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are allowed.
// failed is retryable and therefore not terminal.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusDone || s == JobStatusCancelled
}

// String returns the string representation of JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// maxBackoff caps the exponential retry delay so a repeatedly failing job
// never schedules itself days into the future.
const maxBackoff = 24 * time.Hour

// DefaultMaxAttempts is used when a job is enqueued without an explicit limit
const DefaultMaxAttempts = 8

// SyncJob is a queued, retryable unit of work performing one provider-side
// mutation. Transitions: queued -> running -> {done | failed}; failed may be
// reset to queued for retry with the attempts counter preserved.
type SyncJob struct {
	shared.CompanyEntity
	JobType     JobType
	EntityType  LinkEntityType
	EntityID    uuid.UUID
	Payload     []byte
	Status      JobStatus
	Attempts    int
	MaxAttempts int
	LastError   string
	NextRetryAt *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// NewSyncJob enqueues a job with an encoded payload
func NewSyncJob(companyID uuid.UUID, jobType JobType, entityType LinkEntityType, entityID uuid.UUID, payload []byte) *SyncJob {
	return &SyncJob{
		CompanyEntity: shared.NewCompanyEntity(companyID),
		JobType:       jobType,
		EntityType:    entityType,
		EntityID:      entityID,
		Payload:       payload,
		Status:        JobStatusQueued,
		MaxAttempts:   DefaultMaxAttempts,
	}
}

// Start transitions queued -> running. No transition skips running.
func (j *SyncJob) Start(now time.Time) error {
	if j.Status != JobStatusQueued {
		return shared.ErrInvalidState
	}
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
	return nil
}

// Complete transitions running -> done
func (j *SyncJob) Complete(now time.Time) error {
	if j.Status != JobStatusRunning {
		return shared.ErrInvalidState
	}
	j.Status = JobStatusDone
	j.CompletedAt = &now
	j.LastError = ""
	j.NextRetryAt = nil
	j.UpdatedAt = now
	return nil
}

// Fail transitions running -> failed, increments the attempts counter and
// schedules the next retry with exponential backoff (base one minute).
func (j *SyncJob) Fail(cause error, now time.Time) error {
	if j.Status != JobStatusRunning {
		return shared.ErrInvalidState
	}
	j.Status = JobStatusFailed
	j.Attempts++
	if cause != nil {
		j.LastError = cause.Error()
	}
	next := now.Add(BackoffDelay(j.Attempts))
	j.NextRetryAt = &next
	j.UpdatedAt = now
	return nil
}

// ResetForRetry transitions failed -> queued, preserving the attempts counter
func (j *SyncJob) ResetForRetry(now time.Time) error {
	if j.Status != JobStatusFailed {
		return shared.ErrInvalidState
	}
	j.Status = JobStatusQueued
	j.NextRetryAt = nil
	j.UpdatedAt = now
	return nil
}

// Cancel transitions a non-terminal, non-running job to cancelled
func (j *SyncJob) Cancel(now time.Time) error {
	if j.Status.IsTerminal() || j.Status == JobStatusRunning {
		return shared.ErrInvalidState
	}
	j.Status = JobStatusCancelled
	j.UpdatedAt = now
	return nil
}

// Exhausted reports whether the job has used up its attempt budget
func (j *SyncJob) Exhausted() bool {
	return j.MaxAttempts > 0 && j.Attempts >= j.MaxAttempts
}

// Eligible reports whether the sweep may pick up this job: queued jobs
// always, failed jobs once their retry time has passed and the attempt
// budget is not exhausted. Exhausted jobs stay failed until manually reset.
func (j *SyncJob) Eligible(now time.Time) bool {
	switch j.Status {
	case JobStatusQueued:
		return true
	case JobStatusFailed:
		if j.Exhausted() {
			return false
		}
		return j.NextRetryAt == nil || !j.NextRetryAt.After(now)
	}
	return false
}

// BackoffDelay returns the retry delay after the given number of attempts:
// 2^attempts minutes, capped at maxBackoff.
func BackoffDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	// Shifting past 10 already exceeds the 24h cap (2^11 min > 24h).
	if attempts > 11 {
		return maxBackoff
	}
	delay := time.Duration(1<<uint(attempts)) * time.Minute
	if delay > maxBackoff {
		return maxBackoff
	}
	return delay
}
