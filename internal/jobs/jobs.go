// Package jobs tracks background recommendation refresh jobs in memory.
// One job per user may run at a time; finished jobs stay queryable until
// the next refresh replaces them.
package jobs

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a refresh job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Job is a snapshot of one refresh job's state.
type Job struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Status     Status     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Active reports whether the job is still pending or running.
func (j Job) Active() bool {
	return j.Status == StatusPending || j.Status == StatusRunning
}

// Tracker holds the latest job per user plus an index by job id.
type Tracker struct {
	mu     sync.Mutex
	byUser map[uuid.UUID]*Job
	byID   map[uuid.UUID]*Job
}

// NewTracker creates an empty job tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byUser: make(map[uuid.UUID]*Job),
		byID:   make(map[uuid.UUID]*Job),
	}
}

// Begin registers a pending job for the user. When the user already has an
// active job, that job is returned with created=false and no new job is
// created, so concurrent refresh requests coalesce.
func (t *Tracker) Begin(userID uuid.UUID) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.byUser[userID]; ok && existing.Active() {
		return *existing, false
	}

	job := &Job{
		ID:        uuid.New(),
		UserID:    userID,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	t.byUser[userID] = job
	t.byID[job.ID] = job
	return *job, true
}

// Start moves a pending job to running and stamps the start time.
func (t *Tracker) Start(jobID uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.byID[jobID]
	if !ok || job.Status != StatusPending {
		return
	}
	now := time.Now().UTC()
	job.Status = StatusRunning
	job.StartedAt = &now
}

// Finish resolves a job to completed, or to error when err is non-nil.
func (t *Tracker) Finish(jobID uuid.UUID, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.byID[jobID]
	if !ok || !job.Active() {
		return
	}
	now := time.Now().UTC()
	job.FinishedAt = &now
	if err != nil {
		job.Status = StatusError
		job.Error = err.Error()
		return
	}
	job.Status = StatusCompleted
}

// Get returns the job with the given id.
func (t *Tracker) Get(jobID uuid.UUID) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.byID[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Latest returns the user's most recent job.
func (t *Tracker) Latest(userID uuid.UUID) (Job, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.byUser[userID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}
