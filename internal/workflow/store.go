package workflow

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a job id is unknown to the store.
var ErrNotFound = errors.New("job not found")

// Store is the process-wide job record map. Node's event loop made per-key
// mutation atomic for free; here a mutex provides the same guarantee against
// Go's preemptive scheduler. Jobs are never deleted.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create allocates a new job with a fresh id, six idle steps and status
// queued, and returns a snapshot of it.
func (s *Store) Create(payload Payload) *Job {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
		Steps:     make([]Step, len(baseSteps)),
	}
	copy(job.Steps, baseSteps)

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	return job.snapshot()
}

// Get returns a point-in-time copy of the job, or false if the id is unknown.
func (s *Store) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, false
	}
	return job.snapshot(), true
}

// List returns snapshots of every job in the store.
func (s *Store) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.snapshot())
	}
	return out
}

// Update applies fn to the stored record under lock and stamps updatedAt.
func (s *Store) Update(id string, fn func(*Job)) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
	return job.snapshot(), nil
}

// SetStep updates the status and detail of one step. Detail is always
// overwritten, so a running-stage progress note never survives completion.
func (s *Store) SetStep(id string, stepID StepID, status StepStatus, detail string) (*Job, error) {
	return s.Update(id, func(job *Job) {
		for i := range job.Steps {
			if job.Steps[i].ID == stepID {
				job.Steps[i].Status = status
				job.Steps[i].Detail = detail
				return
			}
		}
	})
}

// SetStatus sets the job-level status and error message.
func (s *Store) SetStatus(id string, status Status, errMsg string) (*Job, error) {
	return s.Update(id, func(job *Job) {
		job.Status = status
		job.Error = errMsg
	})
}

// SetResult attaches the final result bundle.
func (s *Store) SetResult(id string, result *Result) (*Job, error) {
	return s.Update(id, func(job *Job) {
		job.Result = result
	})
}

// snapshot deep-copies the mutable fields so callers can hold the value
// while the runner keeps mutating the stored record.
func (j *Job) snapshot() *Job {
	out := *j
	out.Steps = make([]Step, len(j.Steps))
	copy(out.Steps, j.Steps)
	if j.Result != nil {
		res := *j.Result
		res.Metadata.Keywords = append([]string(nil), j.Result.Metadata.Keywords...)
		out.Result = &res
	}
	return &out
}
