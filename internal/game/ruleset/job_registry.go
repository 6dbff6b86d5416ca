package ruleset

import (
	"sort"
	"sync"
)

// JobRegistry provides concurrent lookup of jobs by ID or unlock code.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewJobRegistry returns a registry pre-populated with jobs.
//
// Postcondition: Returns a non-nil *JobRegistry ready to accept registrations.
func NewJobRegistry(jobs ...*Job) *JobRegistry {
	r := &JobRegistry{jobs: make(map[string]*Job)}
	for _, j := range jobs {
		r.Register(j)
	}
	return r
}

// Register adds a Job to the registry.
//
// Precondition: job must be non-nil with a non-empty ID.
// Postcondition: job is retrievable via Job using job.ID;
// if called multiple times with the same ID, the last call wins.
func (r *JobRegistry) Register(job *Job) {
	if job == nil {
		panic("JobRegistry.Register: precondition violated: job must be non-nil")
	}
	if job.ID == "" {
		panic("JobRegistry.Register: precondition violated: job ID must be non-empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[job.ID] = job
}

// Job returns the Job for the given ID, if registered.
//
// Postcondition: Returns the registered Job and true, or nil and false if not found.
func (r *JobRegistry) Job(id string) (*Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	return j, ok
}

// Evasion returns the base evasion probability for the job.
//
// Postcondition: Returns DefaultEvasion if id is unknown.
func (r *JobRegistry) Evasion(id string) float64 {
	if j, ok := r.Job(id); ok {
		return j.Evasion
	}
	return DefaultEvasion
}

// Resolve maps a job choice made at character creation to a job ID.
// Public jobs resolve by ID; hidden jobs only by their unlock code.
//
// Postcondition: Returns the job ID and true, or "" and false if choice
// names no selectable job.
func (r *JobRegistry) Resolve(choice string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if j, ok := r.jobs[choice]; ok && !j.Hidden {
		return j.ID, true
	}
	for _, j := range r.jobs {
		if j.Hidden && j.UnlockCode != "" && j.UnlockCode == choice {
			return j.ID, true
		}
	}
	return "", false
}

// Selectable returns the jobs offered at character creation, ordered by ID.
//
// Postcondition: no returned job is Hidden.
func (r *JobRegistry) Selectable() []*Job {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if !j.Hidden {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
