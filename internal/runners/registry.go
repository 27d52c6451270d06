package runners

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/JaimeStill/job-broker/internal/jobs"
	"github.com/JaimeStill/job-broker/pkg/lifecycle"
)

type presence struct {
	address    string
	lastSeen   time.Time
	currentJob *int64
	completed  int
	failed     int
}

// Registry holds presence records for runners keyed by runner id.
// Records are active for ttl after the last poll and are dropped by Sweep
// once pruneAfter has passed.
type Registry struct {
	clock      clock.Clock
	ttl        time.Duration
	pruneAfter time.Duration
	logger     *slog.Logger

	mu      sync.RWMutex
	runners map[string]*presence
}

func NewRegistry(clk clock.Clock, ttl, pruneAfter time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		clock:      clk,
		ttl:        ttl,
		pruneAfter: pruneAfter,
		logger:     logger.With("system", "runners"),
		runners:    make(map[string]*presence),
	}
}

// Seen records a poll from the runner.
func (r *Registry) Seen(id, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.touch(id, address)
}

// Assign records that the runner claimed a job.
func (r *Registry) Assign(id, address string, jobID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.touch(id, address)
	p.currentJob = &jobID
}

// Report applies a status reported by the runner for a job.
func (r *Registry) Report(id, address string, jobID int64, status jobs.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.touch(id, address)

	switch status {
	case jobs.StatusRunning:
		p.currentJob = &jobID
	case jobs.StatusDone:
		p.completed++
		r.release(p, jobID)
	case jobs.StatusTerminated:
		p.failed++
		r.release(p, jobID)
	}
}

// Get returns the record for id.
func (r *Registry) Get(id string) (Runner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.runners[id]
	if !ok {
		return Runner{}, false
	}
	return r.snapshot(id, p, r.clock.Now()), true
}

// List returns all records sorted by id.
func (r *Registry) List() []Runner {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	result := make([]Runner, 0, len(r.runners))
	for id, p := range r.runners {
		result = append(result, r.snapshot(id, p, now))
	}
	slices.SortFunc(result, func(a, b Runner) int {
		return strings.Compare(a.ID, b.ID)
	})
	return result
}

// Sweep drops records not seen within pruneAfter and returns how many were dropped.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	pruned := 0
	for id, p := range r.runners {
		if now.Sub(p.lastSeen) >= r.pruneAfter {
			delete(r.runners, id)
			pruned++
		}
	}
	return pruned
}

// Start runs Sweep every interval until the coordinator shuts down.
func (r *Registry) Start(lc *lifecycle.Coordinator, interval time.Duration) {
	ticker := r.clock.NewTicker(interval)
	lc.OnShutdown(func() {
		defer ticker.Stop()
		for {
			select {
			case <-lc.Context().Done():
				r.logger.Info("registry sweeper stopped")
				return
			case <-ticker.C():
				if n := r.Sweep(); n > 0 {
					r.logger.Info("pruned runners", "count", n)
				}
			}
		}
	})
}

func (r *Registry) touch(id, address string) *presence {
	p, ok := r.runners[id]
	if !ok {
		p = &presence{}
		r.runners[id] = p
		r.logger.Info("runner registered", "runner", id, "address", address)
	}
	p.address = address
	p.lastSeen = r.clock.Now()
	return p
}

func (r *Registry) release(p *presence, jobID int64) {
	if p.currentJob != nil && *p.currentJob == jobID {
		p.currentJob = nil
	}
}

func (r *Registry) snapshot(id string, p *presence, now time.Time) Runner {
	run := Runner{
		ID:        id,
		Address:   p.address,
		LastSeen:  jobs.Timestamp(p.lastSeen),
		Completed: p.completed,
		Failed:    p.failed,
		Active:    now.Sub(p.lastSeen) < r.ttl,
	}
	if p.currentJob != nil {
		job := *p.currentJob
		run.CurrentJob = &job
	}
	return run
}
