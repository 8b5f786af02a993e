package timing

import (
	"sync"
	"time"
)

// Stage is the recorded duration of one named phase of a query.
type Stage struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
}

// Stages collects per-phase durations for a single query run.
// It is safe for concurrent use.
type Stages struct {
	mu      sync.Mutex
	entries []Stage
}

func NewStages() *Stages {
	return &Stages{}
}

// Track starts timing the named phase and returns a stop function.
// The stage is recorded when the stop function is called.
//
//	stop := stages.Track("discovery")
//	defer stop()
func (s *Stages) Track(name string) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Milliseconds()
		s.mu.Lock()
		s.entries = append(s.entries, Stage{Name: name, DurationMs: elapsed})
		s.mu.Unlock()
	}
}

// Snapshot returns the stages recorded so far in recording order.
func (s *Stages) Snapshot() []Stage {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Stage, len(s.entries))
	copy(out, s.entries)
	return out
}

// TotalMs returns the sum of all recorded stage durations.
func (s *Stages) TotalMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, e := range s.entries {
		total += e.DurationMs
	}
	return total
}
