// Package jobmgr tracks named, cancellable timed jobs. Scheduling the same
// name again replaces the pending job, so "mute for 10m, then mute for 5m"
// ends with a single 5m timer.
//
// It is intentionally minimal: no retries, no persistence. Jobs are dropped
// from tracking the moment they fire or are stopped.
package jobmgr

import (
	"sort"
	"sync"
	"time"
)

// Manager schedules and cancels named jobs. Safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*time.Timer
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{jobs: make(map[string]*time.Timer)}
}

// Schedule runs fn after delay under the given name, replacing any pending
// job with the same name. A non-positive delay runs fn immediately on the
// timer goroutine.
func (m *Manager) Schedule(name string, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.jobs[name]; ok {
		t.Stop()
	}
	if delay < 0 {
		delay = 0
	}
	m.jobs[name] = time.AfterFunc(delay, func() {
		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
		fn()
	})
}

// Stop cancels the pending job with the given name. It reports whether a
// job was actually cancelled.
func (m *Manager) Stop(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.jobs[name]
	if !ok {
		return false
	}
	delete(m.jobs, name)
	return t.Stop()
}

// StopAll cancels every pending job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for name, t := range m.jobs {
		t.Stop()
		delete(m.jobs, name)
	}
}

// Pending returns the names of jobs that have not fired yet, sorted.
func (m *Manager) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
