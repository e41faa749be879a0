// Package connectivity tracks whether the remote store is reachable.
//
// The status is injected into every component that needs it (write
// operations pick rollback-vs-pending behavior from it), so tests can
// simulate offline conditions without touching the network.
package connectivity

import "sync"

// Provider reports the current connectivity status.
type Provider interface {
	Offline() bool
}

// Status is a thread-safe Provider that also pushes transitions to
// registered listeners.
type Status struct {
	mu        sync.RWMutex
	offline   bool
	listeners []func(offline bool)
}

// NewStatus returns a Status with the given initial state.
func NewStatus(offline bool) *Status {
	return &Status{offline: offline}
}

func (s *Status) Offline() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offline
}

// Set updates the status and notifies listeners on transitions. Repeated
// sets of the same value are ignored.
func (s *Status) Set(offline bool) {
	s.mu.Lock()
	if s.offline == offline {
		s.mu.Unlock()
		return
	}
	s.offline = offline
	listeners := append([]func(offline bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(offline)
	}
}

// OnChange registers fn to run on every online/offline transition.
func (s *Status) OnChange(fn func(offline bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
