package access

import "sync"

// Snapshot is the session state delivered to watchers. Zero-valued members
// mean the corresponding collaborator has not loaded (or the user signed out).
type Snapshot struct {
	Identity     Identity
	Subscription Subscription
}

// Session holds the current identity and subscription explicitly instead of
// ambient module state. It is loaded once at session start, refreshed when
// the identity collaborator notifies a change, and cleared on sign-out.
// Watchers are invoked synchronously after each mutation.
type Session struct {
	mu       sync.RWMutex
	identity Identity
	sub      Subscription
	watchers []func(Snapshot)
}

// NewSession creates an empty (anonymous) session.
func NewSession() *Session {
	return &Session{}
}

// Set replaces the session state and notifies watchers.
func (s *Session) Set(identity Identity, sub Subscription) {
	s.mu.Lock()
	s.identity = identity
	s.sub = sub
	watchers := append([]func(Snapshot){}, s.watchers...)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, watch := range watchers {
		watch(snap)
	}
}

// Clear drops identity and subscription, returning the session to anonymous.
func (s *Session) Clear() {
	s.Set(Identity{}, Subscription{})
}

// Watch registers a callback invoked on every session change. The callback
// also fires immediately with the current state so consumers need no separate
// initial read.
func (s *Session) Watch(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.watchers = append(s.watchers, fn)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{Identity: s.identity, Subscription: s.sub}
}
