// File: internal/session/store.go
package session

import (
	"sync"

	"go.uber.org/zap"
)

// Identity uniquely identifies the signed-in user. It is only ever stored for
// accounts whose email has been verified by the identity provider; an
// unverified account is treated identically to "no session".
type Identity struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// State is the current authentication status. Resolving is true until the
// initial session check against the identity provider completes.
type State struct {
	Identity  *Identity
	Resolving bool
}

// Listener receives a snapshot of the store state on every change.
type Listener func(State)

// Store holds the current authenticated identity (or none) and a loading flag,
// and notifies subscribers on every change. It is the only shared mutable
// state in the application: written by the auth gateway's producers (startup
// resolution, sign-in, session refresh) and by explicit sign-out, read
// everywhere else. Updates are last-write-wins with no merge logic.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
	logger    *zap.Logger
}

// NewStore creates a store with no identity and Resolving set.
func NewStore(logger *zap.Logger) *Store {
	return &Store{
		state:     State{Identity: nil, Resolving: true},
		listeners: make(map[int]Listener),
		logger:    logger.Named("SessionStore"),
	}
}

// Subscribe registers a listener invoked on every state change and returns an
// unsubscribe handle. Listeners are notified synchronously in registration
// order. Once the initial resolution completes, at least one notification is
// guaranteed (with an identity or with nil): a listener attaching after that
// point is immediately replayed the current state.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	snapshot := s.state
	s.mu.Unlock()

	if !snapshot.Resolving {
		fn(snapshot)
	}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
		for i, oid := range s.order {
			if oid == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// SetIdentity overwrites the current identity, marks resolution complete and
// notifies all subscribers. Setting the same identity twice is harmless; the
// direct sign-in path and the session-change path may both report the same
// transition.
func (s *Store) SetIdentity(identity *Identity) {
	s.mu.Lock()
	s.state = State{Identity: identity, Resolving: false}
	snapshot := s.state
	fns := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	if identity != nil {
		s.logger.Debug("Session identity set", zap.String("uid", identity.UID))
	} else {
		s.logger.Debug("Session identity cleared")
	}

	for _, fn := range fns {
		fn(snapshot)
	}
}

// Clear tears the identity down. Used on sign-out and when the provider
// reports no session.
func (s *Store) Clear() {
	s.SetIdentity(nil)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
