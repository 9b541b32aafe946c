// Package store maintains the client-held snapshot of the event
// collection. The backend is the single source of truth: every mutation
// is followed by a full re-fetch, and the snapshot is always replaced
// wholesale, never merged.
package store

import (
	"sync"

	"github.com/eventhub/tui/internal/api"
	"github.com/eventhub/tui/internal/session"
)

// Store holds the event snapshot. Methods that hit the network block and
// are expected to run inside Bubble Tea command goroutines. Mutations are
// not serialized against each other; when two overlap, the snapshot
// reflects whichever follow-up refresh resolves last.
type Store struct {
	api     *api.Client
	session *session.Manager

	mu      sync.RWMutex
	events  []api.Event
	loading bool
	subs    []func()
}

// New creates an empty store. The caller issues the initial Refresh at
// program start.
func New(c *api.Client, sess *session.Manager) *Store {
	return &Store{api: c, session: sess}
}

// Subscribe registers fn to be called after every snapshot change. The
// callback runs with the store's lock held, so it must not call back into
// the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Events returns a copy of the current snapshot.
func (s *Store) Events() []api.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Get looks up an event in the current snapshot. It never triggers
// network activity.
func (s *Store) Get(id string) (api.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return api.Event{}, false
}

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Refresh replaces the snapshot with the full collection from the
// backend. On failure the previous snapshot is left untouched.
func (s *Store) Refresh() error {
	s.setLoading(true)
	defer s.setLoading(false)

	events, err := s.api.ListEvents()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
	for _, fn := range s.subs {
		fn()
	}
	return nil
}

// Add creates an event from a complete draft. It requires a held token
// (presence only; the backend is the arbiter of validity) and refreshes
// on acknowledgment so the caller observes the server-assigned id and
// attribution.
func (s *Store) Add(d api.EventDraft) error {
	tok, ok := s.session.Token()
	if !ok {
		return unauthorized("create event")
	}
	if err := s.api.CreateEvent(tok, d); err != nil {
		return err
	}
	// The mutation is acknowledged; a failed follow-up refresh keeps the
	// previous snapshot but does not turn the operation into a failure.
	s.Refresh()
	return nil
}

// Update replaces an event's fields with a complete draft. The backend's
// PATCH accepts partial bodies, but the contract here is replace-style:
// the draft carries every field.
func (s *Store) Update(id string, d api.EventDraft) error {
	tok, ok := s.session.Token()
	if !ok {
		return unauthorized("update event")
	}
	if err := s.api.UpdateEvent(tok, id, d); err != nil {
		return err
	}
	s.Refresh()
	return nil
}

// Delete removes an event.
func (s *Store) Delete(id string) error {
	tok, ok := s.session.Token()
	if !ok {
		return unauthorized("delete event")
	}
	if err := s.api.DeleteEvent(tok, id); err != nil {
		return err
	}
	s.Refresh()
	return nil
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
	for _, fn := range s.subs {
		fn()
	}
}

func unauthorized(op string) error {
	return &api.Error{Kind: api.KindUnauthorized, Op: op, Detail: "no session"}
}
