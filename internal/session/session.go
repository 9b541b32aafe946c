// Package session owns the authentication token and current-user
// identity: establishing a session (login, signup), restoring a persisted
// one at startup, and tearing it down.
package session

import (
	"sync"

	"github.com/eventhub/tui/internal/api"
)

// State is the session lifecycle state.
type State int

const (
	// Anonymous means no valid session is held.
	Anonymous State = iota
	// Restoring means a persisted token is being exchanged for a user.
	Restoring
	// Authenticated means the token was validated and a user is resolved.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// Session is an immutable snapshot of the manager's state. User is the
// zero value unless State is Authenticated.
type Session struct {
	State   State
	User    api.User
	Loading bool
}

// Manager maintains exactly one logical session per process. Methods that
// hit the network block and are expected to run inside Bubble Tea command
// goroutines; state reads and writes are guarded by a mutex.
//
// Invariant: user is non-zero only while token is non-empty and was last
// validated against the backend. Validation failure clears both together,
// along with the persisted copy.
type Manager struct {
	api    *api.Client
	tokens *TokenFile

	mu      sync.RWMutex
	state   State
	token   string
	user    api.User
	loading bool
	subs    []func()
}

// NewManager creates a manager in the Anonymous state. Call Restore once
// at startup to pick up a persisted token.
func NewManager(c *api.Client, tokens *TokenFile) *Manager {
	return &Manager{api: c, tokens: tokens}
}

// Subscribe registers fn to be called after every state change. The
// callback runs with the manager's lock held, so it must not call back
// into the manager.
func (m *Manager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Snapshot returns a copy of the current session state.
func (m *Manager) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Session{State: m.state, User: m.user, Loading: m.loading}
}

// Token returns the current bearer token, and whether one is held.
func (m *Manager) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// Restore attempts to resolve a persisted token to a user. With no
// persisted token it settles in Anonymous and returns nil. If the
// who-am-I query fails the persisted token is discarded.
func (m *Manager) Restore() error {
	tok, err := m.tokens.Load()
	if err != nil || tok == "" {
		m.transition(func() { m.state = Anonymous })
		return err
	}

	m.transition(func() {
		m.state = Restoring
		m.loading = true
	})

	u, err := m.api.Me(tok)
	if err != nil {
		m.tokens.Clear()
		m.transition(func() {
			m.state = Anonymous
			m.token = ""
			m.user = api.User{}
			m.loading = false
		})
		return err
	}

	m.transition(func() {
		m.state = Authenticated
		m.token = tok
		m.user = u
		m.loading = false
	})
	return nil
}

// Login exchanges credentials for a token and resolves the user. Both
// steps must succeed before the state becomes Authenticated; a failure in
// either leaves the session Anonymous with no partial token retained.
func (m *Manager) Login(email, password string) error {
	if email == "" || password == "" {
		return &api.Error{Kind: api.KindRejected, Op: "login", Detail: "email and password are required"}
	}

	m.transition(func() { m.loading = true })
	defer m.transition(func() { m.loading = false })

	tok, err := m.api.Login(email, password)
	if err != nil {
		return err
	}

	// Persistence is best-effort: a failed write only costs the restore
	// on next start, the in-memory session still works.
	m.tokens.Save(tok)

	u, err := m.api.Me(tok)
	if err != nil {
		m.tokens.Clear()
		m.transition(func() {
			m.state = Anonymous
			m.token = ""
			m.user = api.User{}
		})
		return err
	}

	m.transition(func() {
		m.state = Authenticated
		m.token = tok
		m.user = u
	})
	return nil
}

// Signup registers a new account and, on success, immediately performs
// the full login flow with the same credentials.
func (m *Manager) Signup(name, email, password string, role api.Role) error {
	if name == "" || email == "" || password == "" {
		return &api.Error{Kind: api.KindRejected, Op: "signup", Detail: "name, email and password are required"}
	}

	m.transition(func() { m.loading = true })
	err := m.api.Register(name, email, password, role)
	m.transition(func() { m.loading = false })
	if err != nil {
		return err
	}
	return m.Login(email, password)
}

// Logout tears the session down: token, user, and the persisted copy are
// cleared together. It is synchronous, makes no network call, and cannot
// fail.
func (m *Manager) Logout() {
	m.tokens.Clear()
	m.transition(func() {
		m.state = Anonymous
		m.token = ""
		m.user = api.User{}
	})
}

// transition applies a state mutation and notifies subscribers, all under
// the write lock.
func (m *Manager) transition(mutate func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mutate()
	for _, fn := range m.subs {
		fn()
	}
}
