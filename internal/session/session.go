// Package session holds per-browser editing state. The original UI kept the
// current page, filter, and form visibility in ambient globals; here they
// live in an explicit session object addressed by a cookie ID, so every
// request handler receives and returns state instead of mutating globals.
package session

import (
	"sync"
	"time"

	"github.com/Rajas1877/structgrid/internal/grid"
	"github.com/google/uuid"
)

// State is the UI state for one editing session. The manager hands the same
// *State to every in-flight request carrying the cookie, so all fields are
// accessed through its mutex.
type State struct {
	ID string

	mu            sync.Mutex
	page          int    // zero-based current grid page
	filter        string // active keyword filter
	showAddColumn bool   // add-column form expanded

	// served is the exact page snapshot last rendered for this session.
	// It is the pre-edit input to reconciliation on save, which guarantees
	// the original and edited snapshots line up row for row.
	served *grid.Snapshot

	lastSeen time.Time
}

// View returns the session's current filter and page.
func (s *State) View() (filter string, page int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter, s.page
}

// SetView records the filter, page, and served snapshot of the page that
// was just rendered, atomically.
func (s *State) SetView(filter string, page int, served *grid.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = filter
	s.page = page
	s.served = served
}

// Served returns the snapshot last rendered for this session, nil if no
// page has been served yet.
func (s *State) Served() *grid.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.served
}

// AddColumnVisible reports whether the add-column form is expanded.
func (s *State) AddColumnVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showAddColumn
}

// SetAddColumnVisible sets the add-column form visibility.
func (s *State) SetAddColumnVisible(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAddColumn = show
}

// ToggleAddColumn flips the add-column form visibility and returns the new
// state.
func (s *State) ToggleAddColumn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showAddColumn = !s.showAddColumn
	return s.showAddColumn
}

// Manager tracks sessions and expires idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State
	ttl      time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a session manager whose sessions expire after ttl of
// inactivity. A background sweep reclaims expired sessions until Close is
// called.
func NewManager(ttl time.Duration) *Manager {
	m := &Manager{
		sessions: make(map[string]*State),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	go m.sweep()
	return m
}

// Close stops the background sweep. Safe to call more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

// sweep removes expired sessions periodically.
func (m *Manager) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.ttl)
			m.mu.Lock()
			for id, st := range m.sessions {
				if st.lastSeen.Before(cutoff) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Create starts a new session with a fresh ID.
func (m *Manager) Create() *State {
	st := &State{
		ID:       uuid.NewString(),
		lastSeen: time.Now(),
	}
	m.mu.Lock()
	m.sessions[st.ID] = st
	m.mu.Unlock()
	return st
}

// Get returns the session for an ID and marks it active. The second return
// is false when the session is unknown or has expired.
func (m *Manager) Get(id string) (*State, bool) {
	m.mu.RLock()
	st, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}

	m.mu.Lock()
	if time.Since(st.lastSeen) > m.ttl {
		delete(m.sessions, id)
		m.mu.Unlock()
		return nil, false
	}
	st.lastSeen = time.Now()
	m.mu.Unlock()
	return st, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
