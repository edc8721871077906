package workspace

import (
	"sync"
	"time"
)

// Manager owns the open workspaces of this node, one per session at most.
type Manager struct {
	mu      sync.RWMutex
	byToken map[string]*Workspace
}

func NewManager() *Manager {
	return &Manager{byToken: make(map[string]*Workspace)}
}

// Get returns the open workspace for a session, or nil.
func (m *Manager) Get(tokenHash string) *Workspace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.byToken[tokenHash]
}

// GetOrCreate returns the session's workspace, opening a fresh draft when
// none exists.
func (m *Manager) GetOrCreate(tokenHash, sessionID string, now time.Time) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.byToken[tokenHash]; ok {
		return ws
	}
	ws := New(sessionID, tokenHash, now)
	m.byToken[tokenHash] = ws
	return ws
}

// Replace swaps in a workspace loaded from a committed PNR.
func (m *Manager) Replace(tokenHash string, ws *Workspace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byToken[tokenHash] = ws
}

// Drop removes a session's workspace. The caller is responsible for
// compensating any journaled inventory first.
func (m *Manager) Drop(tokenHash string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byToken, tokenHash)
}

// All snapshots the open workspaces; used by the expiry sweep.
func (m *Manager) All() []*Workspace {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Workspace, 0, len(m.byToken))
	for _, ws := range m.byToken {
		out = append(out, ws)
	}
	return out
}
