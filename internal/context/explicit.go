// Package context manages explicit, user-pinned context — chunks with
// priority and focus scope — and fuses it with auto-retrieved results
// under a token budget.
package context

import (
	"strings"
	"sync"
	"time"

	"testmind/internal/budget"
	"testmind/internal/model"
)

const (
	defaultFilePriority     = 5
	defaultFunctionPriority = 7
)

// Manager owns the session-scoped pinned-chunk map and focus scope,
// guarding its maps with a mutex so a session can be shared across
// concurrent callers.
type Manager struct {
	mu      sync.RWMutex
	pinned  map[string]model.PinnedChunk
	focus   []string
	nowFunc func() time.Time
}

// NewManager builds an empty Explicit Context Manager.
func NewManager() *Manager {
	return &Manager{pinned: map[string]model.PinnedChunk{}, nowFunc: time.Now}
}

// AddFile pins every chunk in chunks with the given reason and priority;
// a priority <= 0 means the default file priority.
func (m *Manager) AddFile(chunks []model.CodeChunk, reason string, priority int) {
	if priority <= 0 {
		priority = defaultFilePriority
	}
	m.addChunks(chunks, reason, priority)
}

// AddFunction pins chunks at the default (higher) function priority.
func (m *Manager) AddFunction(chunks []model.CodeChunk, reason string, priority int) {
	if priority <= 0 {
		priority = defaultFunctionPriority
	}
	m.addChunks(chunks, reason, priority)
}

func (m *Manager) addChunks(chunks []model.CodeChunk, reason string, priority int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range chunks {
		m.pinned[c.ID] = model.PinnedChunk{
			Chunk:    c,
			AddedAt:  m.nowFunc(),
			Reason:   reason,
			Priority: priority,
		}
	}
}

// RemoveFile removes every pinned chunk whose FilePath matches path.
func (m *Manager) RemoveFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, pc := range m.pinned {
		if pc.Chunk.FilePath == path {
			delete(m.pinned, id)
		}
	}
}

// SetFocus replaces the focus scope wholesale.
func (m *Manager) SetFocus(paths []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focus = append([]string(nil), paths...)
}

// AddToFocus appends paths to the focus scope.
func (m *Manager) AddToFocus(paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.focus = append(m.focus, paths...)
}

// RemoveFromFocus removes paths from the focus scope.
func (m *Manager) RemoveFromFocus(paths ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	remove := map[string]bool{}
	for _, p := range paths {
		remove[p] = true
	}
	var kept []string
	for _, p := range m.focus {
		if !remove[p] {
			kept = append(kept, p)
		}
	}
	m.focus = kept
}

// IsInFocus reports whether path is within the current focus scope: an
// empty scope matches everything; otherwise some scope entry must equal
// path or be an ancestor directory.
func (m *Manager) IsInFocus(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return isInFocus(path, m.focus)
}

func isInFocus(path string, focus []string) bool {
	if len(focus) == 0 {
		return true
	}
	for _, scope := range focus {
		if path == scope || strings.HasPrefix(path, scope+"/") {
			return true
		}
	}
	return false
}

// GetPinnedChunks returns the pinned chunks ordered by priority
// descending, ties broken by AddedAt ascending.
func (m *Manager) GetPinnedChunks() []model.PinnedChunk {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PinnedChunk, 0, len(m.pinned))
	for _, pc := range m.pinned {
		out = append(out, pc)
	}
	sortPinned(out)
	return out
}

func sortPinned(chunks []model.PinnedChunk) {
	for i := 1; i < len(chunks); i++ {
		for j := i; j > 0 && less(chunks[j], chunks[j-1]); j-- {
			chunks[j], chunks[j-1] = chunks[j-1], chunks[j]
		}
	}
}

func less(a, b model.PinnedChunk) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.AddedAt.Before(b.AddedAt)
}

// EstimatedTokens returns sum(ceil(len(content)/4)) across every
// pinned chunk.
func (m *Manager) EstimatedTokens() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, pc := range m.pinned {
		total += budget.EstimateTokens(pc.Chunk.Content)
	}
	return total
}

// GetCurrentContext returns the manager's current snapshot.
func (m *Manager) GetCurrentContext() model.ContextSnapshot {
	m.mu.RLock()
	focus := append([]string(nil), m.focus...)
	m.mu.RUnlock()
	return model.ContextSnapshot{
		PinnedChunks:    m.GetPinnedChunks(),
		FocusScope:      focus,
		EstimatedTokens: m.EstimatedTokens(),
		Timestamp:       m.nowFunc(),
	}
}
