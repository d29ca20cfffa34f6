package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tomz197/railshooter/internal/parts"
)

// Memory keeps everything in process. It is shared by every session of a
// server and is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	parts map[string]parts.State
	best  map[string]int
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		parts: make(map[string]parts.State),
		best:  make(map[string]int),
	}
}

func (m *Memory) LoadParts(_ context.Context, profile string) (parts.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.parts[profile]
	if !ok {
		return parts.State{}, false, nil
	}
	return copyState(s), true, nil
}

func (m *Memory) SaveParts(_ context.Context, profile string, s parts.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parts[profile] = copyState(s)
	return nil
}

func (m *Memory) Submit(_ context.Context, profile string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if best, ok := m.best[profile]; !ok || score > best {
		m.best[profile] = score
	}
	return nil
}

func (m *Memory) Top(_ context.Context, n int) ([]LeaderboardEntry, error) {
	m.mu.RLock()
	entries := make([]LeaderboardEntry, 0, len(m.best))
	for p, s := range m.best {
		entries = append(entries, LeaderboardEntry{Profile: p, Score: s})
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Profile < entries[j].Profile
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func (m *Memory) Close() error { return nil }

var _ Backend = (*Memory)(nil)
