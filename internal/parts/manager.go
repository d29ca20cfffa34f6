package parts

import (
	"context"
	"errors"
	"fmt"
)

// Upgrade errors.
var (
	ErrUnknownPart       = errors.New("unknown part")
	ErrMaxLevel          = errors.New("part already at max level")
	ErrInsufficientFunds = errors.New("not enough score or cores")
)

// Store persists the economy state per profile.
type Store interface {
	// LoadParts returns the saved state; found is false when nothing was saved.
	LoadParts(ctx context.Context, profile string) (s State, found bool, err error)
	SaveParts(ctx context.Context, profile string, s State) error
}

// Manager owns one profile's currency and equipped part levels.
// It is not safe for concurrent use.
type Manager struct {
	catalog Catalog
	state   State
	store   Store
	profile string
}

// NewManager creates a manager with a fresh state. store may be nil, in which
// case Load and Save do nothing.
func NewManager(catalog Catalog, store Store, profile string) *Manager {
	return &Manager{
		catalog: catalog,
		state:   NewState(),
		store:   store,
		profile: profile,
	}
}

// Load replaces the state with the saved one. A profile with no saved state
// starts fresh.
func (m *Manager) Load(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	s, found, err := m.store.LoadParts(ctx, m.profile)
	if err != nil {
		return fmt.Errorf("parts: load %s: %w", m.profile, err)
	}
	if !found {
		m.state = NewState()
		return nil
	}
	if s.Equipped == nil {
		s.Equipped = map[string]int{}
	}
	m.state = s
	m.clampLevels()
	return nil
}

// Save writes the state to the store.
func (m *Manager) Save(ctx context.Context) error {
	if m.store == nil {
		return nil
	}
	if err := m.store.SaveParts(ctx, m.profile, m.state.clone()); err != nil {
		return fmt.Errorf("parts: save %s: %w", m.profile, err)
	}
	return nil
}

// Profile returns the profile name used for persistence.
func (m *Manager) Profile() string {
	return m.profile
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	return m.state.clone()
}

// Score returns the spendable score.
func (m *Manager) Score() int {
	return m.state.Score
}

// Cores returns the boss cores held.
func (m *Manager) Cores() int {
	return m.state.Cores
}

// AddScore adds spendable score.
func (m *Manager) AddScore(n int) {
	m.state.Score += n
}

// AddCores adds boss cores.
func (m *Manager) AddCores(n int) {
	m.state.Cores += n
}

// Parts returns the catalog in shop order.
func (m *Manager) Parts() Catalog {
	return m.catalog
}

// SetCatalog swaps the part definitions, keeping equipped levels but clamping
// them to the new level counts.
func (m *Manager) SetCatalog(c Catalog) {
	m.catalog = c
	m.clampLevels()
}

func (m *Manager) clampLevels() {
	for id, lvl := range m.state.Equipped {
		d, ok := m.catalog.Lookup(id)
		if !ok {
			continue
		}
		if lvl >= len(d.Levels) {
			m.state.Equipped[id] = len(d.Levels) - 1
		} else if lvl < 0 {
			m.state.Equipped[id] = 0
		}
	}
}

// Definition returns the definition of a part.
func (m *Manager) Definition(id string) (Definition, bool) {
	return m.catalog.Lookup(id)
}

// Level returns the equipped level of a part, 0 when never upgraded.
func (m *Manager) Level(id string) int {
	return m.state.Equipped[id]
}

// Stats returns the stat bundle of the part's current level.
func (m *Manager) Stats(id string) (map[string]float64, bool) {
	d, ok := m.catalog.Lookup(id)
	if !ok {
		return nil, false
	}
	lvl := m.Level(id)
	if lvl < 0 || lvl >= len(d.Levels) {
		return nil, false
	}
	return d.Levels[lvl].Stats, true
}

// Stat returns one stat of the part's current level.
func (m *Manager) Stat(id, stat string) (float64, bool) {
	stats, ok := m.Stats(id)
	if !ok {
		return 0, false
	}
	v, ok := stats[stat]
	return v, ok
}

// NextLevel returns the level an upgrade would buy.
func (m *Manager) NextLevel(id string) (Level, bool) {
	d, ok := m.catalog.Lookup(id)
	if !ok {
		return Level{}, false
	}
	next := m.Level(id) + 1
	if next >= len(d.Levels) {
		return Level{}, false
	}
	return d.Levels[next], true
}

// CanUpgrade reports whether the next level exists and is affordable.
func (m *Manager) CanUpgrade(id string) bool {
	next, ok := m.NextLevel(id)
	if !ok {
		return false
	}
	return m.state.Score >= next.Price && m.state.Cores >= next.CoreCost
}

// Upgrade buys the next level of a part.
func (m *Manager) Upgrade(id string) error {
	if _, ok := m.catalog.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPart, id)
	}
	next, ok := m.NextLevel(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMaxLevel, id)
	}
	if m.state.Score < next.Price || m.state.Cores < next.CoreCost {
		return fmt.Errorf("%w: %s needs %d score and %d cores", ErrInsufficientFunds, id, next.Price, next.CoreCost)
	}

	m.state.Score -= next.Price
	m.state.Cores -= next.CoreCost
	m.state.Equipped[id] = m.Level(id) + 1
	return nil
}

// Reset returns to the starting state.
func (m *Manager) Reset() {
	m.state = NewState()
}

// Loadout resolves the current stat bundle.
func (m *Manager) Loadout() Loadout {
	return ResolveLoadout(m)
}

var _ StatSource = (*Manager)(nil)
