// Package roster is the concurrency-safe store of live characters. Each
// character has its own mutex; operations touching several characters lock
// them in lexicographic name order.
package roster

import (
	"fmt"
	"slices"
	"sync"

	"github.com/cory-johannsen/duelcore/internal/game/character"
)

type entry struct {
	mu      sync.Mutex
	char    *character.Character
	removed bool
}

type position struct {
	x, y int
}

// Manager tracks live characters by name and their map positions.
// All methods are safe for concurrent use.
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry
	mapSets map[string]map[string]position // mapID → name → position
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		entries: make(map[string]*entry),
		mapSets: make(map[string]map[string]position),
	}
}

// Add registers c and indexes its position.
//
// Precondition: c must be non-nil with a non-empty Name.
// Postcondition: Returns an error if a character with the same name is registered.
func (m *Manager) Add(c *character.Character) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[c.Name]; exists {
		return fmt.Errorf("character %q already registered", c.Name)
	}
	m.entries[c.Name] = &entry{char: c}
	m.placeLocked(c.Name, c.Location, c.X, c.Y)
	return nil
}

// Remove unregisters name, waiting for any holder of its lock to finish.
//
// Postcondition: returns true if name was registered.
func (m *Manager) Remove(name string) bool {
	m.mu.RLock()
	e, ok := m.entries[name]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return false
	}
	e.removed = true

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	m.unplaceLocked(name)
	return true
}

// Exists reports whether name is registered.
func (m *Manager) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[name]
	return ok
}

// Names returns every registered name in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.entries))
	for name := range m.entries {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Locked is the set of characters held by one Lock call.
type Locked struct {
	chars map[string]*character.Character
}

// Get returns the held character for name. Names that were not registered
// when Lock ran are absent.
func (l *Locked) Get(name string) (*character.Character, bool) {
	c, ok := l.chars[name]
	return c, ok
}

// Lock acquires the locks of every named character in lexicographic order,
// skipping duplicates and unregistered names. The returned func releases them.
//
// Postcondition: until unlock is called no other Lock caller holds any of the
// returned characters.
func (m *Manager) Lock(names ...string) (*Locked, func()) {
	sorted := slices.Clone(names)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	m.mu.RLock()
	held := make([]*entry, 0, len(sorted))
	for _, name := range sorted {
		if e, ok := m.entries[name]; ok {
			held = append(held, e)
		}
	}
	m.mu.RUnlock()

	locked := &Locked{chars: make(map[string]*character.Character, len(held))}
	for _, e := range held {
		e.mu.Lock()
		if !e.removed {
			locked.chars[e.char.Name] = e.char
		}
	}
	return locked, func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
		}
	}
}

// Place records that name stands at (x, y) on mapID.
//
// Precondition: the caller holds name's lock.
func (m *Manager) Place(name, mapID string, x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[name]; !ok {
		return
	}
	m.unplaceLocked(name)
	m.placeLocked(name, mapID, x, y)
}

// Occupied reports whether any character stands at (x, y) on mapID.
// It takes no character locks.
func (m *Manager) Occupied(mapID string, x, y int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.mapSets[mapID] {
		if p.x == x && p.y == y {
			return true
		}
	}
	return false
}

// InMap returns the sorted names of characters on mapID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) InMap(mapID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.mapSets[mapID]))
	for name := range m.mapSets[mapID] {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (m *Manager) placeLocked(name, mapID string, x, y int) {
	if m.mapSets[mapID] == nil {
		m.mapSets[mapID] = make(map[string]position)
	}
	m.mapSets[mapID][name] = position{x: x, y: y}
}

func (m *Manager) unplaceLocked(name string) {
	for mapID, set := range m.mapSets {
		if _, ok := set[name]; ok {
			delete(set, name)
			if len(set) == 0 {
				delete(m.mapSets, mapID)
			}
			return
		}
	}
}
