package npc

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager tracks the live monsters standing on each map.
// All methods are safe for concurrent use.
type Manager struct {
	mu   sync.RWMutex
	maps map[string][]*Instance // mapID → live instances
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{maps: make(map[string][]*Instance)}
}

// Spawn creates a new Instance from tmpl and places it at (x, y) on mapID.
//
// Precondition: tmpl must be non-nil; mapID must be non-empty.
// Postcondition: Returns a new Instance with a unique ID listed on mapID.
func (m *Manager) Spawn(tmpl *Template, mapID string, x, y int) (*Instance, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("npc.Manager.Spawn: tmpl must not be nil")
	}
	if mapID == "" {
		return nil, fmt.Errorf("npc.Manager.Spawn: mapID must not be empty")
	}
	inst := NewInstance(uuid.NewString(), tmpl, mapID, x, y)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.maps[mapID] = append(m.maps[mapID], inst)
	return inst, nil
}

// RemoveAt detaches and returns the first monster standing at (x, y) on mapID.
//
// Postcondition: Returns (inst, true) and inst is no longer listed on the
// map, or (nil, false) if the cell holds no monster.
func (m *Manager) RemoveAt(mapID string, x, y int) (*Instance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.maps[mapID]
	for i, inst := range list {
		if inst.X != x || inst.Y != y {
			continue
		}
		m.maps[mapID] = append(list[:i:i], list[i+1:]...)
		if len(m.maps[mapID]) == 0 {
			delete(m.maps, mapID)
		}
		return inst, true
	}
	return nil, false
}

// ListAt returns copies of the monsters standing at (x, y) on mapID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) ListAt(mapID string, x, y int) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []*Instance{}
	for _, inst := range m.maps[mapID] {
		if inst.X == x && inst.Y == y {
			out = append(out, inst.Detach())
		}
	}
	return out
}

// InMap returns copies of every monster on mapID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) InMap(mapID string) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Instance, 0, len(m.maps[mapID]))
	for _, inst := range m.maps[mapID] {
		out = append(out, inst.Detach())
	}
	return out
}

// Count returns the number of monsters on mapID.
func (m *Manager) Count(mapID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.maps[mapID])
}

// OccupiedAt reports whether a monster stands at (x, y) on mapID.
func (m *Manager) OccupiedAt(mapID string, x, y int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, inst := range m.maps[mapID] {
		if inst.X == x && inst.Y == y {
			return true
		}
	}
	return false
}
