package world

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Manager provides thread-safe access to the loaded maps.
type Manager struct {
	mu       sync.RWMutex
	maps     map[string]*Map
	startMap string
}

// NewManager creates a Manager from lobby.
//
// Precondition: lobby must be non-nil.
// Postcondition: Returns a Manager indexing every map by ID, or an error on
// duplicate map IDs or a start map that is not defined.
func NewManager(lobby *Lobby) (*Manager, error) {
	m := &Manager{
		maps:     make(map[string]*Map, len(lobby.Maps)),
		startMap: lobby.StartMap,
	}
	for _, mp := range lobby.Maps {
		if _, exists := m.maps[mp.ID]; exists {
			return nil, fmt.Errorf("duplicate map ID: %q", mp.ID)
		}
		m.maps[mp.ID] = mp
	}
	if _, ok := m.maps[m.startMap]; !ok {
		return nil, fmt.Errorf("start map %q is not defined", m.startMap)
	}
	return m, nil
}

// StartMap returns the map ID new and defeated characters are placed on.
func (m *Manager) StartMap() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startMap
}

// Map returns the map with id.
//
// Postcondition: Returns (map, true) if found, or (nil, false) otherwise.
func (m *Manager) Map(id string) (*Map, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mp, ok := m.maps[id]
	return mp, ok
}

// IsWalkable reports whether (x, y) on mapID can be stood on. Unknown maps
// are not walkable.
func (m *Manager) IsWalkable(mapID string, x, y int) bool {
	mp, ok := m.Map(mapID)
	if !ok {
		return false
	}
	return mp.IsWalkable(x, y)
}

// Size returns the grid dimensions of mapID; ok is false for unknown maps and
// maps without a grid.
func (m *Manager) Size(mapID string) (w, h int, ok bool) {
	mp, found := m.Map(mapID)
	if !found {
		return 0, 0, false
	}
	return mp.Size()
}

// SpawnPoint returns the arrival cell of mapID, DefaultSpawn when unknown.
func (m *Manager) SpawnPoint(mapID string) Point {
	mp, ok := m.Map(mapID)
	if !ok {
		return DefaultSpawn
	}
	return mp.SpawnPoint()
}

// Describe returns the title and description lines of mapID.
//
// Postcondition: Returns a non-empty string.
func (m *Manager) Describe(mapID string) string {
	mp, ok := m.Map(mapID)
	if !ok {
		return "You stand somewhere that does not seem to exist."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s (%s) ===", mp.Name, mp.ID)
	if mp.Description != "" {
		b.WriteString("\n")
		b.WriteString(mp.Description)
	}
	return b.String()
}

// Dungeons returns every map with a dungeon, ordered by ID.
func (m *Manager) Dungeons() []*Map {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Map
	for _, mp := range m.maps {
		if mp.Dungeon != nil {
			out = append(out, mp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
