// Package world provides the game world model: maps, their walkable grids,
// spawn points, and monster dungeons.
package world

import (
	"fmt"
	"strings"
)

// Wall is the grid cell that can never be walked on.
const Wall = '#'

// Direction is a one-cell movement on a map grid.
type Direction string

// Grid movement directions. Up decreases Y.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// ParseDirection accepts a direction name or its w/a/s/d key.
//
// Postcondition: Returns the direction and true, or "" and false.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, true
	case "down", "s":
		return Down, true
	case "left", "a":
		return Left, true
	case "right", "d":
		return Right, true
	default:
		return "", false
	}
}

// Delta returns the (dx, dy) offset of d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// Point is a grid cell.
type Point struct {
	X int
	Y int
}

// DefaultSpawn is used for maps that declare no spawn point.
var DefaultSpawn = Point{X: 1, Y: 1}

// DungeonMonster is a weighted monster choice of a dungeon.
type DungeonMonster struct {
	TemplateID string
	Rate       float64
}

// Dungeon configures monster spawning on a map.
type Dungeon struct {
	// MaxMonsters caps the live population; zero means the spawner default.
	MaxMonsters int
	Monsters    []DungeonMonster
}

// Map is a named location with an optional walkable grid.
type Map struct {
	ID          string
	Name        string
	Description string
	// Grid rows are strings of equal width; nil means every cell is walkable.
	Grid []string
	// Spawn is where characters arrive; nil means DefaultSpawn.
	Spawn   *Point
	Dungeon *Dungeon
}

// Validate checks that the map has an ID and a rectangular grid.
//
// Postcondition: Returns nil if valid, or an error naming the first violation.
func (m *Map) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("map ID must not be empty")
	}
	if m.Name == "" {
		return fmt.Errorf("map %q: name must not be empty", m.ID)
	}
	for i, row := range m.Grid {
		if len(row) != len(m.Grid[0]) {
			return fmt.Errorf("map %q: grid row %d has width %d, want %d", m.ID, i, len(row), len(m.Grid[0]))
		}
	}
	if m.Spawn != nil && len(m.Grid) > 0 && !m.IsWalkable(m.Spawn.X, m.Spawn.Y) {
		return fmt.Errorf("map %q: spawn (%d,%d) is not walkable", m.ID, m.Spawn.X, m.Spawn.Y)
	}
	if m.Dungeon != nil {
		for i, dm := range m.Dungeon.Monsters {
			if dm.TemplateID == "" {
				return fmt.Errorf("map %q: dungeon monster %d has no id", m.ID, i)
			}
			if dm.Rate < 0 {
				return fmt.Errorf("map %q: dungeon monster %q has negative rate", m.ID, dm.TemplateID)
			}
		}
	}
	return nil
}

// Size returns the grid dimensions; ok is false for a map without a grid.
func (m *Map) Size() (w, h int, ok bool) {
	if len(m.Grid) == 0 {
		return 0, 0, false
	}
	return len(m.Grid[0]), len(m.Grid), true
}

// IsWalkable reports whether (x, y) can be stood on. A map without a grid is
// walkable everywhere; out-of-bounds cells and walls are not.
func (m *Map) IsWalkable(x, y int) bool {
	w, h, ok := m.Size()
	if !ok {
		return true
	}
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return m.Grid[y][x] != Wall
}

// SpawnPoint returns the map's arrival cell.
func (m *Map) SpawnPoint() Point {
	if m.Spawn == nil {
		return DefaultSpawn
	}
	return *m.Spawn
}
