package npc

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/dice"
)

const (
	// DefaultMaxMonsters caps a map's live population when its config leaves it unset.
	DefaultMaxMonsters = 6
	// SpawnChance is the probability that Ensure spawns when under the cap.
	SpawnChance = 0.4

	placementTries = 100
)

// Terrain answers grid questions for the spawner.
type Terrain interface {
	// IsWalkable reports whether (x, y) on mapID can be stood on.
	IsWalkable(mapID string, x, y int) bool
	// Size returns the grid dimensions of mapID; ok is false for maps without a grid.
	Size(mapID string) (w, h int, ok bool)
}

// OccupiedFunc reports whether a player stands at (x, y) on mapID.
type OccupiedFunc func(mapID string, x, y int) bool

// SpawnEntry is one weighted monster choice of a map.
type SpawnEntry struct {
	TemplateID string
	// Rate is the relative weight; zero is treated as 1.
	Rate float64
}

// MapSpawn is the spawning configuration of one map.
//
// Invariant: MaxMonsters >= 1 once configured.
type MapSpawn struct {
	MaxMonsters int
	Entries     []SpawnEntry
}

// Spawner keeps configured maps populated with monsters.
// It is safe for concurrent use.
type Spawner struct {
	mu        sync.Mutex
	mgr       *Manager
	templates map[string]*Template
	spawns    map[string]MapSpawn
	terrain   Terrain
	occupied  OccupiedFunc
	src       dice.Source
	logger    *zap.Logger
}

// NewSpawner creates a Spawner placing monsters from templates into mgr.
//
// Precondition: mgr, terrain, src and logger must be non-nil. occupied may be nil.
// Postcondition: Returns a Spawner with no maps configured.
func NewSpawner(mgr *Manager, templates []*Template, terrain Terrain, occupied OccupiedFunc, src dice.Source, logger *zap.Logger) *Spawner {
	byID := make(map[string]*Template, len(templates))
	for _, t := range templates {
		byID[t.ID] = t
	}
	if occupied == nil {
		occupied = func(string, int, int) bool { return false }
	}
	return &Spawner{
		mgr:       mgr,
		templates: byID,
		spawns:    make(map[string]MapSpawn),
		terrain:   terrain,
		occupied:  occupied,
		src:       src,
		logger:    logger,
	}
}

// Configure installs the spawning configuration for mapID, replacing any prior one.
//
// Postcondition: cfg.MaxMonsters defaults to DefaultMaxMonsters; zero rates become 1.
func (s *Spawner) Configure(mapID string, cfg MapSpawn) {
	if cfg.MaxMonsters <= 0 {
		cfg.MaxMonsters = DefaultMaxMonsters
	}
	entries := make([]SpawnEntry, len(cfg.Entries))
	for i, e := range cfg.Entries {
		if e.Rate <= 0 {
			e.Rate = 1
		}
		entries[i] = e
	}
	cfg.Entries = entries

	s.mu.Lock()
	defer s.mu.Unlock()
	s.spawns[mapID] = cfg
}

// Ensure gives mapID a SpawnChance of gaining one monster when it is under
// its cap. The monster is placed on a random free walkable cell.
//
// Postcondition: Returns the spawned instance and true, or nil and false
// when nothing spawned.
func (s *Spawner) Ensure(mapID string) (*Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.spawns[mapID]
	if !ok || len(cfg.Entries) == 0 {
		return nil, false
	}
	if s.mgr.Count(mapID) >= cfg.MaxMonsters {
		return nil, false
	}
	if !dice.Chance(s.src, SpawnChance) {
		return nil, false
	}
	return s.spawnOne(mapID, cfg)
}

func (s *Spawner) spawnOne(mapID string, cfg MapSpawn) (*Instance, bool) {
	weights := make([]float64, len(cfg.Entries))
	for i, e := range cfg.Entries {
		weights[i] = e.Rate
	}
	idx := dice.Weighted(s.src, weights)
	if idx < 0 {
		return nil, false
	}
	tmpl, ok := s.templates[cfg.Entries[idx].TemplateID]
	if !ok {
		s.logger.Warn("spawn references unknown monster template",
			zap.String("map", mapID),
			zap.String("template", cfg.Entries[idx].TemplateID),
		)
		return nil, false
	}

	w, h, ok := s.terrain.Size(mapID)
	if !ok || w <= 0 || h <= 0 {
		return nil, false
	}
	for try := 0; try < placementTries; try++ {
		x, y := s.src.Intn(w), s.src.Intn(h)
		if !s.free(mapID, x, y) {
			continue
		}
		inst, err := s.mgr.Spawn(tmpl, mapID, x, y)
		if err != nil {
			s.logger.Error("spawning monster", zap.String("map", mapID), zap.Error(err))
			return nil, false
		}
		s.logger.Debug("monster spawned",
			zap.String("map", mapID),
			zap.String("monster", inst.Name),
			zap.Int("x", x),
			zap.Int("y", y),
		)
		return inst, true
	}
	return nil, false
}

func (s *Spawner) free(mapID string, x, y int) bool {
	return s.terrain.IsWalkable(mapID, x, y) &&
		!s.occupied(mapID, x, y) &&
		!s.mgr.OccupiedAt(mapID, x, y)
}
