// Package skill holds the immutable skill definitions consulted by combat.
package skill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// BaseSkillID is the skill every character always knows.
const BaseSkillID = "smash"

// Unlock lists the requirements for automatically learning a skill.
// An empty RequiredJob admits every job.
type Unlock struct {
	RequiredJob string `yaml:"required_job"`
	MinLevel    int    `yaml:"min_level"`
}

// Skill is an immutable skill definition.
type Skill struct {
	ID         string
	Name       string
	EffectText string
	MPCost     int
	Unlock     Unlock
	Effect     Effect
}

// Text returns the flavour text shown when the skill is used, falling back to its name.
func (s *Skill) Text() string {
	if s.EffectText != "" {
		return s.EffectText
	}
	return s.Name
}

// IsHeal reports whether the skill heals. Heals are legal outside combat and
// never consume a turn.
func (s *Skill) IsHeal() bool {
	_, ok := s.Effect.(Heal)
	return ok
}

type yamlSkill struct {
	ID         string     `yaml:"id"`
	Name       string     `yaml:"name"`
	EffectText string     `yaml:"effect_text"`
	MPCost     int        `yaml:"mp_cost"`
	Unlock     Unlock     `yaml:"unlock"`
	Effect     Descriptor `yaml:"effect"`
}

func convertYAMLSkill(ys yamlSkill) (*Skill, error) {
	if ys.ID == "" {
		return nil, fmt.Errorf("skill: id must not be empty")
	}
	if ys.Name == "" {
		return nil, fmt.Errorf("skill %q: name must not be empty", ys.ID)
	}
	if ys.MPCost < 0 {
		return nil, fmt.Errorf("skill %q: mp_cost must be >= 0, got %d", ys.ID, ys.MPCost)
	}
	if err := ys.Effect.Validate(); err != nil {
		return nil, fmt.Errorf("skill %q: effect: %w", ys.ID, err)
	}
	return &Skill{
		ID:         ys.ID,
		Name:       ys.Name,
		EffectText: ys.EffectText,
		MPCost:     ys.MPCost,
		Unlock:     ys.Unlock,
		Effect:     ys.Effect.Decode(),
	}, nil
}

// Registry holds all known skills keyed by ID. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]*Skill
}

// NewRegistry creates a registry containing skills.
func NewRegistry(skills ...*Skill) *Registry {
	r := &Registry{skills: make(map[string]*Skill)}
	for _, s := range skills {
		r.Register(s)
	}
	return r
}

// Register adds s, overwriting any existing entry with the same ID.
//
// Precondition: s must be non-nil with a non-empty ID and a non-nil Effect.
func (r *Registry) Register(s *Skill) {
	if s == nil || s.ID == "" || s.Effect == nil {
		panic("skill.Registry.Register: precondition violated: skill must be non-nil with an ID and effect")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skills[s.ID] = s
}

// Skill returns the skill for id, or (nil, false) if not found.
func (r *Registry) Skill(id string) (*Skill, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.skills[id]
	return s, ok
}

// All returns every registered skill ordered by ID.
func (r *Registry) All() []*Skill {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Skill, 0, len(r.skills))
	for _, s := range r.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Unlockable returns the skills a character of jobID at level qualifies for,
// ordered by ID.
func (r *Registry) Unlockable(jobID string, level int) []*Skill {
	var out []*Skill
	for _, s := range r.All() {
		if s.Unlock.RequiredJob != "" && s.Unlock.RequiredJob != jobID {
			continue
		}
		if level < s.Unlock.MinLevel {
			continue
		}
		out = append(out, s)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Skill,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading skill dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var ys yamlSkill
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&ys); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		s, err := convertYAMLSkill(ys)
		if err != nil {
			return nil, fmt.Errorf("validating %q: %w", path, err)
		}
		reg.Register(s)
	}
	return reg, nil
}
