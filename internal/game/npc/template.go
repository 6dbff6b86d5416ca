// Package npc provides monster template definitions, live monster instances
// per map, spawning, and loot rolls.
package npc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template defines a reusable monster archetype loaded from YAML.
type Template struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	BaseHP      int        `yaml:"base_hp"`
	Attack      int        `yaml:"attack"`
	Exp         int        `yaml:"exp"`
	Gold        GoldRange  `yaml:"gold"`
	Drops       []ItemDrop `yaml:"drops"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, BaseHP >= 1,
// Attack >= 0, Exp >= 0, and the gold range and drops are valid.
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("npc template: id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("npc template %q: name must not be empty", t.ID)
	}
	if t.BaseHP < 1 {
		return fmt.Errorf("npc template %q: base_hp must be >= 1", t.ID)
	}
	if t.Attack < 0 {
		return fmt.Errorf("npc template %q: attack must be >= 0", t.ID)
	}
	if t.Exp < 0 {
		return fmt.Errorf("npc template %q: exp must be >= 0", t.ID)
	}
	if err := t.Gold.Validate(); err != nil {
		return fmt.Errorf("npc template %q: %w", t.ID, err)
	}
	for i, d := range t.Drops {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("npc template %q: drop[%d]: %w", t.ID, i, err)
		}
	}
	return nil
}

// LoadTemplateFromBytes parses a single monster template from raw YAML bytes.
// Drops without quantities default to exactly one item.
//
// Precondition: data must be valid YAML for a single Template.
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	for i := range tmpl.Drops {
		if tmpl.Drops[i].MinQty == 0 {
			tmpl.Drops[i].MinQty = 1
		}
		if tmpl.Drops[i].MaxQty == 0 {
			tmpl.Drops[i].MaxQty = tmpl.Drops[i].MinQty
		}
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure; on error, the partial result is discarded.
func LoadTemplates(dir string) ([]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}
