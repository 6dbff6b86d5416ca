// Package character defines the character domain model, its combat state,
// and level progression.
package character

import (
	"slices"
	"time"
)

// Starting stats of a freshly created character.
const (
	StartingHP = 100
	StartingMP = 30
)

// ItemStack is a quantity of one item held by a character.
type ItemStack struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"qty"`
}

// Character represents a player character's state.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
//
// Invariant: 0 <= HP <= MaxHP outside of combat resolution; Combat is nil
// or exactly one active combat.
type Character struct {
	ID int64

	Name  string
	JobID string
	Level int
	Exp   int

	HP    int
	MaxHP int
	MP    int
	MaxMP int
	Gold  int

	Location string // current map ID
	X, Y     int

	Skills []string
	Items  []ItemStack

	IsAdmin bool
	Banned  bool

	// Combat is in-memory only and is never persisted.
	Combat CombatState

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSkill reports whether the character has learned skillID.
func (c *Character) HasSkill(skillID string) bool {
	return slices.Contains(c.Skills, skillID)
}

// Learn adds skillID to the learned set.
//
// Postcondition: returns true if skillID was newly learned.
func (c *Character) Learn(skillID string) bool {
	if c.HasSkill(skillID) {
		return false
	}
	c.Skills = append(c.Skills, skillID)
	return true
}

// AddItem adds qty of itemID to the character's items, merging stacks.
//
// Precondition: qty > 0.
func (c *Character) AddItem(itemID string, qty int) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, ItemStack{ItemID: itemID, Quantity: qty})
}

// ClampHP restores the invariant 0 <= HP <= MaxHP.
func (c *Character) ClampHP() {
	c.HP = max(0, min(c.HP, c.MaxHP))
}

// Heal restores up to amount hp, clamped to MaxHP.
//
// Postcondition: returns the hp actually restored.
func (c *Character) Heal(amount int) int {
	before := c.HP
	c.HP = min(c.MaxHP, c.HP+amount)
	return max(0, c.HP-before)
}

// Revive sets HP to frac of MaxHP, rounded down.
func (c *Character) Revive(frac float64) {
	c.HP = int(float64(c.MaxHP) * frac)
}

// DisplayHP returns HP floored at zero for messages.
func (c *Character) DisplayHP() int {
	return max(0, c.HP)
}

// InCombat reports whether the character holds any combat state.
func (c *Character) InCombat() bool {
	return c.Combat != nil
}

// Clone returns a deep copy of c suitable for a persistence snapshot.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Skills = slices.Clone(c.Skills)
	cp.Items = slices.Clone(c.Items)
	if c.Combat != nil {
		cp.Combat = c.Combat.clone()
	}
	return &cp
}
