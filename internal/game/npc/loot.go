package npc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/duelcore/internal/game/dice"
)

// GoldRange is the inclusive range of gold a monster yields on defeat.
type GoldRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Validate checks 0 <= Min <= Max.
func (g GoldRange) Validate() error {
	if g.Min < 0 {
		return fmt.Errorf("gold min must be >= 0, got %d", g.Min)
	}
	if g.Min > g.Max {
		return fmt.Errorf("gold min (%d) must be <= max (%d)", g.Min, g.Max)
	}
	return nil
}

// ItemDrop is one loot-table entry, rolled independently of the others.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// Validate checks the drop's invariants.
func (d ItemDrop) Validate() error {
	if d.ItemID == "" {
		return fmt.Errorf("item id must not be empty")
	}
	if d.Chance <= 0 || d.Chance > 1.0 {
		return fmt.Errorf("chance must be in (0, 1.0], got %f", d.Chance)
	}
	if d.MinQty < 1 {
		return fmt.Errorf("min_qty must be >= 1, got %d", d.MinQty)
	}
	if d.MinQty > d.MaxQty {
		return fmt.Errorf("min_qty (%d) must be <= max_qty (%d)", d.MinQty, d.MaxQty)
	}
	return nil
}

// LootItem is a single item produced by a loot roll.
type LootItem struct {
	ItemID     string
	InstanceID string
	Quantity   int
}

// RollGold returns a uniform amount in [g.Min, g.Max].
//
// Precondition: g must have passed Validate; src must be non-nil.
// Postcondition: g.Min <= result <= g.Max.
func RollGold(g GoldRange, src dice.Source) int {
	return dice.Between(src, g.Min, g.Max)
}

// RollLoot rolls every drop independently against its chance.
//
// Precondition: every drop must have passed Validate; src must be non-nil.
// Postcondition: each returned item's Quantity is in [MinQty, MaxQty] of its drop.
func RollLoot(drops []ItemDrop, src dice.Source) []LootItem {
	var out []LootItem
	for _, d := range drops {
		if !dice.Chance(src, d.Chance) {
			continue
		}
		out = append(out, LootItem{
			ItemID:     d.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   dice.Between(src, d.MinQty, d.MaxQty),
		})
	}
	return out
}
