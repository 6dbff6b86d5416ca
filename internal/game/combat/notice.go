package combat

import "fmt"

// Category classifies a Notice for presentation.
type Category string

// Notice categories.
const (
	CategoryInfo     Category = "info"
	CategoryWarning  Category = "warning"
	CategoryDamage   Category = "damage"
	CategoryHurt     Category = "hurt"
	CategoryHeal     Category = "heal"
	CategoryBuff     Category = "buff"
	CategoryDebuff   Category = "debuff"
	CategoryEvade    Category = "evade"
	CategoryLoot     Category = "loot"
	CategoryReward   Category = "reward"
	CategoryVictory  Category = "victory"
	CategoryDefeat   Category = "defeat"
	CategoryLocation Category = "location"
)

// Notice is one message for one character, produced in order by an engine
// operation. Delivering it is the caller's job.
type Notice struct {
	Recipient string
	Message   string
	Category  Category
}

type notices struct {
	list []Notice
}

func (n *notices) add(to string, cat Category, format string, args ...any) {
	if to == "" {
		return
	}
	n.list = append(n.list, Notice{Recipient: to, Message: fmt.Sprintf(format, args...), Category: cat})
}

// one builds a single-notice result.
func one(to string, cat Category, format string, args ...any) []Notice {
	var n notices
	n.add(to, cat, format, args...)
	return n.list
}
