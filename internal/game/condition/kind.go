// Package condition tracks the timed combat modifiers attached to one side
// of an encounter: attack and defense modifiers, evasion, damage over time,
// and slow.
package condition

// Kind identifies a ledger entry. A ledger holds at most one entry per kind.
type Kind int

const (
	// AttackModifier adds Magnitude to the owner's attack.
	AttackModifier Kind = iota
	// DefenseModifier adds Magnitude to the owner's defense.
	DefenseModifier
	// Evasion adds Chance to the owner's base evasion.
	Evasion
	// DamageOverTime deals Magnitude damage to the owner each tick.
	DamageOverTime
	// Slow gives the owner a Chance to lose each turn attempt.
	Slow
)

var kindNames = [...]string{
	AttackModifier:  "attack_modifier",
	DefenseModifier: "defense_modifier",
	Evasion:         "evasion",
	DamageOverTime:  "damage_over_time",
	Slow:            "slow",
}

// String returns the snake_case name of k.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}
