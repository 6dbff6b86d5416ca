package combat

import "github.com/cory-johannsen/duelcore/internal/game/dice"

// Combat constants.
const (
	// PlayerAttack is the base attack of a player's strike and attack skills.
	PlayerAttack = 15
	// SacrificeAttack is the base attack of a sacrifice attack.
	SacrificeAttack = 20
	// ReviveFraction is the share of max hp restored on defeat or duel revival.
	ReviveFraction = 0.7
	// MaxEvasion caps any evasion probability.
	MaxEvasion = 0.9
)

// RollDamage returns max(1, attack - floor(defense/3)) plus a uniform 0-3.
//
// Precondition: src must be non-nil.
// Postcondition: 1 <= result <= max(1, attack-floor(defense/3)) + 3.
func RollDamage(attack, defense int, src dice.Source) int {
	return max(1, attack-floorDiv(defense, 3)) + src.Intn(4)
}

// EvasionChance combines a job's base evasion with an active bonus.
//
// Postcondition: 0 <= result <= MaxEvasion.
func EvasionChance(base, bonus float64) float64 {
	return max(0, min(MaxEvasion, base+bonus))
}

// Evades performs a single draw against chance. A zero chance draws nothing.
func Evades(chance float64, src dice.Source) bool {
	return dice.Chance(src, chance)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
