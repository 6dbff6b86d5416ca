package character

import (
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
)

// CombatState is the closed sum of combat kinds a character can be in:
// *PvEState or *PvPState.
type CombatState interface {
	clone() CombatState
}

// PvETurn names the side allowed to act in a PvE combat.
type PvETurn int

const (
	PlayerTurn PvETurn = iota
	MonsterTurn
)

// PvPTurn names the side allowed to act in a PvP combat, from the holder's view.
type PvPTurn int

const (
	SelfTurn PvPTurn = iota
	OpponentTurn
)

// PvEState is a combat against a monster. The monster is a detached copy
// owned by this state, never the instance listed on the map.
type PvEState struct {
	Monster *npc.Instance
	Turn    PvETurn
	// Player holds the player's own attack/defense buffs and evasion.
	Player *condition.Ledger
	// Foe holds debuffs, damage over time, and slow applied to the monster.
	Foe *condition.Ledger
}

// NewPvEState engages monster with the player to act first.
//
// Precondition: monster must be a detached instance.
func NewPvEState(monster *npc.Instance) *PvEState {
	return &PvEState{
		Monster: monster,
		Turn:    PlayerTurn,
		Player:  condition.NewLedger(),
		Foe:     condition.NewLedger(),
	}
}

func (s *PvEState) clone() CombatState {
	return &PvEState{
		Monster: s.Monster.Detach(),
		Turn:    s.Turn,
		Player:  s.Player.Clone(),
		Foe:     s.Foe.Clone(),
	}
}

// PvPState is one side of a duel. Each duelist holds its own state and
// references the other by name only.
type PvPState struct {
	Opponent string
	Turn     PvPTurn
	// Ledger holds this side's own buffs and evasion plus the damage over
	// time and slow inflicted on it.
	Ledger *condition.Ledger
}

// NewPvPState opens one side of a duel against opponent.
func NewPvPState(opponent string, turn PvPTurn) *PvPState {
	return &PvPState{Opponent: opponent, Turn: turn, Ledger: condition.NewLedger()}
}

func (s *PvPState) clone() CombatState {
	return &PvPState{Opponent: s.Opponent, Turn: s.Turn, Ledger: s.Ledger.Clone()}
}
