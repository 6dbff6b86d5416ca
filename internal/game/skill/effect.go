package skill

import (
	"errors"
	"fmt"
	"strings"
)

// Effect is the closed set of skill effects. The unexported marker keeps
// every implementation inside this package so a type switch over Effect can
// be exhaustive.
type Effect interface {
	// Kind returns the descriptor kind the effect was decoded from.
	Kind() string
	isEffect()
}

// Effect defaults applied when a descriptor omits a field or sets it to zero.
const (
	DefaultHealAmount   = 25
	DefaultHPCost       = 10
	DefaultDuration     = 3
	DefaultHPPerTick    = 5
	DefaultEvasionTurns = 2
	DefaultChance       = 0.3
	DefaultSlowTurns    = 2
	DefaultMaxGold      = 10
)

// Heal restores Amount hp to the caster or a named character.
type Heal struct {
	Amount int
}

// Attack deals Damage to the opponent, or a rolled amount when Damage is zero.
type Attack struct {
	Damage int
}

// SacrificeAttack costs the caster HPCost hp, then deals Damage or a rolled
// amount when Damage is zero.
type SacrificeAttack struct {
	Damage int
	HPCost int
}

// Buff stacks attack and defense modifiers onto the caster.
type Buff struct {
	AttackModifier  int
	DefenseModifier int
	Turns           int
}

// Debuff stacks attack and defense modifiers onto the opponent.
type Debuff struct {
	AttackModifier  int
	DefenseModifier int
	Turns           int
}

// OverTime installs damage over time on the opponent, replacing any prior one.
type OverTime struct {
	HPPerTick int
	Turns     int
}

// EvasionBuff sets the caster's evasion bonus, replacing any prior one.
type EvasionBuff struct {
	Chance float64
	Turns  int
}

// SlowDebuff gives the opponent a chance to lose each turn attempt.
type SlowDebuff struct {
	SkipChance float64
	Turns      int
}

// Steal takes up to MaxGold gold.
type Steal struct {
	MaxGold int
}

// Unknown is a descriptor kind this build does not implement.
type Unknown struct {
	Name string
}

func (Heal) Kind() string            { return "heal" }
func (Attack) Kind() string          { return "attack" }
func (SacrificeAttack) Kind() string { return "sacrificeAttack" }
func (Buff) Kind() string            { return "buff" }
func (Debuff) Kind() string          { return "debuff" }
func (OverTime) Kind() string        { return "overTime" }
func (EvasionBuff) Kind() string     { return "evasionBuff" }
func (SlowDebuff) Kind() string      { return "slowDebuff" }
func (Steal) Kind() string           { return "steal" }
func (u Unknown) Kind() string       { return u.Name }

func (Heal) isEffect()            {}
func (Attack) isEffect()          {}
func (SacrificeAttack) isEffect() {}
func (Buff) isEffect()            {}
func (Debuff) isEffect()          {}
func (OverTime) isEffect()        {}
func (EvasionBuff) isEffect()     {}
func (SlowDebuff) isEffect()      {}
func (Steal) isEffect()           {}
func (Unknown) isEffect()         {}

// Descriptor is the data-file form of an effect.
type Descriptor struct {
	Kind            string  `yaml:"kind"`
	Value           int     `yaml:"value"`
	HPCost          int     `yaml:"hp_cost"`
	AttackModifier  int     `yaml:"attack_modifier"`
	DefenseModifier int     `yaml:"defense_modifier"`
	DurationTurns   int     `yaml:"duration_turns"`
	HPPerTick       int     `yaml:"hp_per_tick"`
	EvasionChance   float64 `yaml:"evasion_chance"`
	SkipTurnChance  float64 `yaml:"skip_turn_chance"`
	MaxGold         int     `yaml:"max_gold"`
}

// Validate rejects values no effect can use: negative amounts, durations
// or gold, and chances outside [0, 1]. Modifiers may take either sign.
//
// Postcondition: Returns nil or an error naming every bad field.
func (d Descriptor) Validate() error {
	var errs []string
	for _, f := range []struct {
		name string
		v    int
	}{
		{"value", d.Value},
		{"hp_cost", d.HPCost},
		{"duration_turns", d.DurationTurns},
		{"hp_per_tick", d.HPPerTick},
		{"max_gold", d.MaxGold},
	} {
		if f.v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0, got %d", f.name, f.v))
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"evasion_chance", d.EvasionChance},
		{"skip_turn_chance", d.SkipTurnChance},
	} {
		if f.v < 0 || f.v > 1 {
			errs = append(errs, fmt.Sprintf("%s must be in [0,1], got %v", f.name, f.v))
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Decode converts d to its Effect, filling defaults for zero fields.
// Unrecognised kinds decode to Unknown and are never an error.
func (d Descriptor) Decode() Effect {
	switch d.Kind {
	case "heal":
		return Heal{Amount: orInt(d.Value, DefaultHealAmount)}
	case "attack":
		return Attack{Damage: d.Value}
	case "sacrificeAttack":
		return SacrificeAttack{Damage: d.Value, HPCost: orInt(d.HPCost, DefaultHPCost)}
	case "buff":
		return Buff{
			AttackModifier:  d.AttackModifier,
			DefenseModifier: d.DefenseModifier,
			Turns:           orInt(d.DurationTurns, DefaultDuration),
		}
	case "debuff":
		return Debuff{
			AttackModifier:  d.AttackModifier,
			DefenseModifier: d.DefenseModifier,
			Turns:           orInt(d.DurationTurns, DefaultDuration),
		}
	case "overTime", "attackOverTime":
		return OverTime{
			HPPerTick: orInt(d.HPPerTick, DefaultHPPerTick),
			Turns:     orInt(d.DurationTurns, DefaultDuration),
		}
	case "evasionBuff":
		return EvasionBuff{
			Chance: orFloat(d.EvasionChance, DefaultChance),
			Turns:  orInt(d.DurationTurns, DefaultEvasionTurns),
		}
	case "slowDebuff":
		return SlowDebuff{
			SkipChance: orFloat(d.SkipTurnChance, DefaultChance),
			Turns:      orInt(d.DurationTurns, DefaultSlowTurns),
		}
	case "steal":
		return Steal{MaxGold: orInt(d.MaxGold, DefaultMaxGold)}
	default:
		return Unknown{Name: d.Kind}
	}
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orFloat(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
