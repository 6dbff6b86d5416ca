package combat

import (
	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
)

// Attack performs actor's plain attack in its current combat.
func (e *Engine) Attack(actor string) []Notice {
	s, ok := e.acquire(actor)
	if !ok {
		return e.unavailable(actor)
	}
	defer s.unlock()
	return e.act(s, nil)
}

// UseSkill uses skillID. Heals may be used at any time, optionally on the
// named character; every other skill acts in actor's current combat.
//
// Postcondition: MP is spent only when the skill takes effect.
func (e *Engine) UseSkill(actor, skillID, target string) []Notice {
	sk, ok := e.skills.Skill(skillID)
	if !ok {
		return one(actor, CategoryWarning, "There is no skill called %q.", skillID)
	}
	if sk.IsHeal() {
		return e.heal(actor, sk, target)
	}

	s, ok := e.acquire(actor)
	if !ok {
		return e.unavailable(actor)
	}
	defer s.unlock()
	if msg, ok := canUse(s.actor, sk); !ok {
		return one(actor, CategoryWarning, "%s", msg)
	}
	if unknown, ok := sk.Effect.(skill.Unknown); ok {
		return one(actor, CategoryInfo, "The %s effect is not yet implemented.", unknown.Name)
	}
	return e.act(s, sk)
}

func canUse(c *character.Character, sk *skill.Skill) (string, bool) {
	if !c.HasSkill(sk.ID) {
		return "You have not learned " + sk.Name + ".", false
	}
	if c.MP < sk.MPCost {
		return "You do not have enough MP for " + sk.Name + ".", false
	}
	return "", true
}

// act dispatches one combat action. A nil sk is a plain attack.
func (e *Engine) act(s scope, sk *skill.Skill) []Notice {
	switch st := s.actor.Combat.(type) {
	case *character.PvEState:
		return e.pveAction(s.actor, st, sk)
	case *character.PvPState:
		return e.pvpAction(s, st, sk)
	default:
		return one(s.actor.Name, CategoryWarning, "You are not in combat.")
	}
}

// resolve performs the action itself: a plain attack or a paid skill.
// Both combat kinds share it; only the turn framing around it differs.
func (e *Engine) resolve(f *fight, sk *skill.Skill) {
	if sk == nil {
		e.plainAttack(f)
		return
	}
	f.actor.MP -= sk.MPCost
	f.n.add(f.actor.Name, CategoryInfo, "You use %s. %s", sk.Name, sk.Text())
	f.n.add(f.foe.recipient, CategoryInfo, "%s uses %s.", f.actor.Name, sk.Name)
	e.applyEffect(f, sk)
}

// slowed performs the skip check for a slowed side. The slow entry decays on
// every check, skipped or not.
func (e *Engine) slowed(l *condition.Ledger) bool {
	entry, ok := l.Get(condition.Slow)
	if !ok {
		return false
	}
	skip := Evades(entry.Chance, e.src)
	l.Decrement(condition.Slow)
	return skip
}

// tickDoT applies one tick of damage over time to hp.
//
// Postcondition: returns the damage dealt, 0 without an active entry.
func tickDoT(l *condition.Ledger, hp *int) int {
	dmg := l.Magnitude(condition.DamageOverTime)
	if !l.Has(condition.DamageOverTime) {
		return 0
	}
	*hp -= dmg
	l.Decrement(condition.DamageOverTime)
	return dmg
}

// heal resolves a healing skill on actor or the named target. It never
// touches combat turns.
func (e *Engine) heal(actor string, sk *skill.Skill, target string) []Notice {
	held, unlock := e.roster.Lock(actor, target)
	defer unlock()

	c, ok := held.Get(actor)
	if !ok {
		return one(actor, CategoryWarning, "You are not in the world.")
	}
	if msg, ok := canUse(c, sk); !ok {
		return one(actor, CategoryWarning, "%s", msg)
	}
	recipient := c
	if t, found := held.Get(target); found && target != "" {
		recipient = t
	}

	amount := skill.DefaultHealAmount
	if h, ok := sk.Effect.(skill.Heal); ok {
		amount = h.Amount
	}
	c.MP -= sk.MPCost
	healed := recipient.Heal(amount)

	var n notices
	if recipient == c {
		n.add(actor, CategoryHeal, "You use %s and recover %d HP. (%d/%d)", sk.Name, healed, c.HP, c.MaxHP)
	} else {
		n.add(actor, CategoryHeal, "You use %s on %s, restoring %d HP.", sk.Name, recipient.Name, healed)
		n.add(recipient.Name, CategoryHeal, "%s heals you for %d HP. (%d/%d)", actor, healed, recipient.HP, recipient.MaxHP)
		e.persist.Enqueue(recipient)
	}
	e.persist.Enqueue(c)
	return n.list
}
