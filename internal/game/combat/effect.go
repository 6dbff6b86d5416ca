package combat

import (
	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
)

// foe is the opposing side of one action.
type foe struct {
	name string
	// recipient is the opposing player's name; empty for monsters.
	recipient string
	hp        *int
	maxHP     int
	ledger    *condition.Ledger
	// evasion is the total evasion chance against plain attacks.
	evasion float64
	// gold caps steals; nil means steals are not taken from anyone.
	gold *int
}

// fight is the acting side's view of an engaged combat for one action.
type fight struct {
	actor *character.Character
	own   *condition.Ledger
	foe   foe
	n     *notices
}

// tell sends the same message to the actor and, in a duel, the opponent.
func (f *fight) tell(cat Category, actorMsg, foeMsg string) {
	f.n.add(f.actor.Name, cat, "%s", actorMsg)
	f.n.add(f.foe.recipient, cat, "%s", foeMsg)
}

// strike deals rolled damage from base attack plus the actor's attack
// modifier, against the foe's defense modifier.
func (e *Engine) strike(f *fight, base int) int {
	dmg := RollDamage(base+condition.AttackBonus(f.own), condition.DefenseBonus(f.foe.ledger), e.src)
	*f.foe.hp -= dmg
	return dmg
}

// plainAttack is a player's basic attack. It is subject to the foe's evasion.
func (e *Engine) plainAttack(f *fight) {
	if Evades(f.foe.evasion, e.src) {
		f.tell(CategoryEvade,
			f.foe.name+" evades your attack!",
			"You evade "+f.actor.Name+"'s attack!")
		return
	}
	dmg := e.strike(f, PlayerAttack)
	f.n.add(f.actor.Name, CategoryDamage, "You hit %s for %d damage.", f.foe.name, dmg)
	f.n.add(f.foe.recipient, CategoryHurt, "%s hits you for %d damage.", f.actor.Name, dmg)
}

// applyEffect resolves sk's effect within f.
//
// Precondition: the actor has already paid the skill's MP cost.
func (e *Engine) applyEffect(f *fight, sk *skill.Skill) {
	switch fx := sk.Effect.(type) {
	case skill.Heal:
		healed := f.actor.Heal(fx.Amount)
		f.n.add(f.actor.Name, CategoryHeal, "You recover %d HP. (%d/%d)", healed, f.actor.HP, f.actor.MaxHP)

	case skill.Attack:
		dmg := fx.Damage
		if dmg > 0 {
			*f.foe.hp -= dmg
		} else {
			dmg = e.strike(f, PlayerAttack)
		}
		f.n.add(f.actor.Name, CategoryDamage, "%s deals %d damage to %s.", sk.Name, dmg, f.foe.name)
		f.n.add(f.foe.recipient, CategoryHurt, "%s's %s deals %d damage to you.", f.actor.Name, sk.Name, dmg)

	case skill.SacrificeAttack:
		paid := min(fx.HPCost, max(0, f.actor.HP-1))
		f.actor.HP -= paid
		dmg := fx.Damage
		if dmg > 0 {
			*f.foe.hp -= dmg
		} else {
			dmg = e.strike(f, SacrificeAttack)
		}
		f.n.add(f.actor.Name, CategoryDamage, "You sacrifice %d HP and deal %d damage to %s.", paid, dmg, f.foe.name)
		f.n.add(f.foe.recipient, CategoryHurt, "%s sacrifices blood and deals %d damage to you.", f.actor.Name, dmg)

	case skill.Buff:
		stackModifiers(f.own, fx.AttackModifier, fx.DefenseModifier, fx.Turns)
		f.n.add(f.actor.Name, CategoryBuff, "You feel stronger: attack %+d, defense %+d for %d turns.",
			f.own.Magnitude(condition.AttackModifier), f.own.Magnitude(condition.DefenseModifier), fx.Turns)
		f.n.add(f.foe.recipient, CategoryBuff, "%s grows stronger.", f.actor.Name)

	case skill.Debuff:
		stackModifiers(f.foe.ledger, fx.AttackModifier, fx.DefenseModifier, fx.Turns)
		f.tell(CategoryDebuff,
			f.foe.name+" is weakened.",
			f.actor.Name+" weakens you.")

	case skill.OverTime:
		f.foe.ledger.Replace(condition.Entry{
			Kind:           condition.DamageOverTime,
			Magnitude:      fx.HPPerTick,
			RemainingTurns: fx.Turns,
		})
		f.tell(CategoryDebuff,
			f.foe.name+" is afflicted and will suffer each turn.",
			f.actor.Name+" afflicts you with lingering harm.")

	case skill.EvasionBuff:
		f.own.Replace(condition.Entry{
			Kind:           condition.Evasion,
			Chance:         fx.Chance,
			RemainingTurns: fx.Turns,
		})
		f.n.add(f.actor.Name, CategoryBuff, "You become harder to hit for %d turns.", fx.Turns)
		f.n.add(f.foe.recipient, CategoryBuff, "%s becomes harder to hit.", f.actor.Name)

	case skill.SlowDebuff:
		f.foe.ledger.Replace(condition.Entry{
			Kind:           condition.Slow,
			Chance:         fx.SkipChance,
			RemainingTurns: fx.Turns,
		})
		f.tell(CategoryDebuff,
			f.foe.name+" is slowed.",
			f.actor.Name+" slows you.")

	case skill.Steal:
		amount := e.src.Intn(fx.MaxGold + 1)
		if f.foe.gold != nil {
			amount = min(amount, *f.foe.gold)
			*f.foe.gold -= amount
		}
		if amount == 0 {
			f.n.add(f.actor.Name, CategoryInfo, "There was nothing to steal.")
			return
		}
		f.actor.Gold += amount
		f.n.add(f.actor.Name, CategoryLoot, "You steal %d gold from %s.", amount, f.foe.name)
		f.n.add(f.foe.recipient, CategoryLoot, "%s steals %d gold from you.", f.actor.Name, amount)

	case skill.Unknown:
		f.n.add(f.actor.Name, CategoryInfo, "The %s effect is not yet implemented.", fx.Name)
	}
}

func stackModifiers(l *condition.Ledger, atk, def, turns int) {
	if atk != 0 {
		l.Stack(condition.AttackModifier, atk, turns)
	}
	if def != 0 {
		l.Stack(condition.DefenseModifier, def, turns)
	}
}
