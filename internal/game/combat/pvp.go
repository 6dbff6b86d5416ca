package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
)

// pvpAction runs one duel turn for s.actor.
//
// Precondition: s holds the locks of the actor and, if it exists, its opponent.
func (e *Engine) pvpAction(s scope, st *character.PvPState, sk *skill.Skill) []Notice {
	c := s.actor
	var n notices

	if s.opp == nil || !duellingWith(s.opp, c.Name) {
		c.Combat = nil
		e.persist.Enqueue(c)
		n.add(c.Name, CategoryWarning, "%s is no longer duelling you. The duel is over.", st.Opponent)
		e.logger.Warn("dangling duel cleared",
			zap.String("character", c.Name),
			zap.String("opponent", st.Opponent),
		)
		return n.list
	}
	if st.Turn != character.SelfTurn {
		n.add(c.Name, CategoryWarning, "It is not your turn.")
		return n.list
	}
	opp := s.opp
	oppSt := opp.Combat.(*character.PvPState)

	if dmg := tickDoT(st.Ledger, &c.HP); dmg > 0 {
		n.add(c.Name, CategoryHurt, "You suffer %d lingering damage.", dmg)
		n.add(opp.Name, CategoryDamage, "%s suffers %d lingering damage.", c.Name, dmg)
		if c.HP <= 0 {
			e.pvpVictory(opp, c, &n)
			return n.list
		}
	}
	st.Ledger.TickModifiers()
	st.Ledger.Decrement(condition.Evasion)

	if e.slowed(st.Ledger) {
		n.add(c.Name, CategoryInfo, "You are too slow to act and lose your turn.")
		n.add(opp.Name, CategoryInfo, "%s is too slow to act. Your turn!", c.Name)
		passTurn(st, oppSt)
		e.persist.Enqueue(c)
		e.persist.Enqueue(opp)
		return n.list
	}

	f := &fight{
		actor: c,
		own:   st.Ledger,
		foe: foe{
			name:      opp.Name,
			recipient: opp.Name,
			hp:        &opp.HP,
			maxHP:     opp.MaxHP,
			ledger:    oppSt.Ledger,
			evasion:   EvasionChance(e.jobs.Evasion(opp.JobID), oppSt.Ledger.Chance(condition.Evasion)),
			gold:      &opp.Gold,
		},
		n: &n,
	}
	e.resolve(f, sk)

	if opp.HP <= 0 {
		e.pvpVictory(c, opp, &n)
		return n.list
	}
	passTurn(st, oppSt)
	n.add(c.Name, CategoryInfo, "%s HP: %d/%d | Your HP: %d/%d", opp.Name, opp.DisplayHP(), opp.MaxHP, c.DisplayHP(), c.MaxHP)
	n.add(opp.Name, CategoryInfo, "Your turn! Your HP: %d/%d | %s HP: %d/%d", opp.DisplayHP(), opp.MaxHP, c.Name, c.DisplayHP(), c.MaxHP)
	e.persist.Enqueue(c)
	e.persist.Enqueue(opp)
	return n.list
}

func passTurn(actor, opponent *character.PvPState) {
	actor.Turn = character.OpponentTurn
	opponent.Turn = character.SelfTurn
}

// pvpVictory ends the duel in winner's favour.
//
// Postcondition: neither side holds a PvP state against the other; loser is
// back at the start map with ReviveFraction of its max hp.
func (e *Engine) pvpVictory(winner, loser *character.Character, n *notices) {
	n.add(winner.Name, CategoryVictory, "You have defeated %s in a duel!", loser.Name)
	n.add(loser.Name, CategoryDefeat, "You were defeated by %s.", winner.Name)
	if duellingWith(winner, loser.Name) {
		winner.Combat = nil
	}
	if duellingWith(loser, winner.Name) {
		loser.Combat = nil
	}
	e.relocate(loser, n)
	if msg := e.hooks.DuelFinished(winner.Name, loser.Name); msg != "" {
		n.add(winner.Name, CategoryInfo, "%s", msg)
	}
	e.persist.Enqueue(winner)
	e.persist.Enqueue(loser)
	e.logger.Info("duel finished",
		zap.String("winner", winner.Name),
		zap.String("loser", loser.Name),
	)
}
