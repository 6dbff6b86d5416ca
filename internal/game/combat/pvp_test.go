package combat_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/dice"
)

// duel starts a duel where bob accepted alice's challenge, so bob acts first.
func duel(t *testing.T, h *harness) (alice, bob *character.Character) {
	t.Helper()
	alice = h.addPlayer(t, "alice", 1, 1)
	bob = h.addPlayer(t, "bob", 2, 1)
	h.eng.RequestDuel("alice", "bob")
	h.eng.AcceptDuel("bob", "alice")
	require.True(t, alice.InCombat())
	require.True(t, bob.InCombat())
	return alice, bob
}

func pvp(t *testing.T, c *character.Character) *character.PvPState {
	t.Helper()
	st, ok := c.Combat.(*character.PvPState)
	require.True(t, ok, "%s is not duelling", c.Name)
	return st
}

func TestDuel_AcceptorActsFirst(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)

	assert.Equal(t, "bob", pvp(t, alice).Opponent)
	assert.Equal(t, character.OpponentTurn, pvp(t, alice).Turn)
	assert.Equal(t, "alice", pvp(t, bob).Opponent)
	assert.Equal(t, character.SelfTurn, pvp(t, bob).Turn)
	assert.NotSame(t, pvp(t, alice).Ledger, pvp(t, bob).Ledger)

	ns := h.eng.Attack("alice")
	assert.True(t, hasNotice(ns, "alice", combat.CategoryWarning, "not your turn"))
	assert.Equal(t, 100, bob.HP)
}

func TestDuel_FightToTheEnd(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)

	var last []combat.Notice
	bobHits := 0
	for bob.InCombat() {
		last = h.eng.Attack("bob")
		bobHits++
		if !alice.InCombat() {
			break
		}
		h.eng.Attack("alice")
	}

	assert.Equal(t, 7, bobHits)
	assert.Equal(t, 10, bob.HP)
	assert.Nil(t, alice.Combat)
	assert.Nil(t, bob.Combat)
	assert.Equal(t, 70, alice.HP)
	assert.Equal(t, "plaza", alice.Location)
	assert.Equal(t, "arena", bob.Location)
	assert.True(t, hasNotice(last, "bob", combat.CategoryVictory, "defeated alice"))
	assert.True(t, hasNotice(last, "alice", combat.CategoryDefeat, "defeated by bob"))
	assert.True(t, hasNotice(last, "alice", combat.CategoryLocation, "Central Plaza"))
	assert.Equal(t, []string{"bob>alice"}, h.hooks.duels)
}

func TestProperty_DuelNeedsSixOrSevenHits(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness(t, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		alice, bob := duel(t, h)

		hits := map[string]int{}
		actor, other := bob, alice
		for actor.InCombat() {
			h.eng.Attack(actor.Name)
			hits[actor.Name]++
			actor, other = other, actor
		}
		// the last actor to swing is the winner; after the swap it is other
		winner, loser := other, actor
		assert.GreaterOrEqual(rt, hits[winner.Name], 6)
		assert.LessOrEqual(rt, hits[winner.Name], 7)
		assert.Nil(rt, winner.Combat)
		assert.Nil(rt, loser.Combat)
		assert.Equal(rt, 70, loser.HP)
		assert.Equal(rt, "plaza", loser.Location)
	})
}

func TestPvP_PlainAttackCanBeEvadedButSkillsCannot(t *testing.T) {
	h := newHarness(t, fixedSource{intn: func(int) int { return 0 }, float: 0.5})
	alice, bob := duel(t, h)

	h.eng.UseSkill("bob", "shadow_step", "")
	ns := h.eng.Attack("alice")
	assert.True(t, hasNotice(ns, "alice", combat.CategoryEvade, "bob evades your attack"))
	assert.True(t, hasNotice(ns, "bob", combat.CategoryEvade, "You evade alice's attack"))
	assert.Equal(t, 100, bob.HP)
	assert.Equal(t, character.SelfTurn, pvp(t, bob).Turn, "an evaded attack still ends the turn")

	h.eng.Attack("bob")
	assert.Equal(t, 85, alice.HP)
	e, ok := pvp(t, bob).Ledger.Get(condition.Evasion)
	require.True(t, ok)
	assert.Equal(t, 1, e.RemainingTurns, "evasion decays at its owner's turn start")

	h.eng.UseSkill("alice", "jab", "")
	assert.Equal(t, 93, bob.HP)
}

func TestPvP_DebuffLandsOnOpponentLedger(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)

	h.eng.UseSkill("bob", "hex", "")
	assert.Equal(t, -4, pvp(t, alice).Ledger.Magnitude(condition.AttackModifier))

	h.eng.Attack("alice")
	assert.Equal(t, 89, bob.HP)

	h.eng.Attack("bob")
	assert.Equal(t, 84, alice.HP)
}

func TestPvP_DamageOverTimeCanEndDuelAtTurnStart(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)

	h.eng.UseSkill("bob", "ember", "")
	alice.HP = 4

	ns := h.eng.Attack("alice")

	assert.Equal(t, 100, bob.HP, "alice never got to swing")
	assert.Nil(t, alice.Combat)
	assert.Nil(t, bob.Combat)
	assert.Equal(t, 70, alice.HP)
	assert.True(t, hasNotice(ns, "bob", combat.CategoryVictory, "defeated alice"))
}

func TestPvP_SlowedTurnPassesWithoutAction(t *testing.T) {
	h := newHarness(t, fixedSource{intn: func(int) int { return 0 }, float: 0.1})
	alice, bob := duel(t, h)

	h.eng.UseSkill("bob", "dirge", "")
	ns := h.eng.Attack("alice")

	assert.True(t, hasNotice(ns, "bob", combat.CategoryInfo, "too slow"))
	assert.Equal(t, 100, bob.HP)
	assert.Equal(t, character.SelfTurn, pvp(t, bob).Turn)
	assert.Equal(t, character.OpponentTurn, pvp(t, alice).Turn)
	e, ok := pvp(t, alice).Ledger.Get(condition.Slow)
	require.True(t, ok)
	assert.Equal(t, 1, e.RemainingTurns)
}

func TestPvP_StealCappedAtOpponentGold(t *testing.T) {
	h := newHarness(t, highRolls())
	alice, bob := duel(t, h)
	alice.Gold = 3

	h.eng.UseSkill("bob", "pickpocket", "")
	assert.Equal(t, 3, bob.Gold)
	assert.Equal(t, 0, alice.Gold)

	h.eng.Attack("alice")
	ns := h.eng.UseSkill("bob", "pickpocket", "")
	assert.True(t, hasNotice(ns, "bob", combat.CategoryInfo, "nothing to steal"))
	assert.Equal(t, 3, bob.Gold)
}

func TestPvP_HealDoesNotPassTurn(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)
	bob.HP = 50

	h.eng.UseSkill("bob", "first_aid", "")
	assert.Equal(t, 75, bob.HP)
	assert.Equal(t, character.SelfTurn, pvp(t, bob).Turn)
	assert.Equal(t, character.OpponentTurn, pvp(t, alice).Turn)
}

func TestPvP_MissingOpponentClearsOwnCombat(t *testing.T) {
	h := newHarness(t, lowRolls())
	c := h.addPlayer(t, "alice", 1, 1)
	c.Combat = character.NewPvPState("ghost", character.SelfTurn)

	ns := h.eng.Attack("alice")

	assert.Nil(t, c.Combat)
	assert.True(t, hasNotice(ns, "alice", combat.CategoryWarning, "no longer duelling"))
	assert.Positive(t, h.persist.count("alice"))
}

func TestPvP_OneSidedDuelIsCleared(t *testing.T) {
	h := newHarness(t, lowRolls())
	c := h.addPlayer(t, "alice", 1, 1)
	h.addPlayer(t, "bob", 2, 1)
	c.Combat = character.NewPvPState("bob", character.SelfTurn)

	h.eng.UseSkill("alice", "jab", "")

	assert.Nil(t, c.Combat)
	assert.Equal(t, 30, c.MP)
}

func TestAbandon_ReleasesDuelOpponent(t *testing.T) {
	h := newHarness(t, lowRolls())
	alice, bob := duel(t, h)

	ns := h.eng.Abandon("alice")

	assert.Nil(t, alice.Combat)
	assert.Nil(t, bob.Combat)
	assert.True(t, hasNotice(ns, "bob", combat.CategoryInfo, "alice has left the duel"))
}

func TestPvP_ConcurrentTurnsStayConsistent(t *testing.T) {
	h := newHarness(t, dice.NewSeededSource(7))
	alice, bob := duel(t, h)

	var wg sync.WaitGroup
	for _, name := range []string{"alice", "bob"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				h.eng.Attack(name)
				h.eng.UseSkill(name, "first_aid", "")
			}
		}()
	}
	wg.Wait()

	assert.Nil(t, alice.Combat)
	assert.Nil(t, bob.Combat)
	locations := []string{alice.Location, bob.Location}
	assert.Contains(t, locations, "plaza")
	assert.Contains(t, locations, "arena")
}
