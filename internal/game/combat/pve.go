package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
	"github.com/cory-johannsen/duelcore/internal/game/world"
)

// Step moves actor one cell in dir. Landing on a monster engages it.
//
// Postcondition: actor moves only onto walkable cells and never while in PvE.
func (e *Engine) Step(actor string, dir world.Direction) []Notice {
	held, unlock := e.roster.Lock(actor)
	defer unlock()
	c, ok := held.Get(actor)
	if !ok {
		return one(actor, CategoryWarning, "You are not in the world.")
	}
	if _, fighting := c.Combat.(*character.PvEState); fighting {
		return one(actor, CategoryWarning, "You cannot move while fighting!")
	}

	dx, dy := dir.Delta()
	nx, ny := c.X+dx, c.Y+dy
	if !e.maps.IsWalkable(c.Location, nx, ny) {
		return one(actor, CategoryWarning, "Something blocks your way.")
	}
	c.X, c.Y = nx, ny
	e.roster.Place(c.Name, c.Location, nx, ny)

	var n notices
	n.add(actor, CategoryLocation, "You move %s to (%d, %d).", dir, nx, ny)
	if e.spawner != nil {
		if m, spawned := e.spawner.Ensure(c.Location); spawned {
			e.logger.Debug("monster spawned",
				zap.String("map", m.MapID),
				zap.String("monster", m.TemplateID),
				zap.Int("x", m.X), zap.Int("y", m.Y),
			)
		}
	}
	if !c.InCombat() {
		if m, found := e.monsters.RemoveAt(c.Location, nx, ny); found {
			e.engage(c, m, &n)
		}
	}
	e.persist.Enqueue(c)
	return n.list
}

// engage starts a PvE combat against m, which is no longer on the map.
func (e *Engine) engage(c *character.Character, m *npc.Instance, n *notices) {
	c.Combat = character.NewPvEState(m.Detach())
	n.add(c.Name, CategoryWarning, "A wild %s appears! (HP %d/%d)", m.Name, m.HP, m.MaxHP)
	e.logger.Info("pve engaged",
		zap.String("character", c.Name),
		zap.String("monster", m.TemplateID),
		zap.String("instance", m.ID),
	)
}

// pveAction resolves the player's action and the monster's riposte.
func (e *Engine) pveAction(c *character.Character, st *character.PvEState, sk *skill.Skill) []Notice {
	var n notices
	if st.Monster == nil {
		c.Combat = nil
		e.persist.Enqueue(c)
		n.add(c.Name, CategoryWarning, "Your foe has vanished. The fight is over.")
		return n.list
	}
	if st.Turn != character.PlayerTurn {
		n.add(c.Name, CategoryWarning, "It is not your turn.")
		return n.list
	}

	m := st.Monster
	st.Player.TickModifiers()
	f := &fight{
		actor: c,
		own:   st.Player,
		foe: foe{
			name:   m.Name,
			hp:     &m.HP,
			maxHP:  m.MaxHP,
			ledger: st.Foe,
		},
		n: &n,
	}
	e.resolve(f, sk)

	if m.IsDead() {
		e.pveVictory(c, m, &n)
		e.persist.Enqueue(c)
		return n.list
	}
	if dmg := tickDoT(st.Foe, &m.HP); dmg > 0 {
		n.add(c.Name, CategoryDamage, "%s suffers %d lingering damage.", m.Name, dmg)
		if m.IsDead() {
			e.pveVictory(c, m, &n)
			e.persist.Enqueue(c)
			return n.list
		}
	}

	st.Turn = character.MonsterTurn
	e.monsterTurn(c, st, &n)
	e.persist.Enqueue(c)
	return n.list
}

// monsterTurn resolves the monster's counter-move.
//
// Postcondition: the player is defeated or the turn is back with the player.
func (e *Engine) monsterTurn(c *character.Character, st *character.PvEState, n *notices) {
	m := st.Monster
	st.Foe.TickModifiers()

	if e.slowed(st.Foe) {
		n.add(c.Name, CategoryInfo, "%s is too slow to act.", m.Name)
		st.Turn = character.PlayerTurn
		e.status(c, m, n)
		return
	}

	evasion := EvasionChance(e.jobs.Evasion(c.JobID), st.Player.Chance(condition.Evasion))
	dodged := Evades(evasion, e.src)
	st.Player.Decrement(condition.Evasion)
	if dodged {
		n.add(c.Name, CategoryEvade, "You evade %s's attack!", m.Name)
		st.Turn = character.PlayerTurn
		e.status(c, m, n)
		return
	}

	dmg := RollDamage(m.Attack+condition.AttackBonus(st.Foe), condition.DefenseBonus(st.Player), e.src)
	c.HP -= dmg
	n.add(c.Name, CategoryHurt, "%s hits you for %d damage.", m.Name, dmg)
	if c.HP <= 0 {
		e.pveDefeat(c, m, n)
		return
	}
	st.Turn = character.PlayerTurn
	e.status(c, m, n)
}

func (e *Engine) status(c *character.Character, m *npc.Instance, n *notices) {
	n.add(c.Name, CategoryInfo, "%s HP: %d/%d (%s) | Your HP: %d/%d",
		m.Name, m.DisplayHP(), m.MaxHP, m.HealthDescription(), c.DisplayHP(), c.MaxHP)
}

// pveVictory grants the monster's rewards and ends the combat.
func (e *Engine) pveVictory(c *character.Character, m *npc.Instance, n *notices) {
	c.Combat = nil
	n.add(c.Name, CategoryVictory, "You defeated %s!", m.Name)

	c.Exp += m.Exp
	gold := npc.RollGold(m.Gold, e.src)
	c.Gold += gold
	n.add(c.Name, CategoryReward, "You gain %d experience and %d gold.", m.Exp, gold)

	for _, item := range npc.RollLoot(m.Drops, e.src) {
		c.AddItem(item.ItemID, item.Quantity)
		n.add(c.Name, CategoryLoot, "You found %d x %s.", item.Quantity, item.ItemID)
	}

	levels, learned := c.LevelUp(e.skills)
	if levels > 0 {
		n.add(c.Name, CategoryReward, "You are now level %d! (HP %d, MP %d)", c.Level, c.MaxHP, c.MaxMP)
	}
	for _, id := range learned {
		name := id
		if sk, ok := e.skills.Skill(id); ok {
			name = sk.Name
		}
		n.add(c.Name, CategoryReward, "You learned %s!", name)
	}
	if msg := e.hooks.MonsterDefeated(c.Name, m.TemplateID); msg != "" {
		n.add(c.Name, CategoryInfo, "%s", msg)
	}

	e.logger.Info("pve victory",
		zap.String("character", c.Name),
		zap.String("monster", m.TemplateID),
		zap.Int("exp", m.Exp),
		zap.Int("gold", gold),
		zap.Int("levels", levels),
	)
}

// pveDefeat ends the combat and returns the player to the start map.
func (e *Engine) pveDefeat(c *character.Character, m *npc.Instance, n *notices) {
	c.Combat = nil
	n.add(c.Name, CategoryDefeat, "You were defeated by %s...", m.Name)
	e.relocate(c, n)
	e.logger.Info("pve defeat",
		zap.String("character", c.Name),
		zap.String("monster", m.TemplateID),
	)
}
