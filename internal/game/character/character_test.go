package character_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/condition"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
)

func TestNew_StartingStats(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	assert.Equal(t, 1, c.Level)
	assert.Equal(t, 100, c.HP)
	assert.Equal(t, 100, c.MaxHP)
	assert.Equal(t, 30, c.MP)
	assert.True(t, c.HasSkill(skill.BaseSkillID))
	assert.False(t, c.InCombat())
}

func TestBuild(t *testing.T) {
	jobs := ruleset.NewJobRegistry(ruleset.DefaultJobs()...)

	c, err := character.Build("bob", "bard", jobs, "plaza", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "bard", c.JobID)
	assert.False(t, c.IsAdmin)

	c, err = character.Build("root", "keeper", jobs, "plaza", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.JobID)
	assert.True(t, c.IsAdmin)

	_, err = character.Build("eve", "admin", jobs, "plaza", 1, 1)
	assert.Error(t, err)

	_, err = character.Build("bad name", "bard", jobs, "plaza", 1, 1)
	assert.True(t, errors.Is(err, character.ErrInvalidName))
}

func TestLearnAndItems(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	assert.True(t, c.Learn("pickpocket"))
	assert.False(t, c.Learn("pickpocket"))

	c.AddItem("jelly", 1)
	c.AddItem("jelly", 2)
	c.AddItem("gem", 1)
	assert.Equal(t, []character.ItemStack{{ItemID: "jelly", Quantity: 3}, {ItemID: "gem", Quantity: 1}}, c.Items)
}

func TestHealClampsToMax(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	c.HP = 90
	assert.Equal(t, 10, c.Heal(25))
	assert.Equal(t, 100, c.HP)
}

func TestRevive(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	c.MaxHP = 115
	c.HP = -4
	c.Revive(0.7)
	assert.Equal(t, 80, c.HP)
}

func TestCloneIsDeep(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	c.AddItem("jelly", 1)
	state := character.NewPvEState(npc.NewInstance("m1", &npc.Template{ID: "slime", Name: "Slime", BaseHP: 10}, "meadow", 1, 1).Detach())
	state.Player.Stack(condition.AttackModifier, 2, 3)
	c.Combat = state

	cp := c.Clone()
	cp.Learn("extra")
	cp.Items[0].Quantity = 9
	cp.Combat.(*character.PvEState).Monster.HP = 1
	cp.Combat.(*character.PvEState).Player.Stack(condition.AttackModifier, 5, 3)

	assert.False(t, c.HasSkill("extra"))
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, 10, state.Monster.HP)
	assert.Equal(t, 2, state.Player.Magnitude(condition.AttackModifier))
}

type unlockTable []*skill.Skill

func (u unlockTable) Unlockable(job string, level int) []*skill.Skill {
	return skill.NewRegistry(u...).Unlockable(job, level)
}

func TestLevelUp_MultipleLevels(t *testing.T) {
	c := character.New("alice", "rogue", "plaza", 1, 1)
	c.HP = 5
	c.Exp = 20 + 40 + 7 // level 1 and 2 costs plus change
	levels, learned := c.LevelUp(nil)
	assert.Equal(t, 2, levels)
	assert.Empty(t, learned)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 7, c.Exp)
	assert.Equal(t, 120, c.MaxHP)
	assert.Equal(t, 120, c.HP)
	assert.Equal(t, 40, c.MaxMP)
	assert.Equal(t, 40, c.MP)
}

func TestLevelUp_AutoLearnsAtHundred(t *testing.T) {
	unlocks := unlockTable{
		{ID: "pickpocket", Name: "Pickpocket", Unlock: skill.Unlock{RequiredJob: "rogue", MinLevel: 100}, Effect: skill.Steal{MaxGold: 10}},
		{ID: "prayer", Name: "Prayer", Unlock: skill.Unlock{RequiredJob: "priest"}, Effect: skill.Heal{Amount: 40}},
	}
	c := character.New("alice", "rogue", "plaza", 1, 1)
	c.Level = 99
	c.Exp = c.ExpToNextLevel()
	levels, learned := c.LevelUp(unlocks)
	assert.Equal(t, 1, levels)
	assert.Equal(t, []string{"pickpocket"}, learned)
	assert.True(t, c.HasSkill(skill.BaseSkillID))
}

func TestLevelUp_ExpAlwaysBelowThreshold_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := character.New("p", "novice", "plaza", 1, 1)
		c.Level = rapid.IntRange(1, 50).Draw(rt, "level")
		c.Exp = rapid.IntRange(0, 5000).Draw(rt, "exp")
		start := c.Level
		levels, _ := c.LevelUp(nil)
		if c.Exp >= c.ExpToNextLevel() {
			rt.Fatalf("exp %d still covers level %d", c.Exp, c.Level)
		}
		if c.Level != start+levels {
			rt.Fatalf("level %d != %d + %d", c.Level, start, levels)
		}
	})
}
