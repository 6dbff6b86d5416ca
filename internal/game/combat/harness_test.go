package combat_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/dice"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/roster"
	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
	"github.com/cory-johannsen/duelcore/internal/game/world"
)

const testLobby = `
start_map: plaza
maps:
  - id: plaza
    name: Central Plaza
    description: The fountain gurgles.
  - id: arena
    name: Arena
    description: Sand and old blood.
    grid:
      - "#######"
      - "#.....#"
      - "#.....#"
      - "#######"
`

// fixedSource returns intn(n) for Intn and a constant for Float64.
type fixedSource struct {
	intn  func(n int) int
	float float64
}

func (s fixedSource) Intn(n int) int   { return s.intn(n) }
func (s fixedSource) Float64() float64 { return s.float }

// lowRolls makes every damage roll minimal and every chance below 0.99 fail.
func lowRolls() dice.Source {
	return fixedSource{intn: func(int) int { return 0 }, float: 0.99}
}

// highRolls makes every Intn return its maximum.
func highRolls() dice.Source {
	return fixedSource{intn: func(n int) int { return n - 1 }, float: 0.99}
}

type recorder struct {
	mu    sync.Mutex
	saved map[string]int
}

func (r *recorder) Enqueue(c *character.Character) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved[c.Name]++
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved[name]
}

type scriptHooks struct {
	defeated []string
	duels    []string
}

func (h *scriptHooks) MonsterDefeated(player, monsterID string) string {
	h.defeated = append(h.defeated, player+":"+monsterID)
	return "The crowd cheers."
}

func (h *scriptHooks) DuelFinished(winner, loser string) string {
	h.duels = append(h.duels, winner+">"+loser)
	return ""
}

type harness struct {
	eng      *combat.Engine
	roster   *roster.Manager
	monsters *npc.Manager
	persist  *recorder
	hooks    *scriptHooks
}

func testSkills() *skill.Registry {
	mk := func(id, name string, cost int, d skill.Descriptor) *skill.Skill {
		return &skill.Skill{ID: id, Name: name, MPCost: cost, Effect: d.Decode()}
	}
	return skill.NewRegistry(
		mk("smash", "Smash", 3, skill.Descriptor{Kind: "attack"}),
		mk("jab", "Jab", 1, skill.Descriptor{Kind: "attack", Value: 7}),
		mk("first_aid", "First Aid", 5, skill.Descriptor{Kind: "heal", Value: 25}),
		mk("blood_strike", "Blood Strike", 6, skill.Descriptor{Kind: "sacrificeAttack", HPCost: 10}),
		mk("war_cry", "War Cry", 5, skill.Descriptor{Kind: "buff", AttackModifier: 5, DefenseModifier: 3, DurationTurns: 3}),
		mk("hex", "Hex", 5, skill.Descriptor{Kind: "debuff", AttackModifier: -4, DefenseModifier: -3, DurationTurns: 3}),
		mk("ember", "Ember", 6, skill.Descriptor{Kind: "attackOverTime", HPPerTick: 5, DurationTurns: 3}),
		mk("shadow_step", "Shadow Step", 4, skill.Descriptor{Kind: "evasionBuff", EvasionChance: 0.95, DurationTurns: 2}),
		mk("dirge", "Dirge", 5, skill.Descriptor{Kind: "slowDebuff", SkipTurnChance: 0.3, DurationTurns: 2}),
		mk("pickpocket", "Pickpocket", 2, skill.Descriptor{Kind: "steal", MaxGold: 10}),
		mk("mystery", "Mystery", 1, skill.Descriptor{Kind: "summonDragon"}),
	)
}

func newHarness(t *testing.T, src dice.Source) *harness {
	t.Helper()
	lobby, err := world.LoadLobbyFromBytes([]byte(testLobby))
	require.NoError(t, err)
	maps, err := world.NewManager(lobby)
	require.NoError(t, err)

	h := &harness{
		roster:   roster.NewManager(),
		monsters: npc.NewManager(),
		persist:  &recorder{saved: make(map[string]int)},
		hooks:    &scriptHooks{},
	}
	h.eng = combat.NewEngine(combat.Deps{
		Roster:   h.roster,
		Skills:   testSkills(),
		Jobs:     ruleset.NewJobRegistry(&ruleset.Job{ID: "novice", Name: "Novice", Evasion: 0}),
		Maps:     maps,
		Monsters: h.monsters,
		Dice:     src,
		Persist:  h.persist,
		Hooks:    h.hooks,
		Logger:   zap.NewNop(),
	})
	return h
}

// addPlayer places a novice on the arena knowing every test skill.
func (h *harness) addPlayer(t *testing.T, name string, x, y int) *character.Character {
	t.Helper()
	c := character.New(name, "novice", "arena", x, y)
	for _, id := range []string{"jab", "first_aid", "blood_strike", "war_cry", "hex", "ember", "shadow_step", "dirge", "pickpocket", "mystery"} {
		c.Learn(id)
	}
	require.NoError(t, h.roster.Add(c))
	return c
}

func (h *harness) spawn(t *testing.T, hp, attack int, x, y int) *npc.Instance {
	t.Helper()
	tmpl := &npc.Template{
		ID: "slime", Name: "Slime", BaseHP: hp, Attack: attack, Exp: 7,
		Gold:  npc.GoldRange{Min: 3, Max: 8},
		Drops: []npc.ItemDrop{{ItemID: "jelly", Chance: 1, MinQty: 1, MaxQty: 1}},
	}
	inst, err := h.monsters.Spawn(tmpl, "arena", x, y)
	require.NoError(t, err)
	return inst
}

// engage walks name right onto a monster at (x+1, y).
func (h *harness) engage(t *testing.T, c *character.Character, hp, attack int) *character.PvEState {
	t.Helper()
	h.spawn(t, hp, attack, c.X+1, c.Y)
	h.eng.Step(c.Name, world.Right)
	st, ok := c.Combat.(*character.PvEState)
	require.True(t, ok, "expected PvE combat after stepping onto a monster")
	return st
}

func hasNotice(ns []combat.Notice, to string, cat combat.Category, fragment string) bool {
	for _, n := range ns {
		if n.Recipient == to && n.Category == cat && strings.Contains(n.Message, fragment) {
			return true
		}
	}
	return false
}
