package command

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/roster"
	"github.com/cory-johannsen/duelcore/internal/game/ruleset"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
	"github.com/cory-johannsen/duelcore/internal/game/world"
)

// SkillCatalog looks up skill definitions.
type SkillCatalog interface {
	Skill(id string) (*skill.Skill, bool)
}

// MapCatalog looks up map definitions.
type MapCatalog interface {
	Map(id string) (*world.Map, bool)
}

// MonsterCatalog lists the live monsters of a map.
type MonsterCatalog interface {
	InMap(mapID string) []*npc.Instance
}

// Report implements Reporter over the live roster and static content.
// It locks one character at a time and never mutates anything.
type Report struct {
	roster   *roster.Manager
	jobs     *ruleset.JobRegistry
	skills   SkillCatalog
	maps     MapCatalog
	monsters MonsterCatalog
}

// NewReport creates a Report.
//
// Precondition: every argument must be non-nil.
func NewReport(r *roster.Manager, jobs *ruleset.JobRegistry, skills SkillCatalog, maps MapCatalog, monsters MonsterCatalog) *Report {
	if r == nil || jobs == nil || skills == nil || maps == nil || monsters == nil {
		panic("command.NewReport: precondition violated: nil dependency")
	}
	return &Report{roster: r, jobs: jobs, skills: skills, maps: maps, monsters: monsters}
}

// view returns a copy of name taken under its lock.
func (r *Report) view(name string) (*character.Character, bool) {
	held, unlock := r.roster.Lock(name)
	defer unlock()
	c, ok := held.Get(name)
	if !ok {
		return nil, false
	}
	return c.Clone(), true
}

// Stats shows actor's job, level, experience, HP, MP, gold and base evasion.
func (r *Report) Stats(actor string) []combat.Notice {
	c, ok := r.view(actor)
	if !ok {
		return warn(actor, "You are not in the world.")
	}
	job := c.JobID
	if j, ok := r.jobs.Job(c.JobID); ok {
		job = j.Name
	}
	lines := []string{
		fmt.Sprintf("=== %s ===", c.Name),
		fmt.Sprintf("Job: %s", job),
		fmt.Sprintf("Level: %d (EXP %d/%d)", c.Level, c.Exp, c.ExpToNextLevel()),
		fmt.Sprintf("HP: %d/%d  MP: %d/%d", c.DisplayHP(), c.MaxHP, c.MP, c.MaxMP),
		fmt.Sprintf("Gold: %d", c.Gold),
		fmt.Sprintf("Base evasion: %.1f%%", r.jobs.Evasion(c.JobID)*100),
	}
	return info(actor, lines)
}

// Skills lists actor's learned skills in learning order with their MP cost.
func (r *Report) Skills(actor string) []combat.Notice {
	c, ok := r.view(actor)
	if !ok {
		return warn(actor, "You are not in the world.")
	}
	if len(c.Skills) == 0 {
		return warn(actor, "You have not learned any skills.")
	}
	lines := []string{"=== Skills ==="}
	for _, id := range c.Skills {
		s, ok := r.skills.Skill(id)
		if !ok {
			lines = append(lines, fmt.Sprintf("- %s (undefined skill)", id))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%d MP)", s.ID, s.Name, s.MPCost))
	}
	return info(actor, lines)
}

// Here lists the players and monsters on actor's map with their positions.
func (r *Report) Here(actor string) []combat.Notice {
	me, ok := r.view(actor)
	if !ok {
		return warn(actor, "You are not in the world.")
	}
	title := me.Location
	if mp, ok := r.maps.Map(me.Location); ok {
		title = mp.Name
	}
	lines := []string{fmt.Sprintf("=== Here (%s) ===", title)}

	var players []string
	for _, name := range r.roster.InMap(me.Location) {
		c, ok := r.view(name)
		if !ok || c.Location != me.Location {
			continue
		}
		line := fmt.Sprintf("  * %s (%d, %d)", c.Name, c.X, c.Y)
		if name == actor {
			line += " <- you"
		}
		players = append(players, line)
	}
	lines = append(lines, section("Players", players)...)

	var monsters []string
	for _, m := range r.monsters.InMap(me.Location) {
		monsters = append(monsters, fmt.Sprintf("  * %s (%d, %d)", m.Name, m.X, m.Y))
	}
	lines = append(lines, section("Monsters", monsters)...)
	return info(actor, lines)
}

// Who lists every online character with level and job.
func (r *Report) Who(actor string) []combat.Notice {
	lines := []string{"=== Online ==="}
	for _, name := range r.roster.Names() {
		c, ok := r.view(name)
		if !ok {
			continue
		}
		line := fmt.Sprintf("- %s (level %d, %s", c.Name, c.Level, c.JobID)
		if c.IsAdmin {
			line += ", admin"
		}
		lines = append(lines, line+")")
	}
	return info(actor, lines)
}

func section(title string, entries []string) []string {
	if len(entries) == 0 {
		return []string{"- " + title + ": none"}
	}
	return append([]string{"- " + title + ":"}, entries...)
}

func info(actor string, lines []string) []combat.Notice {
	return []combat.Notice{{Recipient: actor, Message: strings.Join(lines, "\n"), Category: combat.CategoryInfo}}
}
