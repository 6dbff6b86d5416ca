package character

import "github.com/cory-johannsen/duelcore/internal/game/skill"

// Per-level growth.
const (
	HPPerLevel = 10
	MPPerLevel = 5
	// AutoLearnInterval is the level stride at which unlockable skills are learned.
	AutoLearnInterval = 100
)

// Unlocker lists the skills a job qualifies for at a level.
type Unlocker interface {
	Unlockable(jobID string, level int) []*skill.Skill
}

// ExpToNextLevel returns the experience needed to leave the current level.
func (c *Character) ExpToNextLevel() int {
	return c.Level * 20
}

// LevelUp spends experience on as many levels as it covers. Each level adds
// HPPerLevel max hp and MPPerLevel max mp and fully restores both. Every
// AutoLearnInterval-th level learns the skills unlocks makes available.
//
// Precondition: unlocks may be nil.
// Postcondition: Exp < ExpToNextLevel(); returns levels gained and skills learned.
func (c *Character) LevelUp(unlocks Unlocker) (levels int, learned []string) {
	for c.Exp >= c.ExpToNextLevel() {
		c.Exp -= c.ExpToNextLevel()
		c.Level++
		c.MaxHP += HPPerLevel
		c.MaxMP += MPPerLevel
		c.HP = c.MaxHP
		c.MP = c.MaxMP
		levels++
		if unlocks != nil && c.Level%AutoLearnInterval == 0 {
			for _, s := range unlocks.Unlockable(c.JobID, c.Level) {
				if c.Learn(s.ID) {
					learned = append(learned, s.ID)
				}
			}
		}
		c.Learn(skill.BaseSkillID)
	}
	return levels, learned
}
