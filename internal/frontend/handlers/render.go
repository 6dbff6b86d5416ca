package handlers

import (
	"strings"

	"github.com/cory-johannsen/duelcore/internal/frontend/telnet"
	"github.com/cory-johannsen/duelcore/internal/game/combat"
)

var categoryColors = map[combat.Category]string{
	combat.CategoryWarning:  telnet.Yellow,
	combat.CategoryDamage:   telnet.BrightGreen,
	combat.CategoryHurt:     telnet.Red,
	combat.CategoryHeal:     telnet.Green,
	combat.CategoryBuff:     telnet.Cyan,
	combat.CategoryDebuff:   telnet.Magenta,
	combat.CategoryEvade:    telnet.BrightCyan,
	combat.CategoryLoot:     telnet.BrightYellow,
	combat.CategoryReward:   telnet.BrightYellow,
	combat.CategoryVictory:  telnet.Bold + telnet.BrightGreen,
	combat.CategoryDefeat:   telnet.BrightRed,
	combat.CategoryLocation: telnet.BrightYellow,
}

// RenderNotice formats n as Telnet lines, one per line of its message,
// colored by category. Info notices are left plain.
func RenderNotice(n combat.Notice) []string {
	color := categoryColors[n.Category]
	lines := strings.Split(n.Message, "\n")
	for i, l := range lines {
		lines[i] = telnet.Colorize(color, l)
	}
	return lines
}
