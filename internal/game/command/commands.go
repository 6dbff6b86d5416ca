// Package command provides the command registry, parser, and the dispatcher
// that turns player text into combat engine operations.
package command

// Categories for organizing commands.
const (
	CategoryMovement = "movement"
	CategoryCombat   = "combat"
	CategoryDuel     = "duel"
	CategoryInfo     = "info"
	CategorySystem   = "system"
)

// Handler identifiers mapping commands to engine operations.
const (
	HandlerMove    = "move"
	HandlerAttack  = "attack"
	HandlerSkill   = "skill"
	HandlerDuel    = "duel"
	HandlerAccept  = "accept"
	HandlerDecline = "decline"
	HandlerHelp    = "help"
	HandlerStats   = "stats"
	HandlerSkills  = "skills"
	HandlerHere    = "here"
	HandlerWho     = "who"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Usage is shown when required arguments are missing.
	Usage string
	// MinArgs is the number of arguments the command requires.
	MinArgs int
	// Category groups the command.
	Category string
	// Handler maps to the engine operation.
	Handler string
}

// BuiltinCommands returns all built-in commands.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "up", Aliases: []string{"w"}, Help: "Move up", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "down", Aliases: []string{"s"}, Help: "Move down", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "left", Aliases: []string{"a"}, Help: "Move left", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "right", Aliases: []string{"d"}, Help: "Move right", Category: CategoryMovement, Handler: HandlerMove},

		{Name: "attack", Aliases: []string{"att", "kill"}, Help: "Attack your opponent", Category: CategoryCombat, Handler: HandlerAttack},
		{Name: "skill", Aliases: []string{"cast", "use"}, Help: "Use a skill", Usage: "skill <skill_id> [target]", MinArgs: 1, Category: CategoryCombat, Handler: HandlerSkill},

		{Name: "duel", Aliases: []string{"challenge"}, Help: "Challenge a player to a duel", Usage: "duel <player>", MinArgs: 1, Category: CategoryDuel, Handler: HandlerDuel},
		{Name: "accept", Aliases: []string{"yes"}, Help: "Accept a duel challenge", Usage: "accept <player>", MinArgs: 1, Category: CategoryDuel, Handler: HandlerAccept},
		{Name: "decline", Aliases: []string{"no"}, Help: "Decline a duel challenge", Usage: "decline <player>", MinArgs: 1, Category: CategoryDuel, Handler: HandlerDecline},

		{Name: "stats", Aliases: []string{"st", "score"}, Help: "Show your level, HP, MP and gold", Category: CategoryInfo, Handler: HandlerStats},
		{Name: "skills", Aliases: []string{"sk"}, Help: "List the skills you have learned", Category: CategoryInfo, Handler: HandlerSkills},
		{Name: "here", Aliases: []string{"look", "l"}, Help: "List players and monsters on this map", Category: CategoryInfo, Handler: HandlerHere},
		{Name: "who", Help: "List online players", Category: CategoryInfo, Handler: HandlerWho},

		{Name: "help", Aliases: []string{"?"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
	}
}

// IsMovementCommand reports whether the command name is a movement direction.
func IsMovementCommand(name string) bool {
	switch name {
	case "up", "down", "left", "right":
		return true
	default:
		return false
	}
}
