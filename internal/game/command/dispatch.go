package command

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/combat"
	"github.com/cory-johannsen/duelcore/internal/game/world"
)

// Engine is the set of combat operations a command can trigger.
type Engine interface {
	Attack(actor string) []combat.Notice
	UseSkill(actor, skillID, target string) []combat.Notice
	RequestDuel(challenger, target string) []combat.Notice
	AcceptDuel(target, challenger string) []combat.Notice
	DeclineDuel(target, challenger string) []combat.Notice
	Step(actor string, dir world.Direction) []combat.Notice
}

// Reporter answers read-only questions about the world.
type Reporter interface {
	Stats(actor string) []combat.Notice
	Skills(actor string) []combat.Notice
	Here(actor string) []combat.Notice
	Who(actor string) []combat.Notice
}

// Dispatcher resolves player text lines to engine operations.
type Dispatcher struct {
	registry *Registry
	engine   Engine
	reporter Reporter
	logger   *zap.Logger
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: registry, engine, reporter and logger must be non-nil.
func NewDispatcher(registry *Registry, engine Engine, reporter Reporter, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, engine: engine, reporter: reporter, logger: logger}
}

// Dispatch parses line and runs it on behalf of actor.
//
// Postcondition: a blank line yields no notices; an unknown command or
// missing argument yields one warning notice for actor.
func (d *Dispatcher) Dispatch(actor, line string) []combat.Notice {
	parsed := Parse(line)
	if parsed.Command == "" {
		return nil
	}
	cmd, ok := d.registry.Resolve(parsed.Command)
	if !ok {
		return warn(actor, "Unknown command \""+parsed.Command+"\". Type help for a list.")
	}
	if len(parsed.Args) < cmd.MinArgs {
		return warn(actor, "Usage: "+cmd.Usage)
	}
	d.logger.Debug("dispatching command",
		zap.String("character", actor),
		zap.String("command", cmd.Name),
		zap.Strings("args", parsed.Args),
	)

	args := parsed.Args
	switch cmd.Handler {
	case HandlerMove:
		dir, _ := world.ParseDirection(cmd.Name)
		return d.engine.Step(actor, dir)
	case HandlerAttack:
		return d.engine.Attack(actor)
	case HandlerSkill:
		target := ""
		if len(args) > 1 {
			target = args[1]
		}
		return d.engine.UseSkill(actor, args[0], target)
	case HandlerDuel:
		return d.engine.RequestDuel(actor, args[0])
	case HandlerAccept:
		return d.engine.AcceptDuel(actor, args[0])
	case HandlerDecline:
		return d.engine.DeclineDuel(actor, args[0])
	case HandlerStats:
		return d.reporter.Stats(actor)
	case HandlerSkills:
		return d.reporter.Skills(actor)
	case HandlerHere:
		return d.reporter.Here(actor)
	case HandlerWho:
		return d.reporter.Who(actor)
	case HandlerHelp:
		return []combat.Notice{{Recipient: actor, Message: d.registry.HelpText(), Category: combat.CategoryInfo}}
	default:
		d.logger.Warn("command has no handler", zap.String("command", cmd.Name))
		return warn(actor, "That command is not available.")
	}
}

func warn(actor, msg string) []combat.Notice {
	return []combat.Notice{{Recipient: actor, Message: msg, Category: combat.CategoryWarning}}
}
