// Package combat resolves PvE encounters and PvP duels turn by turn.
//
// Every public Engine operation locks the characters it touches through the
// roster, mutates them, enqueues persistence snapshots, and returns the
// ordered notices for the caller to deliver. Domain failures are notices,
// never errors.
package combat

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
	"github.com/cory-johannsen/duelcore/internal/game/dice"
	"github.com/cory-johannsen/duelcore/internal/game/npc"
	"github.com/cory-johannsen/duelcore/internal/game/roster"
	"github.com/cory-johannsen/duelcore/internal/game/skill"
	"github.com/cory-johannsen/duelcore/internal/game/world"
)

// maxLockAttempts bounds how often acquire retries when a duel changes
// between peeking at the opponent and locking both sides.
const maxLockAttempts = 8

// Maps is the map knowledge the engine needs.
type Maps interface {
	StartMap() string
	IsWalkable(mapID string, x, y int) bool
	SpawnPoint(mapID string) world.Point
	Describe(mapID string) string
}

// Monsters removes live monsters from the map on engagement.
type Monsters interface {
	RemoveAt(mapID string, x, y int) (*npc.Instance, bool)
}

// Spawner tops up a map's monsters as characters move.
type Spawner interface {
	Ensure(mapID string) (*npc.Instance, bool)
}

// Skills looks up skill definitions.
type Skills interface {
	Skill(id string) (*skill.Skill, bool)
	Unlockable(jobID string, level int) []*skill.Skill
}

// EvasionTable returns a job's base evasion.
type EvasionTable interface {
	Evasion(jobID string) float64
}

// Persister accepts character snapshots. Enqueue must not block.
type Persister interface {
	Enqueue(c *character.Character)
}

// Hooks receives combat outcomes. A non-empty return is shown to the
// character named first.
type Hooks interface {
	MonsterDefeated(player, monsterID string) string
	DuelFinished(winner, loser string) string
}

type nopHooks struct{}

func (nopHooks) MonsterDefeated(string, string) string { return "" }
func (nopHooks) DuelFinished(string, string) string    { return "" }

type nopPersister struct{}

func (nopPersister) Enqueue(*character.Character) {}

// Deps are the collaborators of an Engine.
type Deps struct {
	Roster   *roster.Manager
	Skills   Skills
	Jobs     EvasionTable
	Maps     Maps
	Monsters Monsters
	// Spawner may be nil.
	Spawner Spawner
	Dice    dice.Source
	// Persist may be nil, in which case nothing is saved.
	Persist Persister
	// Hooks may be nil.
	Hooks  Hooks
	Logger *zap.Logger
}

// Engine runs PvE and PvP combat over the characters of a roster.
// All methods are safe for concurrent use.
type Engine struct {
	roster   *roster.Manager
	skills   Skills
	jobs     EvasionTable
	maps     Maps
	monsters Monsters
	spawner  Spawner
	src      dice.Source
	persist  Persister
	hooks    Hooks
	logger   *zap.Logger
	duels    *DuelBook
}

// NewEngine creates an Engine.
//
// Precondition: d.Roster, d.Skills, d.Jobs, d.Maps, d.Monsters, d.Dice and
// d.Logger must be non-nil.
// Postcondition: Returns a non-nil Engine with an empty duel book.
func NewEngine(d Deps) *Engine {
	e := &Engine{
		roster:   d.Roster,
		skills:   d.Skills,
		jobs:     d.Jobs,
		maps:     d.Maps,
		monsters: d.Monsters,
		spawner:  d.Spawner,
		src:      d.Dice,
		persist:  d.Persist,
		hooks:    d.Hooks,
		logger:   d.Logger,
		duels:    NewDuelBook(),
	}
	if e.persist == nil {
		e.persist = nopPersister{}
	}
	if e.hooks == nil {
		e.hooks = nopHooks{}
	}
	return e
}

// Duels returns the engine's pending duel requests.
func (e *Engine) Duels() *DuelBook {
	return e.duels
}

// scope is the set of characters locked for one operation.
type scope struct {
	actor *character.Character
	// opp is the duel opponent, nil outside PvP or when the opponent no
	// longer exists.
	opp    *character.Character
	unlock func()
}

// acquire locks actor and, while actor is duelling, its opponent too.
//
// Postcondition: ok is false when actor is unknown or the duel kept changing;
// otherwise the caller must call s.unlock.
func (e *Engine) acquire(actor string) (s scope, ok bool) {
	for range maxLockAttempts {
		held, unlock := e.roster.Lock(actor)
		c, found := held.Get(actor)
		if !found {
			unlock()
			return scope{}, false
		}
		pvp, duelling := c.Combat.(*character.PvPState)
		if !duelling {
			return scope{actor: c, unlock: unlock}, true
		}
		opponent := pvp.Opponent
		unlock()

		held, unlock = e.roster.Lock(actor, opponent)
		c, found = held.Get(actor)
		if !found {
			unlock()
			return scope{}, false
		}
		pvp, duelling = c.Combat.(*character.PvPState)
		if !duelling || pvp.Opponent != opponent {
			unlock()
			continue
		}
		opp, _ := held.Get(opponent)
		return scope{actor: c, opp: opp, unlock: unlock}, true
	}
	e.logger.Warn("combat lock contention", zap.String("character", actor))
	return scope{}, false
}

func (e *Engine) unavailable(actor string) []Notice {
	if !e.roster.Exists(actor) {
		return one(actor, CategoryWarning, "You are not in the world.")
	}
	return one(actor, CategoryWarning, "The fight is shifting too quickly. Try again.")
}

// relocate revives c and sends it to the start map's spawn point.
func (e *Engine) relocate(c *character.Character, n *notices) {
	start := e.maps.StartMap()
	sp := e.maps.SpawnPoint(start)
	c.Revive(ReviveFraction)
	c.Location, c.X, c.Y = start, sp.X, sp.Y
	e.roster.Place(c.Name, c.Location, c.X, c.Y)
	n.add(c.Name, CategoryLocation, "%s", e.maps.Describe(start))
}

// Abandon forcibly ends actor's combat when its session disconnects. No
// player command reaches it. A PvE monster is discarded; a duel opponent is
// released without a winner. Pending duel requests to or from actor are
// dropped whether or not it was fighting.
//
// Postcondition: actor holds no combat state.
func (e *Engine) Abandon(actor string) []Notice {
	e.duels.Forget(actor)

	s, ok := e.acquire(actor)
	if !ok {
		return e.unavailable(actor)
	}
	defer s.unlock()

	var n notices
	switch st := s.actor.Combat.(type) {
	case nil:
		n.add(actor, CategoryInfo, "You are not in combat.")
		return n.list
	case *character.PvEState:
		n.add(actor, CategoryInfo, "You flee from %s.", st.Monster.Name)
	case *character.PvPState:
		n.add(actor, CategoryInfo, "You abandon the duel with %s.", st.Opponent)
		if s.opp != nil && duellingWith(s.opp, actor) {
			s.opp.Combat = nil
			n.add(s.opp.Name, CategoryInfo, "%s has left the duel.", actor)
			e.persist.Enqueue(s.opp)
		}
	}
	s.actor.Combat = nil
	e.persist.Enqueue(s.actor)
	e.logger.Info("combat abandoned", zap.String("character", actor))
	return n.list
}

// duellingWith reports whether c holds a PvP state against opponent.
func duellingWith(c *character.Character, opponent string) bool {
	st, ok := c.Combat.(*character.PvPState)
	return ok && st.Opponent == opponent
}
