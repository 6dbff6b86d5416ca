package combat

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/duelcore/internal/game/character"
)

// DuelBook holds pending duel requests: at most one challenger per target.
// All methods are safe for concurrent use. Callers holding character locks
// may call it; it never takes character locks itself.
type DuelBook struct {
	mu      sync.Mutex
	pending map[string]string // target → challenger
}

// NewDuelBook creates an empty DuelBook.
func NewDuelBook() *DuelBook {
	return &DuelBook{pending: make(map[string]string)}
}

// Request records challenger's request to target, replacing any earlier one.
//
// Postcondition: returns the replaced challenger, or "" when none.
func (b *DuelBook) Request(target, challenger string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	prev := b.pending[target]
	b.pending[target] = challenger
	if prev == challenger {
		return ""
	}
	return prev
}

// Pending returns the challenger waiting on target.
func (b *DuelBook) Pending(target string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.pending[target]
	return c, ok
}

// Take removes the request to target if it is from challenger.
//
// Postcondition: returns true if a matching request was removed.
func (b *DuelBook) Take(target, challenger string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.pending[target]; !ok || c != challenger {
		return false
	}
	delete(b.pending, target)
	return true
}

// Forget drops every request to or from name.
func (b *DuelBook) Forget(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, name)
	for target, challenger := range b.pending {
		if challenger == name {
			delete(b.pending, target)
		}
	}
}

// RequestDuel records challenger's request to duel target.
func (e *Engine) RequestDuel(challenger, target string) []Notice {
	if challenger == target {
		return one(challenger, CategoryWarning, "You cannot duel yourself.")
	}
	held, unlock := e.roster.Lock(challenger, target)
	defer unlock()

	c, ok := held.Get(challenger)
	if !ok {
		return one(challenger, CategoryWarning, "You are not in the world.")
	}
	t, ok := held.Get(target)
	if !ok {
		return one(challenger, CategoryWarning, "There is no one called %s here.", target)
	}
	if c.InCombat() {
		return one(challenger, CategoryWarning, "You are already in combat.")
	}
	if t.InCombat() {
		return one(challenger, CategoryWarning, "%s is already in combat.", target)
	}

	var n notices
	if prev := e.duels.Request(target, challenger); prev != "" {
		e.logger.Debug("duel request replaced",
			zap.String("target", target),
			zap.String("previous", prev),
			zap.String("challenger", challenger),
		)
	}
	n.add(challenger, CategoryInfo, "You challenge %s to a duel.", target)
	n.add(target, CategoryInfo, "%s challenges you to a duel! Accept or decline %s.", challenger, challenger)
	return n.list
}

// AcceptDuel accepts challenger's pending request to target and starts the
// duel with target acting first.
func (e *Engine) AcceptDuel(target, challenger string) []Notice {
	held, unlock := e.roster.Lock(target, challenger)
	defer unlock()

	t, ok := held.Get(target)
	if !ok {
		return one(target, CategoryWarning, "You are not in the world.")
	}
	if pending, ok := e.duels.Pending(target); !ok || pending != challenger {
		return one(target, CategoryWarning, "There is no such duel request.")
	}
	c, ok := held.Get(challenger)
	if !ok {
		e.duels.Take(target, challenger)
		return one(target, CategoryWarning, "%s is no longer here.", challenger)
	}
	if t.InCombat() || c.InCombat() {
		e.duels.Take(target, challenger)
		return one(target, CategoryWarning, "One of you is already in combat. The request is withdrawn.")
	}
	e.duels.Take(target, challenger)

	for _, p := range []*character.Character{t, c} {
		if p.HP <= 0 {
			p.Revive(ReviveFraction)
		}
	}
	t.Combat = character.NewPvPState(challenger, character.SelfTurn)
	c.Combat = character.NewPvPState(target, character.OpponentTurn)
	e.persist.Enqueue(t)
	e.persist.Enqueue(c)

	var n notices
	n.add(target, CategoryInfo, "You accept %s's challenge. Your turn!", challenger)
	n.add(challenger, CategoryInfo, "%s accepts your challenge! %s acts first.", target, target)
	e.logger.Info("duel started",
		zap.String("challenger", challenger),
		zap.String("target", target),
	)
	return n.list
}

// DeclineDuel refuses challenger's pending request to target.
func (e *Engine) DeclineDuel(target, challenger string) []Notice {
	if !e.duels.Take(target, challenger) {
		return one(target, CategoryWarning, "There is no such duel request.")
	}
	var n notices
	n.add(target, CategoryInfo, "You decline %s's challenge.", challenger)
	n.add(challenger, CategoryInfo, "%s declined your duel.", target)
	return n.list
}
