package condition

import "sort"

// Entry is one timed modifier.
//
// Invariant: RemainingTurns > 0 for every entry held by a Ledger.
type Entry struct {
	Kind           Kind
	Magnitude      int
	Chance         float64
	RemainingTurns int
}

// Ledger holds the active entries for one combatant, at most one per Kind.
// It is not safe for concurrent use; the caller must serialise access.
type Ledger struct {
	entries map[Kind]*Entry
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[Kind]*Entry)}
}

// Stack adds magnitude to any existing entry of kind and resets its duration
// to turns. Without an existing entry a new one is installed.
//
// Postcondition: if turns > 0, Get(kind).RemainingTurns == turns; otherwise
// the kind is removed.
func (l *Ledger) Stack(kind Kind, magnitude, turns int) {
	if turns <= 0 {
		l.Remove(kind)
		return
	}
	if e, ok := l.entries[kind]; ok {
		e.Magnitude += magnitude
		e.RemainingTurns = turns
		return
	}
	l.entries[kind] = &Entry{Kind: kind, Magnitude: magnitude, RemainingTurns: turns}
}

// Replace overwrites any existing entry of e.Kind with e.
//
// Postcondition: Get(e.Kind) == e if e.RemainingTurns > 0; otherwise the kind is removed.
func (l *Ledger) Replace(e Entry) {
	if e.RemainingTurns <= 0 {
		l.Remove(e.Kind)
		return
	}
	cp := e
	l.entries[e.Kind] = &cp
}

// Get returns a copy of the entry for kind.
func (l *Ledger) Get(kind Kind) (Entry, bool) {
	if e, ok := l.entries[kind]; ok {
		return *e, true
	}
	return Entry{}, false
}

// Has reports whether an entry of kind is active.
func (l *Ledger) Has(kind Kind) bool {
	_, ok := l.entries[kind]
	return ok
}

// Magnitude returns the magnitude of kind, or 0 when absent.
func (l *Ledger) Magnitude(kind Kind) int {
	if e, ok := l.entries[kind]; ok {
		return e.Magnitude
	}
	return 0
}

// Chance returns the chance of kind, or 0 when absent.
func (l *Ledger) Chance(kind Kind) float64 {
	if e, ok := l.entries[kind]; ok {
		return e.Chance
	}
	return 0
}

// Decrement consumes one turn of kind. An entry reaching zero is removed.
// Decrementing an absent kind is a no-op.
//
// Postcondition: returns true if the entry expired on this call.
func (l *Ledger) Decrement(kind Kind) bool {
	e, ok := l.entries[kind]
	if !ok {
		return false
	}
	e.RemainingTurns--
	if e.RemainingTurns <= 0 {
		delete(l.entries, kind)
		return true
	}
	return false
}

// TickModifiers consumes one turn of the attack and defense modifiers.
//
// Postcondition: returns the kinds that expired, in Kind order.
func (l *Ledger) TickModifiers() []Kind {
	var expired []Kind
	for _, k := range []Kind{AttackModifier, DefenseModifier} {
		if l.Decrement(k) {
			expired = append(expired, k)
		}
	}
	return expired
}

// Remove deletes the entry for kind. Removing an absent kind is a no-op.
func (l *Ledger) Remove(kind Kind) {
	delete(l.entries, kind)
}

// All returns copies of every active entry ordered by Kind.
func (l *Ledger) All() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Len returns the number of active entries.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Clone returns an independent copy of l.
func (l *Ledger) Clone() *Ledger {
	cp := NewLedger()
	for k, e := range l.entries {
		v := *e
		cp.entries[k] = &v
	}
	return cp
}
