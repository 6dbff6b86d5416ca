package npc

// Instance is a live monster. While it stands on a map the Manager owns it;
// once engaged, combat owns a detached copy.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// TemplateID is the source template's ID.
	TemplateID string
	// Name is copied from the template for display.
	Name string
	// MapID and X, Y locate the instance while it is on a map.
	MapID string
	X, Y  int
	HP    int
	MaxHP int
	// Attack is the base attack used for the counter-turn damage roll.
	Attack int
	Exp    int
	Gold   GoldRange
	Drops  []ItemDrop
}

// NewInstance creates a live monster from a template at (x, y) on mapID.
//
// Precondition: id must be non-empty; tmpl must be non-nil.
// Postcondition: HP equals tmpl.BaseHP.
func NewInstance(id string, tmpl *Template, mapID string, x, y int) *Instance {
	return &Instance{
		ID:         id,
		TemplateID: tmpl.ID,
		Name:       tmpl.Name,
		MapID:      mapID,
		X:          x,
		Y:          y,
		HP:         tmpl.BaseHP,
		MaxHP:      tmpl.BaseHP,
		Attack:     tmpl.Attack,
		Exp:        tmpl.Exp,
		Gold:       tmpl.Gold,
		Drops:      append([]ItemDrop(nil), tmpl.Drops...),
	}
}

// Detach returns an independent copy of i for embedding in a combat.
func (i *Instance) Detach() *Instance {
	cp := *i
	cp.Drops = append([]ItemDrop(nil), i.Drops...)
	return &cp
}

// IsDead reports whether the instance has zero or fewer hit points.
func (i *Instance) IsDead() bool {
	return i.HP <= 0
}

// DisplayHP returns HP floored at zero for messages.
func (i *Instance) DisplayHP() int {
	if i.HP < 0 {
		return 0
	}
	return i.HP
}

// HealthDescription returns a visible health state string.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.HP <= 0 {
		return "dead"
	}
	pct := float64(i.HP) / float64(i.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
