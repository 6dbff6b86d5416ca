package condition

// AttackBonus returns the net attack modifier held by l.
func AttackBonus(l *Ledger) int {
	return l.Magnitude(AttackModifier)
}

// DefenseBonus returns the net defense modifier held by l.
func DefenseBonus(l *Ledger) int {
	return l.Magnitude(DefenseModifier)
}
