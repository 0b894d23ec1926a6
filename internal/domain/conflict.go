package domain

// ConflictClaimant is one active mod that supplies a contested file
type ConflictClaimant struct {
	Name     string
	Location ModLocation
	Priority int
}

// ModFileConflict is a file path supplied by more than one active mod.
// It is derived from the active profile on demand and never persisted.
type ModFileConflict struct {
	Path      string             // Relative, slash separated
	Claimants []ConflictClaimant // In profile order
	Winner    ConflictClaimant
	Tied      bool // Winner's priority is shared by another claimant; profile order decided it
}

// Losers returns every claimant except the winner
func (c ModFileConflict) Losers() []ConflictClaimant {
	out := make([]ConflictClaimant, 0, len(c.Claimants))
	key := c.Winner.Location.Key()
	for _, cl := range c.Claimants {
		if cl.Location.Key() != key {
			out = append(out, cl)
		}
	}
	return out
}
