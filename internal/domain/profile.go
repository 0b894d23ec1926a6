package domain

import "time"

// DefaultProfileName is used for profiles synthesized when a game has none
const DefaultProfileName = "Default"

// AppliedModSetting links a profile to a discovered mod. It holds a location reference
// only; the descriptor is resolved from the latest scan results when needed.
type AppliedModSetting struct {
	Location ModLocation
	IsActive bool
	Priority int // Higher wins when mods supply the same file
}

// Resolve looks up the discovered record this setting refers to
func (s AppliedModSetting) Resolve(records []ModRecord) (ModRecord, bool) {
	return FindRecord(records, s.Location)
}

// ModProfile is a named, ordered selection of mods for one game
type ModProfile struct {
	ID           string
	Name         string
	LastModified time.Time
	AppliedMods  []AppliedModSetting
}

// Clone returns a deep copy of the profile
func (p ModProfile) Clone() ModProfile {
	out := p
	if p.AppliedMods != nil {
		out.AppliedMods = make([]AppliedModSetting, len(p.AppliedMods))
		copy(out.AppliedMods, p.AppliedMods)
	}
	return out
}

// ActiveMods returns the active entries in profile order
func (p ModProfile) ActiveMods() []AppliedModSetting {
	var out []AppliedModSetting
	for _, m := range p.AppliedMods {
		if m.IsActive {
			out = append(out, m)
		}
	}
	return out
}

// IndexOf returns the position of the entry for loc, or -1
func (p ModProfile) IndexOf(loc ModLocation) int {
	key := loc.Key()
	for i, m := range p.AppliedMods {
		if m.Location.Key() == key {
			return i
		}
	}
	return -1
}
