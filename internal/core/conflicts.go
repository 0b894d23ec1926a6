package core

import (
	"sort"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// ActiveMod is a profile entry paired with its resolved name and the files it supplies
type ActiveMod struct {
	Setting domain.AppliedModSetting
	Name    string
	Files   []string // Relative, slash separated
}

func (m ActiveMod) claimant() domain.ConflictClaimant {
	return domain.ConflictClaimant{
		Name:     m.Name,
		Location: m.Setting.Location,
		Priority: m.Setting.Priority,
	}
}

// Resolution is the outcome of resolving file ownership across active mods
type Resolution struct {
	owners    map[string]ActiveMod
	claimants map[string][]ActiveMod
}

// ResolveConflicts decides which mod supplies each file. The highest priority wins;
// equal priorities go to the mod listed first in the profile. Inactive entries are ignored.
func ResolveConflicts(mods []ActiveMod) Resolution {
	r := Resolution{
		owners:    make(map[string]ActiveMod),
		claimants: make(map[string][]ActiveMod),
	}

	for _, m := range mods {
		if !m.Setting.IsActive {
			continue
		}
		seen := make(map[string]bool, len(m.Files))
		for _, f := range m.Files {
			if seen[f] {
				continue
			}
			seen[f] = true
			r.claimants[f] = append(r.claimants[f], m)

			// Strictly greater, so the earlier claimant keeps a tie
			if owner, ok := r.owners[f]; !ok || m.Setting.Priority > owner.Setting.Priority {
				r.owners[f] = m
			}
		}
	}
	return r
}

// Owner returns the mod that supplies path
func (r Resolution) Owner(path string) (ActiveMod, bool) {
	m, ok := r.owners[path]
	return m, ok
}

// Plan returns the winning mod for every claimed path
func (r Resolution) Plan() map[string]ActiveMod {
	out := make(map[string]ActiveMod, len(r.owners))
	for p, m := range r.owners {
		out[p] = m
	}
	return out
}

// Paths returns every claimed path, sorted
func (r Resolution) Paths() []string {
	paths := make([]string, 0, len(r.owners))
	for p := range r.owners {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Conflicts returns the paths claimed by more than one active mod, sorted by path
func (r Resolution) Conflicts() []domain.ModFileConflict {
	var out []domain.ModFileConflict
	for _, path := range r.Paths() {
		claimants := r.claimants[path]
		if len(claimants) < 2 {
			continue
		}

		winner := r.owners[path]
		c := domain.ModFileConflict{
			Path:      path,
			Claimants: make([]domain.ConflictClaimant, 0, len(claimants)),
			Winner:    winner.claimant(),
		}
		winnerKey := winner.Setting.Location.Key()
		for _, m := range claimants {
			c.Claimants = append(c.Claimants, m.claimant())
			if m.Setting.Location.Key() != winnerKey && m.Setting.Priority == winner.Setting.Priority {
				c.Tied = true
			}
		}
		out = append(out, c)
	}
	return out
}

// ConflictsFor returns the conflicts that involve the mod at loc
func (r Resolution) ConflictsFor(loc domain.ModLocation) []domain.ModFileConflict {
	key := loc.Key()
	var out []domain.ModFileConflict
	for _, c := range r.Conflicts() {
		for _, cl := range c.Claimants {
			if cl.Location.Key() == key {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
