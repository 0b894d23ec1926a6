package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/storage/profiles"
)

// ProfileManager edits the mod selection of a game's active profile
type ProfileManager struct {
	store *profiles.Store
}

// NewProfileManager creates a new profile manager
func NewProfileManager(store *profiles.Store) *ProfileManager {
	return &ProfileManager{store: store}
}

// Find returns the game's profile whose name (case-insensitive) or ID is nameOrID
func (pm *ProfileManager) Find(gameID, nameOrID string) (domain.ModProfile, error) {
	list, err := pm.store.Profiles(gameID)
	if err != nil {
		return domain.ModProfile{}, err
	}
	for _, p := range list {
		if p.ID == nameOrID {
			return p, nil
		}
	}
	for _, p := range list {
		if strings.EqualFold(p.Name, nameOrID) {
			return p, nil
		}
	}
	return domain.ModProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, nameOrID)
}

// Switch makes the named profile active
func (pm *ProfileManager) Switch(gameID, nameOrID string) (domain.ModProfile, error) {
	p, err := pm.Find(gameID, nameOrID)
	if err != nil {
		return domain.ModProfile{}, err
	}
	if err := pm.store.SetActive(gameID, p.ID); err != nil {
		return domain.ModProfile{}, err
	}
	return p, nil
}

// Enable marks a mod active in the active profile, adding it if needed. A nil priority
// keeps an existing entry's priority; new entries default to 0.
func (pm *ProfileManager) Enable(gameID string, rec domain.ModRecord, priority *int) (domain.ModProfile, error) {
	return pm.edit(gameID, func(p *domain.ModProfile) error {
		i := p.IndexOf(rec.Location)
		if i < 0 {
			p.AppliedMods = append(p.AppliedMods, domain.AppliedModSetting{Location: rec.Location})
			i = len(p.AppliedMods) - 1
		}
		p.AppliedMods[i].IsActive = true
		if priority != nil {
			p.AppliedMods[i].Priority = *priority
		}
		return nil
	})
}

// Disable marks a mod inactive. The entry and its priority are kept.
func (pm *ProfileManager) Disable(gameID string, loc domain.ModLocation) (domain.ModProfile, error) {
	return pm.edit(gameID, func(p *domain.ModProfile) error {
		i := p.IndexOf(loc)
		if i < 0 {
			return fmt.Errorf("%w in active profile: %s", domain.ErrModNotFound, loc)
		}
		p.AppliedMods[i].IsActive = false
		return nil
	})
}

// SetPriority changes the priority of a mod in the active profile
func (pm *ProfileManager) SetPriority(gameID string, loc domain.ModLocation, priority int) (domain.ModProfile, error) {
	return pm.edit(gameID, func(p *domain.ModProfile) error {
		i := p.IndexOf(loc)
		if i < 0 {
			return fmt.Errorf("%w in active profile: %s", domain.ErrModNotFound, loc)
		}
		p.AppliedMods[i].Priority = priority
		return nil
	})
}

// Remove drops a mod's entry from the active profile
func (pm *ProfileManager) Remove(gameID string, loc domain.ModLocation) (domain.ModProfile, error) {
	return pm.edit(gameID, func(p *domain.ModProfile) error {
		i := p.IndexOf(loc)
		if i < 0 {
			return fmt.Errorf("%w in active profile: %s", domain.ErrModNotFound, loc)
		}
		p.AppliedMods = append(p.AppliedMods[:i], p.AppliedMods[i+1:]...)
		return nil
	})
}

func (pm *ProfileManager) edit(gameID string, fn func(p *domain.ModProfile) error) (domain.ModProfile, error) {
	p, err := pm.store.ActiveProfile(gameID)
	if err != nil {
		return domain.ModProfile{}, err
	}
	p = p.Clone()
	if err := fn(&p); err != nil {
		return domain.ModProfile{}, err
	}
	return pm.store.UpdateAppliedMods(gameID, p.AppliedMods)
}

// FindMod picks the discovered mod a user refers to: by name (case-insensitive) first,
// then by path. A name shared by several mods must be given as a path.
func FindMod(records []domain.ModRecord, query string) (domain.ModRecord, error) {
	var matches []domain.ModRecord
	for _, r := range records {
		if strings.EqualFold(r.Name, query) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
	default:
		return domain.ModRecord{}, fmt.Errorf("%q matches %d mods, use its path instead", query, len(matches))
	}

	clean := filepath.Clean(query)
	for _, r := range records {
		display := r.Location.DisplayPath()
		if display == clean || filepath.Base(display) == query {
			return r, nil
		}
	}
	return domain.ModRecord{}, fmt.Errorf("%w: %s", domain.ErrModNotFound, query)
}
