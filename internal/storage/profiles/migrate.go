package profiles

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// Migrate moves profiles kept in the legacy settings store into profile files.
// A game is migrated only if it has no profiles yet, so running Migrate again is a
// no-op. It returns the number of games migrated.
func (s *Store) Migrate(legacy map[string][]domain.ModProfile, legacyActive map[string]string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	games := make([]string, 0, len(legacy))
	for gameID := range legacy {
		games = append(games, gameID)
	}
	sort.Strings(games)

	migrated := 0
	for _, gameID := range games {
		list := legacy[gameID]
		key := Sanitize(gameID)
		if len(list) == 0 {
			continue
		}
		if len(s.profiles[key]) > 0 {
			s.log.Debug("profiles already present, skipping migration", "game", gameID)
			continue
		}

		activeID := legacyActive[gameID]
		activeFound := false
		for _, p := range list {
			p = p.Clone()
			if strings.TrimSpace(p.ID) == "" {
				p.ID = uuid.NewString()
			}
			name := strings.TrimSpace(p.Name)
			if name == "" {
				name = domain.DefaultProfileName
			}
			p.Name = s.uniqueName(key, name, "")
			if p.LastModified.IsZero() {
				p.LastModified = s.now()
			}
			if p.AppliedMods == nil {
				p.AppliedMods = []domain.AppliedModSetting{}
			}
			if err := s.persist(key, p); err != nil {
				return migrated, err
			}
			if p.ID == activeID {
				activeFound = true
			}
		}

		if !activeFound {
			activeID = s.sorted(key)[0].ID
		}
		if err := s.setActive(key, activeID); err != nil {
			return migrated, err
		}

		s.log.Info("migrated legacy profiles", "game", gameID, "profiles", len(list))
		migrated++
	}
	return migrated, nil
}
