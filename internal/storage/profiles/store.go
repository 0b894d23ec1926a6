// Package profiles persists mod profiles. Each profile is one JSON file named
// "<game>_<id>.json" and each game's active profile is recorded in "<game>.active".
// All state is cached in memory behind a single mutex.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/logger"
)

// NewProfileName is used when a profile is created without a name
const NewProfileName = "New Profile"

// Store is the file-backed profile repository
type Store struct {
	dir string
	log *log.Logger
	now func() time.Time

	mu       sync.Mutex
	profiles map[string]map[string]domain.ModProfile // game key -> profile id -> profile
	active   map[string]string                       // game key -> profile id
}

// Open loads every profile and active marker in dir, creating dir if needed.
// Files that cannot be parsed are logged and ignored.
func Open(dir string, l *log.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating profiles directory: %w", err)
	}

	s := &Store{
		dir:      dir,
		log:      logger.OrDiscard(l),
		now:      func() time.Time { return time.Now().UTC() },
		profiles: make(map[string]map[string]domain.ModProfile),
		active:   make(map[string]string),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("reading profiles directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())

		switch filepath.Ext(e.Name()) {
		case profileExt:
			data, err := os.ReadFile(path)
			if err != nil {
				s.log.Warn("cannot read profile", "path", path, "err", err)
				continue
			}
			p, err := decodeProfile(data)
			if err != nil || p.ID == "" {
				s.log.Warn("ignoring malformed profile", "path", path, "err", err)
				continue
			}
			key, ok := gameKeyFromFile(e.Name(), p.ID)
			if !ok {
				s.log.Warn("ignoring profile with unexpected filename", "path", path)
				continue
			}
			s.gameProfiles(key)[p.ID] = p

		case activeExt:
			data, err := os.ReadFile(path)
			if err != nil {
				s.log.Warn("cannot read active profile marker", "path", path, "err", err)
				continue
			}
			s.active[strings.TrimSuffix(e.Name(), activeExt)] = strings.TrimSpace(string(data))
		}
	}
	return nil
}

// Dir returns the directory profiles are stored in
func (s *Store) Dir() string {
	return s.dir
}

// gameProfiles returns the cache bucket for key, creating it. Caller must hold s.mu.
func (s *Store) gameProfiles(key string) map[string]domain.ModProfile {
	m, ok := s.profiles[key]
	if !ok {
		m = make(map[string]domain.ModProfile)
		s.profiles[key] = m
	}
	return m
}

// sorted returns the game's profiles ordered by name. Caller must hold s.mu.
func (s *Store) sorted(key string) []domain.ModProfile {
	list := make([]domain.ModProfile, 0, len(s.profiles[key]))
	for _, p := range s.profiles[key] {
		list = append(list, p)
	}
	sortProfiles(list)
	return list
}

// sortProfiles orders by name ignoring case, then exact name, then id
func sortProfiles(list []domain.ModProfile) {
	sort.Slice(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

// ensureDefault synthesizes an active "Default" profile when the game has none. Caller must hold s.mu.
func (s *Store) ensureDefault(key string) error {
	if len(s.profiles[key]) > 0 {
		return nil
	}
	p := s.newProfile(domain.DefaultProfileName)
	if err := s.persist(key, p); err != nil {
		return err
	}
	s.log.Info("created default profile", "game", key, "id", p.ID)
	return s.setActive(key, p.ID)
}

func (s *Store) newProfile(name string) domain.ModProfile {
	return domain.ModProfile{
		ID:           uuid.NewString(),
		Name:         name,
		LastModified: s.now(),
		AppliedMods:  []domain.AppliedModSetting{},
	}
}

// persist writes p to disk and caches it. Caller must hold s.mu.
func (s *Store) persist(key string, p domain.ModProfile) error {
	data, err := encodeProfile(p)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.dir, profileFileName(key, p.ID)), data); err != nil {
		return fmt.Errorf("saving profile %q: %w", p.Name, err)
	}
	s.gameProfiles(key)[p.ID] = p.Clone()
	return nil
}

// setActive writes the marker file and caches it. Caller must hold s.mu.
func (s *Store) setActive(key, id string) error {
	if err := writeFileAtomic(filepath.Join(s.dir, activeFileName(key)), []byte(id+"\n")); err != nil {
		return fmt.Errorf("saving active profile: %w", err)
	}
	s.active[key] = id
	return nil
}

// lookup returns the cached profile. Caller must hold s.mu.
func (s *Store) lookup(key, id string) (domain.ModProfile, error) {
	p, ok := s.profiles[key][id]
	if !ok {
		return domain.ModProfile{}, fmt.Errorf("%w: %s", domain.ErrProfileNotFound, id)
	}
	return p, nil
}

// activeLocked resolves the active profile, repairing a stale marker. Caller must hold s.mu.
func (s *Store) activeLocked(key string) (domain.ModProfile, error) {
	if err := s.ensureDefault(key); err != nil {
		return domain.ModProfile{}, err
	}
	if p, ok := s.profiles[key][s.active[key]]; ok {
		return p, nil
	}

	p := s.sorted(key)[0]
	s.log.Debug("active profile marker missing or stale, falling back", "game", key, "profile", p.Name)
	if err := s.setActive(key, p.ID); err != nil {
		return domain.ModProfile{}, err
	}
	return p, nil
}

// uniqueName returns name, or name with " (n)" appended if another profile of the game
// already uses it. The profile with id skip is ignored. Caller must hold s.mu.
func (s *Store) uniqueName(key, name, skip string) string {
	taken := make(map[string]bool)
	for id, p := range s.profiles[key] {
		if id != skip {
			taken[p.Name] = true
		}
	}
	if !taken[name] {
		return name
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", name, n)
		if !taken[candidate] {
			return candidate
		}
	}
}

// Profiles returns copies of the game's profiles sorted by name. A game without
// profiles gets an active "Default" profile first.
func (s *Store) Profiles(gameID string) ([]domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureDefault(key); err != nil {
		return nil, err
	}
	list := s.sorted(key)
	for i := range list {
		list[i] = list[i].Clone()
	}
	return list, nil
}

// Get returns a copy of one profile
func (s *Store) Get(gameID, id string) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(key, id)
	if err != nil {
		return domain.ModProfile{}, err
	}
	return p.Clone(), nil
}

// ActiveProfile returns the game's active profile. A missing or stale marker falls back
// to the first profile by name, and the repaired marker is saved.
func (s *Store) ActiveProfile(gameID string) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(key)
	if err != nil {
		return domain.ModProfile{}, err
	}
	return p.Clone(), nil
}

// SetActive makes the profile with id the game's active profile
func (s *Store) SetActive(gameID, id string) error {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(key, id); err != nil {
		return err
	}
	return s.setActive(key, id)
}

// Create adds an empty profile and makes it active. A blank name becomes "New Profile";
// a name already in use gets a " (n)" suffix.
func (s *Store) Create(gameID, name string) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		name = NewProfileName
	}

	p := s.newProfile(s.uniqueName(key, name, ""))
	if err := s.persist(key, p); err != nil {
		return domain.ModProfile{}, err
	}
	if err := s.setActive(key, p.ID); err != nil {
		return domain.ModProfile{}, err
	}
	return p.Clone(), nil
}

// Delete removes a profile. If it was active the first remaining profile takes over;
// deleting the last profile leaves a fresh "Default" in its place.
func (s *Store) Delete(gameID, id string) error {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(key, id); err != nil {
		return err
	}

	path := filepath.Join(s.dir, profileFileName(key, id))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting profile: %w", err)
	}
	delete(s.profiles[key], id)

	if len(s.profiles[key]) == 0 {
		return s.ensureDefault(key)
	}
	if s.active[key] == id {
		return s.setActive(key, s.sorted(key)[0].ID)
	}
	return nil
}

// Rename changes a profile's name, keeping names unique within the game
func (s *Store) Rename(gameID, id, name string) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.lookup(key, id)
	if err != nil {
		return domain.ModProfile{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ModProfile{}, fmt.Errorf("%w: profile name cannot be empty", domain.ErrInvalidConfig)
	}

	p = p.Clone()
	p.Name = s.uniqueName(key, name, id)
	p.LastModified = s.now()
	if err := s.persist(key, p); err != nil {
		return domain.ModProfile{}, err
	}
	return p, nil
}

// Duplicate copies a profile under a new id. The name defaults to "<source> Copy".
// The copy is not made active.
func (s *Store) Duplicate(gameID, id, name string) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	src, err := s.lookup(key, id)
	if err != nil {
		return domain.ModProfile{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = src.Name + " Copy"
	}

	p := src.Clone()
	p.ID = uuid.NewString()
	p.Name = s.uniqueName(key, name, "")
	p.LastModified = s.now()
	if err := s.persist(key, p); err != nil {
		return domain.ModProfile{}, err
	}
	return p, nil
}

// UpdateAppliedMods replaces the active profile's mod list
func (s *Store) UpdateAppliedMods(gameID string, mods []domain.AppliedModSetting) (domain.ModProfile, error) {
	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.activeLocked(key)
	if err != nil {
		return domain.ModProfile{}, err
	}

	p = p.Clone()
	p.AppliedMods = make([]domain.AppliedModSetting, len(mods))
	copy(p.AppliedMods, mods)
	p.LastModified = s.now()
	if err := s.persist(key, p); err != nil {
		return domain.ModProfile{}, err
	}
	return p, nil
}

// Export writes a profile to path in the profile file format
func (s *Store) Export(gameID, id, path string) error {
	key := Sanitize(gameID)
	s.mu.Lock()
	p, err := s.lookup(key, id)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	data, err := encodeProfile(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("exporting profile: %w", err)
	}
	return nil
}

// Import reads an exported profile and adds it under a fresh id. The imported
// profile is not made active.
func (s *Store) Import(gameID, path string) (domain.ModProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ModProfile{}, fmt.Errorf("reading %s: %w", path, err)
	}
	p, err := decodeProfile(data)
	if err != nil {
		return domain.ModProfile{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	key := Sanitize(gameID)
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = NewProfileName
	}
	p.ID = uuid.NewString()
	p.Name = s.uniqueName(key, name, "")
	p.LastModified = s.now()
	if p.AppliedMods == nil {
		p.AppliedMods = []domain.AppliedModSetting{}
	}
	if err := s.persist(key, p); err != nil {
		return domain.ModProfile{}, err
	}
	return p.Clone(), nil
}
