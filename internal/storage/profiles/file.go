package profiles

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// profileFile is the on-disk JSON shape of one profile
type profileFile struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	LastModified time.Time        `json:"lastModified"`
	AppliedMods  []appliedModFile `json:"appliedMods"`
}

type appliedModFile struct {
	ModFolderPath   string  `json:"modFolderPath"`
	IsActive        bool    `json:"isActive"`
	IsFromArchive   bool    `json:"isFromArchive"`
	ArchiveSource   *string `json:"archiveSource"`
	ArchiveRootPath *string `json:"archiveRootPath"`
	Priority        int     `json:"priority"`
}

func toFile(p domain.ModProfile) profileFile {
	f := profileFile{
		ID:           p.ID,
		Name:         p.Name,
		LastModified: p.LastModified.UTC(),
		AppliedMods:  make([]appliedModFile, 0, len(p.AppliedMods)),
	}
	for _, m := range p.AppliedMods {
		entry := appliedModFile{
			ModFolderPath: m.Location.DisplayPath(),
			IsActive:      m.IsActive,
			IsFromArchive: m.Location.IsArchive(),
			Priority:      m.Priority,
		}
		if m.Location.IsArchive() {
			source, root := m.Location.ArchivePath, m.Location.RootPath
			entry.ArchiveSource = &source
			entry.ArchiveRootPath = &root
		}
		f.AppliedMods = append(f.AppliedMods, entry)
	}
	return f
}

func (f profileFile) toProfile() domain.ModProfile {
	p := domain.ModProfile{
		ID:           f.ID,
		Name:         f.Name,
		LastModified: f.LastModified,
		AppliedMods:  make([]domain.AppliedModSetting, 0, len(f.AppliedMods)),
	}
	for _, m := range f.AppliedMods {
		var loc domain.ModLocation
		if m.IsFromArchive && m.ArchiveSource != nil {
			root := ""
			if m.ArchiveRootPath != nil {
				root = *m.ArchiveRootPath
			}
			loc = domain.ArchiveLocation(*m.ArchiveSource, root)
		} else {
			loc = domain.FolderLocation(m.ModFolderPath)
		}
		p.AppliedMods = append(p.AppliedMods, domain.AppliedModSetting{
			Location: loc,
			IsActive: m.IsActive,
			Priority: m.Priority,
		})
	}
	return p
}

func encodeProfile(p domain.ModProfile) ([]byte, error) {
	data, err := json.MarshalIndent(toFile(p), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding profile %s: %w", p.ID, err)
	}
	return append(data, '\n'), nil
}

func decodeProfile(data []byte) (domain.ModProfile, error) {
	var f profileFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.ModProfile{}, err
	}
	return f.toProfile(), nil
}

// Sanitize maps an id to a filename-safe form: every character outside [A-Za-z0-9._-] becomes '_'.
// An id made only of dots is replaced with underscores so it never names "." or "..".
func Sanitize(id string) string {
	if id != "" && strings.Trim(id, ".") == "" {
		return strings.Repeat("_", len(id))
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
}

const (
	profileExt = ".json"
	activeExt  = ".active"
)

func profileFileName(gameKey, id string) string {
	return gameKey + "_" + Sanitize(id) + profileExt
}

func activeFileName(gameKey string) string {
	return gameKey + activeExt
}

// gameKeyFromFile recovers the sanitized game id from a profile filename. The profile's
// own id is preferred as the separator; otherwise the name is split at the last '_'.
func gameKeyFromFile(filename, profileID string) (string, bool) {
	base := strings.TrimSuffix(filename, profileExt)
	if profileID != "" {
		if key, ok := strings.CutSuffix(base, "_"+Sanitize(profileID)); ok && key != "" {
			return key, true
		}
	}
	i := strings.LastIndex(base, "_")
	if i <= 0 {
		return "", false
	}
	return base[:i], true
}

// writeFileAtomic replaces path by renaming a fully written temp file over it
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pitlane-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
