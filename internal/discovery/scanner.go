// Package discovery finds the mods installed for a game. A mod is either a folder in the
// game's mods root or an archive there, and in both cases it carries a mod.json manifest
// whose target game matches.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/DonovanMods/pitlane/internal/archive"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/logger"
	"github.com/DonovanMods/pitlane/internal/manifest"
)

// ScanRecorder stores a summary of each completed scan
type ScanRecorder interface {
	RecordScan(gameID string, modCount, skippedCount int) error
}

// Scanner discovers mods in a game's mods root
type Scanner struct {
	log      *log.Logger
	parser   *manifest.Parser
	recorder ScanRecorder
}

// Option configures a Scanner
type Option func(*Scanner)

// WithRecorder records a summary of every scan
func WithRecorder(r ScanRecorder) Option {
	return func(s *Scanner) { s.recorder = r }
}

// WithParser replaces the default manifest strategy chain
func WithParser(p *manifest.Parser) Option {
	return func(s *Scanner) { s.parser = p }
}

// NewScanner creates a scanner. A nil logger discards output.
func NewScanner(l *log.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		log:    logger.OrDiscard(l),
		parser: manifest.NewParser(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the mods for game: folder mods first, then archive mods, each in name order.
// If the mods root cannot be read, Scan returns an empty slice and an error wrapping
// domain.ErrModsRootUnavailable. Individual broken mods are logged and skipped.
func (s *Scanner) Scan(game *domain.Game) ([]domain.ModRecord, error) {
	records := make([]domain.ModRecord, 0)
	if game == nil {
		return records, domain.ErrGameNotFound
	}

	entries, err := os.ReadDir(game.ModsPath)
	if err != nil {
		s.log.Error("cannot read mods folder", "game", game.ID, "path", game.ModsPath, "err", err)
		return records, fmt.Errorf("%w: %s: %w", domain.ErrModsRootUnavailable, game.ModsPath, err)
	}

	var folders, archives []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		full := filepath.Join(game.ModsPath, name)
		info, err := os.Stat(full) // follows symlinks
		if err != nil {
			s.log.Debug("skipping unreadable entry", "path", full, "err", err)
			continue
		}
		switch {
		case info.IsDir():
			folders = append(folders, full)
		case info.Mode().IsRegular() && archive.IsArchiveExtension(name):
			archives = append(archives, full)
		}
	}

	skipped := 0
	for _, dir := range folders {
		rec, err := s.scanFolder(game, dir)
		if err != nil {
			skipped++
			s.logSkip(game, dir, err)
			continue
		}
		records = append(records, rec)
	}
	for _, file := range archives {
		rec, err := s.scanArchive(game, file)
		if err != nil {
			skipped++
			s.logSkip(game, file, err)
			continue
		}
		records = append(records, rec)
	}

	s.log.Info("scan complete", "game", game.ID, "mods", len(records), "skipped", skipped)
	if s.recorder != nil {
		if err := s.recorder.RecordScan(game.ID, len(records), skipped); err != nil {
			s.log.Warn("failed to record scan", "game", game.ID, "err", err)
		}
	}
	return records, nil
}

// Inspect checks a single mod folder or archive and returns the record a scan would
// produce for it, or the reason a scan would skip it
func (s *Scanner) Inspect(game *domain.Game, path string) (domain.ModRecord, error) {
	if game == nil {
		return domain.ModRecord{}, domain.ErrGameNotFound
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.ModRecord{}, err
	}
	if info.IsDir() {
		return s.scanFolder(game, path)
	}
	if !archive.IsArchiveExtension(path) {
		return domain.ModRecord{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedArchive, path)
	}
	return s.scanArchive(game, path)
}

func (s *Scanner) logSkip(game *domain.Game, path string, err error) {
	switch {
	case errors.Is(err, domain.ErrManifestMissing):
		s.log.Debug("skipping: no mod.json", "path", path)
	case errors.Is(err, domain.ErrGameMismatch):
		s.log.Info("skipping mod for another game", "game", game.ID, "path", path, "err", err)
	default:
		s.log.Warn("skipping mod", "path", path, "err", err)
	}
}

func (s *Scanner) scanFolder(game *domain.Game, dir string) (domain.ModRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ModRecord{}, err
	}

	manifestPath := findEntry(dir, entries, domain.ManifestName)
	if manifestPath == "" {
		return domain.ModRecord{}, domain.ErrManifestMissing
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return domain.ModRecord{}, fmt.Errorf("reading manifest: %w", err)
	}
	desc, err := s.describe(game, data)
	if err != nil {
		return domain.ModRecord{}, err
	}

	icon := findEntry(dir, entries, domain.IconName)
	if icon == "" {
		icon = domain.DefaultIcon
	}

	return domain.ModRecord{
		ModDescriptor: desc,
		Kind:          domain.SourceFolder,
		Location:      domain.FolderLocation(dir),
		Icon:          icon,
	}, nil
}

func (s *Scanner) scanArchive(game *domain.Game, file string) (domain.ModRecord, error) {
	a, err := archive.Open(file)
	if err != nil {
		return domain.ModRecord{}, err
	}
	defer a.Close()

	files, err := a.List()
	if err != nil {
		return domain.ModRecord{}, err
	}

	manifestEntry, ok := findManifest(files)
	if !ok {
		return domain.ModRecord{}, domain.ErrManifestMissing
	}

	data, err := a.ReadFile(manifestEntry)
	if err != nil {
		return domain.ModRecord{}, err
	}
	desc, err := s.describe(game, data)
	if err != nil {
		return domain.ModRecord{}, err
	}

	root := path.Dir(manifestEntry)
	if root == "." {
		root = ""
	}

	icon := domain.DefaultIcon
	for _, f := range files {
		if equalEntry(f.Name, joinEntry(root, domain.IconName)) {
			icon = f.Name
			break
		}
	}

	return domain.ModRecord{
		ModDescriptor: desc,
		Kind:          domain.SourceArchive,
		Location:      domain.ArchiveLocation(file, root),
		Icon:          icon,
	}, nil
}

func (s *Scanner) describe(game *domain.Game, data []byte) (domain.ModDescriptor, error) {
	desc, strategy, err := s.parser.Parse(data)
	if err != nil {
		return domain.ModDescriptor{}, err
	}
	if strategy != "strict" {
		s.log.Debug("manifest needed lenient parsing", "strategy", strategy, "mod", desc.Name)
	}
	if !game.MatchesTarget(desc.Game) {
		return domain.ModDescriptor{}, fmt.Errorf("%w: %q is for %q", domain.ErrGameMismatch, desc.Name, desc.Game)
	}
	return desc, nil
}

// findManifest picks mod.json at the archive root, else one directory deep.
// Among several candidates at the same depth the lexically first wins.
func findManifest(files []archive.FileInfo) (string, bool) {
	var root, nested []string
	for _, f := range files {
		dir, base := path.Split(f.Name)
		if !strings.EqualFold(base, domain.ManifestName) {
			continue
		}
		switch strings.Count(dir, "/") {
		case 0:
			root = append(root, f.Name)
		case 1:
			nested = append(nested, f.Name)
		}
	}
	for _, candidates := range [][]string{root, nested} {
		if len(candidates) > 0 {
			sort.Strings(candidates)
			return candidates[0], true
		}
	}
	return "", false
}

// findEntry returns the path of the regular file in dir named name (case-insensitive)
func findEntry(dir string, entries []fs.DirEntry, name string) string {
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(e.Name(), name) {
			continue
		}
		return filepath.Join(dir, e.Name())
	}
	return ""
}

func joinEntry(root, name string) string {
	if root == "" {
		return name
	}
	return root + "/" + name
}

func equalEntry(a, b string) bool {
	return strings.EqualFold(a, b)
}
