package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/DonovanMods/pitlane/internal/discovery"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/linker"
	"github.com/DonovanMods/pitlane/internal/logger"
	"github.com/DonovanMods/pitlane/internal/storage/cache"
	"github.com/DonovanMods/pitlane/internal/storage/config"
	"github.com/DonovanMods/pitlane/internal/storage/db"
	"github.com/DonovanMods/pitlane/internal/storage/profiles"
)

// ServiceConfig holds configuration for the core service
type ServiceConfig struct {
	ConfigDir string      // Directory for configuration files
	DataDir   string      // Directory for profiles, database and backups
	CacheDir  string      // Directory for extracted archive mods
	Logger    *log.Logger // Optional
}

// Service wires the stores, scanner and deployer together for one pitlane installation
type Service struct {
	config   *config.Config
	db       *db.DB
	cache    *cache.Cache
	profiles *profiles.Store
	scanner  *discovery.Scanner
	games    map[string]*domain.Game
	log      *log.Logger

	configDir string
	dataDir   string
}

// NewService loads configuration and opens every store. Profiles still kept in
// config.yaml by older releases are migrated to profile files.
func NewService(cfg ServiceConfig) (*Service, error) {
	l := logger.OrDiscard(cfg.Logger)

	appConfig, err := config.Load(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	games, err := config.LoadGames(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("loading games: %w", err)
	}

	store, err := profiles.Open(filepath.Join(cfg.DataDir, "profiles"), l)
	if err != nil {
		return nil, fmt.Errorf("opening profiles: %w", err)
	}

	database, err := db.New(filepath.Join(cfg.DataDir, "pitlane.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Service{
		config:    appConfig,
		db:        database,
		cache:     cache.New(appConfig.CacheDir(cfg.CacheDir)),
		profiles:  store,
		scanner:   discovery.NewScanner(l, discovery.WithRecorder(database)),
		games:     games,
		log:       l,
		configDir: cfg.ConfigDir,
		dataDir:   cfg.DataDir,
	}

	if appConfig.HasLegacyProfiles() {
		if _, err := s.MigrateLegacyProfiles(); err != nil {
			database.Close()
			return nil, err
		}
	}

	return s, nil
}

// Close releases resources held by the service
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// MigrateLegacyProfiles writes profiles from config.yaml's legacy section to profile
// files. Games that already have profiles are left alone, so repeated calls are harmless.
func (s *Service) MigrateLegacyProfiles() (int, error) {
	n, err := s.profiles.Migrate(s.config.LegacyDomainProfiles(), s.config.LegacyActiveProfiles)
	if err != nil {
		return n, fmt.Errorf("migrating legacy profiles: %w", err)
	}
	if n > 0 {
		s.log.Info("migrated legacy profiles", "games", n)
	}
	return n, nil
}

// GetGame retrieves a game by ID
func (s *Service) GetGame(gameID string) (*domain.Game, error) {
	game, ok := s.games[gameID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrGameNotFound, gameID)
	}
	return game, nil
}

// ResolveGame returns the named game, or the default game when gameID is empty.
// With no default configured, a single registered game is used.
func (s *Service) ResolveGame(gameID string) (*domain.Game, error) {
	if gameID != "" {
		return s.GetGame(gameID)
	}
	if s.config.DefaultGame != "" {
		return s.GetGame(s.config.DefaultGame)
	}
	if len(s.games) == 1 {
		for _, g := range s.games {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: no game specified and no default game set", domain.ErrGameNotFound)
}

// ListGames returns all configured games sorted by ID
func (s *Service) ListGames() []*domain.Game {
	games := make([]*domain.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games
}

// AddGame adds or replaces a game configuration
func (s *Service) AddGame(game *domain.Game) error {
	if err := config.SaveGame(s.configDir, game); err != nil {
		return err
	}
	s.games[game.ID] = game
	return nil
}

// RemoveGame deletes a game from games.yaml. Profiles, backups and deployed files are untouched.
func (s *Service) RemoveGame(gameID string) error {
	if err := config.DeleteGame(s.configDir, gameID); err != nil {
		return err
	}
	delete(s.games, gameID)
	if s.config.DefaultGame == gameID {
		s.config.DefaultGame = ""
		return s.config.Save(s.configDir)
	}
	return nil
}

// DefaultGameID returns the configured default game, if any
func (s *Service) DefaultGameID() string {
	return s.config.DefaultGame
}

// SetDefaultGame makes gameID the game used when none is specified
func (s *Service) SetDefaultGame(gameID string) error {
	if _, err := s.GetGame(gameID); err != nil {
		return err
	}
	s.config.DefaultGame = gameID
	return s.config.Save(s.configDir)
}

// GetLinker returns a linker for the given method
func (s *Service) GetLinker(method domain.LinkMethod) linker.Linker {
	return linker.New(method)
}

// GetDefaultLinkMethod returns the default link method from config
func (s *Service) GetDefaultLinkMethod() domain.LinkMethod {
	return s.config.DefaultLinkMethod
}

// GetGameLinkMethod returns the effective link method for a game.
// Uses the game's explicit setting if configured, otherwise falls back to global default.
func (s *Service) GetGameLinkMethod(game *domain.Game) domain.LinkMethod {
	if game.LinkMethodExplicit {
		return game.LinkMethod
	}
	return s.config.DefaultLinkMethod
}

// Scan discovers the mods installed for a game
func (s *Service) Scan(gameID string) ([]domain.ModRecord, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return s.scanner.Scan(game)
}

// Inspect validates a single mod folder or archive against a game
func (s *Service) Inspect(gameID, path string) (domain.ModRecord, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return domain.ModRecord{}, err
	}
	return s.scanner.Inspect(game, path)
}

// ActiveMods pairs each active entry of the game's active profile with its discovered
// record and file list. Entries whose mod is no longer present are skipped.
func (s *Service) ActiveMods(gameID string) ([]ActiveMod, error) {
	records, err := s.Scan(gameID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.ActiveProfile(gameID)
	if err != nil {
		return nil, err
	}

	var mods []ActiveMod
	for _, setting := range profile.ActiveMods() {
		rec, ok := setting.Resolve(records)
		if !ok {
			s.log.Warn("active mod not found, skipping", "game", gameID, "mod", setting.Location.DisplayPath())
			continue
		}
		files, err := discovery.ListFiles(rec)
		if err != nil {
			s.log.Warn("cannot list mod files, skipping", "mod", rec.Name, "err", err)
			continue
		}
		mods = append(mods, ActiveMod{Setting: setting, Name: rec.Name, Files: files})
	}
	return mods, nil
}

// Conflicts resolves file ownership for the game's active profile
func (s *Service) Conflicts(gameID string) (Resolution, error) {
	mods, err := s.ActiveMods(gameID)
	if err != nil {
		return Resolution{}, err
	}
	return ResolveConflicts(mods), nil
}

// Deployer returns a deployer for the game using its effective link method
func (s *Service) Deployer(game *domain.Game) *Deployer {
	return NewDeployer(DeployerConfig{
		Game:      game,
		DB:        s.db,
		Cache:     s.cache,
		Linker:    s.GetLinker(s.GetGameLinkMethod(game)),
		BackupDir: filepath.Join(s.dataDir, "backups", profiles.Sanitize(game.ID)),
		Logger:    s.log,
	})
}

// Deploy places the active profile's winning files into the game directory
func (s *Service) Deploy(ctx context.Context, gameID string) (*DeployResult, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	res, err := s.Conflicts(gameID)
	if err != nil {
		return nil, err
	}
	return s.Deployer(game).Deploy(ctx, res)
}

// Restore removes deployed files and puts the original game files back
func (s *Service) Restore(ctx context.Context, gameID string) (*RestoreResult, error) {
	game, err := s.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return s.Deployer(game).Restore(ctx)
}

// ResetBackups deletes the game's backups
func (s *Service) ResetBackups(gameID string) error {
	game, err := s.GetGame(gameID)
	if err != nil {
		return err
	}
	return s.Deployer(game).ResetBackups()
}

// CachedMod is an archive mod with a complete extraction in the cache
type CachedMod struct {
	Record domain.ModRecord
	Files  []string // Slash separated paths inside the cache entry
}

// CachedMods lists the scanned archive mods that have been extracted for the game.
// Entries for archives that have since changed or disappeared are not reported.
func (s *Service) CachedMods(gameID string) ([]CachedMod, error) {
	records, err := s.Scan(gameID)
	if err != nil {
		return nil, err
	}

	var cached []CachedMod
	for _, rec := range records {
		if !rec.Location.IsArchive() {
			continue
		}
		content, err := discovery.ContentOf(rec)
		if err != nil {
			s.log.Debug("skipping unreadable archive", "archive", rec.Location.ArchivePath, "err", err)
			continue
		}
		key, err := cache.KeyFor(gameID, rec.Location.ArchivePath, content.Dir)
		if err != nil || !s.cache.Exists(key) {
			continue
		}
		files, err := s.cache.ListFiles(key)
		if err != nil {
			return nil, err
		}
		cached = append(cached, CachedMod{Record: rec, Files: files})
	}
	return cached, nil
}

// CacheSize returns the bytes held by the game's cache entries
func (s *Service) CacheSize(gameID string) (int64, error) {
	if _, err := s.GetGame(gameID); err != nil {
		return 0, err
	}
	return s.cache.Size(gameID)
}

// ClearCache removes every cache entry of the game. Deployed copies are untouched;
// symlinked files point into the cache, so the next deploy re-extracts them.
func (s *Service) ClearCache(gameID string) error {
	if _, err := s.GetGame(gameID); err != nil {
		return err
	}
	s.log.Info("clearing cache", "game", gameID)
	return s.cache.Clear(gameID)
}

// ProfileManager returns the mod-level profile operations
func (s *Service) ProfileManager() *ProfileManager {
	return NewProfileManager(s.profiles)
}

// Importer returns a mod importer for the service's scanner
func (s *Service) Importer() *Importer {
	return NewImporter(s.scanner, s.log)
}

// Profiles returns the profile store
func (s *Service) Profiles() *profiles.Store {
	return s.profiles
}

// LastScan returns the most recent scan summary for a game, or nil
func (s *Service) LastScan(gameID string) (*db.Scan, error) {
	return s.db.LastScan(gameID)
}

// Cache returns the extraction cache
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// DB returns the database
func (s *Service) DB() *db.DB {
	return s.db
}

// Config returns the loaded settings
func (s *Service) Config() *config.Config {
	return s.config
}

// ConfigDir returns the configuration directory
func (s *Service) ConfigDir() string {
	return s.configDir
}

// DataDir returns the data directory
func (s *Service) DataDir() string {
	return s.dataDir
}

// IsModsRootMissing reports whether err means the game's mods folder is unreadable
func IsModsRootMissing(err error) bool {
	return errors.Is(err, domain.ErrModsRootUnavailable)
}
