// Package config reads and writes pitlane's YAML settings: config.yaml for global
// settings and games.yaml for the registered games.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DonovanMods/pitlane/internal/domain"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// Keybinding modes understood by the TUI
const (
	KeybindingsVim      = "vim"
	KeybindingsStandard = "standard"
)

// Config is the content of config.yaml
type Config struct {
	DefaultGame       string            `yaml:"default_game,omitempty"`
	DefaultLinkMethod domain.LinkMethod `yaml:"-"`
	LinkMethodStr     string            `yaml:"default_link_method"`
	Keybindings       string            `yaml:"keybindings"`
	CachePath         string            `yaml:"cache_path,omitempty"` // May start with ~

	// Profiles written by releases that kept them in config.yaml, read until migrated
	LegacyProfiles       map[string][]LegacyProfile `yaml:"legacy_profiles,omitempty"`
	LegacyActiveProfiles map[string]string          `yaml:"legacy_active_profiles,omitempty"`
}

// Default returns the settings used when config.yaml does not exist
func Default() *Config {
	return &Config{
		DefaultLinkMethod: domain.LinkSymlink,
		Keybindings:       KeybindingsVim,
	}
}

// Load reads config.yaml from configDir. A missing file yields Default; a file that
// does not parse, or names an unknown keybinding mode, wraps domain.ErrInvalidConfig.
func Load(configDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configDir, configFileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parsing config: %w", domain.ErrInvalidConfig, err)
	}

	if cfg.LinkMethodStr != "" {
		cfg.DefaultLinkMethod = domain.ParseLinkMethod(cfg.LinkMethodStr)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Keybindings)) {
	case "", KeybindingsVim:
		cfg.Keybindings = KeybindingsVim
	case KeybindingsStandard:
		cfg.Keybindings = KeybindingsStandard
	default:
		return nil, fmt.Errorf("%w: keybindings must be %q or %q, got %q",
			domain.ErrInvalidConfig, KeybindingsVim, KeybindingsStandard, cfg.Keybindings)
	}
	return cfg, nil
}

// Save writes config.yaml into configDir, creating the directory if needed
func (c *Config) Save(configDir string) error {
	c.LinkMethodStr = c.DefaultLinkMethod.String()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, configFileName), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// CacheDir returns the configured cache location with ~ expanded, or fallback when none is set
func (c *Config) CacheDir(fallback string) string {
	if c.CachePath == "" {
		return fallback
	}
	return ExpandPath(c.CachePath)
}

// ExpandPath replaces a leading "~" with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// LegacyProfile is a profile as older releases kept it inside config.yaml
type LegacyProfile struct {
	ID           string      `yaml:"id"`
	Name         string      `yaml:"name"`
	LastModified time.Time   `yaml:"last_modified,omitempty"`
	Mods         []LegacyMod `yaml:"mods"`
}

// LegacyMod is one applied mod inside a LegacyProfile
type LegacyMod struct {
	Path          string `yaml:"path"`
	Active        bool   `yaml:"active"`
	FromArchive   bool   `yaml:"from_archive,omitempty"`
	ArchiveSource string `yaml:"archive_source,omitempty"`
	ArchiveRoot   string `yaml:"archive_root,omitempty"`
	Priority      int    `yaml:"priority"`
}

func (m LegacyMod) setting() domain.AppliedModSetting {
	loc := domain.FolderLocation(m.Path)
	if m.FromArchive && m.ArchiveSource != "" {
		loc = domain.ArchiveLocation(m.ArchiveSource, m.ArchiveRoot)
	}
	return domain.AppliedModSetting{Location: loc, IsActive: m.Active, Priority: m.Priority}
}

// HasLegacyProfiles reports whether config.yaml still carries profiles to migrate
func (c *Config) HasLegacyProfiles() bool {
	return len(c.LegacyProfiles) > 0
}

// LegacyDomainProfiles converts the legacy section into domain profiles keyed by game id
func (c *Config) LegacyDomainProfiles() map[string][]domain.ModProfile {
	out := make(map[string][]domain.ModProfile, len(c.LegacyProfiles))
	for gameID, list := range c.LegacyProfiles {
		profiles := make([]domain.ModProfile, 0, len(list))
		for _, lp := range list {
			p := domain.ModProfile{
				ID:           lp.ID,
				Name:         lp.Name,
				LastModified: lp.LastModified,
				AppliedMods:  make([]domain.AppliedModSetting, 0, len(lp.Mods)),
			}
			for _, m := range lp.Mods {
				p.AppliedMods = append(p.AppliedMods, m.setting())
			}
			profiles = append(profiles, p)
		}
		out[gameID] = profiles
	}
	return out
}
