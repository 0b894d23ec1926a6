package domain

import (
	"path/filepath"
	"strings"
	"unicode"
)

// LinkMethod determines how mod files are placed into the game directory
type LinkMethod int

const (
	LinkSymlink  LinkMethod = iota // Default: symlink (space efficient)
	LinkHardlink                   // Hardlink (transparent to the game)
	LinkCopy                       // Copy (maximum compatibility, required across drives)
)

func (m LinkMethod) String() string {
	switch m {
	case LinkSymlink:
		return "symlink"
	case LinkHardlink:
		return "hardlink"
	case LinkCopy:
		return "copy"
	default:
		return "unknown"
	}
}

// ParseLinkMethod converts a string to LinkMethod
func ParseLinkMethod(s string) LinkMethod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hardlink":
		return LinkHardlink
	case "copy":
		return LinkCopy
	default:
		return LinkSymlink
	}
}

// Game represents an installed racing game that pitlane manages mods for
type Game struct {
	ID                 string     // Unique slug, e.g. "f1_23"
	Name               string     // Display name, e.g. "F1 23"
	InstallPath        string     // Game installation directory (deploy target)
	ModsPath           string     // Folder scanned for mod folders and archives
	Executable         string     // Game executable, relative to InstallPath or absolute
	LinkMethod         LinkMethod // How to deploy mod files
	LinkMethodExplicit bool       // True if LinkMethod was explicitly set in games.yaml
}

// ExecutablePath returns the absolute path to the game executable, or "" if none is configured.
func (g *Game) ExecutablePath() string {
	if g.Executable == "" {
		return ""
	}
	if filepath.IsAbs(g.Executable) {
		return g.Executable
	}
	return filepath.Join(g.InstallPath, g.Executable)
}

// MatchesTarget reports whether a manifest's target game refers to this game.
// Both the game ID and display name are accepted; comparison folds case and ignores
// punctuation and whitespace, so "F1 23" matches the ID "f1_23". An empty target never matches.
func (g *Game) MatchesTarget(target string) bool {
	t := normalizeGameKey(target)
	if t == "" {
		return false
	}
	if t == normalizeGameKey(g.ID) {
		return true
	}
	return g.Name != "" && t == normalizeGameKey(g.Name)
}

func normalizeGameKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
