// Package linker places mod files into a game directory by symlink, hardlink or copy.
package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// Linker deploys and undeploys mod files to game directories
type Linker interface {
	// Deploy places src at dst, replacing whatever is there
	Deploy(src, dst string) error
	Undeploy(dst string) error
	IsDeployed(dst string) (bool, error)
	Method() domain.LinkMethod
}

// New creates a linker for the given method
func New(method domain.LinkMethod) Linker {
	switch method {
	case domain.LinkHardlink:
		return NewHardlink()
	case domain.LinkCopy:
		return NewCopy()
	default:
		return NewSymlink()
	}
}

// prepareDest creates dst's parent directory and removes any existing file at dst
func prepareDest(dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: creating destination dir: %w", domain.ErrLinkFailed, err)
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing existing file: %w", domain.ErrLinkFailed, err)
	}
	return nil
}

// CleanupEmptyDirs removes the empty directories between dir and root, walking upwards.
// root itself is never removed.
func CleanupEmptyDirs(root, dir string) {
	root = filepath.Clean(root)
	prefix := root + string(filepath.Separator)
	for dir = filepath.Clean(dir); strings.HasPrefix(dir, prefix); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}
