package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// SymlinkLinker deploys mods using symbolic links
type SymlinkLinker struct{}

// NewSymlink creates a new symlink linker
func NewSymlink() *SymlinkLinker {
	return &SymlinkLinker{}
}

// Deploy creates a symlink at dst pointing to the absolute path of src
func (l *SymlinkLinker) Deploy(src, dst string) error {
	target, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("%w: resolving source: %w", domain.ErrLinkFailed, err)
	}
	if err := prepareDest(dst); err != nil {
		return err
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("%w: creating symlink: %w", domain.ErrLinkFailed, err)
	}
	return nil
}

// Undeploy removes the symlink at dst. A regular file at dst is left alone.
func (l *SymlinkLinker) Undeploy(dst string) error {
	info, err := os.Lstat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Already removed
		}
		return fmt.Errorf("checking file: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%w: not a symlink: %s", domain.ErrLinkFailed, dst)
	}

	if err := os.Remove(dst); err != nil {
		return fmt.Errorf("removing symlink: %w", err)
	}
	return nil
}

// IsDeployed checks if dst is a symlink
func (l *SymlinkLinker) IsDeployed(dst string) (bool, error) {
	info, err := os.Lstat(dst)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// Method returns the link method
func (l *SymlinkLinker) Method() domain.LinkMethod {
	return domain.LinkSymlink
}
