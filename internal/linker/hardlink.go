package linker

import (
	"errors"
	"fmt"
	"os"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// HardlinkLinker deploys mods using hard links. Source and game must share a filesystem.
type HardlinkLinker struct{}

// NewHardlink creates a new hardlink linker
func NewHardlink() *HardlinkLinker {
	return &HardlinkLinker{}
}

// Deploy creates a hard link at dst to src
func (l *HardlinkLinker) Deploy(src, dst string) error {
	if err := prepareDest(dst); err != nil {
		return err
	}
	if err := os.Link(src, dst); err != nil {
		return fmt.Errorf("%w: creating hardlink: %w", domain.ErrLinkFailed, err)
	}
	return nil
}

// Undeploy removes the file at dst
func (l *HardlinkLinker) Undeploy(dst string) error {
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing file: %w", err)
	}
	return nil
}

// IsDeployed checks if dst exists (hardlinks are indistinguishable from regular files)
func (l *HardlinkLinker) IsDeployed(dst string) (bool, error) {
	return regularExists(dst)
}

// Method returns the link method
func (l *HardlinkLinker) Method() domain.LinkMethod {
	return domain.LinkHardlink
}

func regularExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
