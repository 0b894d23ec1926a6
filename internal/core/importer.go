package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/DonovanMods/pitlane/internal/discovery"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/logger"
)

// ImportOptions configures the import operation
type ImportOptions struct {
	Force bool // Replace a mod of the same file name already in the mods folder
}

// ImportResult contains the outcome of adding a mod to a game's mods folder
type ImportResult struct {
	Record   domain.ModRecord // The mod as discovered at its new location
	Dest     string
	Replaced bool
}

// Importer copies mod folders and archives into a game's mods folder
type Importer struct {
	scanner *discovery.Scanner
	log     *log.Logger
}

// NewImporter creates a new Importer
func NewImporter(scanner *discovery.Scanner, l *log.Logger) *Importer {
	return &Importer{
		scanner: scanner,
		log:     logger.OrDiscard(l),
	}
}

// Import validates src as a mod for game and copies it into the mods folder.
// A mod that would be skipped by discovery is rejected before anything is copied.
func (i *Importer) Import(ctx context.Context, game *domain.Game, src string, opts ImportOptions) (result *ImportResult, err error) {
	if _, err := i.scanner.Inspect(game, src); err != nil {
		return nil, err
	}

	absSrc, err := filepath.Abs(src)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", src, err)
	}
	dest := filepath.Join(game.ModsPath, filepath.Base(absSrc))
	if absDest, err := filepath.Abs(dest); err == nil && absDest == absSrc {
		return nil, fmt.Errorf("%s is already in the mods folder", src)
	}

	result = &ImportResult{Dest: dest}
	if _, err := os.Lstat(dest); err == nil {
		if !opts.Force {
			return nil, fmt.Errorf("%s: %w", dest, os.ErrExist)
		}
		result.Replaced = true
	}

	if err := os.MkdirAll(game.ModsPath, 0755); err != nil {
		return nil, fmt.Errorf("creating mods folder: %w", err)
	}

	// Copy next to the destination first so a failed copy never replaces a working mod
	tmp, err := os.MkdirTemp(game.ModsPath, ".pitlane-import-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() {
		if cerr := os.RemoveAll(tmp); err == nil && cerr != nil {
			err = fmt.Errorf("removing temp directory: %w", cerr)
		}
	}()

	staged := filepath.Join(tmp, filepath.Base(absSrc))
	info, err := os.Stat(absSrc)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		err = copyDir(ctx, absSrc, staged)
	} else {
		err = copyFileStreaming(absSrc, staged)
	}
	if err != nil {
		return nil, fmt.Errorf("copying %s: %w", src, err)
	}

	if result.Replaced {
		if err := os.RemoveAll(dest); err != nil {
			return nil, fmt.Errorf("removing existing %s: %w", dest, err)
		}
	}
	if err := os.Rename(staged, dest); err != nil {
		return nil, fmt.Errorf("moving into mods folder: %w", err)
	}

	rec, err := i.scanner.Inspect(game, dest)
	if err != nil {
		return nil, err
	}
	result.Record = rec

	i.log.Info("added mod", "game", game.ID, "mod", rec.Name, "dest", dest, "replaced", result.Replaced)
	return result, nil
}

// copyDir recursively copies a directory using streaming I/O to avoid loading
// large files into memory
func copyDir(ctx context.Context, src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, relPath)

		if info.IsDir() {
			return os.MkdirAll(dstPath, 0755)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return copyFileStreaming(path, dstPath)
	})
}

// copyFileStreaming copies a file using streaming to avoid loading it all into memory
func copyFileStreaming(src, dst string) (err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	defer func() {
		if cerr := dstFile.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing destination: %w", cerr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("copying: %w", err)
	}

	return dstFile.Sync()
}
