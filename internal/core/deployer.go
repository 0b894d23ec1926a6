package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/DonovanMods/pitlane/internal/archive"
	"github.com/DonovanMods/pitlane/internal/discovery"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/linker"
	"github.com/DonovanMods/pitlane/internal/logger"
	"github.com/DonovanMods/pitlane/internal/storage/cache"
	"github.com/DonovanMods/pitlane/internal/storage/db"
)

// DeployerConfig holds the dependencies of a Deployer
type DeployerConfig struct {
	Game      *domain.Game
	DB        *db.DB
	Cache     *cache.Cache
	Linker    linker.Linker
	BackupDir string // Originals replaced by mod files are copied here
	Logger    *log.Logger
}

// Deployer places resolved mod files into a game's install directory and puts the
// game's own files back afterwards
type Deployer struct {
	game      *domain.Game
	db        *db.DB
	cache     *cache.Cache
	linker    linker.Linker
	backupDir string
	log       *log.Logger
}

// DeployResult summarizes a deploy
type DeployResult struct {
	Deployed  int // Files placed
	BackedUp  int // Original files copied to the backup dir
	Removed   int // Files from the previous deploy that are no longer supplied
	Conflicts []domain.ModFileConflict
}

// RestoreResult summarizes a restore
type RestoreResult struct {
	Removed  int // Deployed files removed
	Restored int // Original files copied back
}

// NewDeployer creates a deployer
func NewDeployer(cfg DeployerConfig) *Deployer {
	return &Deployer{
		game:      cfg.Game,
		db:        cfg.DB,
		cache:     cfg.Cache,
		linker:    cfg.Linker,
		backupDir: cfg.BackupDir,
		log:       logger.OrDiscard(cfg.Logger),
	}
}

// Deploy replaces the previous deploy with the winners of res. Files that existed
// in the install directory before pitlane touched them are backed up once.
func (d *Deployer) Deploy(ctx context.Context, res Resolution) (*DeployResult, error) {
	result := &DeployResult{Conflicts: res.Conflicts()}
	plan := res.Plan()

	previous, err := d.db.GetDeployedFiles(d.game.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range previous {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := d.undeploy(f.RelativePath); err != nil {
			return result, err
		}
		if _, ok := plan[f.RelativePath]; !ok {
			result.Removed++
		}
	}

	sources := make(map[string]func(rel string) string)
	for _, rel := range res.Paths() {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		mod := plan[rel]
		key := mod.Setting.Location.Key()
		source, ok := sources[key]
		if !ok {
			source, err = d.sourceFor(mod.Setting.Location)
			if err != nil {
				return result, fmt.Errorf("preparing %s: %w", mod.Name, err)
			}
			sources[key] = source
		}

		dst, err := safeJoin(d.game.InstallPath, rel)
		if err != nil {
			return result, err
		}

		backedUp, err := d.backup(rel, dst)
		if err != nil {
			return result, err
		}
		if backedUp {
			result.BackedUp++
		}

		if err := d.linker.Deploy(source(rel), dst); err != nil {
			return result, fmt.Errorf("deploying %s: %w", rel, err)
		}
		if err := d.db.SaveDeployedFile(d.game.ID, rel, key, mod.Name); err != nil {
			return result, err
		}
		d.log.Debug("deployed", "file", rel, "mod", mod.Name)
		result.Deployed++
	}

	d.log.Info("deploy complete", "game", d.game.ID, "deployed", result.Deployed,
		"backedUp", result.BackedUp, "removed", result.Removed, "method", d.linker.Method())
	return result, nil
}

// Restore removes every deployed file and copies the backed up originals back.
// Backup files stay on disk until ResetBackups.
func (d *Deployer) Restore(ctx context.Context) (*RestoreResult, error) {
	result := &RestoreResult{}

	deployed, err := d.db.GetDeployedFiles(d.game.ID)
	if err != nil {
		return nil, err
	}
	for _, f := range deployed {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		restored, err := d.undeploy(f.RelativePath)
		if err != nil {
			return result, err
		}
		result.Removed++
		if restored {
			result.Restored++
		}
	}

	if err := d.db.ClearDeployedFiles(d.game.ID); err != nil {
		return result, err
	}
	if err := d.db.ClearBackups(d.game.ID); err != nil {
		return result, err
	}

	d.log.Info("restore complete", "game", d.game.ID, "removed", result.Removed, "restored", result.Restored)
	return result, nil
}

// ResetBackups deletes the game's backup files and their records
func (d *Deployer) ResetBackups() error {
	backups, err := d.db.GetBackups(d.game.ID)
	if err != nil {
		return err
	}
	if _, err := os.Stat(d.backupDir); len(backups) == 0 && errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w for %s", domain.ErrNoBackups, d.game.ID)
	}

	if err := os.RemoveAll(d.backupDir); err != nil {
		return fmt.Errorf("removing backups: %w", err)
	}
	return d.db.ClearBackups(d.game.ID)
}

// undeploy removes one deployed file and restores its backup. A file the user
// replaced since the deploy is left alone.
func (d *Deployer) undeploy(rel string) (bool, error) {
	dst, err := safeJoin(d.game.InstallPath, rel)
	if err != nil {
		return false, err
	}

	restored := false
	if err := d.linker.Undeploy(dst); err != nil {
		d.log.Warn("cannot remove deployed file, leaving it", "file", rel, "err", err)
	} else {
		b, err := d.db.GetBackup(d.game.ID, rel)
		if err != nil {
			return false, err
		}
		if b != nil {
			if err := linker.CopyFile(b.BackupPath, dst); err != nil {
				return false, fmt.Errorf("restoring %s: %w", rel, err)
			}
			restored = true
		} else {
			linker.CleanupEmptyDirs(d.game.InstallPath, filepath.Dir(dst))
		}
	}

	if err := d.db.DeleteDeployedFile(d.game.ID, rel); err != nil {
		return restored, err
	}
	return restored, nil
}

// backup copies the original file at dst into the backup dir, once
func (d *Deployer) backup(rel, dst string) (bool, error) {
	info, err := os.Lstat(dst)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	existing, err := d.db.GetBackup(d.game.ID, rel)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	backupPath, err := safeJoin(d.backupDir, rel)
	if err != nil {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(backupPath), 0755); err != nil {
		return false, fmt.Errorf("creating backup dir: %w", err)
	}
	if err := linker.CopyFile(dst, backupPath); err != nil {
		return false, fmt.Errorf("backing up %s: %w", rel, err)
	}
	if err := d.db.SaveBackup(d.game.ID, rel, backupPath); err != nil {
		return false, err
	}
	d.log.Debug("backed up original", "file", rel)
	return true, nil
}

// sourceFor returns a function mapping a mod-relative path to the file to deploy.
// Archive mods are extracted into the cache first.
func (d *Deployer) sourceFor(loc domain.ModLocation) (func(string) string, error) {
	content, err := discovery.ContentOf(domain.ModRecord{Location: loc})
	if err != nil {
		return nil, err
	}
	if !loc.IsArchive() {
		dir := content.Dir
		return func(rel string) string { return filepath.Join(dir, filepath.FromSlash(rel)) }, nil
	}

	key, err := cache.KeyFor(d.game.ID, loc.ArchivePath, content.Dir)
	if err != nil {
		return nil, err
	}
	if !d.cache.Exists(key) {
		if err := d.extract(loc.ArchivePath, content.Dir, key); err != nil {
			return nil, err
		}
	}
	return func(rel string) string { return d.cache.GetFilePath(key, rel) }, nil
}

func (d *Deployer) extract(archivePath, root string, key cache.Key) error {
	if err := d.cache.Delete(key); err != nil {
		return err
	}

	a, err := archive.Open(archivePath)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := archive.ExtractDir(a, root, d.cache.ArchivePath(key))
	if err != nil {
		if derr := d.cache.Delete(key); derr != nil {
			d.log.Warn("removing partial extraction", "archive", archivePath, "err", derr)
		}
		return err
	}
	d.log.Debug("extracted archive mod", "archive", archivePath, "files", n)
	return d.cache.MarkComplete(key)
}

// safeJoin joins a slash separated relative path onto root, rejecting paths that escape it
func safeJoin(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(filepath.FromSlash(rel)) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("invalid file path %q", rel)
	}
	p := filepath.Join(root, filepath.FromSlash(rel))
	if !strings.HasPrefix(p, filepath.Clean(root)+string(filepath.Separator)) {
		return "", fmt.Errorf("file path %q escapes %s", rel, root)
	}
	return p, nil
}
