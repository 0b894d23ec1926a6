// Package cache holds extracted copies of archive-backed mods. Deploying links files
// from here into the game, so every entry is keyed by the archive's path, mod root,
// size and modification time: replacing an archive produces a fresh entry.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/DonovanMods/pitlane/internal/storage/profiles"
)

// completeSuffix marks a finished extraction so interrupted ones are redone
const completeSuffix = ".complete"

// Key identifies one extracted archive mod
type Key struct {
	GameID      string
	ArchivePath string
	Root        string // Mod root inside the archive
	Size        int64
	ModTime     time.Time
}

// KeyFor builds the key for an archive on disk
func KeyFor(gameID, archivePath, root string) (Key, error) {
	info, err := os.Stat(archivePath)
	if err != nil {
		return Key{}, fmt.Errorf("stat archive: %w", err)
	}
	return Key{
		GameID:      gameID,
		ArchivePath: archivePath,
		Root:        root,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
	}, nil
}

func (k Key) hash() string {
	h := sha1.New()
	for _, part := range []string{
		filepath.Clean(k.ArchivePath),
		k.Root,
		strconv.FormatInt(k.Size, 10),
		strconv.FormatInt(k.ModTime.UnixNano(), 10),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// Cache manages the extraction cache
type Cache struct {
	basePath string
}

// New creates a new cache manager
func New(basePath string) *Cache {
	return &Cache{basePath: basePath}
}

// BasePath returns the cache root directory
func (c *Cache) BasePath() string {
	return c.basePath
}

// gameDir keeps every game's entries directly under the cache root, whatever its id contains
func (c *Cache) gameDir(gameID string) string {
	return filepath.Join(c.basePath, profiles.Sanitize(gameID))
}

// ArchivePath returns the directory holding the extracted files for k
func (c *Cache) ArchivePath(k Key) string {
	return filepath.Join(c.gameDir(k.GameID), k.hash())
}

// Exists reports whether k was extracted completely
func (c *Cache) Exists(k Key) bool {
	info, err := os.Stat(c.ArchivePath(k))
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = os.Stat(c.ArchivePath(k) + completeSuffix)
	return err == nil
}

// MarkComplete records that the extraction for k finished
func (c *Cache) MarkComplete(k Key) error {
	if err := os.WriteFile(c.ArchivePath(k)+completeSuffix, []byte(k.ArchivePath+"\n"), 0644); err != nil {
		return fmt.Errorf("marking cache entry complete: %w", err)
	}
	return nil
}

// GetFilePath returns the full path of a cached file
func (c *Cache) GetFilePath(k Key, relativePath string) string {
	return filepath.Join(c.ArchivePath(k), filepath.FromSlash(relativePath))
}

// ListFiles returns the slash separated relative paths of every cached file for k, sorted
func (c *Cache) ListFiles(k Key) ([]string, error) {
	root := c.ArchivePath(k)

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing cached files: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// Delete removes the cached extraction for k
func (c *Cache) Delete(k Key) error {
	if err := os.Remove(c.ArchivePath(k) + completeSuffix); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache marker: %w", err)
	}
	if err := os.RemoveAll(c.ArchivePath(k)); err != nil {
		return fmt.Errorf("deleting cached mod: %w", err)
	}
	return nil
}

// Clear removes every cached extraction for a game
func (c *Cache) Clear(gameID string) error {
	if err := os.RemoveAll(c.gameDir(gameID)); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

// Size returns the total size of the cached files for a game
func (c *Cache) Size(gameID string) (int64, error) {
	var totalSize int64
	err := filepath.WalkDir(c.gameDir(gameID), func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		totalSize += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("calculating cache size: %w", err)
	}
	return totalSize, nil
}
