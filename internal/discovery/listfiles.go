package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DonovanMods/pitlane/internal/archive"
	"github.com/DonovanMods/pitlane/internal/domain"
)

// Content describes where a mod's deployable files live
type Content struct {
	// Dir is a filesystem directory for folder mods, or an archive-relative
	// directory ("" for the archive root) for archive mods
	Dir string

	// Files are slash separated paths relative to Dir, sorted
	Files []string
}

// ListFiles returns the relative paths the mod places into the game directory
func ListFiles(rec domain.ModRecord) ([]string, error) {
	c, err := ContentOf(rec)
	if err != nil {
		return nil, err
	}
	return c.Files, nil
}

// ContentOf locates a mod's deployable files. Mods normally keep them in a files/
// subfolder; without one, everything beside the manifest except mod.json and icon.png counts.
func ContentOf(rec domain.ModRecord) (Content, error) {
	if rec.Location.IsArchive() {
		return archiveContent(rec.Location)
	}
	return folderContent(rec.Location)
}

func folderContent(loc domain.ModLocation) (Content, error) {
	if info, err := os.Stat(loc.FilesPath); err == nil && info.IsDir() {
		files, err := walkDir(loc.FilesPath, false)
		if err != nil {
			return Content{}, err
		}
		return Content{Dir: loc.FilesPath, Files: files}, nil
	}

	files, err := walkDir(loc.FolderPath, true)
	if err != nil {
		return Content{}, err
	}
	return Content{Dir: loc.FolderPath, Files: files}, nil
}

func walkDir(root string, skipMeta bool) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if skipMeta && isMetaFile(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

func archiveContent(loc domain.ModLocation) (Content, error) {
	a, err := archive.Open(loc.ArchivePath)
	if err != nil {
		return Content{}, err
	}
	defer a.Close()

	entries, err := a.List()
	if err != nil {
		return Content{}, err
	}

	filesDir := joinEntry(loc.RootPath, domain.FilesDirName)
	if files := entriesUnder(entries, filesDir, false); len(files) > 0 {
		return Content{Dir: filesDir, Files: files}, nil
	}
	return Content{Dir: loc.RootPath, Files: entriesUnder(entries, loc.RootPath, true)}, nil
}

// entriesUnder returns the entries below dir, relative to it
func entriesUnder(entries []archive.FileInfo, dir string, skipMeta bool) []string {
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	files := make([]string, 0)
	for _, e := range entries {
		if len(e.Name) < len(prefix) || !strings.EqualFold(e.Name[:len(prefix)], prefix) {
			continue
		}
		rel := e.Name[len(prefix):]
		if rel == "" || (skipMeta && isMetaFile(rel)) {
			continue
		}
		files = append(files, rel)
	}
	sort.Strings(files)
	return files
}

// isMetaFile reports whether rel is the manifest or icon at the mod root
func isMetaFile(rel string) bool {
	return strings.EqualFold(rel, domain.ManifestName) || strings.EqualFold(rel, domain.IconName)
}
