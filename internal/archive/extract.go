package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ExtractDir writes every file under root (an archive-relative directory, "" for the whole
// archive) into dest, with root stripped from the entry names. It returns the number of files written.
func ExtractDir(a Archive, root, dest string) (int, error) {
	prefix := ""
	if root = cleanName(root); root != "" && root != "." {
		prefix = root + "/"
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", dest, err)
	}

	count := 0
	err := a.Walk(func(info FileInfo, r io.Reader) error {
		rel, ok := underRoot(info.Name, prefix)
		if !ok {
			return nil
		}
		target, err := sanitizePath(dest, rel)
		if err != nil {
			return err
		}
		if err := writeEntry(target, r); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("extracting %s: %w", a.Path(), err)
	}
	return count, nil
}

// underRoot strips prefix from name, matching the prefix case-insensitively
func underRoot(name, prefix string) (string, bool) {
	if prefix == "" {
		return name, name != ""
	}
	if len(name) <= len(prefix) || !strings.EqualFold(name[:len(prefix)], prefix) {
		return "", false
	}
	return name[len(prefix):], true
}

func writeEntry(target string, r io.Reader) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", target, err)
	}

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", target, err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing file %s: %w", target, cerr)
		}
	}()

	if _, err = io.Copy(out, r); err != nil {
		return fmt.Errorf("writing file %s: %w", target, err)
	}
	return nil
}

// sanitizePath keeps entry paths like "../../etc/passwd" inside destDir
func sanitizePath(destDir, entry string) (string, error) {
	destDir = filepath.Clean(destDir)
	target := filepath.Join(destDir, filepath.FromSlash(entry))

	if target != destDir && !strings.HasPrefix(target, destDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("path traversal detected: %s", entry)
	}
	return target, nil
}
