// Package archive reads mod archives without extracting them to disk.
// Supported formats are ZIP, RAR, 7z, tar and gzip/bzip2/xz compressed streams
// (including compressed tarballs). The decoder is chosen from the file's magic
// bytes; the extension only decides whether a file is worth opening at all.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// Format identifies an archive container
type Format string

const (
	FormatZip      Format = "zip"
	FormatRar      Format = "rar"
	FormatSevenZip Format = "7z"
	FormatTar      Format = "tar"
	FormatGzip     Format = "gz"
	FormatBzip2    Format = "bz2"
	FormatXz       Format = "xz"
)

// FileInfo describes a regular file inside an archive
type FileInfo struct {
	Name string // Slash separated path within the archive
	Size int64  // Uncompressed size, -1 if unknown
}

// WalkFunc receives each file in archive order. The reader is only valid during the call.
type WalkFunc func(info FileInfo, r io.Reader) error

// Archive provides read access to the files in an archive
type Archive interface {
	// Path returns the archive's location on disk
	Path() string

	// Format returns the detected container format
	Format() Format

	// List returns every regular file in the archive
	List() ([]FileInfo, error)

	// ReadFile returns the contents of the named entry (case-insensitive match)
	ReadFile(name string) ([]byte, error)

	// Walk streams every regular file in archive order
	Walk(fn WalkFunc) error

	// Close releases the archive
	Close() error
}

// archiveExtensions gates which files in a mods folder are opened as archives
var archiveExtensions = map[string]bool{
	".zip": true,
	".rar": true,
	".7z":  true,
	".tar": true,
	".gz":  true,
	".tgz": true,
	".bz2": true,
	".xz":  true,
}

// IsArchiveExtension reports whether filename has an extension worth opening as an archive
func IsArchiveExtension(filename string) bool {
	return archiveExtensions[strings.ToLower(filepath.Ext(filename))]
}

// sniffLen covers the tar "ustar" magic at offset 257
const sniffLen = 265

var magics = []struct {
	format Format
	offset int
	magic  []byte
}{
	{FormatZip, 0, []byte("PK\x03\x04")},
	{FormatZip, 0, []byte("PK\x05\x06")}, // empty zip
	{FormatRar, 0, []byte("Rar!\x1a\x07")},
	{FormatSevenZip, 0, []byte("7z\xbc\xaf\x27\x1c")},
	{FormatXz, 0, []byte("\xfd7zXZ\x00")},
	{FormatGzip, 0, []byte("\x1f\x8b")},
	{FormatBzip2, 0, []byte("BZh")},
	{FormatTar, 257, []byte("ustar")},
}

// DetectFormat identifies the container format of the file at path from its content
func DetectFormat(archivePath string) (Format, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	return detect(head[:n], archivePath), nil
}

func detect(head []byte, name string) Format {
	for _, m := range magics {
		end := m.offset + len(m.magic)
		if len(head) >= end && bytes.Equal(head[m.offset:end], m.magic) {
			return m.format
		}
	}
	// Pre-POSIX tarballs carry no magic; trust the extension as a last resort
	if strings.EqualFold(filepath.Ext(name), ".tar") && len(head) >= 257 {
		return FormatTar
	}
	return ""
}

// Open opens the archive at path, choosing the decoder from its content.
// Every failure wraps domain.ErrArchiveUnreadable or domain.ErrUnsupportedArchive.
func Open(archivePath string) (Archive, error) {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrArchiveUnreadable, archivePath, err)
	}

	var a Archive
	switch format {
	case FormatZip:
		a, err = openZip(archivePath)
	case FormatRar:
		a, err = openRar(archivePath)
	case FormatSevenZip:
		a, err = openSevenZip(archivePath)
	case FormatTar, FormatGzip, FormatBzip2, FormatXz:
		a, err = openStream(archivePath, format)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedArchive, archivePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrArchiveUnreadable, archivePath, err)
	}
	return a, nil
}

// cleanName normalizes an entry name to a relative, slash separated path
func cleanName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	for strings.HasPrefix(name, "./") {
		name = name[2:]
	}
	if name == "" {
		return ""
	}
	return path.Clean(name)
}

func notFound(archivePath, name string) error {
	return fmt.Errorf("%w: %s in %s", domain.ErrEntryNotFound, name, archivePath)
}

// readAll reads an entry, wrapping failures as unreadable
func readAll(archivePath, name string, r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s from %s: %w", domain.ErrArchiveUnreadable, name, archivePath, err)
	}
	return data, nil
}

func equalName(a, b string) bool {
	return strings.EqualFold(a, b)
}
