package domain

import (
	"path"
	"path/filepath"
	"strings"
)

// Descriptor defaults applied to manifest fields that are absent or blank
const (
	DefaultModName     = "Unknown Mod"
	DefaultDescription = ""
	DefaultVersion     = "N/A"
	DefaultAuthor      = "Unknown"
	DefaultCategory    = "Uncategorized"
)

// DefaultIcon marks a mod that ships no icon.png of its own
const DefaultIcon = "builtin:mod-icon"

// ManifestName is the descriptor file every mod carries at its root
const ManifestName = "mod.json"

// IconName is the optional custom icon next to the manifest
const IconName = "icon.png"

// FilesDirName is the subfolder holding the files a mod places into the game
const FilesDirName = "files"

// ModDescriptor is the metadata parsed from a mod.json manifest
type ModDescriptor struct {
	Name        string
	Description string
	Version     string
	Author      string
	Game        string // Target game; must match the scanned game
	Category    string
}

// WithDefaults returns a copy with every blank field replaced by its documented default.
// Game has no default: a manifest without a target game never matches.
func (d ModDescriptor) WithDefaults() ModDescriptor {
	d.Name = orDefault(d.Name, DefaultModName)
	d.Description = orDefault(d.Description, DefaultDescription)
	d.Version = orDefault(d.Version, DefaultVersion)
	d.Author = orDefault(d.Author, DefaultAuthor)
	d.Game = strings.TrimSpace(d.Game)
	d.Category = orDefault(d.Category, DefaultCategory)
	return d
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

// SourceKind is the storage shape of a discovered mod
type SourceKind int

const (
	SourceFolder  SourceKind = iota // Unpacked folder inside the mods root
	SourceArchive                   // Compressed archive inside the mods root
)

func (k SourceKind) String() string {
	switch k {
	case SourceFolder:
		return "folder"
	case SourceArchive:
		return "archive"
	default:
		return "unknown"
	}
}

// ModLocation identifies where a mod lives. Exactly one pair is set:
// FolderPath/FilesPath for folder-backed mods, ArchivePath/RootPath for archive-backed mods.
type ModLocation struct {
	FolderPath  string // Mod folder
	FilesPath   string // Files subfolder within FolderPath
	ArchivePath string // Archive file
	RootPath    string // Directory of mod.json within the archive, slash separated ("" = archive root)
}

// FolderLocation builds the location of a folder-backed mod
func FolderLocation(folder string) ModLocation {
	return ModLocation{
		FolderPath: folder,
		FilesPath:  filepath.Join(folder, FilesDirName),
	}
}

// ArchiveLocation builds the location of an archive-backed mod
func ArchiveLocation(archivePath, root string) ModLocation {
	return ModLocation{
		ArchivePath: archivePath,
		RootPath:    cleanArchiveRoot(root),
	}
}

// IsArchive reports whether the location points into an archive
func (l ModLocation) IsArchive() bool {
	return l.ArchivePath != ""
}

// Key returns a stable identity used to match profile entries against scan results
func (l ModLocation) Key() string {
	if l.IsArchive() {
		return "archive:" + filepath.Clean(l.ArchivePath) + "!" + cleanArchiveRoot(l.RootPath)
	}
	return "folder:" + filepath.Clean(l.FolderPath)
}

// DisplayPath is the single path shown to users and stored as modFolderPath in profile files
func (l ModLocation) DisplayPath() string {
	if l.IsArchive() {
		if l.RootPath == "" {
			return l.ArchivePath
		}
		return filepath.Join(l.ArchivePath, filepath.FromSlash(l.RootPath))
	}
	return l.FolderPath
}

func (l ModLocation) String() string {
	return l.DisplayPath()
}

func cleanArchiveRoot(root string) string {
	root = strings.Trim(strings.ReplaceAll(root, "\\", "/"), "/")
	if root == "" {
		return ""
	}
	root = path.Clean(root)
	if root == "." {
		return ""
	}
	return root
}

// ModRecord is one discovered mod instance. Records are rebuilt wholesale on every scan.
type ModRecord struct {
	ModDescriptor
	Kind     SourceKind
	Location ModLocation
	Icon     string // Path to icon.png (folder), entry name (archive), or DefaultIcon
}

// HasCustomIcon reports whether the mod ships its own icon
func (r ModRecord) HasCustomIcon() bool {
	return r.Icon != "" && r.Icon != DefaultIcon
}

// FindRecord returns the record whose location matches loc
func FindRecord(records []ModRecord, loc ModLocation) (ModRecord, bool) {
	key := loc.Key()
	for _, r := range records {
		if r.Location.Key() == key {
			return r, true
		}
	}
	return ModRecord{}, false
}
