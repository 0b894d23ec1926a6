package domain

import "errors"

var (
	ErrModNotFound         = errors.New("mod not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrLinkFailed          = errors.New("link operation failed")
	ErrModsRootUnavailable = errors.New("mods folder unavailable")
	ErrManifestMissing     = errors.New("mod.json not found")
	ErrManifestInvalid     = errors.New("mod.json could not be parsed")
	ErrGameMismatch        = errors.New("mod targets a different game")
	ErrArchiveUnreadable   = errors.New("archive unreadable")
	ErrUnsupportedArchive  = errors.New("unsupported archive format")
	ErrEntryNotFound       = errors.New("archive entry not found")
	ErrNoBackups           = errors.New("no backups recorded")
)
