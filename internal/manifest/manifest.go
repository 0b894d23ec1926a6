// Package manifest parses mod.json descriptors. Manifests are written by hand by mod
// authors, so parsing runs through an ordered list of strategies from strict JSON down
// to per-key pattern extraction, stopping at the first one that succeeds.
package manifest

import (
	"fmt"
	"os"

	"github.com/DonovanMods/pitlane/internal/domain"
)

// Fields holds the raw descriptor values a strategy extracted, before defaults
type Fields struct {
	Name        string
	Description string
	Version     string
	Author      string
	Game        string
	Category    string
}

func (f Fields) descriptor() domain.ModDescriptor {
	return domain.ModDescriptor{
		Name:        f.Name,
		Description: f.Description,
		Version:     f.Version,
		Author:      f.Author,
		Game:        f.Game,
		Category:    f.Category,
	}
}

// set assigns value to the field named key (already lowercased); unknown keys are ignored
func (f *Fields) set(key, value string) bool {
	switch key {
	case "name":
		f.Name = value
	case "description":
		f.Description = value
	case "version":
		f.Version = value
	case "author":
		f.Author = value
	case "game":
		f.Game = value
	case "category":
		f.Category = value
	default:
		return false
	}
	return true
}

// fieldKeys lists the manifest keys in document order
var fieldKeys = []string{"name", "description", "version", "author", "game", "category"}

// Strategy is one way of reading a manifest. Parse reports ok=false instead of
// returning an error so the parser can move on to the next strategy.
type Strategy interface {
	Name() string
	Parse(data []byte) (Fields, bool)
}

// Parser tries its strategies in order
type Parser struct {
	strategies []Strategy
}

// NewParser returns a parser using the given strategies, or the default chain if none are given
func NewParser(strategies ...Strategy) *Parser {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	return &Parser{strategies: strategies}
}

// DefaultStrategies returns strict JSON, cleaned-up JSON, then per-key extraction
func DefaultStrategies() []Strategy {
	return []Strategy{Strict{}, Cleanup{}, Regex{}}
}

// Parse returns the descriptor with defaults applied and the name of the strategy that produced it
func (p *Parser) Parse(data []byte) (domain.ModDescriptor, string, error) {
	for _, s := range p.strategies {
		if fields, ok := s.Parse(data); ok {
			return fields.descriptor().WithDefaults(), s.Name(), nil
		}
	}
	return domain.ModDescriptor{}, "", domain.ErrManifestInvalid
}

var defaultParser = NewParser()

// Parse reads a manifest with the default strategy chain
func Parse(data []byte) (domain.ModDescriptor, error) {
	d, _, err := defaultParser.Parse(data)
	return d, err
}

// ParseFile reads and parses the manifest at path
func ParseFile(path string) (domain.ModDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ModDescriptor{}, fmt.Errorf("reading %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return domain.ModDescriptor{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return d, nil
}
