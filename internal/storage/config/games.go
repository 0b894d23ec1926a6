package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DonovanMods/pitlane/internal/domain"

	"gopkg.in/yaml.v3"
)

// GameConfig is the YAML representation of a game
type GameConfig struct {
	Name        string `yaml:"name"`
	InstallPath string `yaml:"install_path"`
	ModsPath    string `yaml:"mods_path"`
	Executable  string `yaml:"executable,omitempty"`
	LinkMethod  string `yaml:"link_method,omitempty"`
}

// GamesFile is the top-level games.yaml structure
type GamesFile struct {
	Games map[string]GameConfig `yaml:"games"`
}

// LoadGames reads all game configurations from the config directory
func LoadGames(configDir string) (map[string]*domain.Game, error) {
	gamesPath := filepath.Join(configDir, "games.yaml")
	data, err := os.ReadFile(gamesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]*domain.Game), nil
		}
		return nil, fmt.Errorf("reading games.yaml: %w", err)
	}

	var gamesFile GamesFile
	if err := yaml.Unmarshal(data, &gamesFile); err != nil {
		return nil, fmt.Errorf("%w: parsing games.yaml: %w", domain.ErrInvalidConfig, err)
	}

	games := make(map[string]*domain.Game)
	for id, cfg := range gamesFile.Games {
		games[id] = &domain.Game{
			ID:                 id,
			Name:               cfg.Name,
			InstallPath:        ExpandPath(cfg.InstallPath),
			ModsPath:           ExpandPath(cfg.ModsPath),
			Executable:         cfg.Executable,
			LinkMethod:         domain.ParseLinkMethod(cfg.LinkMethod),
			LinkMethodExplicit: cfg.LinkMethod != "",
		}
	}

	return games, nil
}

// SaveGame adds or updates a game in games.yaml
func SaveGame(configDir string, game *domain.Game) error {
	if game.ID == "" {
		return fmt.Errorf("%w: game id is required", domain.ErrInvalidConfig)
	}
	if strings.ContainsAny(game.ID, `/\`) || strings.Trim(game.ID, ".") == "" {
		return fmt.Errorf("%w: game id %q must not contain path separators", domain.ErrInvalidConfig, game.ID)
	}

	games, err := LoadGames(configDir)
	if err != nil {
		return err
	}

	games[game.ID] = game

	return saveGames(configDir, games)
}

func saveGames(configDir string, games map[string]*domain.Game) error {
	gamesFile := GamesFile{Games: make(map[string]GameConfig)}

	for id, game := range games {
		gc := GameConfig{
			Name:        game.Name,
			InstallPath: game.InstallPath,
			ModsPath:    game.ModsPath,
			Executable:  game.Executable,
		}
		if game.LinkMethodExplicit {
			gc.LinkMethod = game.LinkMethod.String()
		}
		gamesFile.Games[id] = gc
	}

	data, err := yaml.Marshal(&gamesFile)
	if err != nil {
		return fmt.Errorf("marshaling games: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	gamesPath := filepath.Join(configDir, "games.yaml")
	if err := os.WriteFile(gamesPath, data, 0644); err != nil {
		return fmt.Errorf("writing games.yaml: %w", err)
	}

	return nil
}

// DeleteGame removes a game from games.yaml
func DeleteGame(configDir string, gameID string) error {
	games, err := LoadGames(configDir)
	if err != nil {
		return err
	}

	if _, exists := games[gameID]; !exists {
		return domain.ErrGameNotFound
	}

	delete(games, gameID)
	return saveGames(configDir, games)
}
