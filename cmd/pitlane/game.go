package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

var (
	gameAddName       string
	gameAddInstall    string
	gameAddMods       string
	gameAddExecutable string
	gameAddLink       string
	gameRemoveYes     bool
)

var gameCmd = &cobra.Command{
	Use:   "game",
	Short: "Game management commands",
	Long:  `Commands for managing the games registered in games.yaml.`,
}

var gameListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered games",
	Long: `List the registered games. The default game is marked with '*'.
A game whose install directory or executable no longer exists is shown as missing;
pitlane never removes games on its own.`,
	Args: cobra.NoArgs,
	RunE: runGameList,
}

var gameAddCmd = &cobra.Command{
	Use:   "add <game-id>",
	Short: "Register a game",
	Long: `Register a game, or update an existing registration.

Example:
  pitlane game add f1_23 --name "F1 23" \
    --install ~/.steam/steam/steamapps/common/F1_23 \
    --mods ~/Games/f1_23/mods --exe F1_23.exe`,
	Args: cobra.ExactArgs(1),
	RunE: runGameAdd,
}

var gameRemoveCmd = &cobra.Command{
	Use:   "remove <game-id>",
	Short: "Unregister a game",
	Long: `Remove a game from games.yaml. Profiles, backups and deployed files are left
untouched; run 'pitlane restore' first to put the game's own files back.`,
	Args: cobra.ExactArgs(1),
	RunE: runGameRemove,
}

var gameSetDefaultCmd = &cobra.Command{
	Use:   "set-default <game-id>",
	Short: "Set the default game",
	Long: `Set the default game so you don't have to specify --game for every command.

Example:
  pitlane game set-default f1_23`,
	Args: cobra.ExactArgs(1),
	RunE: runGameSetDefault,
}

func init() {
	gameAddCmd.Flags().StringVar(&gameAddName, "name", "", "display name (default: the game ID)")
	gameAddCmd.Flags().StringVar(&gameAddInstall, "install", "", "game install directory, where mod files are deployed")
	gameAddCmd.Flags().StringVar(&gameAddMods, "mods", "", "mods folder to scan")
	gameAddCmd.Flags().StringVar(&gameAddExecutable, "exe", "", "game executable, relative to the install directory or absolute")
	gameAddCmd.Flags().StringVar(&gameAddLink, "link", "", "link method: symlink, hardlink or copy (default: global setting)")
	_ = gameAddCmd.MarkFlagRequired("install")
	_ = gameAddCmd.MarkFlagRequired("mods")

	gameRemoveCmd.Flags().BoolVarP(&gameRemoveYes, "yes", "y", false, "skip confirmation prompt")

	gameCmd.AddCommand(gameListCmd)
	gameCmd.AddCommand(gameAddCmd)
	gameCmd.AddCommand(gameRemoveCmd)
	gameCmd.AddCommand(gameSetDefaultCmd)
	rootCmd.AddCommand(gameCmd)
}

type gameJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	InstallPath string `json:"install_path"`
	ModsPath    string `json:"mods_path"`
	Executable  string `json:"executable,omitempty"`
	LinkMethod  string `json:"link_method"`
	Default     bool   `json:"default"`
	Missing     bool   `json:"missing"`
}

// gameMissing reports whether the game's install directory or executable is gone
func gameMissing(game *domain.Game) bool {
	if _, err := os.Stat(game.InstallPath); err != nil {
		return true
	}
	if exe := game.ExecutablePath(); exe != "" {
		if _, err := os.Stat(exe); err != nil {
			return true
		}
	}
	return false
}

func runGameList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	games := svc.ListGames()
	defaultID := svc.DefaultGameID()

	if jsonOutput {
		out := make([]gameJSON, 0, len(games))
		for _, g := range games {
			out = append(out, gameJSON{
				ID:          g.ID,
				Name:        g.Name,
				InstallPath: g.InstallPath,
				ModsPath:    g.ModsPath,
				Executable:  g.Executable,
				LinkMethod:  svc.GetGameLinkMethod(g).String(),
				Default:     g.ID == defaultID,
				Missing:     gameMissing(g),
			})
		}
		return writeJSON(cmd, out)
	}

	if len(games) == 0 {
		printLine(cmd, "No games registered.")
		printLine(cmd, "Add one with 'pitlane game add <game-id> --install <dir> --mods <dir>'")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, " \tID\tNAME\tMETHOD\tSTATUS\tMODS FOLDER")
	for _, g := range games {
		marker := " "
		if g.ID == defaultID {
			marker = "*"
		}
		status := colorGreen("ok")
		if gameMissing(g) {
			status = colorYellow("missing")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, g.ID, g.Name, svc.GetGameLinkMethod(g), status, g.ModsPath)
	}
	return w.Flush()
}

func runGameAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	name := gameAddName
	if name == "" {
		name = args[0]
	}
	game := &domain.Game{
		ID:          args[0],
		Name:        name,
		InstallPath: gameAddInstall,
		ModsPath:    gameAddMods,
		Executable:  gameAddExecutable,
	}
	if gameAddLink != "" {
		game.LinkMethod = domain.ParseLinkMethod(gameAddLink)
		game.LinkMethodExplicit = true
	}

	if err := svc.AddGame(game); err != nil {
		return fmt.Errorf("saving game: %w", err)
	}

	printf(cmd, "Registered %s (%s)\n", game.Name, game.ID)
	if _, err := os.Stat(game.ModsPath); err != nil {
		printf(cmd, "%s mods folder %s does not exist yet\n", colorYellow("Note:"), game.ModsPath)
	}
	return nil
}

func runGameRemove(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := svc.GetGame(args[0])
	if err != nil {
		return err
	}
	if err := confirm(cmd, fmt.Sprintf("Remove %s (%s) from pitlane?", game.Name, game.ID), gameRemoveYes); err != nil {
		return err
	}
	if err := svc.RemoveGame(game.ID); err != nil {
		return fmt.Errorf("removing game: %w", err)
	}

	printf(cmd, "Removed %s (%s)\n", game.Name, game.ID)
	return nil
}

func runGameSetDefault(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if err := svc.SetDefaultGame(args[0]); err != nil {
		return err
	}
	game, _ := svc.GetGame(args[0])
	printf(cmd, "Default game set to: %s (%s)\n", game.Name, game.ID)
	return nil
}

// writeJSON prints v as indented JSON
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
