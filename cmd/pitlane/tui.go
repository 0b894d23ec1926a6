package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive mod and profile editor",
	Long: `Start the interactive editor. Pick a game, toggle mods and their priorities,
and manage profiles. Key bindings follow the 'keybindings' setting in config.yaml
(vim or standard).`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	// A missing default is fine here; the game picker opens instead
	game, _ := svc.ResolveGame(env.GetString("game"))
	return tui.Run(svc.Service, game)
}
