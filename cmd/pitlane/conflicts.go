package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

type conflictsJSONOutput struct {
	GameID    string         `json:"game_id"`
	Profile   string         `json:"profile"`
	Conflicts []conflictJSON `json:"conflicts"`
}

type conflictJSON struct {
	Path     string   `json:"path"`
	Winner   string   `json:"winner"`
	Priority int      `json:"priority"`
	Losers   []string `json:"losers"`
	Tied     bool     `json:"tied"`
}

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Show files supplied by more than one active mod",
	Long: `Show every file that more than one active mod in the active profile supplies.

The mod with the highest priority wins. When priorities are equal, the mod listed
first in the profile wins; such ties are marked so you can settle them with
'pitlane mods priority'.

Examples:
  pitlane conflicts --game f1_23
  pitlane conflicts --json`,
	Args: cobra.NoArgs,
	RunE: runConflicts,
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}

func runConflicts(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		profile, err := svc.Profiles().ActiveProfile(game.ID)
		if err != nil {
			return err
		}
		res, err := svc.Conflicts(game.ID)
		if err != nil {
			return fmt.Errorf("resolving conflicts: %w", err)
		}
		conflicts := res.Conflicts()

		if jsonOutput {
			out := conflictsJSONOutput{GameID: game.ID, Profile: profile.Name, Conflicts: make([]conflictJSON, 0, len(conflicts))}
			for _, c := range conflicts {
				cj := conflictJSON{Path: c.Path, Winner: c.Winner.Name, Priority: c.Winner.Priority, Tied: c.Tied}
				for _, l := range c.Losers() {
					cj.Losers = append(cj.Losers, l.Name)
				}
				out.Conflicts = append(out.Conflicts, cj)
			}
			return writeJSON(cmd, out)
		}

		if len(conflicts) == 0 {
			printf(cmd, "No conflicts in %s (profile: %s)\n", game.Name, profile.Name)
			return nil
		}

		printf(cmd, "%d conflicting file(s) in %s (profile: %s)\n\n", len(conflicts), game.Name, profile.Name)
		for _, c := range conflicts {
			printf(cmd, "%s\n", c.Path)
			tie := ""
			if c.Tied {
				tie = colorYellow(" (tie, first in profile)")
			}
			printf(cmd, "  %s %s [%d]%s\n", colorGreen("wins:"), c.Winner.Name, c.Winner.Priority, tie)
			for _, l := range c.Losers() {
				printf(cmd, "  %s %s [%d]\n", colorRed("over:"), l.Name, l.Priority)
			}
		}
		return nil
	})
}
