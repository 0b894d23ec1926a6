package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Place the active profile's mod files into the game",
	Long: `Place the winning file of every active mod into the game's install directory,
replacing the previous deploy. Game files that get overwritten are backed up first
and put back by 'pitlane restore'.

Archive mods are extracted into the cache once and linked from there.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Remove deployed mod files and put the game's own files back",
	Long: `Remove every file pitlane deployed and copy the backed up originals back.
Backup copies are kept until 'pitlane backup reset'.`,
	Args: cobra.NoArgs,
	RunE: runRestore,
}

func init() {
	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(restoreCmd)
}

// interruptContext is cancelled on Ctrl+C so long operations stop between files
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		ctx, stop := interruptContext()
		defer stop()

		printf(cmd, "Deploying to %s using %s...\n", game.Name, svc.GetGameLinkMethod(game))
		res, err := svc.Deploy(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("deploying: %w", err)
		}

		printf(cmd, "%s Deployed %d file(s)", colorGreen("✓"), res.Deployed)
		if res.BackedUp > 0 {
			printf(cmd, ", backed up %d original(s)", res.BackedUp)
		}
		if res.Removed > 0 {
			printf(cmd, ", removed %d stale file(s)", res.Removed)
		}
		printLine(cmd)
		if n := len(res.Conflicts); n > 0 {
			printf(cmd, "%s %d file(s) are supplied by more than one mod; see 'pitlane conflicts'\n", colorYellow("Note:"), n)
		}
		return nil
	})
}

func runRestore(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		ctx, stop := interruptContext()
		defer stop()

		res, err := svc.Restore(ctx, game.ID)
		if err != nil {
			return fmt.Errorf("restoring: %w", err)
		}
		if res.Removed == 0 {
			printf(cmd, "Nothing deployed for %s\n", game.Name)
			return nil
		}
		printf(cmd, "%s Removed %d file(s), restored %d original(s)\n", colorGreen("✓"), res.Removed, res.Restored)
		return nil
	})
}
