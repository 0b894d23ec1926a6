package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

var backupResetYes bool

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Backup management commands",
}

var backupResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the backed up game files",
	Long: `Delete the copies of original game files taken during deploy. Do this only when
the game's own files are known to be good, e.g. after the game was updated or
verified, since 'pitlane restore' can no longer put the old ones back.`,
	Args: cobra.NoArgs,
	RunE: runBackupReset,
}

func init() {
	backupResetCmd.Flags().BoolVarP(&backupResetYes, "yes", "y", false, "skip confirmation prompt")

	backupCmd.AddCommand(backupResetCmd)
	rootCmd.AddCommand(backupCmd)
}

func runBackupReset(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		if err := confirm(cmd, fmt.Sprintf("Delete all backups for %s?", game.Name), backupResetYes); err != nil {
			return err
		}
		if err := svc.ResetBackups(game.ID); err != nil {
			if errors.Is(err, domain.ErrNoBackups) {
				printf(cmd, "No backups for %s\n", game.Name)
				return nil
			}
			return err
		}
		printf(cmd, "Deleted backups for %s\n", game.Name)
		return nil
	})
}
