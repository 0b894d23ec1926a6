package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

var profileDeleteYes bool

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile management commands",
	Long: `Commands for managing mod profiles. Each game has one active profile; the
mods commands, conflicts and deploy all work on it.

Profiles are named by name (case-insensitive) or ID.`,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create an empty profile and make it active",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runProfileCreate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a profile",
	Long: `Delete a profile. Deleting the active profile activates the first remaining one;
deleting the last profile leaves an empty "Default" profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileDelete,
}

var profileRenameCmd = &cobra.Command{
	Use:   "rename <name> <new-name>",
	Short: "Rename a profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileRename,
}

var profileDuplicateCmd = &cobra.Command{
	Use:   "duplicate <name> [new-name]",
	Short: "Copy a profile",
	Long:  `Copy a profile's mod selection into a new profile (default name: "<name> Copy").`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runProfileDuplicate,
}

var profileSwitchCmd = &cobra.Command{
	Use:   "switch <name>",
	Short: "Make a profile active",
	Long: `Make a profile active. Deployed files are not changed until the next
'pitlane deploy'.`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileSwitch,
}

var profileExportCmd = &cobra.Command{
	Use:   "export <name> <file>",
	Short: "Write a profile to a file",
	Args:  cobra.ExactArgs(2),
	RunE:  runProfileExport,
}

var profileImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Add a profile from an exported file",
	Long:  `Add a profile from an exported file. It gets a new ID and is not made active.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileImport,
}

var profileMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move profiles from config.yaml into profile files",
	Long: `Move profiles kept in config.yaml by older releases into profile files. This also
happens automatically on start; games that already have profiles are skipped.`,
	Args: cobra.NoArgs,
	RunE: runProfileMigrate,
}

func init() {
	profileDeleteCmd.Flags().BoolVarP(&profileDeleteYes, "yes", "y", false, "skip confirmation prompt")

	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileCreateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	profileCmd.AddCommand(profileRenameCmd)
	profileCmd.AddCommand(profileDuplicateCmd)
	profileCmd.AddCommand(profileSwitchCmd)
	profileCmd.AddCommand(profileExportCmd)
	profileCmd.AddCommand(profileImportCmd)
	profileCmd.AddCommand(profileMigrateCmd)
	rootCmd.AddCommand(profileCmd)
}

type profileJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Active       bool      `json:"active"`
	Mods         int       `json:"mods"`
	ActiveMods   int       `json:"active_mods"`
	LastModified time.Time `json:"last_modified"`
}

// withGame opens the service and resolves the game for a profile subcommand
func withGame(fn func(svc *cliService, game *domain.Game) error) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}
	return fn(svc, game)
}

func runProfileList(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		list, err := svc.Profiles().Profiles(game.ID)
		if err != nil {
			return err
		}
		active, err := svc.Profiles().ActiveProfile(game.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			out := make([]profileJSON, 0, len(list))
			for _, p := range list {
				out = append(out, profileJSON{
					ID:           p.ID,
					Name:         p.Name,
					Active:       p.ID == active.ID,
					Mods:         len(p.AppliedMods),
					ActiveMods:   len(p.ActiveMods()),
					LastModified: p.LastModified,
				})
			}
			return writeJSON(cmd, out)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, " \tNAME\tMODS\tMODIFIED\tID")
		for _, p := range list {
			marker := " "
			if p.ID == active.ID {
				marker = colorGreen("*")
			}
			fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\t%s\n", marker, p.Name, len(p.ActiveMods()), len(p.AppliedMods),
				p.LastModified.Local().Format("2006-01-02 15:04"), p.ID)
		}
		return w.Flush()
	})
}

func runProfileCreate(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		// Make sure a game without profiles keeps its Default alongside the new one
		if _, err := svc.Profiles().Profiles(game.ID); err != nil {
			return err
		}
		p, err := svc.Profiles().Create(game.ID, name)
		if err != nil {
			return err
		}
		printf(cmd, "Created profile %s (active)\n", p.Name)
		return nil
	})
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.ProfileManager().Find(game.ID, args[0])
		if err != nil {
			return err
		}
		if err := confirm(cmd, fmt.Sprintf("Delete profile %s?", p.Name), profileDeleteYes); err != nil {
			return err
		}
		if err := svc.Profiles().Delete(game.ID, p.ID); err != nil {
			return err
		}
		active, err := svc.Profiles().ActiveProfile(game.ID)
		if err != nil {
			return err
		}
		printf(cmd, "Deleted profile %s; active profile is %s\n", p.Name, active.Name)
		return nil
	})
}

func runProfileRename(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.ProfileManager().Find(game.ID, args[0])
		if err != nil {
			return err
		}
		renamed, err := svc.Profiles().Rename(game.ID, p.ID, args[1])
		if err != nil {
			return err
		}
		printf(cmd, "Renamed %s to %s\n", p.Name, renamed.Name)
		return nil
	})
}

func runProfileDuplicate(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.ProfileManager().Find(game.ID, args[0])
		if err != nil {
			return err
		}
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		dup, err := svc.Profiles().Duplicate(game.ID, p.ID, name)
		if err != nil {
			return err
		}
		printf(cmd, "Copied %s to %s\n", p.Name, dup.Name)
		return nil
	})
}

func runProfileSwitch(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.ProfileManager().Switch(game.ID, args[0])
		if err != nil {
			return err
		}
		printf(cmd, "Switched %s to profile %s\n", game.Name, p.Name)
		printLine(cmd, "Run 'pitlane deploy' to apply it.")
		return nil
	})
}

func runProfileExport(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.ProfileManager().Find(game.ID, args[0])
		if err != nil {
			return err
		}
		if err := svc.Profiles().Export(game.ID, p.ID, args[1]); err != nil {
			return err
		}
		printf(cmd, "Exported %s to %s\n", p.Name, args[1])
		return nil
	})
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		p, err := svc.Profiles().Import(game.ID, args[0])
		if err != nil {
			return err
		}
		printf(cmd, "Imported profile %s (%d mods)\n", p.Name, len(p.AppliedMods))
		return nil
	})
}

func runProfileMigrate(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	if !svc.Config().HasLegacyProfiles() {
		printLine(cmd, "No profiles to migrate.")
		return nil
	}
	n, err := svc.MigrateLegacyProfiles()
	if err != nil {
		return err
	}
	if n == 0 {
		printLine(cmd, "Legacy profiles were already migrated.")
		return nil
	}
	printf(cmd, "Migrated profiles for %d game(s) to %s\n", n, svc.Profiles().Dir())
	return nil
}
