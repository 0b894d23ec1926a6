package main

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/core"
	"github.com/DonovanMods/pitlane/internal/domain"
)

var (
	modsEnablePriority int
	modsAddForce       bool
)

var modsCmd = &cobra.Command{
	Use:   "mods",
	Short: "Mod discovery and selection",
	Long: `Commands for listing the mods found in a game's mods folder and choosing
which of them the active profile uses.

Mods are named by their mod.json name (case-insensitive) or by their path.`,
}

var modsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered mods",
	Long: `Scan the game's mods folder and list every mod that targets the game, together
with its state in the active profile.

Examples:
  pitlane mods list --game f1_23
  pitlane mods list --json`,
	Args: cobra.NoArgs,
	RunE: runModsList,
}

var modsEnableCmd = &cobra.Command{
	Use:   "enable <mod>",
	Short: "Activate a mod in the active profile",
	Long: `Activate a mod in the active profile. A mod new to the profile starts at
priority 0 unless --priority is given. When two mods supply the same file, the one
with the higher priority wins.`,
	Args: cobra.ExactArgs(1),
	RunE: runModsEnable,
}

var modsDisableCmd = &cobra.Command{
	Use:   "disable <mod>",
	Short: "Deactivate a mod in the active profile",
	Long:  `Deactivate a mod. It stays in the profile with its priority so it can be re-enabled.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runModsDisable,
}

var modsPriorityCmd = &cobra.Command{
	Use:   "priority <mod> <n>",
	Short: "Set a mod's priority in the active profile",
	Args:  cobra.ExactArgs(2),
	RunE:  runModsPriority,
}

var modsAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Copy a mod folder or archive into the mods folder",
	Long: `Check that a mod folder or archive is a valid mod for the game, then copy it into
the game's mods folder.

Example:
  pitlane mods add ~/Downloads/red-bull-livery.zip`,
	Args: cobra.ExactArgs(1),
	RunE: runModsAdd,
}

func init() {
	modsEnableCmd.Flags().IntVarP(&modsEnablePriority, "priority", "p", 0, "priority (default: keep the current priority, 0 for new entries)")
	modsAddCmd.Flags().BoolVarP(&modsAddForce, "force", "f", false, "replace a mod with the same file name")

	modsCmd.AddCommand(modsListCmd)
	modsCmd.AddCommand(modsEnableCmd)
	modsCmd.AddCommand(modsDisableCmd)
	modsCmd.AddCommand(modsPriorityCmd)
	modsCmd.AddCommand(modsAddCmd)
	rootCmd.AddCommand(modsCmd)
}

type modJSON struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Kind        string `json:"kind"`
	Path        string `json:"path"`
	Icon        string `json:"icon"`
	InProfile   bool   `json:"in_profile"`
	Active      bool   `json:"active"`
	Priority    int    `json:"priority"`
}

func runModsList(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}

	records, err := svc.Scan(game.ID)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", game.Name, err)
	}
	profile, err := svc.Profiles().ActiveProfile(game.ID)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := make([]modJSON, 0, len(records))
		for _, r := range records {
			m := modJSON{
				Name:        r.Name,
				Description: r.Description,
				Version:     r.Version,
				Author:      r.Author,
				Category:    r.Category,
				Kind:        r.Kind.String(),
				Path:        r.Location.DisplayPath(),
				Icon:        r.Icon,
			}
			if i := profile.IndexOf(r.Location); i >= 0 {
				m.InProfile = true
				m.Active = profile.AppliedMods[i].IsActive
				m.Priority = profile.AppliedMods[i].Priority
			}
			out = append(out, m)
		}
		return writeJSON(cmd, out)
	}

	if len(records) == 0 {
		printf(cmd, "No mods found for %s in %s\n", game.Name, game.ModsPath)
		return nil
	}

	printf(cmd, "%s (profile: %s)\n\n", game.Name, profile.Name)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVE\tPRIORITY\tNAME\tVERSION\tAUTHOR\tCATEGORY\tKIND")
	for _, r := range records {
		active, priority := " ", "-"
		if i := profile.IndexOf(r.Location); i >= 0 {
			s := profile.AppliedMods[i]
			priority = strconv.Itoa(s.Priority)
			if s.IsActive {
				active = colorGreen("✓")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", active, priority, r.Name, r.Version, r.Author, r.Category, r.Kind)
		if verbose {
			fmt.Fprintf(w, "\t\t  %s\t\t\t\t\n", r.Location.DisplayPath())
		}
	}
	return w.Flush()
}

// findMod scans the game and resolves a user-supplied mod name or path
func findMod(svc *cliService, game *domain.Game, query string) (domain.ModRecord, error) {
	records, err := svc.Scan(game.ID)
	if err != nil {
		return domain.ModRecord{}, fmt.Errorf("scanning %s: %w", game.Name, err)
	}
	return core.FindMod(records, query)
}

func runModsEnable(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}
	rec, err := findMod(svc, game, args[0])
	if err != nil {
		return err
	}

	var priority *int
	if cmd.Flags().Changed("priority") {
		priority = &modsEnablePriority
	}
	profile, err := svc.ProfileManager().Enable(game.ID, rec, priority)
	if err != nil {
		return err
	}

	s := profile.AppliedMods[profile.IndexOf(rec.Location)]
	printf(cmd, "Enabled %s in %s (priority %d)\n", rec.Name, profile.Name, s.Priority)
	return nil
}

func runModsDisable(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}
	rec, err := findMod(svc, game, args[0])
	if err != nil {
		return err
	}

	profile, err := svc.ProfileManager().Disable(game.ID, rec.Location)
	if err != nil {
		return err
	}
	printf(cmd, "Disabled %s in %s\n", rec.Name, profile.Name)
	return nil
}

func runModsPriority(cmd *cobra.Command, args []string) error {
	priority, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid priority %q: must be an integer", args[1])
	}

	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}
	rec, err := findMod(svc, game, args[0])
	if err != nil {
		return err
	}

	profile, err := svc.ProfileManager().SetPriority(game.ID, rec.Location, priority)
	if err != nil {
		return err
	}
	printf(cmd, "Set %s to priority %d in %s\n", rec.Name, priority, profile.Name)
	return nil
}

func runModsAdd(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	game, err := requireGame(svc)
	if err != nil {
		return err
	}

	res, err := svc.Importer().Import(context.Background(), game, args[0], core.ImportOptions{Force: modsAddForce})
	if err != nil {
		return fmt.Errorf("adding mod: %w", err)
	}

	verb := "Added"
	if res.Replaced {
		verb = "Replaced"
	}
	printf(cmd, "%s %s %s (%s)\n", colorGreen("✓"), verb, res.Record.Name, res.Record.Version)
	printf(cmd, "  %s\n", res.Dest)
	printLine(cmd, "Enable it with 'pitlane mods enable "+strconv.Quote(res.Record.Name)+"'")
	return nil
}
