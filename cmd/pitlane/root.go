package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DonovanMods/pitlane/internal/core"
	"github.com/DonovanMods/pitlane/internal/domain"
	"github.com/DonovanMods/pitlane/internal/logger"
)

// ErrCancelled is returned when the user cancels an operation (e.g. prompt declined).
// When returned from a command, Execute exits with code 2.
var ErrCancelled = errors.New("cancelled")

var (
	version = "0.3.0"

	// Global flags
	configDir  string
	dataDir    string
	gameID     string
	verbose    bool
	jsonOutput bool
	noColor    bool
)

// env binds the directory and game flags to PITLANE_* environment variables
var env = viper.New()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pitlane",
	Short: "pitlane - mod launcher for racing games",
	Long: `pitlane discovers the mods in a racing game's mods folder, keeps named profiles
of which mods are active and at what priority, and deploys the winning files into
the game directory while backing up the originals.

Use subcommands for operations. Run 'pitlane --help' for available commands.`,
	Version:       version,
	SilenceUsage:  true, // Runtime errors should not print usage
	SilenceErrors: true, // We handle error output in Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default: ~/.config/pitlane, env PITLANE_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (default: ~/.local/share/pitlane, env PITLANE_DATA_DIR)")
	rootCmd.PersistentFlags().StringVarP(&gameID, "game", "g", "", "game ID to operate on (env PITLANE_GAME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format (game list, mods list, profile list, conflicts)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	for key, flag := range map[string]string{"config_dir": "config", "data_dir": "data", "game": "game"} {
		_ = env.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}
	env.SetEnvPrefix("pitlane")
	_ = env.BindEnv("config_dir")
	_ = env.BindEnv("data_dir")
	_ = env.BindEnv("game")
}

// colorEnabled returns true if colored output should be used (respects --no-color and NO_COLOR env).
// NO_COLOR: if set (any value), color is disabled per https://no-color.org
func colorEnabled() bool {
	if noColor {
		return false
	}
	return os.Getenv("NO_COLOR") == ""
}

const (
	ansiReset  = "\033[0m"
	ansiGreen  = "\033[32m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
)

func colorize(color, s string) string {
	if !colorEnabled() {
		return s
	}
	return color + s + ansiReset
}

func colorGreen(s string) string  { return colorize(ansiGreen, s) }
func colorRed(s string) string    { return colorize(ansiRed, s) }
func colorYellow(s string) string { return colorize(ansiYellow, s) }

// Execute runs the root command. Exit codes: 0 = success, 1 = error, 2 = user cancelled.
// When --json is set and an error occurs, prints {"error":"..."} to stdout before exiting.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrCancelled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(2)
		}
		if jsonOutput {
			fmt.Printf(`{"error":%q}`+"\n", err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// getServiceConfig resolves the directories from flags, environment and defaults
func getServiceConfig() (core.ServiceConfig, error) {
	cfg := core.ServiceConfig{
		ConfigDir: env.GetString("config_dir"),
		DataDir:   env.GetString("data_dir"),
	}

	if cfg.ConfigDir == "" || cfg.DataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return core.ServiceConfig{}, fmt.Errorf("home directory: %w", err)
		}
		if cfg.ConfigDir == "" {
			cfg.ConfigDir = filepath.Join(homeDir, ".config", "pitlane")
		}
		if cfg.DataDir == "" {
			cfg.DataDir = filepath.Join(homeDir, ".local", "share", "pitlane")
		}
	}
	cfg.CacheDir = filepath.Join(cfg.DataDir, "cache")
	return cfg, nil
}

// initService creates the core service and the logger it writes to.
// Callers close the service, which also closes the log file.
func initService() (*cliService, error) {
	cfg, err := getServiceConfig()
	if err != nil {
		return nil, err
	}

	for _, dir := range []string{cfg.ConfigDir, cfg.DataDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	l := logger.New(logger.Options{
		Verbose: verbose,
		File:    filepath.Join(cfg.DataDir, "pitlane.log"),
	})
	cfg.Logger = l.Logger

	svc, err := core.NewService(cfg)
	if err != nil {
		l.Close()
		return nil, err
	}
	return &cliService{Service: svc, log: l}, nil
}

// cliService ties the log file's lifetime to the service
type cliService struct {
	*core.Service
	log *logger.Logger
}

func (s *cliService) Close() error {
	err := s.Service.Close()
	if cerr := s.log.Close(); err == nil {
		err = cerr
	}
	return err
}

// requireGame resolves the game to operate on: --game, then PITLANE_GAME, then the
// configured default, then the only registered game
func requireGame(svc *cliService) (*domain.Game, error) {
	game, err := svc.ResolveGame(env.GetString("game"))
	if err != nil {
		if errors.Is(err, domain.ErrGameNotFound) && env.GetString("game") == "" {
			return nil, fmt.Errorf("no game specified; use --game or -g flag, or set a default with 'pitlane game set-default <game-id>'")
		}
		return nil, err
	}
	if verbose && env.GetString("game") == "" {
		fmt.Fprintf(os.Stderr, "Using game: %s\n", game.ID)
	}
	return game, nil
}

// printf writes command output to stdout; cobra's own Printf goes to stderr
func printf(cmd *cobra.Command, format string, a ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, a...)
}

func printLine(cmd *cobra.Command, a ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), a...)
}
