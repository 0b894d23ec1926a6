package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/DonovanMods/pitlane/internal/domain"
)

var cacheClearYes bool

type cacheJSONOutput struct {
	GameID string         `json:"game_id"`
	Bytes  int64          `json:"bytes"`
	Mods   []cacheModJSON `json:"mods"`
}

type cacheModJSON struct {
	Name    string `json:"name"`
	Archive string `json:"archive"`
	Files   int    `json:"files"`
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage extracted archive mods",
	Long: `Archive mods are extracted into the cache before deploy links their files into
the game. Entries are keyed by the archive's size and modification time, so a
replaced archive is extracted again and the old entry lingers until cleared.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archive mods with an extracted copy",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheSizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Show disk space used by the cache",
	Args:  cobra.NoArgs,
	RunE:  runCacheSize,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every extracted archive mod",
	Long: `Delete the game's cache entries. With the symlink method, deployed archive
mods point into the cache, so redeploy afterwards.`,
	Args: cobra.NoArgs,
	RunE: runCacheClear,
}

func init() {
	cacheClearCmd.Flags().BoolVarP(&cacheClearYes, "yes", "y", false, "skip confirmation prompt")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheSizeCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		cached, err := svc.CachedMods(game.ID)
		if err != nil {
			return err
		}

		if jsonOutput {
			size, err := svc.CacheSize(game.ID)
			if err != nil {
				return err
			}
			out := cacheJSONOutput{GameID: game.ID, Bytes: size, Mods: make([]cacheModJSON, 0, len(cached))}
			for _, c := range cached {
				out.Mods = append(out.Mods, cacheModJSON{Name: c.Record.Name, Archive: c.Record.Location.ArchivePath, Files: len(c.Files)})
			}
			return writeJSON(cmd, out)
		}

		if len(cached) == 0 {
			printf(cmd, "No cached archive mods for %s\n", game.Name)
			return nil
		}
		for _, c := range cached {
			printf(cmd, "%s  %d file(s)  %s\n", c.Record.Name, len(c.Files), c.Record.Location.ArchivePath)
		}
		return nil
	})
}

func runCacheSize(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		size, err := svc.CacheSize(game.ID)
		if err != nil {
			return err
		}
		printf(cmd, "Cache for %s: %s\n", game.Name, humanize.Bytes(uint64(size)))
		return nil
	})
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	return withGame(func(svc *cliService, game *domain.Game) error {
		if err := confirm(cmd, fmt.Sprintf("Delete the extracted archive mods for %s?", game.Name), cacheClearYes); err != nil {
			return err
		}
		if err := svc.ClearCache(game.ID); err != nil {
			return err
		}
		printf(cmd, "Cleared cache for %s\n", game.Name)
		return nil
	})
}
