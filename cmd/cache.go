package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Norgate-AV/clcache/internal/clconfig"
	"github.com/Norgate-AV/clcache/internal/localcache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or manage the local cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:          "stats",
	Short:        "Print cache occupancy",
	SilenceUsage: true,
	RunE:         runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:          "clear",
	Short:        "Remove every entry and artifact from the cache",
	SilenceUsage: true,
	RunE:         runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func openConfiguredCache(cmd *cobra.Command) (*localcache.Cache, error) {
	cfg, err := clconfig.NewLoader().LoadForCommand(cmd)
	if err != nil {
		return nil, fmt.Errorf("clcache: loading configuration: %w", err)
	}
	return localcache.New(cfg.CacheDir)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, err := openConfiguredCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	stats, err := cache.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "entries: %d\nsize:    %d bytes\n", stats.Entries, stats.TotalSize)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := openConfiguredCache(cmd)
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
