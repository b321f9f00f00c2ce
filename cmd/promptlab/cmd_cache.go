package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voicejournal/promptlab/internal/cache"
)

func newCacheCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the model response cache",
		Long: `Manage the model response cache.

The cache stores raw model answers so that re-running an experiment with the
same engine, model and prompt text skips the model call. It is only used
when run is given --cache.`,
	}

	cmd.AddCommand(newCacheClearCommand(a))

	return cmd
}

func newCacheClearCommand(a *app) *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the model response cache",
		Long: `Clear all cached model responses.

The next run with --cache calls the model for every prompt again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cacheDir
			if dir == "" {
				dir = a.cfg.CacheDir()
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			c := cache.New(absDir)
			n := c.Len()
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s (%d entries)\n", absDir, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default: cache.dir)")

	return cmd
}
