package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dupsweep/pkg/dupsweep/cache"
	"github.com/jamesainslie/dupsweep/pkg/dupsweep/hasher"
)

func newCacheCmd(a *app) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the digest cache",
		Long: `Commands for managing the dupsweep digest cache.

The cache stores file digests keyed by path, size and modification time so
unchanged files are not rehashed on the next scan. Cache data is stored in
the XDG cache directory (typically ~/.cache/dupsweep/digests).`,
	}

	cacheCmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Clear all cached digests",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.runCacheClear()
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Show the number of cached digests",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return a.runCacheStats()
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show cache location",
			Args:  cobra.NoArgs,
			Run: func(*cobra.Command, []string) {
				fmt.Fprintln(a.out, a.cfg.Cache.Path)
			},
		},
	)

	return cacheCmd
}

func (a *app) runCacheClear() error {
	if _, err := os.Stat(a.cfg.Cache.Path); os.IsNotExist(err) {
		a.printInfo("Cache is already empty.")
		return nil
	}

	c, err := cache.Open(a.cfg.Cache.Path, a.cfg.Hash.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer c.Close()

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	a.printInfo("Cache cleared.")
	return nil
}

func (a *app) runCacheStats() error {
	fmt.Fprintf(a.out, "Cache location: %s\n", a.cfg.Cache.Path)
	if _, err := os.Stat(a.cfg.Cache.Path); os.IsNotExist(err) {
		fmt.Fprintln(a.out, "Cache: empty (not created yet)")
		return nil
	}

	for _, alg := range hasher.Algorithms() {
		c, err := cache.Open(a.cfg.Cache.Path, string(alg))
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		n, err := c.Len()
		_ = c.Close()
		if err != nil {
			return fmt.Errorf("failed to count cache entries: %w", err)
		}
		fmt.Fprintf(a.out, "%-8s %d digests\n", alg+":", n)
	}
	return nil
}
