package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gocst/internal/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the on-disk parse cache",
}

var cacheDirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cacheDir(state.config.Parse))
		return nil
	},
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove every cached tree",
	Args:  cobra.NoArgs,
	RunE:  runCacheClean,
}

func init() {
	cacheCmd.AddCommand(cacheDirCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
}

func runCacheClean(cmd *cobra.Command, _ []string) error {
	dir := cacheDir(state.config.Parse)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	cache, err := driver.OpenTreeCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", dir)
	return nil
}
