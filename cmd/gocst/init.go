package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gocst/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default gocst.toml",
	Long: `Init writes gocst.toml with the default settings into dir (the current
directory when omitted). The directory is created if it does not exist.`,
	Args: cobra.MaximumNArgs(1),
	// существующий gocst.toml может быть сломан, его не читаем
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		state.cleanup = cleanup
		return nil
	},
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing gocst.toml")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	target := "."
	if len(args) > 0 && args[0] != "" {
		target = args[0]
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return err
	}
	if st, err := os.Stat(target); err == nil && !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := project.WriteDefault(target, force)
	if errors.Is(err, project.ErrConfigExists) {
		return fmt.Errorf("project already initialized: %w (use --force to overwrite)", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
