package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gocst/internal/diag"
	"gocst/internal/diagfmt"
	"gocst/internal/driver"
	"gocst/internal/source"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file.go|directory>",
	Short: "Report syntax diagnostics for Go sources",
	Long:  `Run the lexer and parser over a file or every .go file within a directory and report what they found`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "", "output format (pretty|json|short); default from gocst.toml")
	diagCmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("preview", false, "preview suggested edits without modifying files")
	diagCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	diagCmd.Flags().Int8("context", 2, "source lines shown around each diagnostic")
	addParseFlags(diagCmd)
}

// runDiagnose parses the target and prints every diagnostic of the run
// sorted and deduplicated. It returns errDiagnostics when an error remains
// after filtering, so the process exits with a non-zero status.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = state.config.Output.Format
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if noWarnings && warningsAsErrors {
		return fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	pathModeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeValue)
	if !ok {
		return fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathModeValue)
	}
	contextLines, err := cmd.Flags().GetInt8("context")
	if err != nil {
		return fmt.Errorf("failed to get context flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}

	fileSet, bag, err := collectDiagnostics(cmd, target, opts)
	if err != nil {
		return err
	}

	if noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	bag.Sort()
	bag.Dedup()

	showFixes := suggest || preview
	switch format {
	case "pretty":
		colored, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stdout, bag, fileSet, diagfmt.PrettyOpts{
			Color:       colored,
			Context:     contextLines,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   showFixes,
			ShowPreview: preview,
		})
	case "json":
		err := diagfmt.JSON(os.Stdout, bag, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics,
			IncludeNotes:     withNotes,
			IncludeFixes:     showFixes,
			IncludePreviews:  preview,
		})
		if err != nil {
			return err
		}
	case "short":
		if out := diag.FormatShort(bag.Items(), fileSet, diag.ShortOpts{Notes: withNotes}); out != "" {
			fmt.Fprintln(os.Stdout, out)
		}
	}

	if bag.HasErrors() || (warningsAsErrors && bag.HasWarnings()) {
		return errDiagnostics
	}
	return nil
}

// collectDiagnostics parses a file or a whole directory and merges every
// per-file bag into one.
func collectDiagnostics(cmd *cobra.Command, target string, opts driver.Options) (*source.FileSet, *diag.Bag, error) {
	st, err := os.Stat(target)
	if err != nil {
		return nil, nil, err
	}
	bag := diag.NewBag(0)
	if !st.IsDir() {
		res, err := driver.Parse(cmd.Context(), target, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("diagnosis failed: %w", err)
		}
		bag.Merge(res.Bag)
		return res.FileSet, bag, nil
	}

	fileSet, results, err := driver.ParseDir(cmd.Context(), target, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("diagnosis failed: %w", err)
	}
	for _, res := range results {
		if res != nil {
			bag.Merge(res.Bag)
		}
	}
	return fileSet, bag, nil
}
