package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gocst/internal/diag"
	"gocst/internal/diagfmt"
	"gocst/internal/driver"
	"gocst/internal/observ"
	"gocst/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file.go|directory|->",
	Short: "Parse Go sources into a concrete syntax tree",
	Long: `Parse builds the lossless syntax tree of a file, of every .go file in a
directory, or of standard input when the argument is "-"`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "", "tree output (tree|json|graph|none); default from gocst.toml")
	parseCmd.Flags().Bool("trivia", false, "include whitespace, newline and comment leaves")
	parseCmd.Flags().Bool("positions", false, "print line:col ranges instead of byte offsets")
	parseCmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	addParseFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = "tree"
		if state.config.Output.Format == "json" {
			format = "json"
		}
	}
	writeTree, err := treeWriter(format)
	if err != nil {
		return err
	}
	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	positions, err := cmd.Flags().GetBool("positions")
	if err != nil {
		return fmt.Errorf("failed to get positions flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	withUI, err := wantProgressUI(uiValue, format, isTerminal(os.Stdout))
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	treeOpts := diagfmt.TreeOpts{Trivia: trivia, Positions: positions}

	timer := observ.NewTimer()
	endParse := timer.Begin("parse")
	var (
		results []*driver.ParseResult
		fileSet *source.FileSet
		isDir   bool
	)
	switch {
	case target == "-":
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		res, err := driver.ParseSource(cmd.Context(), "<stdin>", content, opts)
		if err != nil {
			return err
		}
		fileSet, results = res.FileSet, []*driver.ParseResult{res}
	default:
		st, err := os.Stat(target)
		if err != nil {
			return err
		}
		if st.IsDir() {
			isDir = true
			if withUI {
				fileSet, results, err = runParseDirWithUI(cmd.Context(), target, opts)
			} else {
				fileSet, results, err = driver.ParseDir(cmd.Context(), target, opts)
			}
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}
		} else {
			res, err := driver.Parse(cmd.Context(), target, opts)
			if err != nil {
				return fmt.Errorf("parse failed: %w", err)
			}
			fileSet, results = res.FileSet, []*driver.ParseResult{res}
		}
	}
	endParse(len(results))

	endRender := timer.Begin("render")
	bag := diag.NewBag(0)
	for _, res := range results {
		if res == nil {
			continue
		}
		bag.Merge(res.Bag)
		if res.Root == nil || writeTree == nil {
			continue
		}
		if isDir && !quiet && format != "json" {
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
		}
		if err := writeTree(os.Stdout, res, fileSet, treeOpts); err != nil {
			return err
		}
	}

	if bag.Len() > 0 {
		bag.Sort()
		bag.Dedup()
		diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{Color: colored, Context: 2})
	}
	endRender(bag.Len())
	if showTimings {
		printParseTimings(os.Stderr, results, timer)
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// wantProgressUI decides whether a directory parse shows the live progress
// view. The view draws on stdout, so it is only used with --format=none.
func wantProgressUI(value, format string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return tty && format == "none", nil
	case "on":
		if format != "none" {
			return false, fmt.Errorf("--ui=on needs --format=none: the progress view and the %s output both use stdout", format)
		}
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

type treeWriterFunc func(w io.Writer, res *driver.ParseResult, fs *source.FileSet, opts diagfmt.TreeOpts) error

// treeWriter maps --format onto an output function; "none" yields nil.
func treeWriter(format string) (treeWriterFunc, error) {
	switch format {
	case "tree":
		return func(w io.Writer, res *driver.ParseResult, fs *source.FileSet, opts diagfmt.TreeOpts) error {
			return diagfmt.FormatTreePretty(w, res.Root, fs, opts)
		}, nil
	case "json":
		return func(w io.Writer, res *driver.ParseResult, _ *source.FileSet, opts diagfmt.TreeOpts) error {
			return diagfmt.FormatTreeJSON(w, res.Root, opts)
		}, nil
	case "graph":
		return func(w io.Writer, res *driver.ParseResult, _ *source.FileSet, opts diagfmt.TreeOpts) error {
			return diagfmt.FormatTreeGraph(w, res.Root, opts)
		}, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}
