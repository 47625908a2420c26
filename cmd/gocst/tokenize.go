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

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file.go|directory>",
	Short: "Tokenize a Go source file",
	Long:  `Tokenize breaks a Go source file (or every .go file in a directory) into tokens, trivia included`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "include whitespace, newline and comment tokens")
	addParseFlags(tokenizeCmd)
}

func runTokenize(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	target := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}

	st, err := os.Stat(target)
	if err != nil {
		return err
	}

	var results []*driver.TokenizeResult
	var fileSet *source.FileSet
	if st.IsDir() {
		fileSet, results, err = driver.TokenizeDir(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	} else {
		res, err := driver.Tokenize(cmd.Context(), target, opts)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
		fileSet = res.FileSet
		results = []*driver.TokenizeResult{res}
	}

	bag := diag.NewBag(0)
	for _, res := range results {
		if res == nil {
			continue
		}
		bag.Merge(res.Bag)
		if res.File == nil {
			continue
		}
		// заголовок нужен только когда файлов несколько
		if st.IsDir() && !quiet && format == "pretty" {
			fmt.Fprintf(os.Stdout, "== %s ==\n", res.Path)
		}
		switch format {
		case "pretty":
			err = diagfmt.FormatTokensPretty(os.Stdout, res.Tokens, fileSet, trivia)
		case "json":
			err = diagfmt.FormatTokensJSON(os.Stdout, res.Tokens, trivia)
		}
		if err != nil {
			return err
		}
	}

	// Выводим диагностику в stderr, если есть
	if bag.Len() > 0 {
		bag.Sort()
		diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{Color: colored, Context: 2})
	}
	if bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
