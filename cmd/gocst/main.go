package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gocst/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "gocst",
	Short: "Lossless concrete syntax trees for Go sources",
	Long: `gocst tokenizes and parses Go source files into lossless concrete syntax
trees, reports syntax diagnostics and serves them to editors over LSP`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: prepareRun,
}

// errDiagnostics is returned by commands whose input had errors. The
// diagnostics are already printed, so main only sets the exit status.
var errDiagnostics = errors.New("diagnostics reported")

func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "", "colorize output (auto|on|off); default from gocst.toml")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file (0 = unlimited)")
	pf.String("config", "", "path to gocst.toml (default: nearest above the working directory)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "ring", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	pf.String("cpuprofile", "", "write a CPU profile to this file")
	pf.String("memprofile", "", "write a heap profile to this file on exit")
	pf.String("exectrace", "", "write a runtime execution trace to this file")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	state.close(rootCmd)
	stop()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "gocst: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
