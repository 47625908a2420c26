package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"gocst/internal/lsp"
	"gocst/internal/version"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the gocst language server over stdio",
	Long:         `Serve syntax diagnostics, folding ranges and document symbols to an editor over stdio`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().Duration("debounce", 200*time.Millisecond, "delay before re-parsing a changed document (0 = immediately)")
	lspCmd.Flags().String("log-file", "", "write server logs to this file instead of stderr")
	lspCmd.Flags().CountP("verbose", "v", "log verbosity (repeat for more)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to get log-file flag: %w", err)
	}
	verbosity, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// stdout занят протоколом, логи только в stderr или файл
	var logPath *string
	if logFile != "" {
		logPath = &logFile
	}
	commonlog.Configure(verbosity, logPath)

	server := lsp.NewServer(lsp.ServerOptions{
		Debounce:       debounce,
		MaxDiagnostics: maxDiagnostics,
		Version:        version.Version,
		Debug:          verbosity > 1,
	})
	return server.RunStdio()
}
