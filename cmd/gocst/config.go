package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gocst/internal/driver"
	"gocst/internal/prof"
	"gocst/internal/project"
)

// runState is what PersistentPreRunE prepares for every command.
type runState struct {
	config     project.Config
	configPath string
	cleanup    func()
	profiler   *prof.Session
}

var state runState

func prepareRun(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	state.config = cfg
	state.configPath = path

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	state.cleanup = cleanup
	return startProfiling(cmd)
}

func startProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for name, dst := range map[string]*string{
		"cpuprofile": &cfg.CPU,
		"memprofile": &cfg.Mem,
		"exectrace":  &cfg.ExecTrace,
	} {
		value, err := pf.GetString(name)
		if err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
		*dst = value
	}
	if !cfg.Enabled() {
		return nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	state.profiler = session
	return nil
}

// close stops profilers and flushes the tracer. It runs after Execute even
// when the command failed, which cobra's PersistentPostRun would not.
func (s *runState) close(cmd *cobra.Command) {
	if s.profiler != nil {
		if err := s.profiler.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		s.profiler = nil
	}
	if s.cleanup != nil {
		s.cleanup()
		s.cleanup = nil
	}
}

func loadConfig(cmd *cobra.Command) (project.Config, string, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, "", fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		cfg, err := project.Load(path)
		if err != nil {
			return project.Config{}, "", err
		}
		return cfg, path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Config{}, "", err
	}
	return project.LoadNearest(wd)
}

// projectDir is where relative paths from gocst.toml are resolved.
func projectDir() string {
	if state.configPath != "" {
		return filepath.Dir(state.configPath)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// useColor applies --color, falling back to output.color from the config.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if mode == "" {
		mode = state.config.Output.Color
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(f) && os.Getenv("NO_COLOR") == "", nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

// addParseFlags registers the flags that override the [parse] section.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Int("max-depth", 0, "parser recursion limit (0 = parser default)")
	cmd.Flags().Int("max-errors", 0, "syntax errors reported per file (0 = unlimited)")
	cmd.Flags().Bool("cache", false, "use the on-disk parse cache")
	cmd.Flags().Bool("skip-nfc-check", false, "do not warn about identifiers not in NFC")
}

// driverOptions merges gocst.toml with command-line overrides. Only flags
// the user actually set take precedence over the file.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	parseCfg := state.config.Parse
	flags := cmd.Flags()
	for name, dst := range map[string]*int{
		"jobs":       &parseCfg.Jobs,
		"max-depth":  &parseCfg.MaxDepth,
		"max-errors": &parseCfg.MaxErrors,
	} {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetInt(name); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	for name, dst := range map[string]*bool{
		"cache":          &parseCfg.Cache,
		"skip-nfc-check": &parseCfg.SkipNFCCheck,
	} {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return driver.Options{}, fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	if parseCfg.MaxDepth < 0 || parseCfg.MaxErrors < 0 || parseCfg.Jobs < 0 {
		return driver.Options{}, fmt.Errorf("--jobs, --max-depth and --max-errors must not be negative")
	}

	opts := driver.OptionsFromConfig(parseCfg, maxDiagnostics)
	if parseCfg.Cache {
		cache, err := driver.OpenTreeCache(cacheDir(parseCfg))
		if err != nil {
			return driver.Options{}, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

func cacheDir(cfg project.ParseConfig) string {
	dir := cfg.CacheDir
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(projectDir(), dir)
}
