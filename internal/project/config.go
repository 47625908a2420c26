package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the contents of gocst.toml.
type Config struct {
	Parse  ParseConfig  `toml:"parse"`
	Output OutputConfig `toml:"output"`
}

// ParseConfig holds the [parse] section.
type ParseConfig struct {
	// MaxDepth bounds parser recursion; 0 means the parser default.
	MaxDepth int `toml:"max_depth"`
	// MaxErrors bounds syntax errors reported per file; 0 means no limit.
	MaxErrors int `toml:"max_errors"`
	// Jobs is the number of files parsed concurrently; 0 means GOMAXPROCS.
	Jobs int `toml:"jobs"`
	// Extensions selects files when a directory is parsed.
	Extensions []string `toml:"extensions"`
	// Cache enables the on-disk parse cache.
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
	// SkipNFCCheck disables the identifier normalisation warning.
	SkipNFCCheck bool `toml:"skip_nfc_check"`
}

// OutputConfig holds the [output] section.
type OutputConfig struct {
	Color  string `toml:"color"`  // auto|on|off
	Format string `toml:"format"` // pretty|json|short
}

var (
	// ErrUnknownKey is returned when the file contains keys gocst does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalidValue is returned for out-of-range or unsupported values.
	ErrInvalidValue = errors.New("invalid configuration value")
	// ErrConfigExists is returned by WriteDefault when the file is already there.
	ErrConfigExists = errors.New("gocst.toml already exists")
)

// Default returns the configuration used when no gocst.toml is found.
func Default() Config {
	return Config{
		Parse: ParseConfig{
			Extensions: []string{".go"},
			CacheDir:   ".gocst/cache",
		},
		Output: OutputConfig{
			Color:  "auto",
			Format: "pretty",
		},
	}
}

// Load parses path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadNearest looks gocst.toml up from startDir and loads it. Without a file
// it returns Default and an empty path.
func LoadNearest(startDir string) (cfg Config, path string, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	cfg, err = Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	switch {
	case c.Parse.MaxDepth < 0:
		return fmt.Errorf("%w: parse.max_depth must not be negative", ErrInvalidValue)
	case c.Parse.MaxErrors < 0:
		return fmt.Errorf("%w: parse.max_errors must not be negative", ErrInvalidValue)
	case c.Parse.Jobs < 0:
		return fmt.Errorf("%w: parse.jobs must not be negative", ErrInvalidValue)
	case !slices.Contains([]string{"auto", "on", "off"}, c.Output.Color):
		return fmt.Errorf("%w: output.color %q (want auto, on or off)", ErrInvalidValue, c.Output.Color)
	case !slices.Contains([]string{"pretty", "json", "short"}, c.Output.Format):
		return fmt.Errorf("%w: output.format %q (want pretty, json or short)", ErrInvalidValue, c.Output.Format)
	}
	for _, ext := range c.Parse.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with '.'", ErrInvalidValue, ext)
		}
	}
	return nil
}

// Encode renders c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates dir/gocst.toml with the default settings. An existing
// file is kept unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	data, err := Default().Encode()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
