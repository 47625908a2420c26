package trace

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// Tracer receives trace events. Implementations must be goroutine-safe:
// the driver parses files concurrently.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode selects where events go. The bits combine: ModeBoth streams
// every event and also keeps the tail in memory for a crash dump.
type StorageMode uint8

const (
	ModeStream StorageMode = 1 << iota
	ModeRing
	ModeBoth = ModeStream | ModeRing
)

var modeNames = map[string]StorageMode{
	"stream": ModeStream,
	"ring":   ModeRing,
	"both":   ModeBoth,
}

func (m StorageMode) String() string {
	for name, mode := range modeNames {
		if mode == m {
			return name
		}
	}
	return "unknown"
}

// ParseMode converts a --trace-mode value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	if m, ok := modeNames[strings.ToLower(s)]; ok {
		return m, nil
	}
	names := make([]string, 0, len(modeNames))
	for name := range modeNames {
		names = append(names, name)
	}
	slices.Sort(names)
	return ModeRing, fmt.Errorf("invalid trace mode %q (expected one of %s)", s, strings.Join(names, "|"))
}

// Config holds tracer configuration, filled from the --trace flags.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks by the OutputPath extension
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" means stderr
	RingSize   int       // events kept for a crash dump, default 4096
}

const defaultRingSize = 4096

// New builds the tracer described by cfg. LevelOff yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.Mode&ModeBoth == 0 || cfg.Mode&^ModeBoth != 0 {
		return nil, fmt.Errorf("unknown trace mode: %d", cfg.Mode)
	}

	var sinks []Tracer
	if cfg.Mode&ModeStream != 0 {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, NewStreamTracer(w, cfg.Level, cfg.resolveFormat()))
	}
	if cfg.Mode&ModeRing != 0 {
		sinks = append(sinks, NewRingTracer(cfg.RingSize, cfg.Level))
	}
	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return Fanout(sinks...), nil
}

func (cfg Config) resolveFormat() Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
		return FormatNDJSON
	}
	return FormatText
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return stderrWriter{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

// stderrWriter hides Close so closing the tracer leaves stderr open.
type stderrWriter struct{ io.Writer }
