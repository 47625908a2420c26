package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:       filepath.Join(dir, "cpu.pprof"),
		Mem:       filepath.Join(dir, "mem.pprof"),
		ExecTrace: filepath.Join(dir, "exec.trace"),
	}
	if !cfg.Enabled() {
		t.Fatalf("config with paths must be enabled")
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	for _, path := range []string{cfg.CPU, cfg.Mem, cfg.ExecTrace} {
		st, err := os.Stat(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if st.Size() == 0 {
			t.Fatalf("%s is empty", path)
		}
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	_, err := Start(Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	if err == nil {
		t.Fatalf("expected error for unwritable path")
	}
	if (Config{}).Enabled() {
		t.Fatalf("zero config must be disabled")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil session Stop: %v", err)
	}
}
