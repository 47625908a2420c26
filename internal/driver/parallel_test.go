package driver

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/project"
)

func setupTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), mainSrc)
	writeFile(t, filepath.Join(dir, "pkg", "util.go"), "package pkg\n\nfunc Add(a, b int) int { return a + b }\n")
	writeFile(t, filepath.Join(dir, "pkg", "broken.go"), "package pkg\nfunc (")
	writeFile(t, filepath.Join(dir, "pkg", "notes.txt"), "not go")
	writeFile(t, filepath.Join(dir, "testdata", "skip.go"), "package skip\n")
	writeFile(t, filepath.Join(dir, ".hidden", "skip.go"), "package skip\n")
	return dir
}

func TestListFiles(t *testing.T) {
	dir := setupTree(t)
	files, err := ListFiles(dir, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(dir, "main.go"),
		filepath.Join(dir, "pkg", "broken.go"),
		filepath.Join(dir, "pkg", "util.go"),
	}
	if !slices.Equal(files, want) {
		t.Fatalf("files = %v, want %v", files, want)
	}

	txt, err := ListFiles(dir, []string{".txt"})
	if err != nil || len(txt) != 1 {
		t.Fatalf("txt files = %v (%v)", txt, err)
	}
}

func TestParseDir(t *testing.T) {
	dir := setupTree(t)

	events := make(chan Event, 64)
	fs, results, err := ParseDir(context.Background(), dir, Options{Jobs: 2, Progress: events})
	close(events)
	if err != nil {
		t.Fatalf("ParseDir: %v", err)
	}
	if fs == nil || len(results) != 3 {
		t.Fatalf("results = %d", len(results))
	}
	for _, res := range results {
		if res.Root == nil {
			t.Fatalf("%s: no tree", res.Path)
		}
		if got := cst.Text(res.Root); got != string(res.File.Content) {
			t.Fatalf("%s: not lossless", res.Path)
		}
		if fs.Get(res.File.ID) != res.File {
			t.Fatalf("%s: file not in the shared set", res.Path)
		}
	}
	if filepath.Base(results[1].Path) != "broken.go" || !results[1].Bag.HasErrors() {
		t.Fatalf("broken.go should carry errors")
	}
	if results[0].Bag.HasErrors() || results[2].Bag.HasErrors() {
		t.Fatalf("clean files reported errors")
	}

	finished := 0
	var overall bool
	for ev := range events {
		if ev.File == "" {
			overall = true
			continue
		}
		if ev.Finished() {
			finished++
		}
	}
	if finished != 3 || !overall {
		t.Fatalf("finished=%d overall=%v", finished, overall)
	}
}

func TestParseDirSharesCache(t *testing.T) {
	dir := setupTree(t)
	cache, err := OpenTreeCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Cache: cache}
	if _, _, err := ParseDir(context.Background(), dir, opts); err != nil {
		t.Fatal(err)
	}
	_, results, err := ParseDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if !res.Cached {
			t.Fatalf("%s: expected cache hit", res.Path)
		}
	}
}

func TestParseDirCancelled(t *testing.T) {
	dir := setupTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := ParseDir(ctx, dir, Options{}); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestTokenizeDir(t *testing.T) {
	dir := setupTree(t)
	seen := map[string]bool{}
	events := make(chan Event, 64)
	_, results, err := TokenizeDir(context.Background(), dir, Options{Progress: events})
	close(events)
	if err != nil {
		t.Fatal(err)
	}
	for ev := range events {
		seen[ev.File] = true
	}
	if len(results) != 3 || len(seen) != 3 {
		t.Fatalf("results=%d seen=%d", len(results), len(seen))
	}
	for _, res := range results {
		if len(res.Tokens) == 0 {
			t.Fatalf("%s: no tokens", res.Path)
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(project.ParseConfig{MaxDepth: 32, Jobs: 3}, 10)
	if opts.MaxDepth != 32 || opts.MaxDiagnostics != 10 || opts.jobs() != 3 {
		t.Fatalf("options: %+v", opts)
	}
	if exts := (&Options{}).extensions(); !slices.Equal(exts, []string{".go"}) {
		t.Fatalf("default extensions %v", exts)
	}
}
