package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"gocst/internal/cst"
	"gocst/internal/diag"
	"gocst/internal/project"
	"gocst/internal/source"
)

// treeCacheSchema is bumped whenever CachedTree or cst.Node change shape.
const treeCacheSchema uint16 = 1

// TreeCache хранит готовые деревья и диагностики на диске, ключ — хеш
// содержимого файла вместе с отпечатком настроек разбора.
// Safe for concurrent use.
type TreeCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedTree is the on-disk payload for one parsed file.
type CachedTree struct {
	Schema      uint16
	Root        *cst.Node
	Diagnostics []diag.Diagnostic
	Tokens      int
}

// OpenTreeCache opens (creating if needed) a cache rooted at dir. An empty
// dir selects $XDG_CACHE_HOME/gocst, falling back to ~/.cache/gocst.
func OpenTreeCache(dir string) (*TreeCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to locate cache dir: %w", err)
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, "gocst")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return &TreeCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *TreeCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *TreeCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// два символа префикса, чтобы не складывать всё в один каталог
	return filepath.Join(c.dir, "trees", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload; the file is replaced atomically.
func (c *TreeCache) Put(key project.Digest, payload *CachedTree) error {
	if c == nil || payload == nil {
		return nil
	}
	payload.Schema = treeCacheSchema

	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to encode cached tree: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Get reads a payload. A missing entry or an entry written with another
// schema is a miss, not an error.
func (c *TreeCache) Get(key project.Digest) (*CachedTree, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var out CachedTree
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached tree: %w", err)
	}
	if out.Schema != treeCacheSchema || out.Root == nil {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *TreeCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименовываем, чтобы параллельные читатели не увидели полупустой каталог
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// rebind moves every span of a cached tree onto file id. FileIDs are per
// FileSet, so the ids stored on disk are meaningless in a new run.
func (t *CachedTree) rebind(id source.FileID) {
	cst.Walk(t.Root, func(n *cst.Node, _ int) bool {
		n.Span.File = id
		if n.Token != nil {
			n.Token.Span.File = id
		}
		return true
	})
	for i := range t.Diagnostics {
		d := &t.Diagnostics[i]
		d.Primary.File = id
		for j := range d.Notes {
			d.Notes[j].Span.File = id
		}
		for j := range d.Fixes {
			for k := range d.Fixes[j].Edits {
				d.Fixes[j].Edits[k].Span.File = id
			}
		}
	}
}
