package driver

import (
	"context"
	"testing"

	"gocst/internal/cst"
	"gocst/internal/project"
)

func TestTreeCacheRoundTrip(t *testing.T) {
	cache, err := OpenTreeCache(t.TempDir())
	if err != nil {
		t.Fatalf("OpenTreeCache: %v", err)
	}
	opts := Options{Cache: cache}
	src := []byte("package p\nfunc f() {\n\tif x {\n}\n")

	first, err := ParseSource(context.Background(), "a.go", src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatalf("cold cache reported a hit")
	}

	second, err := ParseSource(context.Background(), "a.go", src, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Fatalf("second parse missed the cache")
	}
	if cst.Text(second.Root) != string(src) {
		t.Fatalf("cached tree is not lossless")
	}
	if first.Bag.Len() == 0 || first.Bag.Len() != second.Bag.Len() {
		t.Fatalf("diagnostics: first=%d second=%d", first.Bag.Len(), second.Bag.Len())
	}
	for i, d := range second.Bag.Items() {
		if d.Code != first.Bag.Items()[i].Code || d.Primary != first.Bag.Items()[i].Primary {
			t.Fatalf("diagnostic %d differs: %+v vs %+v", i, d, first.Bag.Items()[i])
		}
	}
	if second.Tokens != first.Tokens {
		t.Fatalf("token count %d, want %d", second.Tokens, first.Tokens)
	}
}

func TestTreeCacheRebindsSpans(t *testing.T) {
	cache, err := OpenTreeCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	res, err := ParseSource(context.Background(), "a.go", []byte(mainSrc), Options{})
	if err != nil {
		t.Fatal(err)
	}
	key := project.Combine(project.Digest(res.File.Hash))
	if err := cache.Put(key, &CachedTree{Root: res.Root, Tokens: res.Tokens}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := cache.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	got.rebind(7)
	cst.Walk(got.Root, func(n *cst.Node, _ int) bool {
		if n.Span.File != 7 || (n.Token != nil && n.Token.Span.File != 7) {
			t.Fatalf("span not rebound: %+v", n.Span)
		}
		return true
	})
}

func TestTreeCacheKeyTracksOptions(t *testing.T) {
	cache, err := OpenTreeCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := []byte(mainSrc)
	if _, err := ParseSource(context.Background(), "a.go", src, Options{Cache: cache}); err != nil {
		t.Fatal(err)
	}
	res, err := ParseSource(context.Background(), "a.go", src, Options{Cache: cache, MaxDepth: 8})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatalf("changed max depth must not reuse the cached tree")
	}
}

func TestTreeCacheDropAll(t *testing.T) {
	cache, err := OpenTreeCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	src := []byte(mainSrc)
	if _, err := ParseSource(context.Background(), "a.go", src, Options{Cache: cache}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	res, err := ParseSource(context.Background(), "a.go", src, Options{Cache: cache})
	if err != nil {
		t.Fatal(err)
	}
	if res.Cached {
		t.Fatalf("cache not cleared")
	}
}

func TestNilTreeCache(t *testing.T) {
	var c *TreeCache
	if err := c.Put(project.Digest{}, &CachedTree{}); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(project.Digest{}); ok || err != nil {
		t.Fatalf("nil cache: ok=%v err=%v", ok, err)
	}
}
