package rescache

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	c := Open()
	if c == nil {
		t.Fatal("Open returned nil")
	}
	return c
}

func TestCache_PutThenGetRoundTrips(t *testing.T) {
	c := openTestCache(t)
	digest := Digest("var a = 1;")
	locals := map[int]int{0: 1, 1: 0}

	c.Put(digest, 2, locals)

	got, ok := c.Get(digest, 2)
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != len(locals) {
		t.Fatalf("got %v, want %v", got, locals)
	}
	for id, depth := range locals {
		if got[id] != depth {
			t.Fatalf("id %d: got depth %d, want %d", id, got[id], depth)
		}
	}
}

func TestCache_GetMissesOnUnknownDigest(t *testing.T) {
	c := openTestCache(t)
	if _, ok := c.Get(Digest("never stored"), 0); ok {
		t.Fatal("expected a miss")
	}
}

func TestCache_GetMissesOnNodeCountMismatch(t *testing.T) {
	c := openTestCache(t)
	digest := Digest("var a = 1;")
	c.Put(digest, 2, map[int]int{0: 0})

	if _, ok := c.Get(digest, 3); ok {
		t.Fatal("expected a miss when the current parse has a different node count")
	}
}

func TestCache_GetMissesOnCorruptedFile(t *testing.T) {
	c := openTestCache(t)
	digest := Digest("var a = 1;")
	c.Put(digest, 1, map[int]int{0: 0})

	if err := os.WriteFile(c.pathFor(digest), []byte("not msgpack"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.Get(digest, 1); ok {
		t.Fatal("expected a miss on a corrupted cache file")
	}
}

func TestNilCacheIsANoOp(t *testing.T) {
	var c *Cache
	c.Put("deadbeef", 1, map[int]int{0: 0})
	if _, ok := c.Get("deadbeef", 1); ok {
		t.Fatal("expected nil *Cache to always miss")
	}
}

func TestOpen_UsesXDGCacheHome(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	c := Open()
	if c == nil {
		t.Fatal("Open returned nil")
	}
	if c.dir != filepath.Join(base, "lox") {
		t.Fatalf("got dir %q, want under %q", c.dir, base)
	}
}
