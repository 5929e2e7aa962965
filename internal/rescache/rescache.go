// Package rescache persists resolver output keyed by the content hash
// of the source it was computed from, so repeated runs of an unchanged
// script can skip walking the resolver again. It is an accelerator,
// never a correctness dependency: any lookup or store failure is
// treated as a cache miss.
package rescache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// schema is bumped whenever the on-disk payload shape changes, so an
// old cache entry from a previous version of this package is rejected
// rather than misread.
const schema uint16 = 1

// Payload is what gets serialized to disk: the resolver's id→depth
// side table plus the node count the parser produced when it was
// computed. NodeCount lets Get detect a structural mismatch (the
// parser produced ids the cached table doesn't cover) without needing
// to re-run the resolver to find out.
type Payload struct {
	Schema    uint16
	NodeCount int
	Locals    map[int]int
}

// Cache is a directory of cached resolution payloads under the user's
// cache directory, one file per source digest.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at $XDG_CACHE_HOME/lox (or
// ~/.cache/lox). It never fails outright: if the cache directory can't
// be determined or created, Open returns a nil *Cache, and every
// method on a nil *Cache is a safe no-op.
func Open() *Cache {
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	return &Cache{dir: dir}
}

func cacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "lox"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "lox"), nil
}

// Digest returns the cache key for a piece of source text.
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) pathFor(digest string) string {
	return filepath.Join(c.dir, digest[:2], digest+".cache")
}

// Get loads the cached payload for digest, if one exists and its
// schema matches. wantNodeCount is the number of resolvable ids the
// current parse produced; a mismatch against the stored NodeCount
// means the cached table doesn't necessarily cover every node the
// parser just produced, so Get reports a miss rather than risk an
// incomplete locals map.
func (c *Cache) Get(digest string, wantNodeCount int) (map[int]int, bool) {
	if c == nil {
		return nil, false
	}

	f, err := os.Open(c.pathFor(digest))
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != schema || payload.NodeCount != wantNodeCount {
		return nil, false
	}
	return payload.Locals, true
}

// Put stores locals under digest, tagged with nodeCount so a future
// Get can detect a structural mismatch. Writes go to a temp file and
// are renamed into place so a concurrent reader never observes a
// partial file.
func (c *Cache) Put(digest string, nodeCount int, locals map[int]int) {
	if c == nil {
		return
	}

	path := c.pathFor(digest)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "rescache-*")
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name())

	payload := Payload{Schema: schema, NodeCount: nodeCount, Locals: locals}
	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close()
		return
	}
	if err := tmp.Close(); err != nil {
		return
	}

	_ = os.Rename(tmp.Name(), path)
}
