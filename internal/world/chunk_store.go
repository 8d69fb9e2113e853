package world

import (
	"sync"

	"isomesh/internal/meshing"
)

// ChunkCache keeps the most recently added meshes in memory, keyed by request.
// When full, the oldest entry is evicted.
type ChunkCache struct {
	chunks   map[Request]*meshing.Chunk
	order    []Request // insertion order, oldest first
	limit    int
	mu       sync.RWMutex
	modCount uint64 // Increases on any add/remove
}

// NewChunkCache creates a cache holding at most limit chunks.
func NewChunkCache(limit int) *ChunkCache {
	if limit < 1 {
		limit = 1
	}
	return &ChunkCache{
		chunks: make(map[Request]*meshing.Chunk, limit),
		limit:  limit,
	}
}

// Get returns the cached chunk for r.
func (cc *ChunkCache) Get(r Request) (*meshing.Chunk, bool) {
	cc.mu.RLock()
	c, ok := cc.chunks[r.normalized()]
	cc.mu.RUnlock()
	return c, ok
}

// Add caches c for r and returns the resident chunk. If another goroutine
// cached r first, its chunk wins and c is dropped, so every caller sees the
// same chunk for the same request.
func (cc *ChunkCache) Add(r Request, c *meshing.Chunk) *meshing.Chunk {
	r = r.normalized()
	cc.mu.RLock()
	existing, ok := cc.chunks[r]
	cc.mu.RUnlock()
	if ok {
		return existing
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()
	// Double-check: another goroutine might have added it while we were waiting for the lock
	if existing, ok := cc.chunks[r]; ok {
		return existing
	}
	for len(cc.order) >= cc.limit {
		oldest := cc.order[0]
		cc.order = cc.order[1:]
		delete(cc.chunks, oldest)
	}
	cc.chunks[r] = c
	cc.order = append(cc.order, r)
	cc.modCount++
	return c
}

// GetOrBuild returns the cached chunk for r, building and caching it on a miss.
// Concurrent misses may build more than once; all callers get the chunk that
// was cached first.
func (cc *ChunkCache) GetOrBuild(r Request, build func() (*meshing.Chunk, error)) (*meshing.Chunk, error) {
	if c, ok := cc.Get(r); ok {
		return c, nil
	}
	c, err := build()
	if err != nil {
		return nil, err
	}
	return cc.Add(r, c), nil
}

// Remove evicts r and reports whether it was cached.
func (cc *ChunkCache) Remove(r Request) bool {
	r = r.normalized()
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if _, ok := cc.chunks[r]; !ok {
		return false
	}
	delete(cc.chunks, r)
	for i, o := range cc.order {
		if o == r {
			cc.order = append(cc.order[:i], cc.order[i+1:]...)
			break
		}
	}
	cc.modCount++
	return true
}

// Len returns the number of cached chunks.
func (cc *ChunkCache) Len() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.chunks)
}

// GetModCount returns the current modification count of the cache.
func (cc *ChunkCache) GetModCount() uint64 {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return cc.modCount
}

// EvictFarChunks removes cached chunks farther than radius chunks (Chebyshev
// distance) from center, ignoring resolution. Returns number of removed chunks.
func (cc *ChunkCache) EvictFarChunks(center Request, radius int32) int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	removed := 0
	kept := cc.order[:0]
	for _, r := range cc.order {
		if chebyshev(r, center) > int64(radius) {
			delete(cc.chunks, r)
			removed++
			continue
		}
		kept = append(kept, r)
	}
	cc.order = kept
	if removed > 0 {
		cc.modCount++
	}
	return removed
}

func chebyshev(a, b Request) int64 {
	d := max(abs64(int64(a.X)-int64(b.X)), abs64(int64(a.Y)-int64(b.Y)))
	return max(d, abs64(int64(a.Z)-int64(b.Z)))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
