package world

import (
	"errors"
	"sync"
	"testing"

	"isomesh/internal/meshing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(x int32) Request {
	return Request{X: x, Resolution: 8, Scale: 1}
}

func TestChunkCacheEvictsOldest(t *testing.T) {
	cc := NewChunkCache(2)
	a, b, c := &meshing.Chunk{}, &meshing.Chunk{}, &meshing.Chunk{}
	cc.Add(key(0), a)
	cc.Add(key(1), b)
	cc.Add(key(2), c)

	assert.Equal(t, 2, cc.Len())
	_, ok := cc.Get(key(0))
	assert.False(t, ok)
	got, ok := cc.Get(key(2))
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, uint64(3), cc.GetModCount())
}

func TestChunkCacheFirstAddWins(t *testing.T) {
	cc := NewChunkCache(4)
	first := &meshing.Chunk{}
	assert.Same(t, first, cc.Add(key(0), first))
	assert.Same(t, first, cc.Add(key(0), &meshing.Chunk{}))

	var wg sync.WaitGroup
	got := make([]*meshing.Chunk, 16)
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = cc.Add(key(9), &meshing.Chunk{})
		}()
	}
	wg.Wait()
	for _, c := range got {
		assert.Same(t, got[0], c)
	}
}

func TestChunkCacheNormalizesScale(t *testing.T) {
	cc := NewChunkCache(1)
	c := &meshing.Chunk{}
	cc.Add(Request{Resolution: 8}, c)
	got, ok := cc.Get(Request{Resolution: 8, Scale: 1})
	require.True(t, ok)
	assert.Same(t, c, got)
}

func TestChunkCacheGetOrBuild(t *testing.T) {
	cc := NewChunkCache(2)
	builds := 0
	build := func() (*meshing.Chunk, error) {
		builds++
		return &meshing.Chunk{}, nil
	}
	a, err := cc.GetOrBuild(key(1), build)
	require.NoError(t, err)
	b, err := cc.GetOrBuild(key(1), build)
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Equal(t, 1, builds)

	boom := errors.New("boom")
	_, err = cc.GetOrBuild(key(2), func() (*meshing.Chunk, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, cc.Len())
}

func TestChunkCacheRemoveAndEvictFar(t *testing.T) {
	cc := NewChunkCache(16)
	for x := int32(-3); x <= 3; x++ {
		cc.Add(key(x), &meshing.Chunk{})
	}
	assert.True(t, cc.Remove(key(0)))
	assert.False(t, cc.Remove(key(0)))

	removed := cc.EvictFarChunks(key(0), 1)
	assert.Equal(t, 4, removed)
	assert.Equal(t, 2, cc.Len())
	_, ok := cc.Get(key(-1))
	assert.True(t, ok)

	// the order slice stays in sync with the map
	for x := int32(10); x < 30; x++ {
		cc.Add(key(x), &meshing.Chunk{})
	}
	assert.Equal(t, 16, cc.Len())
}

func TestRing(t *testing.T) {
	center := key(5)
	assert.Equal(t, []Request{center}, Ring(center, 0))
	assert.Nil(t, Ring(center, -1))

	reqs := Ring(center, 2)
	require.Len(t, reqs, 125)
	assert.Equal(t, center, reqs[0])

	seen := make(map[Request]bool)
	last := int64(0)
	for _, r := range reqs {
		assert.False(t, seen[r], "duplicate %v", r)
		seen[r] = true
		d := chebyshev(r, center)
		assert.GreaterOrEqual(t, d, last, "shells must grow")
		last = d
	}
}
