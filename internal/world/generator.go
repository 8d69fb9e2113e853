package world

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"isomesh/internal/config"
	"isomesh/internal/field"
	"isomesh/internal/meshing"
	"isomesh/internal/profiling"
	"isomesh/internal/store"
	"isomesh/internal/voxel"

	"github.com/alitto/pond/v2"
	"golang.org/x/sync/errgroup"
)

// Options configures a Generator.
type Options struct {
	// Field is a preset name from field.Names.
	Field string
	Seed  int64
	// Compression is the meshlet edge length. Zero means meshing.DefaultCompression.
	Compression uint32
	Colors      meshing.ColorPolicy
	// Workers > 1 extracts meshlets on a shared pool of that size.
	Workers int
	// CacheSize bounds the in-memory chunk cache. Zero disables it.
	CacheSize int
	// Store, when set, persists chunks across runs.
	Store *store.Store
}

// OptionsFromConfig converts validated generation settings.
func OptionsFromConfig(g config.Generation, st *store.Store) Options {
	return Options{
		Field:       g.Field,
		Seed:        g.Seed,
		Compression: g.Compression,
		Colors:      g.Colors(),
		Workers:     g.Workers,
		CacheSize:   g.CacheSize,
		Store:       st,
	}
}

// Generator turns chunk requests into meshes for one field. It is safe for
// concurrent use.
type Generator struct {
	opts    Options
	sampler field.Sampler
	pool    pond.Pool
	cache   *ChunkCache
}

// NewGenerator creates a generator for the field and seed in opts.
func NewGenerator(opts Options) (*Generator, error) {
	sampler, err := field.New(opts.Field, opts.Seed)
	if err != nil {
		return nil, err
	}
	return NewGeneratorWithSampler(sampler, opts), nil
}

// NewGeneratorWithSampler uses a custom sampler; opts.Field only names it in
// logs and store keys.
func NewGeneratorWithSampler(s field.Sampler, opts Options) *Generator {
	if opts.Compression == 0 {
		opts.Compression = meshing.DefaultCompression
	}
	g := &Generator{opts: opts, sampler: s}
	if opts.Workers > 1 {
		g.pool = pond.NewPool(opts.Workers)
	}
	if opts.CacheSize > 0 {
		g.cache = NewChunkCache(opts.CacheSize)
	}
	return g
}

// Compression returns the meshlet compression factor in use.
func (g *Generator) Compression() uint32 { return g.opts.Compression }

// Cache returns the in-memory cache, or nil when caching is disabled.
func (g *Generator) Cache() *ChunkCache { return g.cache }

// Close stops the meshlet pool. The store is owned by the caller.
func (g *Generator) Close() {
	if g.pool != nil {
		g.pool.StopAndWait()
	}
}

func (g *Generator) storeKey(r Request) store.Key {
	return store.Key{
		Field:       g.opts.Field,
		Seed:        g.opts.Seed,
		X:           r.X,
		Y:           r.Y,
		Z:           r.Z,
		Resolution:  r.Resolution,
		Scale:       r.Scale,
		Compression: g.opts.Compression,
		Colors:      g.opts.Colors.String(),
	}
}

// Generate returns the mesh for r, from the caches when possible.
func (g *Generator) Generate(ctx context.Context, r Request) (*meshing.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r = r.normalized()
	if err := r.Validate(g.opts.Compression); err != nil {
		return nil, err
	}

	if g.cache != nil {
		return g.cache.GetOrBuild(r, func() (*meshing.Chunk, error) {
			return g.load(ctx, r)
		})
	}
	return g.load(ctx, r)
}

// load reads r from the store, or builds and stores it.
func (g *Generator) load(ctx context.Context, r Request) (*meshing.Chunk, error) {
	if g.opts.Store == nil {
		return g.build(r)
	}

	key := g.storeKey(r)
	c, err := g.opts.Store.Get(ctx, key)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("world: cache read for %v failed: %v", r, err)
	}

	c, err = g.build(r)
	if err != nil {
		return nil, err
	}
	if err := g.opts.Store.Put(ctx, key, c); err != nil {
		log.Printf("world: cache write for %v failed: %v", r, err)
	}
	return c, nil
}

// build samples and meshes r without touching the caches.
func (g *Generator) build(r Request) (*meshing.Chunk, error) {
	defer profiling.Track("world.Generate")()
	start := time.Now()

	l := g.sample(r)

	stop := profiling.Track("meshing.Batch")
	c, err := meshing.Batch(l, meshing.BatchOptions{
		Compression: g.opts.Compression,
		Origin:      r.Origin(),
		Scale:       r.Scale,
		Colors:      g.opts.Colors,
		Workers:     g.opts.Workers,
		Pool:        g.pool,
	})
	stop()
	if err != nil {
		return nil, fmt.Errorf("world: mesh %v: %w", r, err)
	}

	if slow := config.GetSlowThreshold(); slow > 0 {
		if d := time.Since(start); d > slow {
			log.Printf("world: %v took %v (%d vertices) [%s]", r, d, c.VertexCount(), profiling.TopN(3))
		}
	}
	return c, nil
}

func (g *Generator) sample(r Request) *voxel.Lattice {
	defer profiling.Track("voxel.Build")()
	return voxel.Build(g.sampler, r.X, r.Y, r.Z, r.Resolution, r.Scale)
}

// GenerateMany meshes all requests concurrently and returns the chunks in
// request order. The first error cancels the remaining work.
func (g *Generator) GenerateMany(ctx context.Context, reqs []Request) ([]*meshing.Chunk, error) {
	out := make([]*meshing.Chunk, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.NumCPU())
	for i, r := range reqs {
		eg.Go(func() error {
			c, err := g.Generate(ctx, r)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
