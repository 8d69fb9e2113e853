package meshing

import (
	"errors"
	"fmt"
	"math"

	"isomesh/internal/voxel"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCompression is the default meshlet edge length in cubes.
const DefaultCompression = 8

// maxTrianglesPerCube bounds the output of one cube.
const maxTrianglesPerCube = 5

// ErrInvalidResolution reports a resolution/compression pair that cannot be
// partitioned into meshlets.
var ErrInvalidResolution = errors.New("meshing: invalid resolution")

// BatchOptions configures Batch.
type BatchOptions struct {
	// Compression is the meshlet edge length in cubes. Zero means DefaultCompression.
	Compression uint32
	// Origin is the world position of lattice point (0, 0, 0).
	Origin mgl32.Vec3
	// Scale is the world size of one cube. Zero means 1.
	Scale  float32
	Colors ColorPolicy
	// Workers > 1 extracts meshlets in parallel. Output is identical either way.
	Workers int
	// Pool, when set, runs parallel extraction instead of a per-call pool.
	Pool pond.Pool
}

// ValidateResolution checks that resolution is a positive multiple of
// compression and that the worst-case vertex count fits a uint32 draw offset.
func ValidateResolution(resolution, compression uint32) error {
	if compression == 0 {
		return fmt.Errorf("%w: compression factor must be positive", ErrInvalidResolution)
	}
	if resolution == 0 {
		return fmt.Errorf("%w: resolution must be positive", ErrInvalidResolution)
	}
	if resolution%compression != 0 {
		return fmt.Errorf("%w: resolution %d is not a multiple of compression factor %d",
			ErrInvalidResolution, resolution, compression)
	}
	r := uint64(resolution)
	if r*r*r*maxTrianglesPerCube*3 > math.MaxUint32 {
		return fmt.Errorf("%w: resolution %d overflows 32-bit vertex offsets", ErrInvalidResolution, resolution)
	}
	return nil
}

// Batch runs marching cubes over every meshlet of the lattice and packs the
// result into a Chunk. Meshlets are ordered z outer, y middle, x inner.
func Batch(l *voxel.Lattice, opts BatchOptions) (*Chunk, error) {
	if opts.Compression == 0 {
		opts.Compression = DefaultCompression
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if err := ValidateResolution(l.Resolution, opts.Compression); err != nil {
		return nil, err
	}

	ex := &Extractor{
		Lattice: l,
		Origin:  opts.Origin,
		Scale:   opts.Scale,
		Colors:  opts.Colors,
	}
	k := opts.Compression
	groups := l.Resolution / k

	if opts.Workers <= 1 && opts.Pool == nil {
		return batchSequential(ex, groups, k), nil
	}
	return batchParallel(ex, groups, k, opts)
}

func batchSequential(ex *Extractor, groups, k uint32) *Chunk {
	c := newChunk(int(groups*groups*groups), 0)
	var m Meshlet
	for gz := uint32(0); gz < groups; gz++ {
		for gy := uint32(0); gy < groups; gy++ {
			for gx := uint32(0); gx < groups; gx++ {
				m.Reset()
				extractGroup(ex, gx, gy, gz, k, &m)
				c.appendMeshlet(&m)
			}
		}
	}
	return c
}

// batchParallel extracts every meshlet into its own slot, then merges the
// slots in meshlet order. Slot i is meshlet (i%g, i/g%g, i/g/g).
func batchParallel(ex *Extractor, groups, k uint32, opts BatchOptions) (*Chunk, error) {
	n := int(groups * groups * groups)
	meshlets := make([]Meshlet, n)

	pool := opts.Pool
	if pool == nil {
		pool = pond.NewPool(opts.Workers)
		defer pool.StopAndWait()
	}

	g := pool.NewGroup()
	for i := range n {
		g.Submit(func() {
			gx := uint32(i) % groups
			gy := uint32(i) / groups % groups
			gz := uint32(i) / groups / groups
			extractGroup(ex, gx, gy, gz, k, &meshlets[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("meshing: parallel extraction: %w", err)
	}

	total := 0
	for i := range meshlets {
		total += len(meshlets[i].Positions)
	}
	c := newChunk(n, total)
	for i := range meshlets {
		c.appendMeshlet(&meshlets[i])
	}
	return c, nil
}

// extractGroup runs the extractor over the k^3 cubes of meshlet (gx, gy, gz).
func extractGroup(ex *Extractor, gx, gy, gz, k uint32, m *Meshlet) {
	for z := uint32(0); z < k; z++ {
		for y := uint32(0); y < k; y++ {
			for x := uint32(0); x < k; x++ {
				cx := int32(gx*k + x)
				cy := int32(gy*k + y)
				cz := int32(gz*k + z)
				if ex.Extract(cx, cy, cz, m) {
					m.Occupancy++
				}
			}
		}
	}
}
