package world

import (
	"fmt"
	"math"

	"isomesh/internal/meshing"
	"isomesh/internal/voxel"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxResolution is the resolution of a level-of-detail 0 chunk.
const MaxResolution = 256

// MaxLOD is the coarsest level whose cube scale still fits a float32 with
// room for chunk offsets.
const MaxLOD = 64

// Request identifies one chunk to mesh. Chunk coordinates are in units of
// Resolution cubes; Scale is the world size of one cube.
type Request struct {
	X, Y, Z    int32
	Resolution uint32
	Scale      float32
}

func (r Request) String() string {
	return fmt.Sprintf("chunk(%d,%d,%d)@%d×%g", r.X, r.Y, r.Z, r.Resolution, r.Scale)
}

// normalized fills in the default scale.
func (r Request) normalized() Request {
	if r.Scale == 0 {
		r.Scale = 1
	}
	return r
}

// Validate checks the request against a meshlet compression factor.
func (r Request) Validate(compression uint32) error {
	if err := meshing.ValidateResolution(r.Resolution, compression); err != nil {
		return err
	}
	if r.Scale < 0 || math32.IsNaN(r.Scale) || math32.IsInf(r.Scale, 0) {
		return fmt.Errorf("world: invalid scale %g for %v", r.Scale, r)
	}
	return nil
}

// Origin is the world position of the chunk's lattice point (0, 0, 0).
func (r Request) Origin() mgl32.Vec3 {
	off := voxel.ChunkOffset(r.X, r.Y, r.Z, r.Resolution)
	s := r.normalized().Scale
	return mgl32.Vec3{float32(off[0]) * s, float32(off[1]) * s, float32(off[2]) * s}
}

// ForLOD returns the resolution and cube scale for a level of detail. Each
// level divides the resolution of MaxResolution by lod+1, rounded down to a
// multiple of compression, and doubles the cube size. The resolution never
// drops below one meshlet. Levels past MaxLOD overflow the scale to +Inf,
// which Request.Validate rejects.
func ForLOD(lod, compression uint32) (uint32, float32) {
	if compression == 0 {
		compression = meshing.DefaultCompression
	}
	res := uint32(uint64(MaxResolution) / (uint64(lod) + 1))
	res -= res % compression
	if res == 0 {
		res = compression
	}
	return res, float32(math.Ldexp(1, int(lod)))
}

// LODRequest is the request for chunk (x, y, z) at the given level of detail.
func LODRequest(x, y, z int32, lod, compression uint32) Request {
	res, scale := ForLOD(lod, compression)
	return Request{X: x, Y: y, Z: z, Resolution: res, Scale: scale}
}
