package meshing

import (
	"isomesh/internal/field"
	"isomesh/internal/voxel"

	"github.com/chewxy/math32"
)

// sphere is a solid ball of radius r centered at c, colored by octant.
func sphere(cx, cy, cz, r float32) field.Sampler {
	return field.SamplerFunc(func(x, y, z float32) (float32, uint32) {
		dx, dy, dz := x-cx, y-cy, z-cz
		d := math32.Sqrt(dx*dx+dy*dy+dz*dz) - r
		if d < -1 {
			d = -1
		}
		if d > 1 {
			d = 1
		}
		color := uint32(0xFF000000)
		if dx > 0 {
			color |= 0xFF
		}
		if dy > 0 {
			color |= 0xFF00
		}
		if dz > 0 {
			color |= 0xFF0000
		}
		return d, color
	})
}

// uniform builds a lattice where every sample has the same density.
func uniform(resolution uint32, density float32) *voxel.Lattice {
	l := voxel.NewLattice(resolution)
	for i := range l.Samples {
		l.Samples[i] = voxel.Sample{Density: density, Color: field.Gray}
	}
	return l
}
