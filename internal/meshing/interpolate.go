package meshing

import (
	"fmt"

	"isomesh/internal/field"
	"isomesh/internal/voxel"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the threshold under which a density counts as on the surface,
// or two densities count as equal, during edge interpolation.
const Epsilon = 1e-5

// gradients shorter than this fall back to Up
const gradientEpsilon = 1e-4

// Up is the normal used where the field gradient vanishes.
var Up = mgl32.Vec3{0, 1, 0}

// InterpolateVertex places the zero crossing on the edge p1-p2. Degenerate
// edges snap to an endpoint instead of dividing.
func InterpolateVertex(p1, p2 mgl32.Vec3, d1, d2 float32) mgl32.Vec3 {
	if math32.Abs(d1) < Epsilon {
		return p1
	}
	if math32.Abs(d2) < Epsilon {
		return p2
	}
	if math32.Abs(d1-d2) < Epsilon {
		return p1
	}
	mu := -d1 / (d2 - d1)
	return mgl32.Vec3{
		p1[0] + mu*(p2[0]-p1[0]),
		p1[1] + mu*(p2[1]-p1[1]),
		p1[2] + mu*(p2[2]-p1[2]),
	}
}

// InterpolateNormal blends two corner normals with the same parameter as
// InterpolateVertex and renormalizes the result.
func InterpolateNormal(n1, n2 mgl32.Vec3, d1, d2 float32) mgl32.Vec3 {
	if math32.Abs(d1) < Epsilon {
		return normalize(n1)
	}
	if math32.Abs(d2) < Epsilon {
		return normalize(n2)
	}
	if math32.Abs(d1-d2) < Epsilon {
		return normalize(n1)
	}
	mu := -d1 / (d2 - d1)
	return normalize(mgl32.Vec3{
		n1[0] + mu*(n2[0]-n1[0]),
		n1[1] + mu*(n2[1]-n1[1]),
		n1[2] + mu*(n2[2]-n1[2]),
	})
}

// normalize leaves zero vectors untouched.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l <= 0 {
		return v
	}
	return mgl32.Vec3{v[0] / l, v[1] / l, v[2] / l}
}

// Gradient estimates the unit surface normal at a lattice point from the
// central difference of its six axis neighbors. Neighbors off the lattice
// read as empty space. The normal points from solid toward empty space.
func Gradient(l *voxel.Lattice, x, y, z int32) mgl32.Vec3 {
	dx := l.DensityAt(x+1, y, z) - l.DensityAt(x-1, y, z)
	dy := l.DensityAt(x, y+1, z) - l.DensityAt(x, y-1, z)
	dz := l.DensityAt(x, y, z+1) - l.DensityAt(x, y, z-1)

	length := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	if length > gradientEpsilon {
		return mgl32.Vec3{dx / length, dy / length, dz / length}
	}
	return Up
}

// ColorPolicy decides how a vertex on an edge gets its color from the two
// corner colors.
type ColorPolicy uint8

const (
	// HardEdge takes the color of the corner with the more negative density,
	// which gives faceted material boundaries.
	HardEdge ColorPolicy = iota
	// Blend interpolates the corner colors to the crossing point.
	Blend
)

func (p ColorPolicy) String() string {
	switch p {
	case HardEdge:
		return "hard"
	case Blend:
		return "blend"
	default:
		return fmt.Sprintf("ColorPolicy(%d)", uint8(p))
	}
}

// ParseColorPolicy accepts "hard" or "blend".
func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch s {
	case "hard", "":
		return HardEdge, nil
	case "blend":
		return Blend, nil
	}
	return HardEdge, fmt.Errorf("meshing: unknown color policy %q", s)
}

// EdgeColor resolves the color of a vertex on the edge between two corners.
func (p ColorPolicy) EdgeColor(c1, c2 uint32, d1, d2 float32) uint32 {
	if p == Blend {
		return field.BlendColor(c1, c2, d1, d2)
	}
	if d1 < d2 {
		return c1
	}
	return c2
}
