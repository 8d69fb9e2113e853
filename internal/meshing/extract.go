package meshing

import (
	"isomesh/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Meshlet collects the triangles of one cubic group of cubes before they are
// appended to the chunk buffers.
type Meshlet struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Colors    []uint32
	// Occupancy counts cubes that contained surface.
	Occupancy uint32
}

// Reset empties the meshlet, keeping its capacity.
func (m *Meshlet) Reset() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.Colors = m.Colors[:0]
	m.Occupancy = 0
}

// VertexCount is three times the number of triangles.
func (m *Meshlet) VertexCount() uint32 {
	return uint32(len(m.Positions))
}

// CubeIndex builds the 8-bit configuration of a cube: bit i is set when
// corner i is inside (density < 0).
func CubeIndex(densities [8]float32) uint8 {
	var idx uint8
	for i, d := range densities {
		if d < 0 {
			idx |= 1 << i
		}
	}
	return idx
}

// Extractor runs marching cubes over the unit cubes of one lattice.
type Extractor struct {
	Lattice *voxel.Lattice
	// Origin is the world position of lattice point (0, 0, 0).
	Origin mgl32.Vec3
	// Scale is the world size of one cube.
	Scale  float32
	Colors ColorPolicy
}

// Extract triangulates the unit cube whose minimum corner is (x, y, z) and
// appends the triangles to out. It reports whether the surface crosses the
// cube; cubes with all corners on one side add nothing.
func (e *Extractor) Extract(x, y, z int32, out *Meshlet) bool {
	l := e.Lattice

	var (
		corners   [8][3]int32
		densities [8]float32
		colors    [8]uint32
	)
	for i, off := range CornerOffsets {
		cx, cy, cz := x+off[0], y+off[1], z+off[2]
		corners[i] = [3]int32{cx, cy, cz}
		s := l.At(cx, cy, cz)
		densities[i] = s.Density
		colors[i] = s.Color
	}

	cubeIndex := CubeIndex(densities)
	if cubeIndex == 0 || cubeIndex == 255 {
		return false
	}
	edges := EdgeTable[cubeIndex]
	if edges == 0 {
		return false
	}

	var (
		gradients    [8]mgl32.Vec3
		haveGradient uint8
	)
	gradientAt := func(corner int) mgl32.Vec3 {
		if haveGradient&(1<<corner) == 0 {
			c := corners[corner]
			gradients[corner] = Gradient(l, c[0], c[1], c[2])
			haveGradient |= 1 << corner
		}
		return gradients[corner]
	}

	var (
		vertexList [12]mgl32.Vec3
		normalList [12]mgl32.Vec3
		colorList  [12]uint32
	)
	for i := range EdgeCorners {
		if edges&(1<<i) == 0 {
			continue
		}
		a, b := EdgeCorners[i][0], EdgeCorners[i][1]
		da, db := densities[a], densities[b]

		pa := latticePoint(corners[a])
		pb := latticePoint(corners[b])
		vertexList[i] = InterpolateVertex(pa, pb, da, db)
		normalList[i] = InterpolateNormal(gradientAt(a), gradientAt(b), da, db)
		colorList[i] = e.Colors.EdgeColor(colors[a], colors[b], da, db)
	}

	row := &TriangleTable[cubeIndex]
	for t := 0; t+2 < len(row); t += 3 {
		e1, e2, e3 := row[t], row[t+1], row[t+2]
		if e1 == -1 {
			break
		}
		if e1 < 0 || e2 < 0 || e3 < 0 {
			continue
		}
		for _, edge := range [3]int8{e1, e2, e3} {
			out.Positions = append(out.Positions, e.toWorld(vertexList[edge]))
			out.Normals = append(out.Normals, normalList[edge])
			out.Colors = append(out.Colors, colorList[edge])
		}
	}
	return true
}

func latticePoint(c [3]int32) mgl32.Vec3 {
	return mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
}

func (e *Extractor) toWorld(p mgl32.Vec3) mgl32.Vec3 {
	s := e.Scale
	if s == 0 {
		s = 1
	}
	return mgl32.Vec3{
		e.Origin[0] + p[0]*s,
		e.Origin[1] + p[1]*s,
		e.Origin[2] + p[2]*s,
	}
}
