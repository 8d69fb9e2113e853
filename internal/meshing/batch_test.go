package meshing

import (
	"testing"

	"isomesh/internal/field"
	"isomesh/internal/voxel"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResolution(t *testing.T) {
	assert.NoError(t, ValidateResolution(16, 8))
	assert.NoError(t, ValidateResolution(1, 1))
	assert.NoError(t, ValidateResolution(256, 8))

	for _, tc := range []struct{ res, comp uint32 }{
		{10, 8},
		{0, 8},
		{16, 0},
		{4096, 8},
	} {
		err := ValidateResolution(tc.res, tc.comp)
		assert.ErrorIs(t, err, ErrInvalidResolution, "res=%d comp=%d", tc.res, tc.comp)
	}
}

func TestBatchRejectsNonMultiple(t *testing.T) {
	l := uniform(10, 1)
	_, err := Batch(l, BatchOptions{Compression: 8})
	require.ErrorIs(t, err, ErrInvalidResolution)
}

func TestBatchEmptyField(t *testing.T) {
	l := uniform(16, 1)
	c, err := Batch(l, BatchOptions{})
	require.NoError(t, err)

	assert.True(t, c.Empty())
	assert.Equal(t, 8, c.MeshletCount())
	assert.Len(t, c.VertexCounts(), 8)
	assert.Len(t, c.Densities(), 8)
	for i, cmd := range c.Commands() {
		assert.Equal(t, Command{VertexCount: 0, InstanceCount: 1}, cmd, "meshlet %d", i)
		assert.Zero(t, c.Densities()[i])
	}
}

func TestBatchSingleCube(t *testing.T) {
	l := uniform(1, 1)
	l.Set(0, 0, 0, voxel.Sample{Density: -1, Color: field.Gray})

	c, err := Batch(l, BatchOptions{Compression: 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, c.VertexCounts())
	assert.Equal(t, []uint32{1}, c.Densities())
	assert.Equal(t, []Command{{VertexCount: 3, InstanceCount: 1}}, c.Commands())
	assert.Len(t, c.Vertices(), 12)
	for i := 0; i < 3; i++ {
		assert.Equal(t, float32(1), c.Vertices()[i*VertexStride+3])
		assert.Equal(t, float32(0), c.Normals()[i*NormalStride+3])
	}
}

func TestBatchPlanarCut(t *testing.T) {
	const res = 16
	plane := field.Composite{Density: field.Plane{Height: res/2 + 0.5}, Palette: field.Solid{RGBA: field.Gray}}
	l := voxel.Build(plane, 0, 0, 0, res, 1)

	c, err := Batch(l, BatchOptions{Compression: 8})
	require.NoError(t, err)

	// one layer of cubes, two triangles per column
	assert.Equal(t, res*res*2*3, c.VertexCount())

	verts, normals := c.Vertices(), c.Normals()
	var sumY float32
	for i := 0; i < c.VertexCount(); i++ {
		assert.Equal(t, float32(res/2+0.5), verts[i*VertexStride+1])
		n := mgl32.Vec3{normals[i*NormalStride], normals[i*NormalStride+1], normals[i*NormalStride+2]}
		assert.InDelta(t, 1, n.Len(), 1e-5)
		assert.Greater(t, n[1], float32(0.5))
		sumY += n[1]
	}
	assert.Greater(t, sumY/float32(c.VertexCount()), float32(0.9))

	// the cut sits in the upper half only for y = 8.5, so only gy = 1 meshlets have geometry
	for i, n := range c.VertexCounts() {
		gy := i / 2 % 2
		if gy == 1 {
			assert.NotZero(t, n, "meshlet %d", i)
		} else {
			assert.Zero(t, n, "meshlet %d", i)
		}
	}
}

func TestBatchConservation(t *testing.T) {
	l := voxel.Build(sphere(8, 8, 8, 5.5), 0, 0, 0, 16, 1)
	c, err := Batch(l, BatchOptions{Compression: 4})
	require.NoError(t, err)
	require.False(t, c.Empty())

	assert.Equal(t, 64, c.MeshletCount())
	var total uint32
	for i, cmd := range c.Commands() {
		assert.Equal(t, c.VertexCounts()[i], cmd.VertexCount)
		assert.Zero(t, cmd.VertexCount%3, "meshlet %d has a partial triangle", i)
		assert.Equal(t, total, cmd.FirstVertex, "meshlet %d offset", i)
		assert.Equal(t, uint32(1), cmd.InstanceCount)
		assert.LessOrEqual(t, cmd.VertexCount, c.Densities()[i]*maxTrianglesPerCube*3)
		total += cmd.VertexCount
	}
	assert.Equal(t, int(total), c.VertexCount())
	assert.Len(t, c.Vertices(), int(total)*VertexStride)
	assert.Len(t, c.Normals(), int(total)*NormalStride)
	assert.Len(t, c.MaterialColors(), int(total))
	assert.Equal(t, c.MaterialColors(), c.Colors())
	assert.Len(t, c.CommandWords(), c.MeshletCount()*CommandWords)
}

func TestBatchMeshletOrder(t *testing.T) {
	// a small ball fully inside meshlet (1, 0, 0) and nowhere else
	l := voxel.Build(sphere(12, 4, 4, 2), 0, 0, 0, 16, 1)
	c, err := Batch(l, BatchOptions{Compression: 8})
	require.NoError(t, err)

	for i, n := range c.VertexCounts() {
		if i == 1 {
			assert.NotZero(t, n)
		} else {
			assert.Zero(t, n, "meshlet %d", i)
		}
	}

	// the same ball at (0, 0, 1) lands at index g*g
	l = voxel.Build(sphere(4, 4, 12, 2), 0, 0, 0, 16, 1)
	c, err = Batch(l, BatchOptions{Compression: 8})
	require.NoError(t, err)
	assert.NotZero(t, c.VertexCounts()[4])
	assert.Equal(t, uint32(0), c.Commands()[4].FirstVertex)
}

func TestBatchWorldPlacement(t *testing.T) {
	l := voxel.Build(sphere(4, 4, 4, 2), 0, 0, 0, 8, 1)
	local, err := Batch(l, BatchOptions{})
	require.NoError(t, err)
	placed, err := Batch(l, BatchOptions{Origin: mgl32.Vec3{8, 0, -8}, Scale: 2})
	require.NoError(t, err)

	require.Equal(t, local.VertexCount(), placed.VertexCount())
	for i := 0; i < local.VertexCount(); i++ {
		o := i * VertexStride
		assert.InDelta(t, local.Vertices()[o]*2+8, placed.Vertices()[o], 1e-4)
		assert.InDelta(t, local.Vertices()[o+2]*2-8, placed.Vertices()[o+2], 1e-4)
	}
	assert.Equal(t, local.Normals(), placed.Normals())
}

func TestBatchDeterministic(t *testing.T) {
	s, err := field.New("rock", 7)
	require.NoError(t, err)

	encode := func() []byte {
		l := voxel.Build(s, 1, 0, -1, 16, 1)
		c, err := Batch(l, BatchOptions{})
		require.NoError(t, err)
		b, err := c.MarshalBinary()
		require.NoError(t, err)
		return b
	}
	assert.Equal(t, encode(), encode())
}

func TestBatchParallelMatchesSequential(t *testing.T) {
	s, err := field.New("candy", 3)
	require.NoError(t, err)
	l := voxel.Build(s, 0, 1, 0, 32, 1)

	seq, err := Batch(l, BatchOptions{Colors: Blend})
	require.NoError(t, err)
	par, err := Batch(l, BatchOptions{Colors: Blend, Workers: 4})
	require.NoError(t, err)

	pool := pond.NewPool(3)
	defer pool.StopAndWait()
	shared, err := Batch(l, BatchOptions{Colors: Blend, Pool: pool})
	require.NoError(t, err)

	want, err := seq.MarshalBinary()
	require.NoError(t, err)
	for _, c := range []*Chunk{par, shared} {
		got, err := c.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestBufferSizes(t *testing.T) {
	l := uniform(1, 1)
	l.Set(0, 0, 0, voxel.Sample{Density: -1, Color: field.Gray})
	c, err := Batch(l, BatchOptions{Compression: 1})
	require.NoError(t, err)

	md := c.Metadata()
	assert.Equal(t, Metadata{
		Vertices: 12, Normals: 12, Colors: 3, MaterialColors: 3,
		Commands: 1, Densities: 1, VertexCounts: 1,
	}, md)

	sz := c.BufferSizes()
	assert.Equal(t, 48, sz.Vertices)
	assert.Equal(t, 16, sz.Commands)
	assert.Equal(t, 48+48+12+12+16+4+4, sz.Total())
}

func TestLitColorsCopyIsIndependent(t *testing.T) {
	l := uniform(1, 1)
	l.Set(0, 0, 0, voxel.Sample{Density: -1, Color: 0xFF0000FF})
	c, err := Batch(l, BatchOptions{Compression: 1})
	require.NoError(t, err)

	lit := c.LitColorsCopy()
	lit[0] = 0
	assert.Equal(t, uint32(0xFF0000FF), c.Colors()[0])

	shaded := c.Colors()
	shaded[0] = 0xFF00FF00
	assert.Equal(t, uint32(0xFF0000FF), c.Colors()[0])
	assert.Equal(t, c.MaterialColors(), c.Colors())

	encoded, err := c.MarshalBinary()
	require.NoError(t, err)
	decoded, err := UnmarshalChunk(encoded)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0xFF0000FF, 0xFF0000FF, 0xFF0000FF}, decoded.Colors())
}
