package meshing

import (
	"bytes"
	"encoding/binary"
	"testing"

	"isomesh/internal/field"
	"isomesh/internal/voxel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereChunk(t *testing.T) *Chunk {
	t.Helper()
	l := voxel.Build(sphere(8, 8, 8, 4.5), 0, 0, 0, 16, 1)
	c, err := Batch(l, BatchOptions{})
	require.NoError(t, err)
	require.False(t, c.Empty())
	return c
}

func TestCodecRoundTrip(t *testing.T) {
	c := sphereChunk(t)
	data, err := c.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, 36+c.BufferSizes().Total())

	got, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, c.Vertices(), got.Vertices())
	assert.Equal(t, c.Normals(), got.Normals())
	assert.Equal(t, c.MaterialColors(), got.MaterialColors())
	assert.Equal(t, c.Colors(), got.Colors())
	assert.Equal(t, c.VertexCounts(), got.VertexCounts())
	assert.Equal(t, c.Densities(), got.Densities())
	assert.Equal(t, c.Commands(), got.Commands())
}

func TestCodecEmptyChunk(t *testing.T) {
	c, err := Batch(uniform(8, 1), BatchOptions{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteBuffers(&buf))
	got, err := ReadChunk(&buf)
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Equal(t, c.Commands(), got.Commands())
}

func TestCodecRejectsCorruptInput(t *testing.T) {
	c := sphereChunk(t)
	data, err := c.MarshalBinary()
	require.NoError(t, err)

	t.Run("magic", func(t *testing.T) {
		bad := bytes.Clone(data)
		bad[0] = 'X'
		_, err := UnmarshalChunk(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("version", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint32(bad[4:], 99)
		_, err := UnmarshalChunk(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := UnmarshalChunk(data[:len(data)-3])
		assert.ErrorIs(t, err, ErrCorrupt)
		_, err = UnmarshalChunk(data[:10])
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("mismatched counts", func(t *testing.T) {
		bad := bytes.Clone(data)
		// normals count
		binary.LittleEndian.PutUint32(bad[12:], binary.LittleEndian.Uint32(bad[12:])+4)
		_, err := UnmarshalChunk(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
	t.Run("huge count", func(t *testing.T) {
		bad := bytes.Clone(data)
		binary.LittleEndian.PutUint32(bad[8:], 0xFFFFFFF0)
		_, err := UnmarshalChunk(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})
}

func TestCodecPreservesColorPolicy(t *testing.T) {
	s, err := field.New("candy", 11)
	require.NoError(t, err)
	l := voxel.Build(s, 0, 0, 0, 16, 1)

	hard, err := Batch(l, BatchOptions{Colors: HardEdge})
	require.NoError(t, err)
	blend, err := Batch(l, BatchOptions{Colors: Blend})
	require.NoError(t, err)

	// geometry does not depend on the color policy
	assert.Equal(t, hard.Vertices(), blend.Vertices())
	assert.Equal(t, hard.Commands(), blend.Commands())

	data, err := blend.MarshalBinary()
	require.NoError(t, err)
	got, err := UnmarshalChunk(data)
	require.NoError(t, err)
	assert.Equal(t, blend.MaterialColors(), got.MaterialColors())
}
