package meshing

import "unsafe"

const (
	// VertexStride is the number of float32 per vertex: xyz + w (1.0).
	VertexStride = 4
	// NormalStride pads normals to 16 bytes, the storage-buffer stride of a vec3.
	NormalStride = 4
	// CommandWords is the number of uint32 in one indirect draw command.
	CommandWords = 4
)

// Command is a non-indexed indirect draw for one meshlet.
type Command struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// Chunk is the complete mesh of one chunk: shared vertex buffers plus one
// vertex count, occupancy value and draw command per meshlet. A Chunk is
// never modified after Batch returns it.
type Chunk struct {
	vertices       []float32
	normals        []float32
	materialColors []uint32
	colors         []uint32
	vertexCounts   []uint32
	densities      []uint32
	commands       []Command
}

// The accessors below return the chunk's own storage to avoid copying large
// buffers. Callers must treat the slices as read-only; Colors is the one
// buffer a lighting pass writes, so it is handed out as a copy.

// Vertices returns positions as (x, y, z, 1.0) quadruples.
func (c *Chunk) Vertices() []float32 { return c.vertices }

// Normals returns normals as (x, y, z, 0.0) quadruples.
func (c *Chunk) Normals() []float32 { return c.normals }

// MaterialColors returns one packed RGBA color per vertex.
func (c *Chunk) MaterialColors() []uint32 { return c.materialColors }

// Colors returns a copy of the lit colors, initially equal to MaterialColors.
// Chunks are shared through caches, so writes to it never reach the chunk.
func (c *Chunk) Colors() []uint32 { return c.LitColorsCopy() }

// VertexCounts returns one vertex count per meshlet.
func (c *Chunk) VertexCounts() []uint32 { return c.vertexCounts }

// Densities returns the occupancy (non-empty cube count) of each meshlet.
func (c *Chunk) Densities() []uint32 { return c.densities }

// Commands returns one draw command per meshlet.
func (c *Chunk) Commands() []Command { return c.commands }

// LitColorsCopy returns a mutable copy of the lit colors for a lighting pass.
func (c *Chunk) LitColorsCopy() []uint32 {
	out := make([]uint32, len(c.colors))
	copy(out, c.colors)
	return out
}

// CommandWords flattens the commands into the 4×u32 layout a GPU reads.
func (c *Chunk) CommandWords() []uint32 {
	out := make([]uint32, 0, len(c.commands)*CommandWords)
	for _, cmd := range c.commands {
		out = append(out, cmd.VertexCount, cmd.InstanceCount, cmd.FirstVertex, cmd.FirstInstance)
	}
	return out
}

// VertexCount is the total number of emitted vertices.
func (c *Chunk) VertexCount() int {
	return len(c.vertices) / VertexStride
}

// MeshletCount is the number of meshlets (and commands).
func (c *Chunk) MeshletCount() int {
	return len(c.commands)
}

// Empty reports whether the chunk has no geometry.
func (c *Chunk) Empty() bool {
	return len(c.vertices) == 0
}

// Metadata holds buffer lengths in elements.
type Metadata struct {
	Vertices       int
	Normals        int
	Colors         int
	MaterialColors int
	Commands       int
	Densities      int
	VertexCounts   int
}

// BufferSizes holds buffer sizes in bytes, for allocating GPU buffers.
type BufferSizes struct {
	Vertices       int
	Normals        int
	Colors         int
	MaterialColors int
	Commands       int
	Densities      int
	VertexCounts   int
}

// Total is the sum of all buffer sizes.
func (b BufferSizes) Total() int {
	return b.Vertices + b.Normals + b.Colors + b.MaterialColors + b.Commands + b.Densities + b.VertexCounts
}

func (c *Chunk) Metadata() Metadata {
	return Metadata{
		Vertices:       len(c.vertices),
		Normals:        len(c.normals),
		Colors:         len(c.colors),
		MaterialColors: len(c.materialColors),
		Commands:       len(c.commands),
		Densities:      len(c.densities),
		VertexCounts:   len(c.vertexCounts),
	}
}

func (c *Chunk) BufferSizes() BufferSizes {
	const word = 4
	return BufferSizes{
		Vertices:       len(c.vertices) * word,
		Normals:        len(c.normals) * word,
		Colors:         len(c.colors) * word,
		MaterialColors: len(c.materialColors) * word,
		Commands:       len(c.commands) * int(unsafe.Sizeof(Command{})),
		Densities:      len(c.densities) * word,
		VertexCounts:   len(c.vertexCounts) * word,
	}
}

// appendMeshlet adds a finished meshlet and its draw command. FirstVertex is
// the number of vertices already in the chunk, so offsets form a prefix sum.
func (c *Chunk) appendMeshlet(m *Meshlet) {
	first := uint32(len(c.vertices) / VertexStride)
	for i, p := range m.Positions {
		n := m.Normals[i]
		c.vertices = append(c.vertices, p[0], p[1], p[2], 1)
		c.normals = append(c.normals, n[0], n[1], n[2], 0)
	}
	c.materialColors = append(c.materialColors, m.Colors...)
	c.colors = append(c.colors, m.Colors...)

	count := m.VertexCount()
	c.vertexCounts = append(c.vertexCounts, count)
	c.densities = append(c.densities, m.Occupancy)
	c.commands = append(c.commands, Command{
		VertexCount:   count,
		InstanceCount: 1,
		FirstVertex:   first,
		FirstInstance: 0,
	})
}

func newChunk(meshlets, vertices int) *Chunk {
	return &Chunk{
		vertices:       make([]float32, 0, vertices*VertexStride),
		normals:        make([]float32, 0, vertices*NormalStride),
		materialColors: make([]uint32, 0, vertices),
		colors:         make([]uint32, 0, vertices),
		vertexCounts:   make([]uint32, 0, meshlets),
		densities:      make([]uint32, 0, meshlets),
		commands:       make([]Command, 0, meshlets),
	}
}
