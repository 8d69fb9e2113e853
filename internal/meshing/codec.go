package meshing

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Wire layout: 8-byte header (magic, version), seven uint32 element counts in
// buffer order, then the raw little-endian buffers:
// vertices, normals, material colors, lit colors, vertex counts, densities, commands.

var codecMagic = [4]byte{'I', 'S', 'O', 'M'}

const codecVersion uint32 = 1

// maxCodecElements caps any decoded buffer so corrupt headers cannot force
// huge allocations.
const maxCodecElements = 1 << 28

// ErrCorrupt is returned by ReadChunk for malformed input.
var ErrCorrupt = errors.New("meshing: corrupt chunk encoding")

// WriteBuffers writes the chunk in the wire layout.
func (c *Chunk) WriteBuffers(w io.Writer) error {
	header := struct {
		Magic   [4]byte
		Version uint32
		Counts  [7]uint32
	}{
		Magic:   codecMagic,
		Version: codecVersion,
		Counts: [7]uint32{
			uint32(len(c.vertices)),
			uint32(len(c.normals)),
			uint32(len(c.materialColors)),
			uint32(len(c.colors)),
			uint32(len(c.vertexCounts)),
			uint32(len(c.densities)),
			uint32(len(c.commands)),
		},
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("meshing: write header: %w", err)
	}
	for _, buf := range []any{c.vertices, c.normals, c.materialColors, c.colors, c.vertexCounts, c.densities, c.commands} {
		if err := binary.Write(w, binary.LittleEndian, buf); err != nil {
			return fmt.Errorf("meshing: write buffers: %w", err)
		}
	}
	return nil
}

// MarshalBinary encodes the chunk in the wire layout.
func (c *Chunk) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(36 + c.BufferSizes().Total())
	if err := c.WriteBuffers(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadChunk decodes a chunk written by WriteBuffers.
func ReadChunk(r io.Reader) (*Chunk, error) {
	var header struct {
		Magic   [4]byte
		Version uint32
		Counts  [7]uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if header.Magic != codecMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, header.Magic[:])
	}
	if header.Version != codecVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, header.Version)
	}
	for _, n := range header.Counts {
		if n > maxCodecElements {
			return nil, fmt.Errorf("%w: buffer of %d elements", ErrCorrupt, n)
		}
	}

	n := header.Counts
	if err := validateCounts(n); err != nil {
		return nil, err
	}
	c := &Chunk{
		vertices:       make([]float32, n[0]),
		normals:        make([]float32, n[1]),
		materialColors: make([]uint32, n[2]),
		colors:         make([]uint32, n[3]),
		vertexCounts:   make([]uint32, n[4]),
		densities:      make([]uint32, n[5]),
		commands:       make([]Command, n[6]),
	}
	for _, buf := range []any{c.vertices, c.normals, c.materialColors, c.colors, c.vertexCounts, c.densities, c.commands} {
		if err := binary.Read(r, binary.LittleEndian, buf); err != nil {
			return nil, fmt.Errorf("%w: buffers: %v", ErrCorrupt, err)
		}
	}
	return c, nil
}

// UnmarshalChunk decodes a chunk from data.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	return ReadChunk(bytes.NewReader(data))
}

// validateCounts checks that the buffer lengths in a header agree with each other.
func validateCounts(n [7]uint32) error {
	verts := n[0]
	if verts%VertexStride != 0 {
		return fmt.Errorf("%w: %d vertex floats", ErrCorrupt, verts)
	}
	count := verts / VertexStride
	if n[1] != count*NormalStride || n[2] != count || n[3] != count {
		return fmt.Errorf("%w: per-vertex buffers disagree", ErrCorrupt)
	}
	if n[4] != n[6] || n[5] != n[6] {
		return fmt.Errorf("%w: per-meshlet buffers disagree", ErrCorrupt)
	}
	return nil
}
