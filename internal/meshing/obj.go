package meshing

import (
	"bufio"
	"fmt"
	"io"

	"isomesh/internal/field"
)

// WriteOBJ writes the chunk as a Wavefront OBJ mesh with per-vertex colors
// (the common "v x y z r g b" extension) and one group per non-empty meshlet.
func (c *Chunk) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %d vertices, %d meshlets\n", c.VertexCount(), c.MeshletCount())

	for i := 0; i < c.VertexCount(); i++ {
		v := c.vertices[i*VertexStride : i*VertexStride+3]
		rgba := field.UnpackRGBA(c.materialColors[i])
		fmt.Fprintf(bw, "v %g %g %g %.4g %.4g %.4g\n", v[0], v[1], v[2], rgba[0], rgba[1], rgba[2])
	}
	for i := 0; i < c.VertexCount(); i++ {
		n := c.normals[i*NormalStride : i*NormalStride+3]
		fmt.Fprintf(bw, "vn %g %g %g\n", n[0], n[1], n[2])
	}
	for m, cmd := range c.commands {
		if cmd.VertexCount == 0 {
			continue
		}
		fmt.Fprintf(bw, "g meshlet_%d\n", m)
		for t := cmd.FirstVertex; t+2 < cmd.FirstVertex+cmd.VertexCount; t += 3 {
			// OBJ indices are 1-based
			i, j, k := t+1, t+2, t+3
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", i, i, j, j, k, k)
		}
	}
	return bw.Flush()
}
