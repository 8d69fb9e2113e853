package voxel

import "isomesh/internal/field"

// ChunkOffset converts chunk coordinates to the lattice-space offset of the
// chunk's first sample. It is computed in 64 bits so that large coordinates
// do not wrap.
func ChunkOffset(cx, cy, cz int32, resolution uint32) [3]int64 {
	r := int64(resolution)
	return [3]int64{int64(cx) * r, int64(cy) * r, int64(cz) * r}
}

// Build samples s at every point of the chunk's lattice. World position of a
// point is (ChunkOffset + local) * scale.
func Build(s field.Sampler, cx, cy, cz int32, resolution uint32, scale float32) *Lattice {
	l := NewLattice(resolution)
	off := ChunkOffset(cx, cy, cz, resolution)
	size := l.Size()

	i := 0
	for z := 0; z < size; z++ {
		wz := float32(off[2]+int64(z)) * scale
		for y := 0; y < size; y++ {
			wy := float32(off[1]+int64(y)) * scale
			for x := 0; x < size; x++ {
				wx := float32(off[0]+int64(x)) * scale
				d, c := s.Sample(wx, wy, wz)
				l.Samples[i] = Sample{Density: d, Color: c}
				i++
			}
		}
	}
	return l
}
