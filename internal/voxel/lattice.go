// Package voxel materializes the density field of one chunk as a lattice of
// samples and provides bounds-safe reads of it.
package voxel

// Sample is the field evaluated at one lattice point.
type Sample struct {
	Density float32
	Color   uint32 // packed 0xAABBGGRR
}

const (
	// OutsideDensity is returned for coordinates beyond the lattice. It reads
	// as empty space so border cubes and gradients need no special cases.
	OutsideDensity float32 = 1.0
	// OutsideColor is returned alongside OutsideDensity.
	OutsideColor uint32 = 0x808080FF
)

// Lattice holds (Resolution+1)^3 samples in z-major order:
// index = z*size*size + y*size + x with size = Resolution+1.
type Lattice struct {
	Resolution uint32
	Samples    []Sample
}

// NewLattice allocates a zeroed lattice for resolution cubes per axis.
func NewLattice(resolution uint32) *Lattice {
	size := int(resolution) + 1
	return &Lattice{
		Resolution: resolution,
		Samples:    make([]Sample, size*size*size),
	}
}

// Size is the number of lattice points per axis.
func (l *Lattice) Size() int {
	return int(l.Resolution) + 1
}

// Index converts in-range lattice coordinates to a flat index.
func (l *Lattice) Index(x, y, z int) int {
	size := l.Size()
	return z*size*size + y*size + x
}

// Contains reports whether (x, y, z) lies in [0, Resolution] on every axis.
func (l *Lattice) Contains(x, y, z int32) bool {
	r := int32(l.Resolution)
	return x >= 0 && y >= 0 && z >= 0 && x <= r && y <= r && z <= r
}

// Set stores a sample. Coordinates must be in range.
func (l *Lattice) Set(x, y, z int, s Sample) {
	l.Samples[l.Index(x, y, z)] = s
}

// At returns the sample at (x, y, z), or the outside sentinel when the
// coordinate is off the lattice.
func (l *Lattice) At(x, y, z int32) Sample {
	if !l.Contains(x, y, z) {
		return Sample{Density: OutsideDensity, Color: OutsideColor}
	}
	return l.Samples[l.Index(int(x), int(y), int(z))]
}

// DensityAt is the bounds-safe density read.
func (l *Lattice) DensityAt(x, y, z int32) float32 {
	if !l.Contains(x, y, z) {
		return OutsideDensity
	}
	return l.Samples[l.Index(int(x), int(y), int(z))].Density
}

// ColorAt is the bounds-safe color read.
func (l *Lattice) ColorAt(x, y, z int32) uint32 {
	if !l.Contains(x, y, z) {
		return OutsideColor
	}
	return l.Samples[l.Index(int(x), int(y), int(z))].Color
}
