package field

import (
	"math"
	"math/rand"
)

// Gradient directions of improved Perlin noise: the twelve cube edge
// midpoints, padded to sixteen.
var (
	gradX = [16]float64{1, -1, 1, -1, 1, -1, 1, -1, 0, 0, 0, 0, 1, 0, -1, 0}
	gradY = [16]float64{1, 1, -1, -1, 0, 0, 0, 0, 1, -1, 1, -1, 1, -1, 1, -1}
	gradZ = [16]float64{0, 0, 0, 0, 1, 1, -1, -1, 1, 1, -1, -1, 0, 1, 0, -1}
)

// improvedNoise is gradient noise over a shuffled permutation table, offset by
// a random translation so that two generators from one source differ.
type improvedNoise struct {
	perm       [512]int
	ox, oy, oz float64
}

func newImprovedNoise(rnd *rand.Rand) *improvedNoise {
	n := &improvedNoise{
		ox: rnd.Float64() * 256,
		oy: rnd.Float64() * 256,
		oz: rnd.Float64() * 256,
	}
	for i := range 256 {
		n.perm[i] = i
	}
	for i := range 256 {
		j := rnd.Intn(256-i) + i
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
		n.perm[i+256] = n.perm[i]
	}
	return n
}

func grad(hash int, x, y, z float64) float64 {
	i := hash & 15
	return gradX[i]*x + gradY[i]*y + gradZ[i]*z
}

// noise3 samples one point; the result lies roughly in [-1, 1].
func (n *improvedNoise) noise3(x, y, z float64) float64 {
	x += n.ox
	y += n.oy
	z += n.oz
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	px, py, pz := int(fx)&255, int(fy)&255, int(fz)&255
	x, y, z = x-fx, y-fy, z-fz
	u, v, w := fade(x), fade(y), fade(z)

	p := &n.perm
	a := p[px] + py
	aa := p[a] + pz
	ab := p[a+1] + pz
	b := p[px+1] + py
	ba := p[b] + pz
	bb := p[b+1] + pz

	d1 := lerp(grad(p[aa], x, y, z), grad(p[ba], x-1, y, z), u)
	d2 := lerp(grad(p[ab], x, y-1, z), grad(p[bb], x-1, y-1, z), u)
	d3 := lerp(grad(p[aa+1], x, y, z-1), grad(p[ba+1], x-1, y, z-1), u)
	d4 := lerp(grad(p[ab+1], x, y-1, z-1), grad(p[bb+1], x-1, y-1, z-1), u)
	return lerp(lerp(d1, d2, v), lerp(d3, d4, v), w)
}

// PerlinTerrain is octave improved-Perlin noise over an altitude gradient.
// Octave i samples at half the frequency and twice the amplitude of octave
// i-1, so the first octave carries the finest detail.
type PerlinTerrain struct {
	octaves    []*improvedNoise
	Scale      float64
	BaseHeight float32
	Gradient   float32
}

// NewPerlinTerrain creates a four-octave terrain for seed.
func NewPerlinTerrain(seed int64) *PerlinTerrain {
	rnd := rand.New(rand.NewSource(seed))
	t := &PerlinTerrain{
		Scale:      1.0 / 16.0,
		BaseHeight: 48,
		Gradient:   24,
	}
	for range 4 {
		t.octaves = append(t.octaves, newImprovedNoise(rnd))
	}
	return t
}

func (t *PerlinTerrain) Density(x, y, z float32) float32 {
	var sum, norm float64
	weight := 1.0
	for _, n := range t.octaves {
		f := t.Scale / weight
		sum += n.noise3(float64(x)*f, float64(y)*f, float64(z)*f) * weight
		norm += weight
		weight *= 2
	}
	if norm > 0 {
		sum /= norm
	}
	return clampUnit((y-t.BaseHeight)/t.Gradient - float32(sum))
}
