package field

import (
	"github.com/chewxy/math32"
	"github.com/ojrac/opensimplex-go"
)

// VoronoiTerrain is a rocky height field carved by voronoi cave chambers and
// tunnels, with scattered spherical stones below the surface line.
type VoronoiTerrain struct {
	offset          [3]float32
	TerrainHeight   float32
	HeightVariation float32
	CaveScale       float32
	StoneSize       float32
	StoneThreshold  float32
}

// NewVoronoiTerrain creates the rock/cave terrain for seed.
func NewVoronoiTerrain(seed int64) *VoronoiTerrain {
	return &VoronoiTerrain{
		offset:          seedOffset(seed),
		TerrainHeight:   64,
		HeightVariation: 32,
		CaveScale:       200,
		StoneSize:       8,
		StoneThreshold:  0.6,
	}
}

func (t *VoronoiTerrain) Density(x, y, z float32) float32 {
	wx, wy, wz := x+t.offset[0], y+t.offset[1], z+t.offset[2]

	surface := rockVoronoi3(wx/80, wy/80, wz/80, 2, 10)
	detail := rockVoronoi3(wx/100, wy/100, wz/100, 8, 10) * 0.3
	baseTerrain := y - (t.TerrainHeight + (surface+detail)*t.HeightVariation)

	cs := t.CaveScale
	cave1 := rockVoronoi3(wx/cs, wy/cs, wz/cs, 3, 5)
	cave2 := rockVoronoi3((wx+1000)/(cs*0.7), (wy+1000)/(cs*0.7), (wz+1000)/(cs*0.7), 2, 4)
	cave3 := rockVoronoi3((wx+2000)/(cs*1.3), (wy+2000)/(cs*1.3), (wz+2000)/(cs*1.3), 4, 3)
	chambers := math32.Max(math32.Max(cave1-0.4, cave2-0.45), cave3-0.5)

	tunnel1 := rockVoronoi3(wx/150+500, wy/150+500, wz/150+500, 2, 6)
	tunnel2 := rockVoronoi3(wx/180+1500, wy/180+1500, wz/180+1500, 3, 4)
	tunnels := math32.Max(tunnel1-0.6, tunnel2-0.65)

	caveSDF := math32.Max(chambers, tunnels) * 20

	stoneSDF := float32(1000)
	if baseTerrain < 0 {
		stoneNoise := rockVoronoi3((wx+100)/300, (wy+100)/300, (wz+100)/300, 6, 8)
		if stoneNoise > t.StoneThreshold {
			center := rockVoronoi3(wx/150, wy/150, wz/150, 4, 3)
			size := t.StoneSize
			dx := fract(wx/size) - 0.5
			dy := fract(wy/size) - 0.5
			dz := fract(wz/size) - 0.5
			l := math32.Sqrt(dx*dx + dy*dy + dz*dz)
			stoneSDF = l*size - size*0.3 + center*2
		}
	}

	d := math32.Min(baseTerrain, stoneSDF)
	d = math32.Max(d, caveSDF)
	return clampUnit(d)
}

// ValueTerrain combines octave value noise with an altitude gradient. Higher
// altitude pushes density positive (air).
type ValueTerrain struct {
	seed             int64
	scale            float64 // noise frequency (default: 1/64)
	baseHeight       float64 // target surface level (default: 64)
	gradientStrength float64 // altitude density gradient (default: 32)
	octaves          int
	persistence      float64
	lacunarity       float64
}

// NewValueTerrain creates a value-noise density terrain.
func NewValueTerrain(seed int64) *ValueTerrain {
	return &ValueTerrain{
		seed:             seed,
		scale:            1.0 / 64.0,
		baseHeight:       64,
		gradientStrength: 32.0,
		octaves:          4,
		persistence:      0.5,
		lacunarity:       2.0,
	}
}

func (g *ValueTerrain) Density(x, y, z float32) float32 {
	nx := float64(x) * g.scale
	ny := float64(y) * g.scale
	nz := float64(z) * g.scale

	n := octaveNoise3D(nx, ny, nz, g.seed, g.octaves, g.persistence, g.lacunarity)
	n = n*2.0 - 1.0

	heightGradient := (g.baseHeight - float64(y)) / g.gradientStrength

	// solid where noise + gradient is positive; flip to the negative-inside convention
	return clampUnit(float32(-(n + heightGradient)))
}

// SimplexTerrain is fractal OpenSimplex noise over an altitude gradient.
type SimplexTerrain struct {
	noise       opensimplex.Noise32
	Scale       float32
	BaseHeight  float32
	Gradient    float32
	Octaves     int
	Persistence float32
	Lacunarity  float32
}

// NewSimplexTerrain creates a simplex terrain for seed.
func NewSimplexTerrain(seed int64) *SimplexTerrain {
	return &SimplexTerrain{
		noise:       opensimplex.New32(seed),
		Scale:       1.0 / 48.0,
		BaseHeight:  48,
		Gradient:    24,
		Octaves:     4,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

func (s *SimplexTerrain) Density(x, y, z float32) float32 {
	amplitude := float32(1)
	frequency := s.Scale
	sum := float32(0)
	norm := float32(0)
	for range s.Octaves {
		sum += s.noise.Eval3(x*frequency, y*frequency, z*frequency) * amplitude
		norm += amplitude
		amplitude *= s.Persistence
		frequency *= s.Lacunarity
	}
	if norm > 0 {
		sum /= norm
	}
	return clampUnit((y-s.BaseHeight)/s.Gradient - sum)
}

// SineTerrain is a rolling sinusoidal height field.
type SineTerrain struct {
	BaseHeight float32
	Amplitude  float32
	Frequency  float32
	Falloff    float32
}

func NewSineTerrain() SineTerrain {
	return SineTerrain{BaseHeight: 32, Amplitude: 8, Frequency: 0.05, Falloff: 4}
}

func (s SineTerrain) Density(x, y, z float32) float32 {
	h := s.BaseHeight + s.Amplitude*math32.Sin(x*s.Frequency)*math32.Cos(z*s.Frequency)
	return clampUnit((y - h) / s.Falloff)
}

// Plane is solid below Height and empty above it.
type Plane struct {
	Height float32
}

func (p Plane) Density(_, y, _ float32) float32 {
	return clampUnit(y - p.Height)
}
