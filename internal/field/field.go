// Package field defines the procedural density field that the mesher samples.
//
// A field is a pure function of world position returning a signed density
// (negative = inside solid) and a packed 0xAABBGGRR color. Neighboring chunks
// agree on their shared surface only because every Sampler is deterministic.
package field

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownField is returned by New for an unregistered preset name.
var ErrUnknownField = errors.New("field: unknown field")

// Sampler evaluates density and color at a world-space lattice point.
type Sampler interface {
	Sample(x, y, z float32) (density float32, color uint32)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func(x, y, z float32) (float32, uint32)

func (f SamplerFunc) Sample(x, y, z float32) (float32, uint32) {
	return f(x, y, z)
}

// DensityFunc is the shape policy of a field. Results are clamped to [-1, 1].
type DensityFunc interface {
	Density(x, y, z float32) float32
}

// Palette is the color policy of a field. It may look at the density already
// computed for the point but must not depend on anything else.
type Palette interface {
	Color(x, y, z, density float32) uint32
}

// Composite joins a density policy with an independent palette.
type Composite struct {
	Density DensityFunc
	Palette Palette
}

// Sample implements Sampler.
func (c Composite) Sample(x, y, z float32) (float32, uint32) {
	d := c.Density.Density(x, y, z)
	return d, c.Palette.Color(x, y, z, d)
}

var presets = map[string]func(seed int64) Sampler{
	"rock": func(seed int64) Sampler {
		return Composite{Density: NewVoronoiTerrain(seed), Palette: NewRainbow()}
	},
	"candy": func(seed int64) Sampler {
		return Composite{Density: NewVoronoiTerrain(seed), Palette: NewCandy(seed)}
	},
	"value": func(seed int64) Sampler {
		return Composite{Density: NewValueTerrain(seed), Palette: NewRainbow()}
	},
	"perlin": func(seed int64) Sampler {
		return Composite{Density: NewPerlinTerrain(seed), Palette: NewRainbow()}
	},
	"simplex": func(seed int64) Sampler {
		return Composite{Density: NewSimplexTerrain(seed), Palette: NewSinePalette()}
	},
	"sine": func(seed int64) Sampler {
		return Composite{Density: NewSineTerrain(), Palette: NewSinePalette()}
	},
}

// Names lists the registered preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New returns the named preset sampler for seed.
func New(name string, seed int64) (Sampler, error) {
	ctor, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownField, name, Names())
	}
	return ctor(seed), nil
}

func clampUnit(v float32) float32 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
