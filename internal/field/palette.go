package field

import (
	"math"

	"github.com/chewxy/math32"
)

// Rainbow colors solid points by height with phase-shifted sines; empty
// space is gray.
type Rainbow struct {
	Frequency float32
	Outside   uint32
}

func NewRainbow() Rainbow {
	return Rainbow{Frequency: 16.0 / 257.0, Outside: Gray}
}

func (r Rainbow) Color(_, y, _, density float32) uint32 {
	if density >= 0 {
		return r.Outside
	}
	t := y * r.Frequency
	red := sineByte(t)
	green := sineByte(t + 2)
	blue := sineByte(t + 4)
	return 0xFF000000 | blue<<16 | green<<8 | red
}

func sineByte(t float32) uint32 {
	v := math32.Sin(t)*127.5 + 127.5
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint32(v) & 0xFF
}

// SinePalette is a smooth position-only palette.
type SinePalette struct {
	Frequency float32
}

func NewSinePalette() SinePalette {
	return SinePalette{Frequency: 0.05}
}

func (p SinePalette) Color(x, y, z, _ float32) uint32 {
	f := p.Frequency
	return packRGB([3]float32{
		0.5 + 0.5*math32.Sin(x*f),
		0.5 + 0.5*math32.Sin(y*f+2),
		0.5 + 0.5*math32.Sin(z*f+4),
	})
}

// Solid paints every point the same color.
type Solid struct {
	RGBA uint32
}

func (s Solid) Color(_, _, _, _ float32) uint32 {
	return s.RGBA
}

type candyZone struct {
	limit  float32
	dark   [3]float32
	bright [3]float32
}

// candyZones is ordered by ascending selector limit; the last entry catches the rest.
var candyZones = [...]candyZone{
	{0.15, [3]float32{1.0, 0.2, 0.8}, [3]float32{1.0, 0.6, 0.9}},            // pink
	{0.30, [3]float32{0.0, 0.8, 1.0}, [3]float32{0.4, 0.9, 1.0}},            // blue
	{0.45, [3]float32{0.5, 1.0, 0.2}, [3]float32{0.7, 1.0, 0.5}},            // lime
	{0.60, [3]float32{1.0, 0.5, 0.1}, [3]float32{1.0, 0.8, 0.3}},            // orange
	{0.75, [3]float32{0.6, 0.2, 1.0}, [3]float32{0.8, 0.5, 1.0}},            // grape
	{0.90, [3]float32{1.0, 1.0, 0.2}, [3]float32{1.0, 1.0, 0.6}},            // lemon
	{math.MaxFloat32, [3]float32{1.0, 0.2, 0.3}, [3]float32{1.0, 0.5, 0.6}}, // cherry
}

// Candy splits the world into large voronoi zones of striped candy colors
// with swirls, rainbow patches and sparkles.
type Candy struct {
	offset [3]float32
}

func NewCandy(seed int64) Candy {
	return Candy{offset: seedOffset(seed)}
}

func (c Candy) Color(x, y, z, _ float32) uint32 {
	wx, wy, wz := x+c.offset[0], y+c.offset[1], z+c.offset[2]

	zone1 := rockVoronoi3(wx/1000, wy/1000, wz/1000, 1, 2)
	zone2 := rockVoronoi3((wx+100)/1500, (wy+100)/1500, (wz+100)/1500, 2, 2)
	swirlNoise := rockVoronoi3((wx+200)/800, (wy+200)/800, (wz+200)/800, 3, 2)
	detail := rockVoronoi3((wx+300)/400, (wy+300)/400, (wz+300)/400, 4, 2)

	stripe := math32.Sin(wy*0.1)*0.5 + 0.5
	swirl := math32.Sin(wx*0.08+wz*0.12)*0.5 + 0.5

	selector := zone1 + zone2*0.5
	var base [3]float32
	for _, zone := range candyZones {
		if selector < zone.limit {
			base = mixRGB(zone.dark, zone.bright, stripe)
			break
		}
	}

	switch intensity := swirlNoise * swirl; {
	case intensity > 0.7:
		base = mixRGB(base, [3]float32{1.0, 0.95, 1.0}, 0.6)
	case intensity > 0.5:
		pastel := [3]float32{base[0]*0.7 + 0.3, base[1]*0.7 + 0.3, base[2]*0.7 + 0.3}
		base = mixRGB(base, pastel, 0.4)
	}

	rainbow := rockVoronoi3((wx+400)/200, (wy+400)/200, (wz+400)/200, 2, 7)
	if rainbow > 0.8 {
		hue := fract(wx*0.01 + wz*0.015 + rainbow)
		base = mixRGB(base, hsvToRGB(hue, 0.9, 1.0), 0.5)
	}

	sparkle := rockVoronoi3((wx+500)/25, (wy+500)/25, (wz+500)/25, 7, 2)
	switch {
	case sparkle > 0.85:
		base = mixRGB(base, [3]float32{1, 1, 1}, 0.8)
	case sparkle > 0.75:
		base = [3]float32{base[0] * 1.3, base[1] * 1.3, base[2] * 1.3}
	}

	variation := (detail - 0.5) * 0.2
	return packRGB([3]float32{base[0] + variation, base[1] + variation, base[2] + variation})
}
