package field

import "github.com/chewxy/math32"

// Colors are packed little-endian RGBA: 0xAABBGGRR.

const (
	// Gray is the neutral color used for empty space.
	Gray uint32 = 0xFF808080

	blendEpsilon = 1e-5
)

// UnpackRGBA splits a packed color into [r, g, b, a] in [0, 1].
func UnpackRGBA(c uint32) [4]float32 {
	return [4]float32{
		float32(c&0xFF) / 255,
		float32((c>>8)&0xFF) / 255,
		float32((c>>16)&0xFF) / 255,
		float32((c>>24)&0xFF) / 255,
	}
}

// PackRGBA clamps each channel to [0, 1] and packs it.
func PackRGBA(c [4]float32) uint32 {
	r := channel(c[0])
	g := channel(c[1])
	b := channel(c[2])
	a := channel(c[3])
	return a<<24 | b<<16 | g<<8 | r
}

func channel(v float32) uint32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint32(v*255) & 0xFF
}

// BlendColor interpolates two corner colors to the zero crossing between
// densities d1 and d2, snapping to an endpoint when the division would be
// degenerate.
func BlendColor(c1, c2 uint32, d1, d2 float32) uint32 {
	if math32.Abs(d1) < blendEpsilon {
		return c1
	}
	if math32.Abs(d2) < blendEpsilon {
		return c2
	}
	if math32.Abs(d1-d2) < blendEpsilon {
		return c1
	}
	mu := -d1 / (d2 - d1)
	a := UnpackRGBA(c1)
	b := UnpackRGBA(c2)
	var out [4]float32
	for i := range out {
		out[i] = a[i] + mu*(b[i]-a[i])
	}
	return PackRGBA(out)
}

func mixRGB(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		a[0]*(1-t) + b[0]*t,
		a[1]*(1-t) + b[1]*t,
		a[2]*(1-t) + b[2]*t,
	}
}

func packRGB(c [3]float32) uint32 {
	return PackRGBA([4]float32{c[0], c[1], c[2], 1})
}

// hsvToRGB expects h, s and v in [0, 1].
func hsvToRGB(h, s, v float32) [3]float32 {
	h *= 6
	c := v * s
	x := c * (1 - math32.Abs(fract(h*0.5)*2-1))
	m := v - c

	var rgb [3]float32
	switch {
	case h < 1:
		rgb = [3]float32{c, x, 0}
	case h < 2:
		rgb = [3]float32{x, c, 0}
	case h < 3:
		rgb = [3]float32{0, c, x}
	case h < 4:
		rgb = [3]float32{0, x, c}
	case h < 5:
		rgb = [3]float32{x, 0, c}
	default:
		rgb = [3]float32{c, 0, x}
	}
	return [3]float32{rgb[0] + m, rgb[1] + m, rgb[2] + m}
}
