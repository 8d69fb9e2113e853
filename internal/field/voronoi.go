package field

import "github.com/chewxy/math32"

// fract keeps the sign of x (x - trunc(x)).
func fract(x float32) float32 {
	return x - math32.Trunc(x)
}

// hash3f is the classic sin-based shader hash; components lie in (-1, 1).
func hash3f(px, py, pz float32) [3]float32 {
	qx := px*127.1 + py*311.7 + pz*74.7
	qy := px*269.5 + py*183.3 + pz*246.1
	qz := px*113.5 + py*271.9 + pz*124.6
	return [3]float32{
		fract(math32.Sin(qx) * 43758.5453123),
		fract(math32.Sin(qy) * 43758.5453123),
		fract(math32.Sin(qz) * 43758.5453123),
	}
}

// voronoiRock3 returns F2-F1 over the 27 surrounding cells. The ridges this
// produces along cell walls read as cracked rock.
func voronoiRock3(px, py, pz float32) float32 {
	ix, iy, iz := math32.Floor(px), math32.Floor(py), math32.Floor(pz)
	fx, fy, fz := px-ix, py-iy, pz-iz

	d1, d2 := float32(8), float32(8)
	for z := -1; z <= 1; z++ {
		for y := -1; y <= 1; y++ {
			for x := -1; x <= 1; x++ {
				nx, ny, nz := float32(x), float32(y), float32(z)
				pt := hash3f(ix+nx, iy+ny, iz+nz)
				dx := nx + pt[0] - fx
				dy := ny + pt[1] - fy
				dz := nz + pt[2] - fz
				dist := dx*dx + dy*dy + dz*dz
				if dist < d1 {
					d2 = d1
					d1 = dist
				} else if dist < d2 {
					d2 = dist
				}
			}
		}
	}
	return math32.Sqrt(d2) - math32.Sqrt(d1)
}

func fractalVoronoi3(px, py, pz float32, octaves int) float32 {
	value := float32(0)
	amplitude := float32(0.5)
	frequency := float32(1)
	for range octaves {
		value += voronoiRock3(px*frequency, py*frequency, pz*frequency) * amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return value
}

// rockVoronoi3 is a base voronoi cell structure plus fractal detail at twice the frequency.
func rockVoronoi3(px, py, pz, scale float32, octaves int) float32 {
	sx, sy, sz := px*scale, py*scale, pz*scale
	base := voronoiRock3(sx, sy, sz)
	detail := fractalVoronoi3(sx*2, sy*2, sz*2, octaves) * 0.3
	return base + detail
}
