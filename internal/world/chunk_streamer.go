package world

// Ring returns the requests of every chunk within radius chunks (Chebyshev
// distance) of center, ordered in growing cube shells so nearby chunks come
// first. Each shell is walked z, y, x ascending.
func Ring(center Request, radius int32) []Request {
	if radius < 0 {
		return nil
	}
	side := int(2*radius + 1)
	out := make([]Request, 0, side*side*side)
	for r := int32(0); r <= radius; r++ {
		for dz := -r; dz <= r; dz++ {
			for dy := -r; dy <= r; dy++ {
				for dx := -r; dx <= r; dx++ {
					if max(abs32(dx), abs32(dy), abs32(dz)) != r {
						continue
					}
					req := center
					req.X += dx
					req.Y += dy
					req.Z += dz
					out = append(out, req)
				}
			}
		}
	}
	return out
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
