package field

import (
	"math"
	"math/rand"
	"testing"
)

// TestHash3Deterministic verifies hash3 produces identical results for same inputs
func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 1; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Fatalf("hash3 not deterministic: first=%d, call %d=%d", first, i, h)
		}
	}
}

// TestHash3DifferentInputs verifies hash3 separates axes and seeds
func TestHash3DifferentInputs(t *testing.T) {
	seed := int64(42)

	if hash3(1, 0, 0, seed) == hash3(2, 0, 0, seed) {
		t.Errorf("hash3 should differ for different X")
	}
	if hash3(0, 1, 0, seed) == hash3(0, 2, 0, seed) {
		t.Errorf("hash3 should differ for different Y")
	}
	if hash3(0, 0, 1, seed) == hash3(0, 0, 2, seed) {
		t.Errorf("hash3 should differ for different Z")
	}
	if hash3(1, 1, 1, 100) == hash3(1, 1, 1, 200) {
		t.Errorf("hash3 should differ for different seed")
	}
	if hash3(1, 2, 3, seed) == hash3(3, 2, 1, seed) {
		t.Errorf("hash3 should differ for axis swap")
	}
}

// TestValueNoise3DRange verifies valueNoise3D outputs are in [0,1]
func TestValueNoise3DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	seed := int64(42)

	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100

		if v := valueNoise3D(x, y, z, seed); v < 0.0 || v > 1.0 {
			t.Errorf("valueNoise3D(%f, %f, %f, %d) = %f, expected in [0,1]", x, y, z, seed, v)
		}
	}
}

// TestValueNoise3DContinuity verifies smooth interpolation (no random jumps)
func TestValueNoise3DContinuity(t *testing.T) {
	v1 := valueNoise3D(1.0, 1.0, 1.0, 42)
	v2 := valueNoise3D(1.01, 1.0, 1.0, 42)

	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise3D not continuous: %f vs %f, diff=%f >= 0.1", v1, v2, diff)
	}
}

// TestOctaveNoise3DRange verifies octaveNoise3D outputs are in [0,1]
func TestOctaveNoise3DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))

	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100

		if v := octaveNoise3D(x, y, z, 42, 4, 0.5, 2.0); v < 0.0 || v > 1.0 {
			t.Errorf("octaveNoise3D(%f, %f, %f) = %f, expected in [0,1]", x, y, z, v)
		}
	}
}

// TestVoronoiRockNonNegative verifies F2-F1 never goes negative
func TestVoronoiRockNonNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		x := float32(rng.Float64()*40 - 20)
		y := float32(rng.Float64()*40 - 20)
		z := float32(rng.Float64()*40 - 20)

		if v := voronoiRock3(x, y, z); v < 0 {
			t.Errorf("voronoiRock3(%f, %f, %f) = %f, expected >= 0", x, y, z, v)
		}
	}
}

// TestHash3fRange verifies the shader hash stays inside (-1, 1)
func TestHash3fRange(t *testing.T) {
	for i := -50; i < 50; i++ {
		h := hash3f(float32(i), float32(i*3), float32(-i*7))
		for axis, v := range h {
			if v <= -1 || v >= 1 {
				t.Errorf("hash3f(%d) axis %d = %f, expected in (-1,1)", i, axis, v)
			}
		}
	}
}

// TestImprovedNoiseRange verifies gradient noise stays near [-1, 1] and varies
func TestImprovedNoiseRange(t *testing.T) {
	n := newImprovedNoise(rand.New(rand.NewSource(3)))
	rng := rand.New(rand.NewSource(4))

	minV, maxV := 1.0, -1.0
	for i := 0; i < 2000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		v := n.noise3(x, y, z)
		if v < -1.1 || v > 1.1 {
			t.Fatalf("noise3(%f, %f, %f) = %f, out of range", x, y, z, v)
		}
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if maxV-minV < 0.5 {
		t.Errorf("noise3 spread %f..%f is too flat", minV, maxV)
	}
}

// TestImprovedNoiseSeeded verifies equal sources agree and different sources differ
func TestImprovedNoiseSeeded(t *testing.T) {
	a := newImprovedNoise(rand.New(rand.NewSource(1)))
	b := newImprovedNoise(rand.New(rand.NewSource(1)))
	c := newImprovedNoise(rand.New(rand.NewSource(2)))

	same, differ := true, false
	for i := 0; i < 50; i++ {
		x, y, z := float64(i)*0.37, float64(i)*0.11, float64(-i)*0.53
		if a.noise3(x, y, z) != b.noise3(x, y, z) {
			same = false
		}
		if a.noise3(x, y, z) != c.noise3(x, y, z) {
			differ = true
		}
	}
	if !same {
		t.Error("same seed produced different noise")
	}
	if !differ {
		t.Error("different seeds produced identical noise")
	}
}
