package field

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnownPresets(t *testing.T) {
	for _, name := range Names() {
		s, err := New(name, 1)
		require.NoError(t, err, name)
		require.NotNil(t, s, name)
	}
}

func TestNewUnknownPreset(t *testing.T) {
	_, err := New("lava", 1)
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestPresetsDeterministicAndClamped(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	points := make([][3]float32, 40)
	for i := range points {
		points[i] = [3]float32{
			float32(rng.Intn(256) - 128),
			float32(rng.Intn(128)),
			float32(rng.Intn(256) - 128),
		}
	}

	for _, name := range Names() {
		a, err := New(name, 5)
		require.NoError(t, err)
		b, err := New(name, 5)
		require.NoError(t, err)

		for _, p := range points {
			da, ca := a.Sample(p[0], p[1], p[2])
			db, cb := b.Sample(p[0], p[1], p[2])
			assert.Equal(t, da, db, "%s density at %v", name, p)
			assert.Equal(t, ca, cb, "%s color at %v", name, p)
			assert.GreaterOrEqual(t, da, float32(-1), name)
			assert.LessOrEqual(t, da, float32(1), name)
		}
	}
}

func TestPlaneDensity(t *testing.T) {
	p := Plane{Height: 10.5}
	assert.Equal(t, float32(-1), p.Density(0, 0, 0))
	assert.Equal(t, float32(-0.5), p.Density(3, 10, -4))
	assert.Equal(t, float32(0.5), p.Density(3, 11, -4))
	assert.Equal(t, float32(1), p.Density(0, 40, 0))
}

func TestTerrainsSolidLowEmptyHigh(t *testing.T) {
	terrains := map[string]DensityFunc{
		"value":   NewValueTerrain(3),
		"simplex": NewSimplexTerrain(3),
		"perlin":  NewPerlinTerrain(3),
		"sine":    NewSineTerrain(),
	}
	for name, d := range terrains {
		assert.Equal(t, float32(-1), d.Density(5, -200, 5), "%s deep underground", name)
		assert.Equal(t, float32(1), d.Density(5, 400, 5), "%s high in the sky", name)
	}
}

func TestPackUnpackRGBA(t *testing.T) {
	c := uint32(0x80FF4000)
	rgba := UnpackRGBA(c)
	assert.InDelta(t, 0.0, rgba[0], 1e-6)
	assert.InDelta(t, 64.0/255.0, rgba[1], 1e-6)
	assert.InDelta(t, 1.0, rgba[2], 1e-6)
	assert.InDelta(t, 128.0/255.0, rgba[3], 1e-6)

	saturated := uint32(0xFF00FF00)
	assert.Equal(t, saturated, PackRGBA(UnpackRGBA(saturated)))

	assert.Equal(t, uint32(0xFF0000FF), PackRGBA([4]float32{2, -1, 0, 1}))
}

func TestBlendColorGuards(t *testing.T) {
	red, blue := uint32(0xFF0000FF), uint32(0xFFFF0000)

	assert.Equal(t, red, BlendColor(red, blue, 0, 1))
	assert.Equal(t, blue, BlendColor(red, blue, -1, 0))
	assert.Equal(t, red, BlendColor(red, blue, 0.5, 0.5))

	mid := UnpackRGBA(BlendColor(red, blue, -1, 1))
	assert.InDelta(t, 0.5, mid[0], 0.01)
	assert.InDelta(t, 0.5, mid[2], 0.01)
}

func TestRainbowOutsideIsGray(t *testing.T) {
	r := NewRainbow()
	assert.Equal(t, Gray, r.Color(1, 2, 3, 0.25))
	inside := r.Color(1, 2, 3, -0.25)
	assert.Equal(t, uint32(0xFF), inside>>24)
	assert.NotEqual(t, Gray, inside)
}

func TestCandyOpaque(t *testing.T) {
	c := NewCandy(11)
	for i := 0; i < 20; i++ {
		col := c.Color(float32(i*13), float32(i*7), float32(-i*5), -1)
		assert.Equal(t, uint32(0xFF), col>>24)
	}
}

func TestHSVPrimaries(t *testing.T) {
	assert.InDeltaSlice(t, []float32{1, 0, 0}, sliceOf(hsvToRGB(0, 1, 1)), 1e-5)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, sliceOf(hsvToRGB(1.0/3.0, 1, 1)), 1e-5)
	assert.InDeltaSlice(t, []float32{0, 0, 1}, sliceOf(hsvToRGB(2.0/3.0, 1, 1)), 1e-5)
}

func sliceOf(c [3]float32) []float32 {
	return c[:]
}
