package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSpreadDirection_BitIdentical(t *testing.T) {
	dir := mgl64.Vec3{0.3, 0.1, -1}

	a := SpreadDirection(dir, 0.05, 1234)
	b := SpreadDirection(dir, 0.05, 1234)
	for i := 0; i < 3; i++ {
		assert.Equal(t, math.Float64bits(a[i]), math.Float64bits(b[i]))
	}

	c := SpreadDirection(dir, 0.05, 1235)
	assert.NotEqual(t, a, c, "different seeds give different pellets")
}

func TestSpreadDirection_ZeroSpread(t *testing.T) {
	got := SpreadDirection(mgl64.Vec3{0, 0, -4}, 0, 99)
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, got)

	assert.Equal(t, mgl64.Vec3{}, SpreadDirection(mgl64.Vec3{}, 0.1, 99))
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, SpreadDirection(mgl64.Vec3{0, 0, -1}, math.NaN(), 99))
}

func TestSpreadDirection_Vertical(t *testing.T) {
	got := SpreadDirection(mgl64.Vec3{0, 1, 0}, 0.05, 7)
	assert.InDelta(t, 1, got.Len(), 1e-12)
	assert.Greater(t, got.Y(), 0.99)
}

func TestSpreadDirection_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		dir := mgl64.Vec3{
			rapid.Float64Range(-1, 1).Draw(t, "x"),
			rapid.Float64Range(-1, 1).Draw(t, "y"),
			rapid.Float64Range(-1, 1).Draw(t, "z"),
		}
		if dir.Len() < 1e-3 {
			t.Skip("degenerate direction")
		}
		spread := rapid.Float64Range(0, 0.1).Draw(t, "spread")
		seed := rapid.Uint64().Draw(t, "seed")

		out := SpreadDirection(dir, spread, seed)
		if math.Abs(out.Len()-1) > 1e-12 {
			t.Fatalf("not unit length: %v", out.Len())
		}

		// Irwin-Hall draws are bounded by 6 sigma = 2 spread per axis
		angle := math.Acos(math.Min(1, out.Dot(dir.Normalize())))
		if angle > 3*spread+1e-9 {
			t.Fatalf("angle %v exceeds bound for spread %v", angle, spread)
		}

		again := SpreadDirection(dir, spread, seed)
		if again != out {
			t.Fatalf("not reproducible: %v vs %v", out, again)
		}
	})
}

func TestGaussianPair(t *testing.T) {
	const n = 4000
	var sum, sumSq float64
	for seed := uint64(0); seed < n; seed++ {
		a, b := GaussianPair(seed)
		assert.LessOrEqual(t, math.Abs(a), 6.0)
		assert.LessOrEqual(t, math.Abs(b), 6.0)
		sum += a + b
		sumSq += a*a + b*b
	}
	mean := sum / (2 * n)
	variance := sumSq/(2*n) - mean*mean
	assert.InDelta(t, 0, mean, 0.1)
	assert.InDelta(t, 1, variance, 0.1)
}

func TestDeterministicTrig(t *testing.T) {
	for _, x := range []float64{0, 0.001, -0.02, 0.3, -1, 1.5} {
		assert.InDelta(t, math.Sin(x), detSin(x), 1e-13, "sin(%v)", x)
		assert.InDelta(t, math.Cos(x), detCos(x), 1e-13, "cos(%v)", x)
	}
	assert.Equal(t, detSin(maxSpreadAngle), detSin(10))
}
