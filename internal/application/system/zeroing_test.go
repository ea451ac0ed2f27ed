package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/younwookim/ballistics/internal/domain/entity"
)

func TestZeroingPitch(t *testing.T) {
	// t = 0.25 s, drop = 0.5 * 9.81 * 0.0625
	want := math.Atan(0.5 * 9.81 * 0.0625 / 100)
	assert.InDelta(t, want, ZeroingPitch(100, 400, 9.81), 1e-15)

	assert.Equal(t, 0.0, ZeroingPitch(0, 400, 9.81))
	assert.Equal(t, 0.0, ZeroingPitch(100, 0, 9.81))
	assert.Greater(t, ZeroingPitch(300, 400, 9.81), ZeroingPitch(100, 400, 9.81))
}

func TestZeroing_Calibrate(t *testing.T) {
	z := DefaultZeroing()
	assert.Equal(t, 100.0, z.Distance)

	z.Calibrate(400, entity.DefaultEnvironment())
	assert.InDelta(t, ZeroingPitch(100, 400, 9.81), z.PitchAdjustment, 1e-15)

	dir := z.Apply(mgl64.Vec3{0, 0, -1})
	assert.InDelta(t, 1, dir.Len(), 1e-12)
	assert.InDelta(t, math.Sin(z.PitchAdjustment), dir.Y(), 1e-12)
	assert.Less(t, dir.Z(), 0.0)
}

func TestElevate(t *testing.T) {
	got := Elevate(mgl64.Vec3{1, 0, 0}, math.Pi/6)
	assert.InDelta(t, 0.5, got.Y(), 1e-12)
	assert.InDelta(t, math.Sqrt(3)/2, got.X(), 1e-12)

	assert.Equal(t, mgl64.Vec3{0, 1, 0}, Elevate(mgl64.Vec3{0, 2, 0}, 0.1), "vertical has no pitch plane")
	assert.Equal(t, mgl64.Vec3{}, Elevate(mgl64.Vec3{}, 0.1))
}
