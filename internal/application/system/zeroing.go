package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// Zeroing is the sight calibration of a weapon
type Zeroing struct {
	Distance        float64 // m
	PitchAdjustment float64 // rad
}

// DefaultZeroing is a 100 m zero with no adjustment computed yet
func DefaultZeroing() Zeroing {
	return Zeroing{Distance: 100}
}

// ZeroingPitch returns the elevation needed to hit at distance with a flat-fire
// approximation: flight time d/v, drop g·t²/2, angle atan(drop/d). Drag is ignored.
func ZeroingPitch(distance, velocity, gravity float64) float64 {
	if distance <= 0 || velocity <= 0 {
		return 0
	}
	t := distance / velocity
	drop := 0.5 * gravity * t * t
	return math.Atan(drop / distance)
}

// Calibrate recomputes the pitch adjustment for a muzzle velocity under env
func (z *Zeroing) Calibrate(velocity float64, env entity.Environment) {
	z.PitchAdjustment = ZeroingPitch(z.Distance, velocity, math.Abs(env.Gravity.Y()))
}

// Apply raises direction by the pitch adjustment
func (z Zeroing) Apply(direction mgl64.Vec3) mgl64.Vec3 {
	return Elevate(direction, z.PitchAdjustment)
}

// Elevate rotates direction upward by pitch radians in its vertical plane
func Elevate(direction mgl64.Vec3, pitch float64) mgl64.Vec3 {
	forward := entity.NormalizeOrZero(direction)
	if forward == (mgl64.Vec3{}) || pitch == 0 {
		return forward
	}
	right := forward.Cross(entity.Up)
	if right.Len() < parallelEpsilon {
		return forward
	}
	return mgl64.QuatRotate(pitch, right.Normalize()).Rotate(forward)
}
