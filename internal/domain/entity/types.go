package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EntityID is an opaque host entity identity. The core never owns or validates it.
type EntityID uint64

// NoEntity marks an absent weak reference (no owner, no target)
const NoEntity EntityID = 0

// Up is the world up axis
var Up = mgl64.Vec3{0, 1, 0}

// RayHit is the nearest intersection returned by a segment cast
type RayHit struct {
	Entity   EntityID
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// NormalizeOrZero returns the unit vector of v, or the zero vector when v has no length.
// mgl64 divides by the length unconditionally, which yields NaN for zero vectors.
func NormalizeOrZero(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// FiniteVec reports whether every component of v is finite
func FiniteVec(v mgl64.Vec3) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
