package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is the rigid-body state of a host object that explosions can push.
// A non-positive Mass marks the body as immovable.
type Body struct {
	ID       EntityID
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Mass     float64 // kg
}

// Movable reports whether impulses affect the body
func (b *Body) Movable() bool {
	return b.Mass > 0
}

// Step advances the body along its velocity for dt seconds
func (b *Body) Step(dt float64) {
	if !b.Movable() {
		return
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
}

// Box is an axis-aligned block of static geometry
type Box struct {
	ID       EntityID
	Min, Max mgl64.Vec3
	Material string
}

// Center returns the midpoint of the box
func (b Box) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the extents of the box
func (b Box) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies inside or on the box
func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectSegment returns the entry fraction along from→to and the face normal
// of the first box face crossed. Segments starting inside the box do not hit it.
func (b Box) IntersectSegment(from, to mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	dir := to.Sub(from)
	tMin, tMax := 0.0, 1.0
	var normal mgl64.Vec3

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if from[axis] < b.Min[axis] || from[axis] > b.Max[axis] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}

		inv := 1 / dir[axis]
		t1 := (b.Min[axis] - from[axis]) * inv
		t2 := (b.Max[axis] - from[axis]) * inv
		sign := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			sign = 1
		}

		if t1 > tMin {
			tMin = t1
			normal = mgl64.Vec3{}
			normal[axis] = sign
		}
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, mgl64.Vec3{}, false
		}
	}

	// No entry face was crossed, so the segment started inside the box.
	if normal == (mgl64.Vec3{}) {
		return 0, mgl64.Vec3{}, false
	}
	return tMin, normal, true
}
