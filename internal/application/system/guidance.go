package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// parallelEpsilon is the cross-product length below which two directions are
// treated as parallel or anti-parallel
const parallelEpsilon = 1e-9

// TargetLookup resolves weak target references to world positions
type TargetLookup interface {
	Position(id entity.EntityID) (mgl64.Vec3, bool)
}

// TargetSnapshot holds target positions captured at the start of a tick
type TargetSnapshot map[entity.EntityID]mgl64.Vec3

// Steer rotates vel toward toTarget by at most maxAngle radians, preserving speed.
// Within maxAngle it snaps onto the target direction. It reports false and returns
// vel unchanged when the turn axis is undefined.
func Steer(vel, toTarget mgl64.Vec3, maxAngle float64) (mgl64.Vec3, bool) {
	speed := vel.Len()
	if speed == 0 {
		return vel, false
	}
	target := entity.NormalizeOrZero(toTarget)
	if target == (mgl64.Vec3{}) {
		return vel, false
	}

	current := vel.Mul(1 / speed)
	angle := math.Acos(entity.Clamp(current.Dot(target), -1, 1))
	if angle <= maxAngle {
		return target.Mul(speed), true
	}

	axis := current.Cross(target)
	if axis.Len() < parallelEpsilon {
		return vel, false
	}

	rotated := mgl64.QuatRotate(maxAngle, axis.Normalize()).Rotate(current)
	return entity.NormalizeOrZero(rotated).Mul(speed), true
}

// ApplyGuidance advances the guidance clock of p and steers it toward its target.
// Missing guidance, an inactive seeker or an unknown target is a no-op.
func ApplyGuidance(p *entity.Projectile, targets TargetSnapshot, dt float64) bool {
	g := p.Guidance
	if g == nil {
		return false
	}
	g.Elapsed += dt
	if !g.Active() {
		return false
	}

	pos, ok := targets[g.Target]
	if !ok {
		return false
	}

	vel, steered := Steer(p.Velocity, pos.Sub(p.Position), g.TurnRate*dt)
	if steered {
		p.Velocity = vel
	}
	return steered
}

// SnapshotTargets resolves every guidance target once so all seekers see the same world
func SnapshotTargets(lookup TargetLookup, ids []entity.EntityID) TargetSnapshot {
	snap := make(TargetSnapshot, len(ids))
	if lookup == nil {
		return snap
	}
	for _, id := range ids {
		if _, seen := snap[id]; seen {
			continue
		}
		if pos, ok := lookup.Position(id); ok {
			snap[id] = pos
		}
	}
	return snap
}
