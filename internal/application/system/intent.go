package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// Resolution is the outcome a surface imposes on a projectile that struck it
type Resolution interface {
	isResolution()
}

// StopResolution ends the flight at the impact point
type StopResolution struct{}

func (StopResolution) isResolution() {}

// RicochetResolution deflects the projectile
type RicochetResolution struct {
	Direction mgl64.Vec3 // unit
	Speed     float64
}

func (RicochetResolution) isResolution() {}

// PenetrateResolution carries the projectile through the surface
type PenetrateResolution struct {
	Travel         float64 // m through the material
	Speed          float64 // exit speed
	RemainingPower float64
}

func (PenetrateResolution) isResolution() {}

// ResolveImpact decides what happens when p strikes a surface at hit.
// Without material data the projectile stops. Ricochet is tested before
// penetration; either is rejected, and the projectile stops, when the resulting
// speed falls below the configured minimum.
func ResolveImpact(p *entity.Projectile, hit entity.RayHit, mat entity.SurfaceMaterial, hasMaterial bool, cfg entity.Config) Resolution {
	if !hasMaterial {
		return StopResolution{}
	}

	speed := p.Speed()
	angle := ImpactAngle(p.Velocity, hit.Normal)

	if cfg.EnableRicochet && ShouldRicochet(angle, mat) {
		newSpeed := RicochetSpeed(speed, mat)
		if newSpeed < cfg.MinProjectileSpeed {
			return StopResolution{}
		}
		return RicochetResolution{
			Direction: entity.NormalizeOrZero(Reflect(p.Velocity, hit.Normal)),
			Speed:     newSpeed,
		}
	}

	if cfg.EnablePenetration && CanPenetrate(p, mat, angle) {
		travel := PenetrationTravel(mat, angle)
		exit := ExitSpeed(speed, mat, travel)
		if exit < cfg.MinProjectileSpeed {
			return StopResolution{}
		}
		return PenetrateResolution{
			Travel:         travel,
			Speed:          exit,
			RemainingPower: RemainingPower(p.PenetrationPower, mat, travel),
		}
	}

	return StopResolution{}
}
