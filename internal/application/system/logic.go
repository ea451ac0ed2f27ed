package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// Detonation builds the explosion for p's payload at center. Kinetic payloads, and
// projectiles without a payload, never explode.
func Detonation(p *entity.Projectile, center mgl64.Vec3) (entity.ExplosionEvent, bool) {
	ev := entity.ExplosionEvent{
		Center:  center,
		Falloff: 1.0,
		Source:  p.Owner,
	}

	switch v := p.Payload.(type) {
	case entity.Explosive:
		ev.Radius = v.Radius
		ev.Damage = v.Damage
		ev.Falloff = v.Falloff
		ev.Type = entity.ExplosionHighExplosive
	case entity.Incendiary:
		ev.Radius = v.Radius
		ev.Damage = v.DamagePerSecond
		ev.Type = entity.ExplosionIncendiary
	case entity.Flash:
		ev.Radius = v.Radius
		ev.Type = entity.ExplosionFlash
	case entity.Smoke:
		ev.Radius = v.Radius
		ev.Type = entity.ExplosionSmoke
	default:
		return entity.ExplosionEvent{}, false
	}
	return ev, true
}

// LogicOutcome is what the per-tick logic decided for one projectile
type LogicOutcome struct {
	Explosion entity.ExplosionEvent
	Detonated bool
	Removal   Removal
	// FuseWasted is set on the tick a fuse burns out on a payload that cannot explode
	FuseWasted bool
}

// UpdateLogic advances the behaviour state machine of p by dt. Proximity triggers
// query the host for entities within range, ignoring the owner.
func UpdateLogic(p *entity.Projectile, query SpatialQuery, dt float64) LogicOutcome {
	var triggered bool
	var out LogicOutcome

	switch l := p.Logic.(type) {
	case entity.TimedLogic:
		wasReady := l.Ready()
		l.Elapsed += dt
		p.Logic = l
		if l.Ready() {
			triggered = true
			out.FuseWasted = !wasReady
		}
	case entity.ProximityLogic:
		if query != nil {
			for _, id := range query.EntitiesInRadius(p.Position, l.Range) {
				if id != p.Owner {
					triggered = true
					break
				}
			}
		}
	}

	if !triggered {
		return out
	}

	ev, ok := Detonation(p, p.Position)
	if !ok {
		return out
	}
	p.State = entity.StateDetonating
	return LogicOutcome{Explosion: ev, Detonated: true, Removal: RemovalDetonated}
}

// Expiry reports whether an in-flight projectile has outlived the config limits.
// The speed limit only applies after the first tick. Thrown munitions leave the
// hand well below it, so charges waiting on a trigger and payloads that act on
// impact are held to the lifetime and distance limits only.
func Expiry(p *entity.Projectile, cfg entity.Config) Removal {
	if p.Age > cfg.MaxProjectileLifetime {
		return RemovalLifetime
	}
	if p.DistanceTravelled > cfg.MaxProjectileDistance {
		return RemovalDistance
	}
	if p.Ticks > 1 && !thrown(p) && p.Speed() < cfg.MinProjectileSpeed {
		return RemovalSpeed
	}
	return RemovalNone
}

func thrown(p *entity.Projectile) bool {
	if waitsForTrigger(p.Logic) {
		return true
	}
	switch p.Payload.(type) {
	case entity.Explosive, entity.Incendiary, entity.Flash, entity.Smoke:
		return true
	default:
		return false
	}
}

func waitsForTrigger(l entity.Logic) bool {
	switch l.(type) {
	case entity.TimedLogic, entity.ProximityLogic:
		return true
	default:
		return false
	}
}
