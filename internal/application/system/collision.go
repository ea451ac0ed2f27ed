package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/ecs"
)

//go:generate mockgen -source=collision.go -destination=mocks/mock_collision.go -package=mocks

const (
	// maxInteractions bounds penetrations resolved for one projectile in one tick
	maxInteractions = 8
	// surfaceOffset lifts ricochets and landings off the surface they struck
	surfaceOffset = 0.01
)

// SpatialQuery is the host's view of world geometry
type SpatialQuery interface {
	// CastSegment returns the nearest hit on the segment from→to, ignoring exclude
	CastSegment(from, to mgl64.Vec3, exclude ...entity.EntityID) (entity.RayHit, bool)
	// EntitiesInRadius returns the entities within radius of center
	EntitiesInRadius(center mgl64.Vec3, radius float64) []entity.EntityID
}

// Surfaces resolves the material attached to world geometry
type Surfaces interface {
	Surface(id entity.EntityID) (entity.SurfaceMaterial, bool)
}

// Removal is why a projectile left the simulation
type Removal int

const (
	RemovalNone Removal = iota
	RemovalImpact
	RemovalDetonated
	RemovalHitscan
	RemovalLifetime
	RemovalDistance
	RemovalSpeed
	RemovalExternal
)

// String returns the string representation of the removal reason
func (r Removal) String() string {
	switch r {
	case RemovalNone:
		return "none"
	case RemovalImpact:
		return "impact"
	case RemovalDetonated:
		return "detonated"
	case RemovalHitscan:
		return "hitscan"
	case RemovalLifetime:
		return "lifetime"
	case RemovalDistance:
		return "distance"
	case RemovalSpeed:
		return "speed"
	case RemovalExternal:
		return "external"
	default:
		return "unknown"
	}
}

// sweepResult collects everything one projectile produced during collision.
// Each projectile owns its own result, so sweeps can run in parallel.
type sweepResult struct {
	hits         []entity.HitEvent
	penetrations []entity.PenetrationEvent
	ricochets    []entity.RicochetEvent
	explosions   []entity.ExplosionEvent
	removal      Removal
}

func (r *sweepResult) reset() {
	r.hits = r.hits[:0]
	r.penetrations = r.penetrations[:0]
	r.ricochets = r.ricochets[:0]
	r.explosions = r.explosions[:0]
	r.removal = RemovalNone
}

// CollisionResolver runs the swept test and surface response for projectiles
type CollisionResolver struct {
	query    SpatialQuery
	surfaces Surfaces
	cfg      entity.Config
}

// NewCollisionResolver creates a resolver for one tick
func NewCollisionResolver(query SpatialQuery, surfaces Surfaces, cfg entity.Config) CollisionResolver {
	return CollisionResolver{query: query, surfaces: surfaces, cfg: cfg}
}

func (c CollisionResolver) material(id entity.EntityID) (entity.SurfaceMaterial, bool) {
	if c.surfaces == nil {
		return entity.SurfaceMaterial{}, false
	}
	return c.surfaces.Surface(id)
}

// Sweep tests the path p travelled this tick and applies every surface response
func (c CollisionResolver) Sweep(h ecs.Handle, p *entity.Projectile, out *sweepResult) {
	if c.query == nil {
		return
	}
	c.trace(h, p, p.PreviousPosition, p.Position, false, out)
}

// Hitscan resolves a hitscan projectile with one ray along its spawn direction.
// The projectile is always removed.
func (c CollisionResolver) Hitscan(h ecs.Handle, p *entity.Projectile, rng float64, out *sweepResult) {
	if c.query != nil {
		from := p.Position
		to := from.Add(p.Forward.Mul(rng))
		if p.Velocity == (mgl64.Vec3{}) {
			p.Velocity = p.Forward
		}
		c.trace(h, p, from, to, true, out)
	}
	p.Despawn()
	out.removal = RemovalHitscan
}

func (c CollisionResolver) trace(h ecs.Handle, p *entity.Projectile, from, to mgl64.Vec3, hitscan bool, out *sweepResult) {
	exclude := []entity.EntityID{p.Owner}

	for i := 0; i < maxInteractions; i++ {
		hit, ok := c.query.CastSegment(from, to, exclude...)
		if !ok {
			return
		}

		mat, hasMaterial := c.material(hit.Entity)
		resolution := ResolveImpact(p, hit, mat, hasMaterial, c.cfg)

		event := entity.HitEvent{
			Projectile:  h,
			Target:      hit.Entity,
			ImpactPoint: hit.Point,
			Normal:      hit.Normal,
			Velocity:    p.Velocity,
			Damage:      HitDamage(p, c.cfg),
		}

		switch r := resolution.(type) {
		case RicochetResolution:
			event.Ricocheted = true
			out.hits = append(out.hits, event)
			out.ricochets = append(out.ricochets, entity.RicochetEvent{
				Projectile:   h,
				ImpactPoint:  hit.Point,
				NewDirection: r.Direction,
				NewSpeed:     r.Speed,
				Surface:      hit.Entity,
			})
			p.Velocity = r.Direction.Mul(r.Speed)
			p.Position = hit.Point.Add(hit.Normal.Mul(surfaceOffset))
			p.PreviousPosition = p.Position
			return

		case PenetrateResolution:
			event.Penetrated = true
			out.hits = append(out.hits, event)

			dir := p.Direction()
			exit := hit.Point.Add(dir.Mul(r.Travel))
			out.penetrations = append(out.penetrations, entity.PenetrationEvent{
				Projectile:     h,
				EntryPoint:     hit.Point,
				ExitPoint:      exit,
				Target:         hit.Entity,
				RemainingPower: r.RemainingPower,
			})
			p.Velocity = dir.Mul(r.Speed)
			p.PenetrationPower = r.RemainingPower

			if !hitscan && exit.Sub(from).Len() >= to.Sub(from).Len() {
				p.PreviousPosition = hit.Point
				p.Position = exit
				return
			}
			from = exit
			exclude = append(exclude, hit.Entity)

		default:
			if !hitscan {
				c.stop(p, hit, out)
				// the blast carries the damage of a detonating impact
				if p.State == entity.StateDetonating {
					event.Damage = 0
				}
			}
			out.hits = append(out.hits, event)
			return
		}
	}
}

// stop applies a terminal collision according to the projectile logic
func (c CollisionResolver) stop(p *entity.Projectile, hit entity.RayHit, out *sweepResult) {
	switch p.Logic.(type) {
	case entity.StickyLogic:
		p.Embed(hit.Point)
	case entity.TimedLogic, entity.ProximityLogic:
		// Fused and proximity charges come to rest and keep their trigger armed.
		p.Embed(hit.Point.Add(hit.Normal.Mul(surfaceOffset)))
	default:
		if ev, ok := Detonation(p, hit.Point); ok {
			out.explosions = append(out.explosions, ev)
			p.State = entity.StateDetonating
			out.removal = RemovalDetonated
			return
		}
		p.Position = hit.Point
		p.Despawn()
		out.removal = RemovalImpact
	}
}

// HitDamage returns the payload damage of a direct hit, reduced by range falloff
// for kinetic payloads when the config enables it
func HitDamage(p *entity.Projectile, cfg entity.Config) float64 {
	damage := p.HitDamage()
	if _, kinetic := p.Payload.(entity.Kinetic); !kinetic {
		return damage
	}
	return RangeFalloff(damage, p.DistanceTravelled, cfg.DamageFalloffStart, cfg.DamageFalloffEnd)
}

// RangeFalloff scales damage linearly from full at start to half at end
func RangeFalloff(damage, distance, start, end float64) float64 {
	if end <= start || distance <= start {
		return damage
	}
	t := entity.Clamp((distance-start)/(end-start), 0, 1)
	return damage * (1 - 0.5*t)
}
