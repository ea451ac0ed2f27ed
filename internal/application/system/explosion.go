package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

const (
	// upwardBias lifts explosion impulses so bodies are thrown rather than slid
	upwardBias = 0.3
	// minImpulseDistance skips bodies at the center where the direction is undefined
	minImpulseDistance = 0.01
)

// Bodies exposes host rigid bodies to the explosion resolver
type Bodies interface {
	Body(id entity.EntityID) (entity.Body, bool)
	ApplyVelocityDelta(id entity.EntityID, dv mgl64.Vec3)
}

// ExplosionEffect is what a single explosion did to a single body
type ExplosionEffect struct {
	Target   entity.EntityID
	Distance float64
	Damage   float64
	Impulse  mgl64.Vec3 // velocity delta applied
	// Explosion indexes the causing event in Events.Explosions
	Explosion int
}

// FalloffFactor returns (1 - distance/radius)^falloff, or 0 outside the radius
func FalloffFactor(distance, radius, falloff float64) float64 {
	if distance >= radius || radius <= 0 {
		return 0
	}
	return math.Pow(1-distance/radius, falloff)
}

// ExplosionDamage returns the damage dealt at distance from the center
func ExplosionDamage(base, distance, radius, falloff float64) float64 {
	return base * FalloffFactor(distance, radius, falloff)
}

// ExplosionImpulse returns the velocity delta an explosion imparts to a body at
// position with the given mass. Bodies at or beyond the radius, or at the center,
// receive none. A non-positive mass is treated as 1 kg.
func ExplosionImpulse(ev entity.ExplosionEvent, position mgl64.Vec3, mass float64) (mgl64.Vec3, bool) {
	delta := position.Sub(ev.Center)
	distance := delta.Len()
	if distance >= ev.Radius || distance < minImpulseDistance {
		return mgl64.Vec3{}, false
	}

	base := ev.Type.BaseImpulse()
	if base == 0 {
		return mgl64.Vec3{}, false
	}
	if mass <= 0 {
		mass = 1
	}

	dir := entity.NormalizeOrZero(delta.Mul(1 / distance).Add(entity.Up.Mul(upwardBias)))
	magnitude := base * FalloffFactor(distance, ev.Radius, ev.Falloff) / mass
	return dir.Mul(magnitude), true
}

// ExplosionResolver applies explosions to nearby bodies
type ExplosionResolver struct {
	query  SpatialQuery
	bodies Bodies
}

// NewExplosionResolver creates a resolver over the host's spatial index and bodies
func NewExplosionResolver(query SpatialQuery, bodies Bodies) *ExplosionResolver {
	return &ExplosionResolver{query: query, bodies: bodies}
}

// Apply computes damage and impulse for every body within the radius, excluding the
// source, and pushes the impulses into the host. Call it once per explosion in
// emission order so overlapping blasts stay reproducible.
func (r *ExplosionResolver) Apply(ev entity.ExplosionEvent) []ExplosionEffect {
	if r.query == nil {
		return nil
	}

	var effects []ExplosionEffect
	for _, id := range r.query.EntitiesInRadius(ev.Center, ev.Radius) {
		if id == ev.Source {
			continue
		}

		var (
			position mgl64.Vec3
			mass     = 1.0
			hasBody  bool
		)
		if r.bodies != nil {
			var b entity.Body
			b, hasBody = r.bodies.Body(id)
			position, mass = b.Position, b.Mass
		}
		if !hasBody {
			continue
		}

		distance := position.Sub(ev.Center).Len()
		effect := ExplosionEffect{
			Target:   id,
			Distance: distance,
			Damage:   ExplosionDamage(ev.Damage, distance, ev.Radius, ev.Falloff),
		}
		if dv, ok := ExplosionImpulse(ev, position, mass); ok {
			effect.Impulse = dv
			r.bodies.ApplyVelocityDelta(id, dv)
		}
		if effect.Damage == 0 && effect.Impulse == (mgl64.Vec3{}) {
			continue
		}
		effects = append(effects, effect)
	}
	return effects
}
