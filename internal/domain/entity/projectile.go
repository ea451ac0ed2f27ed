package entity

import "github.com/go-gl/mathgl/mgl64"

// ProjectileState tracks where a projectile is in its lifecycle
type ProjectileState int

const (
	StateInFlight ProjectileState = iota
	StateStuck
	StateDetonating
	StateDespawning
)

// String returns the string representation of the projectile state
func (s ProjectileState) String() string {
	switch s {
	case StateInFlight:
		return "InFlight"
	case StateStuck:
		return "Stuck"
	case StateDetonating:
		return "Detonating"
	case StateDespawning:
		return "Despawning"
	default:
		return "Unknown"
	}
}

// Projectile is the flight record of a single bullet, arrow, grenade or beam.
// Positions are metres, velocities m/s.
type Projectile struct {
	Position         mgl64.Vec3
	PreviousPosition mgl64.Vec3 // pre-step position for swept collision
	Velocity         mgl64.Vec3
	Forward          mgl64.Vec3 // spawn direction, used by hitscan

	Mass             float64 // kg, > 0
	DragCoefficient  float64 // > 0
	ReferenceArea    float64 // m², > 0
	Diameter         float64 // m
	SpinRate         float64 // rad/s
	PenetrationPower float64 // >= 0

	Owner EntityID // weak, identity only

	Age               float64 // s
	DistanceTravelled float64 // m
	Ticks             int     // completed simulation ticks

	State    ProjectileState
	Logic    Logic
	Payload  Payload
	Guidance *Guidance
}

// DefaultProjectile returns a small-calibre bullet with impact logic at the origin
func DefaultProjectile() Projectile {
	return Projectile{
		Forward:          mgl64.Vec3{0, 0, -1},
		Mass:             0.01,
		DragCoefficient:  0.3,
		ReferenceArea:    0.0001,
		Diameter:         0.01,
		PenetrationPower: 100,
		Logic:            ImpactLogic{},
	}
}

// NewProjectile creates a default projectile at origin moving with velocity
func NewProjectile(origin, velocity mgl64.Vec3) Projectile {
	p := DefaultProjectile()
	p.Position = origin
	p.PreviousPosition = origin
	p.Velocity = velocity
	if dir := NormalizeOrZero(velocity); dir != (mgl64.Vec3{}) {
		p.Forward = dir
	}
	return p
}

// Speed returns the velocity magnitude
func (p *Projectile) Speed() float64 {
	return p.Velocity.Len()
}

// Direction returns the unit flight direction, or zero when stationary
func (p *Projectile) Direction() mgl64.Vec3 {
	return NormalizeOrZero(p.Velocity)
}

// InFlight reports whether the projectile still takes part in simulation
func (p *Projectile) InFlight() bool {
	return p.State == StateInFlight
}

// Embed pins the projectile at point and makes it inert
func (p *Projectile) Embed(point mgl64.Vec3) {
	p.Position = point
	p.PreviousPosition = point
	p.Velocity = mgl64.Vec3{}
	p.State = StateStuck
}

// Despawn marks the projectile for removal at the end of the tick
func (p *Projectile) Despawn() {
	p.State = StateDespawning
}

// HitDamage returns the payload-derived damage of a direct hit
func (p *Projectile) HitDamage() float64 {
	return HitDamage(p.Payload)
}

// Guidance steers a homing projectile toward a target
type Guidance struct {
	Target          EntityID // weak, resolved through the host lookup
	TurnRate        float64  // rad/s
	ActivationDelay float64  // s
	Elapsed         float64  // s
}

// NewGuidance returns guidance toward target with default turn rate and delay
func NewGuidance(target EntityID) *Guidance {
	return &Guidance{
		Target:          target,
		TurnRate:        1.0,
		ActivationDelay: 0.5,
	}
}

// Active reports whether the activation delay has elapsed
func (g *Guidance) Active() bool {
	return g.Elapsed >= g.ActivationDelay
}
