package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// minRelativeSpeed is the airspeed below which drag is ignored (m/s)
const minRelativeSpeed = 0.001

// Integrator advances projectiles through one fixed timestep.
// It captures the environment once per tick so every projectile sees the same air.
type Integrator struct {
	gravity mgl64.Vec3
	wind    mgl64.Vec3
	density float64
	model   entity.PhysicsModel
}

// NewIntegrator creates an integrator for one tick
func NewIntegrator(env entity.Environment, cfg entity.Config) Integrator {
	return Integrator{
		gravity: env.Gravity,
		wind:    env.Wind,
		density: env.EffectiveAirDensity(),
		model:   cfg.Model(),
	}
}

// Acceleration returns gravity minus drag for a projectile moving at vel.
// Drag opposes the velocity relative to the air; below minRelativeSpeed the
// result is gravity unmodified.
func (in Integrator) Acceleration(vel mgl64.Vec3, p *entity.Projectile) mgl64.Vec3 {
	rel := vel.Sub(in.wind)
	speed := rel.Len()
	if speed < minRelativeSpeed {
		return in.gravity
	}

	dragMagnitude := 0.5 * in.density * speed * speed * p.DragCoefficient * p.ReferenceArea
	dragAccel := rel.Mul(1 / speed).Mul(dragMagnitude / p.Mass)
	return in.gravity.Sub(dragAccel)
}

// Step integrates p over dt. PreviousPosition is set to the pre-step position for
// the swept collision test; distance and age accumulate.
func (in Integrator) Step(p *entity.Projectile, dt float64) {
	p.PreviousPosition = p.Position

	switch in.model {
	case entity.ModelRK4:
		p.Velocity = in.rk4(p, dt)
	default:
		p.Velocity = in.euler(p, dt)
	}

	displacement := p.Velocity.Mul(dt)
	p.Position = p.Position.Add(displacement)
	p.DistanceTravelled += displacement.Len()
	p.Age += dt
}

func (in Integrator) euler(p *entity.Projectile, dt float64) mgl64.Vec3 {
	return p.Velocity.Add(in.Acceleration(p.Velocity, p).Mul(dt))
}

func (in Integrator) rk4(p *entity.Projectile, dt float64) mgl64.Vec3 {
	v := p.Velocity
	half := dt / 2

	k1 := in.Acceleration(v, p)
	k2 := in.Acceleration(v.Add(k1.Mul(half)), p)
	k3 := in.Acceleration(v.Add(k2.Mul(half)), p)
	k4 := in.Acceleration(v.Add(k3.Mul(dt)), p)

	sum := k1.Add(k2.Mul(2)).Add(k3.Mul(2)).Add(k4)
	return v.Add(sum.Mul(dt / 6))
}

// Acceleration evaluates the drag model for p at vel under env
func Acceleration(vel mgl64.Vec3, p *entity.Projectile, env entity.Environment) mgl64.Vec3 {
	return NewIntegrator(env, entity.DefaultConfig()).Acceleration(vel, p)
}
