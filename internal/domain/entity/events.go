package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/ecs"
)

// FireEvent records a weapon discharge. Every pellet i is perturbed with SpreadSeed+i,
// so peers holding the same event reproduce the same pattern.
type FireEvent struct {
	Origin          mgl64.Vec3
	Direction       mgl64.Vec3
	MuzzleVelocity  float64 // m/s
	Shooter         EntityID
	SpreadSeed      uint64
	WeaponType      string
	Timestamp       float64 // s
	ProjectileCount int
	SpreadAngle     float64 // rad
}

// NewFireEvent returns a single-projectile discharge from origin along direction
func NewFireEvent(origin, direction mgl64.Vec3) FireEvent {
	return FireEvent{
		Origin:          origin,
		Direction:       direction,
		MuzzleVelocity:  400,
		ProjectileCount: 1,
	}
}

func (e FireEvent) WithVelocity(v float64) FireEvent {
	e.MuzzleVelocity = v
	return e
}

func (e FireEvent) WithShooter(id EntityID) FireEvent {
	e.Shooter = id
	return e
}

func (e FireEvent) WithSpread(angle float64, seed uint64) FireEvent {
	e.SpreadAngle = angle
	e.SpreadSeed = seed
	return e
}

func (e FireEvent) WithPellets(n int) FireEvent {
	e.ProjectileCount = n
	return e
}

func (e FireEvent) WithWeapon(name string) FireEvent {
	e.WeaponType = name
	return e
}

func (e FireEvent) At(timestamp float64) FireEvent {
	e.Timestamp = timestamp
	return e
}

// HitEvent is emitted for every collision, whatever its outcome
type HitEvent struct {
	Projectile  ecs.Handle
	Target      EntityID
	ImpactPoint mgl64.Vec3
	Normal      mgl64.Vec3
	Velocity    mgl64.Vec3 // pre-impact
	Damage      float64
	Penetrated  bool
	Ricocheted  bool
}

// ExplosionEvent is emitted when a payload detonates
type ExplosionEvent struct {
	Center  mgl64.Vec3
	Radius  float64
	Damage  float64
	Falloff float64
	Type    ExplosionType
	Source  EntityID // excluded from impulse
}

// PenetrationEvent is emitted when a projectile passes through a surface
type PenetrationEvent struct {
	Projectile     ecs.Handle
	EntryPoint     mgl64.Vec3
	ExitPoint      mgl64.Vec3
	Target         EntityID
	RemainingPower float64
}

// RicochetEvent is emitted when a projectile deflects off a surface
type RicochetEvent struct {
	Projectile   ecs.Handle
	ImpactPoint  mgl64.Vec3
	NewDirection mgl64.Vec3
	NewSpeed     float64
	Surface      EntityID
}
