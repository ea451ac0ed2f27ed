package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Target is a spherical range target: a dummy, a vehicle plate, a drone
type Target struct {
	Body
	Radius    float64 // m
	MaxHealth float64
	Health    float64
	Material  string
	Active    bool

	// HitTimer is a presentation flash after taking damage
	HitTimer float64
}

// NewTarget creates an active target at full health
func NewTarget(id EntityID, position mgl64.Vec3, radius, mass, health float64, material string) *Target {
	return &Target{
		Body:      Body{ID: id, Position: position, Mass: mass},
		Radius:    radius,
		MaxHealth: health,
		Health:    health,
		Material:  material,
		Active:    true,
	}
}

// TakeDamage applies damage and deactivates the target at zero health.
// A target with no MaxHealth is indestructible.
func (t *Target) TakeDamage(amount float64) {
	if !t.Active || amount <= 0 {
		return
	}
	t.HitTimer = 0.2
	if t.MaxHealth <= 0 {
		return
	}
	t.Health -= amount
	if t.Health <= 0 {
		t.Health = 0
		t.Active = false
	}
}

// Update advances motion and the hit flash
func (t *Target) Update(dt float64) {
	if t.HitTimer > 0 {
		t.HitTimer -= dt
	}
	t.Step(dt)
}

// IntersectSegment returns the entry fraction along from→to and the outward
// normal at the entry point. Segments starting inside the sphere do not hit it.
func (t *Target) IntersectSegment(from, to mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	d := to.Sub(from)
	m := from.Sub(t.Position)

	a := d.Dot(d)
	c := m.Dot(m) - t.Radius*t.Radius
	if a == 0 || c <= 0 {
		return 0, mgl64.Vec3{}, false
	}
	b := m.Dot(d)
	if b >= 0 {
		return 0, mgl64.Vec3{}, false
	}
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}

	frac := (-b - math.Sqrt(disc)) / a
	if frac < 0 || frac > 1 {
		return 0, mgl64.Vec3{}, false
	}
	point := from.Add(d.Mul(frac))
	return frac, NormalizeOrZero(point.Sub(t.Position)), true
}
