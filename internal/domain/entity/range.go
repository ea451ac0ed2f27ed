package entity

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Shooter is a firing position on a range
type Shooter struct {
	ID       EntityID
	Position mgl64.Vec3
	Aim      mgl64.Vec3
	Weapon   string
}

// Range is a firing range: static boxes, spherical targets and the materials
// they are made of. It answers segment casts and radius queries for the
// simulation and holds the rigid bodies explosions push.
type Range struct {
	ID       string
	Name     string
	Boxes    []Box
	Targets  []*Target
	Shooters []Shooter

	materials map[string]SurfaceMaterial
	targets   map[EntityID]*Target
	boxes     map[EntityID]int
}

// NewRange indexes the given geometry. Unknown material names fall back to
// the built-in presets, then to the default surface.
func NewRange(id, name string, boxes []Box, targets []*Target, materials map[string]SurfaceMaterial) *Range {
	r := &Range{
		ID:        id,
		Name:      name,
		Boxes:     boxes,
		Targets:   targets,
		materials: materials,
		targets:   make(map[EntityID]*Target, len(targets)),
		boxes:     make(map[EntityID]int, len(boxes)),
	}
	for i, b := range boxes {
		r.boxes[b.ID] = i
	}
	for _, t := range targets {
		r.targets[t.ID] = t
	}
	return r
}

// Target returns the target with id
func (r *Range) Target(id EntityID) (*Target, bool) {
	t, ok := r.targets[id]
	return t, ok
}

// CastSegment returns the nearest box or active target crossed by from→to
func (r *Range) CastSegment(from, to mgl64.Vec3, exclude ...EntityID) (RayHit, bool) {
	length := to.Sub(from).Len()
	best := RayHit{}
	bestFrac := 2.0

	consider := func(id EntityID, frac float64, normal mgl64.Vec3) {
		if frac >= bestFrac || excluded(id, exclude) {
			return
		}
		bestFrac = frac
		best = RayHit{
			Entity:   id,
			Point:    from.Add(to.Sub(from).Mul(frac)),
			Normal:   normal,
			Distance: frac * length,
		}
	}

	for _, b := range r.Boxes {
		if frac, n, ok := b.IntersectSegment(from, to); ok {
			consider(b.ID, frac, n)
		}
	}
	for _, t := range r.Targets {
		if !t.Active {
			continue
		}
		if frac, n, ok := t.IntersectSegment(from, to); ok {
			consider(t.ID, frac, n)
		}
	}
	return best, bestFrac <= 1
}

// EntitiesInRadius returns the active targets whose center is within radius,
// ordered by ID
func (r *Range) EntitiesInRadius(center mgl64.Vec3, radius float64) []EntityID {
	var ids []EntityID
	for _, t := range r.Targets {
		if t.Active && t.Position.Sub(center).Len() <= radius {
			ids = append(ids, t.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Surface returns the material of a box or target
func (r *Range) Surface(id EntityID) (SurfaceMaterial, bool) {
	var name string
	if i, ok := r.boxes[id]; ok {
		name = r.Boxes[i].Material
	} else if t, ok := r.targets[id]; ok {
		name = t.Material
	} else {
		return SurfaceMaterial{}, false
	}
	return r.Material(name), true
}

// Material resolves a material name
func (r *Range) Material(name string) SurfaceMaterial {
	if m, ok := r.materials[name]; ok {
		return m
	}
	if m, ok := MaterialPresets[name]; ok {
		return m
	}
	return DefaultSurface()
}

// Position returns the position of an active target
func (r *Range) Position(id EntityID) (mgl64.Vec3, bool) {
	t, ok := r.targets[id]
	if !ok || !t.Active {
		return mgl64.Vec3{}, false
	}
	return t.Position, true
}

// Body returns the rigid body of an active target
func (r *Range) Body(id EntityID) (Body, bool) {
	t, ok := r.targets[id]
	if !ok || !t.Active {
		return Body{}, false
	}
	return t.Body, true
}

// ApplyVelocityDelta pushes a movable target
func (r *Range) ApplyVelocityDelta(id EntityID, dv mgl64.Vec3) {
	t, ok := r.targets[id]
	if !ok || !t.Movable() {
		return
	}
	t.Velocity = t.Velocity.Add(dv)
}

// Damage applies damage to a target; other entities ignore it
func (r *Range) Damage(id EntityID, amount float64) {
	if t, ok := r.targets[id]; ok {
		t.TakeDamage(amount)
	}
}

// Update advances every target by dt
func (r *Range) Update(dt float64) {
	for _, t := range r.Targets {
		t.Update(dt)
	}
}

// ActiveTargets returns how many targets are still standing
func (r *Range) ActiveTargets() int {
	n := 0
	for _, t := range r.Targets {
		if t.Active {
			n++
		}
	}
	return n
}

func excluded(id EntityID, exclude []EntityID) bool {
	for _, e := range exclude {
		if e == id {
			return true
		}
	}
	return false
}
