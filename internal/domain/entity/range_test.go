package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_IntersectSegment(t *testing.T) {
	box := Box{ID: 1, Min: mgl64.Vec3{-1, -1, -1}, Max: mgl64.Vec3{1, 1, 1}}

	tests := []struct {
		name     string
		from, to mgl64.Vec3
		hit      bool
		frac     float64
		normal   mgl64.Vec3
	}{
		{"enters +x face", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{-5, 0, 0}, true, 0.4, mgl64.Vec3{1, 0, 0}},
		{"enters -z face", mgl64.Vec3{0, 0, -3}, mgl64.Vec3{0, 0, 3}, true, 1.0 / 3, mgl64.Vec3{0, 0, -1}},
		{"enters top face", mgl64.Vec3{0.5, 4, 0}, mgl64.Vec3{0.5, 0, 0}, true, 0.75, mgl64.Vec3{0, 1, 0}},
		{"misses beside", mgl64.Vec3{5, 2, 0}, mgl64.Vec3{-5, 2, 0}, false, 0, mgl64.Vec3{}},
		{"stops short", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{2, 0, 0}, false, 0, mgl64.Vec3{}},
		{"starts inside", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{5, 0, 0}, false, 0, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frac, normal, ok := box.IntersectSegment(tt.from, tt.to)
			require.Equal(t, tt.hit, ok)
			if !tt.hit {
				return
			}
			assert.InDelta(t, tt.frac, frac, 1e-12)
			assert.Equal(t, tt.normal, normal)
		})
	}
}

func TestBox_Contains(t *testing.T) {
	box := Box{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}
	assert.True(t, box.Contains(mgl64.Vec3{1, 1, 1}))
	assert.True(t, box.Contains(mgl64.Vec3{2, 0, 2}))
	assert.False(t, box.Contains(mgl64.Vec3{3, 1, 1}))
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, box.Center())
	assert.Equal(t, mgl64.Vec3{2, 2, 2}, box.Size())
}

func TestTarget_IntersectSegment(t *testing.T) {
	target := NewTarget(7, mgl64.Vec3{0, 0, -10}, 1, 80, 100, "flesh")

	frac, normal, ok := target.IntersectSegment(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -20})
	require.True(t, ok)
	assert.InDelta(t, 9.0/20, frac, 1e-12)
	assert.InDelta(t, 1.0, normal.Z(), 1e-12)

	_, _, ok = target.IntersectSegment(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{2, 0, -20})
	assert.False(t, ok, "passes beside")

	_, _, ok = target.IntersectSegment(mgl64.Vec3{0, 0, -10}, mgl64.Vec3{0, 0, -20})
	assert.False(t, ok, "starts inside")

	_, _, ok = target.IntersectSegment(mgl64.Vec3{0, 0, -12}, mgl64.Vec3{0, 0, -20})
	assert.False(t, ok, "moving away")
}

func TestTarget_TakeDamage(t *testing.T) {
	t.Run("destructible", func(t *testing.T) {
		target := NewTarget(1, mgl64.Vec3{}, 0.5, 80, 100, "flesh")
		target.TakeDamage(60)
		assert.Equal(t, 40.0, target.Health)
		assert.True(t, target.Active)
		assert.Greater(t, target.HitTimer, 0.0)

		target.TakeDamage(60)
		assert.Equal(t, 0.0, target.Health)
		assert.False(t, target.Active)
	})

	t.Run("indestructible", func(t *testing.T) {
		target := NewTarget(1, mgl64.Vec3{}, 0.5, 0, 0, "metal")
		target.TakeDamage(1000)
		assert.True(t, target.Active)
	})
}

func TestTarget_Update(t *testing.T) {
	target := NewTarget(1, mgl64.Vec3{}, 0.5, 5, 10, "metal")
	target.Velocity = mgl64.Vec3{2, 0, 0}
	target.Update(0.5)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, target.Position)

	fixed := NewTarget(2, mgl64.Vec3{}, 0.5, 0, 10, "metal")
	fixed.Velocity = mgl64.Vec3{2, 0, 0}
	fixed.Update(0.5)
	assert.Equal(t, mgl64.Vec3{}, fixed.Position)
}

func newTestRange() *Range {
	boxes := []Box{
		{ID: 1, Min: mgl64.Vec3{-50, -1, -50}, Max: mgl64.Vec3{50, 0, 50}, Material: "dirt"},
		{ID: 2, Min: mgl64.Vec3{-5, 0, -20.1}, Max: mgl64.Vec3{5, 5, -20}, Material: "plate"},
	}
	targets := []*Target{
		NewTarget(20, mgl64.Vec3{0, 1, -10}, 0.5, 80, 100, "flesh"),
		NewTarget(10, mgl64.Vec3{3, 1, -10}, 0.5, 0, 0, "unknown"),
	}
	materials := map[string]SurfaceMaterial{
		"plate": {RicochetAngle: 0.1, PenetrationLoss: 500, Thickness: 0.1, Effect: EffectSparks},
	}
	return NewRange("test", "Test", boxes, targets, materials)
}

func TestRange_CastSegment(t *testing.T) {
	r := newTestRange()

	hit, ok := r.CastSegment(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, -30})
	require.True(t, ok)
	assert.Equal(t, EntityID(20), hit.Entity)
	assert.InDelta(t, 9.5, hit.Distance, 1e-9)
	assert.InDelta(t, -9.5, hit.Point.Z(), 1e-9)

	hit, ok = r.CastSegment(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, -30}, 20)
	require.True(t, ok)
	assert.Equal(t, EntityID(2), hit.Entity)
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, hit.Normal)

	hit, ok = r.CastSegment(mgl64.Vec3{20, 5, 0}, mgl64.Vec3{20, -5, 0})
	require.True(t, ok)
	assert.Equal(t, EntityID(1), hit.Entity)
	assert.Equal(t, mgl64.Vec3{0, 1, 0}, hit.Normal)

	_, ok = r.CastSegment(mgl64.Vec3{20, 5, 0}, mgl64.Vec3{20, 10, 0})
	assert.False(t, ok)

	target, _ := r.Target(20)
	target.Active = false
	hit, ok = r.CastSegment(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, -30})
	require.True(t, ok)
	assert.Equal(t, EntityID(2), hit.Entity, "inactive targets are not hit")
}

func TestRange_EntitiesInRadius(t *testing.T) {
	r := newTestRange()

	assert.Equal(t, []EntityID{10, 20}, r.EntitiesInRadius(mgl64.Vec3{1.5, 1, -10}, 2))
	assert.Equal(t, []EntityID{20}, r.EntitiesInRadius(mgl64.Vec3{0, 1, -10}, 1))
	assert.Empty(t, r.EntitiesInRadius(mgl64.Vec3{0, 1, 10}, 1))
}

func TestRange_Surface(t *testing.T) {
	r := newTestRange()

	mat, ok := r.Surface(2)
	require.True(t, ok)
	assert.Equal(t, 500.0, mat.PenetrationLoss)

	mat, ok = r.Surface(1)
	require.True(t, ok)
	assert.Equal(t, MaterialPresets["dirt"], mat)

	mat, ok = r.Surface(10)
	require.True(t, ok)
	assert.Equal(t, DefaultSurface(), mat)

	_, ok = r.Surface(99)
	assert.False(t, ok)
}

func TestRange_Bodies(t *testing.T) {
	r := newTestRange()

	pos, ok := r.Position(20)
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 1, -10}, pos)

	body, ok := r.Body(20)
	require.True(t, ok)
	assert.Equal(t, 80.0, body.Mass)

	r.ApplyVelocityDelta(20, mgl64.Vec3{1, 2, 0})
	r.ApplyVelocityDelta(10, mgl64.Vec3{1, 2, 0})
	r.Update(1)

	moved, _ := r.Target(20)
	assert.Equal(t, mgl64.Vec3{1, 3, -10}, moved.Position)
	fixed, _ := r.Target(10)
	assert.Equal(t, mgl64.Vec3{3, 1, -10}, fixed.Position)

	r.Damage(20, 100)
	assert.Equal(t, 1, r.ActiveTargets())
	_, ok = r.Position(20)
	assert.False(t, ok)
	_, ok = r.Body(20)
	assert.False(t, ok)
}
