package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestAccuracy_Bloom(t *testing.T) {
	a := DefaultAccuracy()
	assert.Equal(t, 0.0, a.CurrentBloom)

	a.ApplyShotBloom()
	assert.InDelta(t, 0.01, a.CurrentBloom, 1e-15)
	a.ApplyShotBloom()
	assert.InDelta(t, 0.02, a.CurrentBloom, 1e-15)

	a.Recover(0.2)
	assert.InDelta(t, 0.01, a.CurrentBloom, 1e-15)
	a.Recover(10)
	assert.Equal(t, 0.0, a.CurrentBloom)

	for i := 0; i < 100; i++ {
		a.ApplyShotBloom()
	}
	assert.Equal(t, a.MaxSpread, a.CurrentBloom)
}

func TestAccuracy_TotalSpread(t *testing.T) {
	a := DefaultAccuracy()
	a.BaseSpread = 0.003

	tests := []struct {
		name  string
		state ShooterState
		want  float64
	}{
		{"standing", ShooterState{}, 0.003},
		{"aiming", ShooterState{Aiming: true}, 0.003 * 0.3},
		{"moving at full speed", ShooterState{Moving: true, Speed: 5, MaxSpeed: 5}, 0.003 + 2*0.003},
		{"moving at half speed", ShooterState{Moving: true, Speed: 2.5, MaxSpeed: 5}, 0.003 + 0.003},
		{"speed above max clamps", ShooterState{Moving: true, Speed: 50, MaxSpeed: 5}, 0.009},
		{"airborne", ShooterState{Airborne: true}, 0.009},
		{"airborne and aiming", ShooterState{Airborne: true, Aiming: true}, 0.009 * 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, a.TotalSpread(tt.state), 1e-15)
		})
	}

	t.Run("capped at max spread", func(t *testing.T) {
		b := a
		b.CurrentBloom = b.MaxSpread
		assert.Equal(t, b.MaxSpread, b.TotalSpread(ShooterState{Airborne: true}))
	})

	t.Run("bloom adds to base", func(t *testing.T) {
		b := DefaultAccuracy()
		b.BaseSpread = 0.001
		b.CurrentBloom = 0.002
		standing := b.TotalSpread(ShooterState{})
		assert.InDelta(t, 0.003, standing, 1e-15)
		assert.Less(t, b.TotalSpread(ShooterState{Aiming: true}), standing)
		assert.Greater(t, b.TotalSpread(ShooterState{Moving: true, Speed: 3, MaxSpeed: 5}), standing)
		assert.Greater(t, b.TotalSpread(ShooterState{Airborne: true}), standing)
	})
}

func TestAccuracy_BloomStaysBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := DefaultAccuracy()
		steps := rapid.SliceOf(rapid.Float64Range(-1, 1)).Draw(t, "steps")
		for _, s := range steps {
			if s < 0 {
				a.Recover(-s)
			} else {
				a.ApplyShotBloom()
			}
			if a.CurrentBloom < 0 || a.CurrentBloom > a.MaxSpread {
				t.Fatalf("bloom %v escaped [0, %v]", a.CurrentBloom, a.MaxSpread)
			}
		}
	})
}

func TestAccuracyPresets(t *testing.T) {
	for _, name := range []string{"pistol", "rifle", "sniper", "shotgun", "smg", "bow"} {
		t.Run(name, func(t *testing.T) {
			a, ok := AccuracyPresets[name]
			require.True(t, ok)
			assert.Greater(t, a.MaxSpread, a.BaseSpread)
			assert.LessOrEqual(t, a.ADSModifier, 1.0)
			assert.GreaterOrEqual(t, a.AirborneMultiplier, 1.0)
		})
	}
}

func TestWeapon_CanFire(t *testing.T) {
	w := NewWeapon(WeaponPresets["pistol"])
	assert.True(t, math.IsInf(w.LastFireTime, -1))
	assert.True(t, w.CanFire(0))

	w.LastFireTime = 1.0
	assert.False(t, w.CanFire(1.1))
	assert.True(t, w.CanFire(1.2))

	unlimited := NewWeapon(WeaponPreset{FireRate: 0})
	unlimited.LastFireTime = 5
	assert.True(t, unlimited.CanFire(5))
}

func TestWeaponPreset_Projectile(t *testing.T) {
	preset := WeaponPresets["rifle"]
	p := preset.Projectile(mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -2})

	assert.InDelta(t, 900, p.Speed(), 1e-9)
	assert.Equal(t, 0.004, p.Mass)
	assert.Equal(t, 0.25, p.DragCoefficient)
	assert.Equal(t, 2500.0, p.SpinRate)
	assert.Equal(t, Kinetic{Damage: 35}, p.Payload)
	assert.Equal(t, ImpactLogic{}, p.Logic)
}

func TestGrenadePreset_Projectile(t *testing.T) {
	frag := GrenadePresets["frag"]
	p := frag.Projectile(mgl64.Vec3{}, mgl64.Vec3{0, 1, -1})

	assert.InDelta(t, 15, p.Speed(), 1e-9)
	assert.Equal(t, 0.4, p.Mass)
	assert.Equal(t, 0.0, p.PenetrationPower)
	assert.Equal(t, TimedLogic{Fuse: 3}, p.Logic)
	assert.IsType(t, Explosive{}, p.Payload)

	mine := GrenadePresets["proximityMine"]
	assert.Equal(t, ProximityLogic{Range: 2}, mine.Logic)
	assert.Equal(t, 0.0, mine.ThrowSpeed)
}

func TestParseWeaponCategory(t *testing.T) {
	c, ok := ParseWeaponCategory("sniper")
	assert.True(t, ok)
	assert.Equal(t, CategorySniper, c)

	_, ok = ParseWeaponCategory("cannon")
	assert.False(t, ok)
}

func TestMaterials(t *testing.T) {
	assert.Equal(t, EffectWoodChips, ParseHitEffect("woodChips"))
	assert.Equal(t, EffectSparks, ParseHitEffect("plasma"))

	for name, m := range MaterialPresets {
		t.Run(name, func(t *testing.T) {
			assert.Greater(t, m.Thickness, 0.0)
			assert.GreaterOrEqual(t, m.PenetrationLoss, 0.0)
		})
	}
}
