package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// WeaponCategory groups weapons by handling
type WeaponCategory int

const (
	CategoryPistol WeaponCategory = iota
	CategoryRifle
	CategorySniper
	CategoryShotgun
	CategoryBow
	CategoryThrown
)

// String returns the string representation of the weapon category
func (c WeaponCategory) String() string {
	switch c {
	case CategoryPistol:
		return "pistol"
	case CategoryRifle:
		return "rifle"
	case CategorySniper:
		return "sniper"
	case CategoryShotgun:
		return "shotgun"
	case CategoryBow:
		return "bow"
	case CategoryThrown:
		return "thrown"
	default:
		return "unknown"
	}
}

// ParseWeaponCategory maps a config name to a WeaponCategory
func ParseWeaponCategory(name string) (WeaponCategory, bool) {
	for c := CategoryPistol; c <= CategoryThrown; c++ {
		if c.String() == name {
			return c, true
		}
	}
	return CategoryPistol, false
}

// WeaponPreset holds the ballistic and handling data of a firearm or bow
type WeaponPreset struct {
	Name            string
	Category        WeaponCategory
	MuzzleVelocity  float64 // m/s
	Mass            float64 // kg
	DragCoefficient float64
	Damage          float64
	SpinRate        float64 // rad/s
	Pellets         int
	FireRate        float64 // shots/s, <= 0 means unlimited
	Automatic       bool
	BurstSize       int
	Accuracy        Accuracy
}

// Projectile returns a kinetic projectile for this weapon leaving origin along direction
func (w WeaponPreset) Projectile(origin, direction mgl64.Vec3) Projectile {
	p := NewProjectile(origin, NormalizeOrZero(direction).Mul(w.MuzzleVelocity))
	p.Mass = w.Mass
	p.DragCoefficient = w.DragCoefficient
	p.SpinRate = w.SpinRate
	p.Payload = Kinetic{Damage: w.Damage}
	return p
}

func accuracyWith(base, bloom float64) Accuracy {
	a := DefaultAccuracy()
	a.BaseSpread = base
	a.BloomPerShot = bloom
	return a
}

// WeaponPresets are the built-in weapons by name
var WeaponPresets = map[string]WeaponPreset{
	"pistol": {
		Name: "pistol", Category: CategoryPistol,
		MuzzleVelocity: 350, Mass: 0.008, DragCoefficient: 0.35, Damage: 20, SpinRate: 150,
		Pellets: 1, FireRate: 5,
		Accuracy: accuracyWith(0.003, 0.015),
	},
	"rifle": {
		Name: "rifle", Category: CategoryRifle,
		MuzzleVelocity: 900, Mass: 0.004, DragCoefficient: 0.25, Damage: 35, SpinRate: 2500,
		Pellets: 1, FireRate: 10, Automatic: true,
		Accuracy: accuracyWith(0.001, 0.02),
	},
	"sniper": {
		Name: "sniper", Category: CategorySniper,
		MuzzleVelocity: 1200, Mass: 0.01, DragCoefficient: 0.2, Damage: 100, SpinRate: 3000,
		Pellets: 1, FireRate: 0.8,
		Accuracy: func() Accuracy {
			a := accuracyWith(0.0005, 0.03)
			a.ADSModifier = 0.1
			return a
		}(),
	},
	"bow": {
		Name: "bow", Category: CategoryBow,
		MuzzleVelocity: 80, Mass: 0.03, DragCoefficient: 0.5, Damage: 45, SpinRate: 50,
		Pellets: 1, FireRate: 1,
		Accuracy: func() Accuracy {
			a := accuracyWith(0.002, 0)
			a.ADSModifier = 0.2
			return a
		}(),
	},
}

// Weapon is the fire-control state of a weapon held by a shooter
type Weapon struct {
	Preset         WeaponPreset
	Accuracy       Accuracy
	LastFireTime   float64 // s
	BurstRemaining int
}

// NewWeapon returns a ready-to-fire weapon for preset
func NewWeapon(preset WeaponPreset) *Weapon {
	return &Weapon{
		Preset:       preset,
		Accuracy:     preset.Accuracy,
		LastFireTime: math.Inf(-1),
	}
}

// CanFire reports whether the fire-rate cooldown has elapsed at time now
func (w *Weapon) CanFire(now float64) bool {
	if w.Preset.FireRate <= 0 {
		return true
	}
	return now-w.LastFireTime >= 1/w.Preset.FireRate
}

// GrenadePreset holds a thrown or placed explosive
type GrenadePreset struct {
	Name       string
	Mass       float64 // kg
	ThrowSpeed float64 // m/s
	Logic      Logic
	Payload    Payload
}

// Projectile returns the grenade leaving origin along direction
func (g GrenadePreset) Projectile(origin, direction mgl64.Vec3) Projectile {
	p := NewProjectile(origin, NormalizeOrZero(direction).Mul(g.ThrowSpeed))
	p.Mass = g.Mass
	p.DragCoefficient = 0.47
	p.ReferenceArea = 0.0035
	p.Diameter = 0.066
	p.PenetrationPower = 0
	p.Logic = g.Logic
	p.Payload = g.Payload
	return p
}

// GrenadePresets are the built-in grenades and mines by name
var GrenadePresets = map[string]GrenadePreset{
	"frag": {
		Name: "frag", Mass: 0.4, ThrowSpeed: 15,
		Logic:   TimedLogic{Fuse: 3.0},
		Payload: Explosive{Damage: 150, Radius: 10, Falloff: 1.5},
	},
	"flashbang": {
		Name: "flashbang", Mass: 0.3, ThrowSpeed: 15,
		Logic:   TimedLogic{Fuse: 2.0},
		Payload: Flash{Intensity: 1, Duration: 5, Radius: 15},
	},
	"smoke": {
		Name: "smoke", Mass: 0.35, ThrowSpeed: 15,
		Logic:   TimedLogic{Fuse: 1.5},
		Payload: Smoke{Duration: 15, Radius: 8},
	},
	"molotov": {
		Name: "molotov", Mass: 0.6, ThrowSpeed: 12,
		Logic:   ImpactLogic{},
		Payload: Incendiary{Duration: 8, DamagePerSecond: 15, Radius: 5},
	},
	"proximityMine": {
		Name: "proximityMine", Mass: 1.0, ThrowSpeed: 0,
		Logic:   ProximityLogic{Range: 2.0},
		Payload: Explosive{Damage: 200, Radius: 5, Falloff: 2},
	},
}
