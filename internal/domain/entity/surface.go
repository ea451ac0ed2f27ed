package entity

// HitEffect is a presentation tag carried through hit events; the core never interprets it
type HitEffect int

const (
	EffectSparks HitEffect = iota
	EffectDust
	EffectBlood
	EffectWoodChips
	EffectWater
	EffectGlass
)

// String returns the string representation of the hit effect
func (e HitEffect) String() string {
	switch e {
	case EffectSparks:
		return "sparks"
	case EffectDust:
		return "dust"
	case EffectBlood:
		return "blood"
	case EffectWoodChips:
		return "woodChips"
	case EffectWater:
		return "water"
	case EffectGlass:
		return "glass"
	default:
		return "unknown"
	}
}

// ParseHitEffect maps a config name to a HitEffect, falling back to sparks
func ParseHitEffect(name string) HitEffect {
	for e := EffectSparks; e <= EffectGlass; e++ {
		if e.String() == name {
			return e
		}
	}
	return EffectSparks
}

// SurfaceMaterial describes how world geometry reacts to impacts
type SurfaceMaterial struct {
	RicochetAngle   float64 // rad from the surface normal
	PenetrationLoss float64 // energy units, >= 0
	Thickness       float64 // m, > 0
	Effect          HitEffect
}

// DefaultSurface returns the material used for untagged but material-bearing geometry
func DefaultSurface() SurfaceMaterial {
	return SurfaceMaterial{
		RicochetAngle:   0.3,
		PenetrationLoss: 50,
		Thickness:       0.05,
		Effect:          EffectSparks,
	}
}

// MaterialPresets are the built-in surface materials by name
var MaterialPresets = map[string]SurfaceMaterial{
	"concrete": {RicochetAngle: 0.2, PenetrationLoss: 80, Thickness: 0.2, Effect: EffectDust},
	"metal":    {RicochetAngle: 0.15, PenetrationLoss: 100, Thickness: 0.01, Effect: EffectSparks},
	"wood":     {RicochetAngle: 0.5, PenetrationLoss: 30, Thickness: 0.05, Effect: EffectWoodChips},
	"flesh":    {RicochetAngle: 1.5, PenetrationLoss: 40, Thickness: 0.3, Effect: EffectBlood},
	"glass":    {RicochetAngle: 0.8, PenetrationLoss: 10, Thickness: 0.01, Effect: EffectGlass},
	"water":    {RicochetAngle: 0.1, PenetrationLoss: 20, Thickness: 1.0, Effect: EffectWater},
	"dirt":     {RicochetAngle: 0.6, PenetrationLoss: 25, Thickness: 0.5, Effect: EffectDust},
}
