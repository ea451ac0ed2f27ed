package config

import (
	"fmt"

	"github.com/younwookim/ballistics/internal/domain/entity"
)

// ArsenalConfig is the root config for arsenal.json. Entries override or extend
// the built-in presets of the same name.
type ArsenalConfig struct {
	Weapons   []WeaponConfig   `mapstructure:"weapons"`
	Accuracy  []AccuracyConfig `mapstructure:"accuracy"`
	Grenades  []GrenadeConfig  `mapstructure:"grenades"`
	Materials []MaterialConfig `mapstructure:"materials"`
}

type WeaponConfig struct {
	Name            string  `mapstructure:"name"`
	Category        string  `mapstructure:"category"`
	MuzzleVelocity  float64 `mapstructure:"muzzleVelocity"`
	Mass            float64 `mapstructure:"mass"`
	DragCoefficient float64 `mapstructure:"dragCoefficient"`
	Damage          float64 `mapstructure:"damage"`
	SpinRate        float64 `mapstructure:"spinRate"`
	Pellets         int     `mapstructure:"pellets"`
	FireRate        float64 `mapstructure:"fireRate"`
	Automatic       bool    `mapstructure:"automatic"`
	BurstSize       int     `mapstructure:"burstSize"`
	Accuracy        string  `mapstructure:"accuracy"` // accuracy preset name
}

type AccuracyConfig struct {
	Name               string  `mapstructure:"name"`
	BaseSpread         float64 `mapstructure:"baseSpread"`
	MaxSpread          float64 `mapstructure:"maxSpread"`
	BloomPerShot       float64 `mapstructure:"bloomPerShot"`
	RecoveryRate       float64 `mapstructure:"recoveryRate"`
	MovementPenalty    float64 `mapstructure:"movementPenalty"`
	ADSModifier        float64 `mapstructure:"adsModifier"`
	AirborneMultiplier float64 `mapstructure:"airborneMultiplier"`
}

type GrenadeConfig struct {
	Name       string        `mapstructure:"name"`
	Mass       float64       `mapstructure:"mass"`
	ThrowSpeed float64       `mapstructure:"throwSpeed"`
	Logic      LogicConfig   `mapstructure:"logic"`
	Payload    PayloadConfig `mapstructure:"payload"`
}

type LogicConfig struct {
	Type  string  `mapstructure:"type"` // impact, timed, proximity, hitscan, sticky
	Fuse  float64 `mapstructure:"fuse"`
	Range float64 `mapstructure:"range"`
}

type PayloadConfig struct {
	Type            string  `mapstructure:"type"` // kinetic, explosive, incendiary, flash, smoke
	Damage          float64 `mapstructure:"damage"`
	Radius          float64 `mapstructure:"radius"`
	Falloff         float64 `mapstructure:"falloff"`
	Duration        float64 `mapstructure:"duration"`
	DamagePerSecond float64 `mapstructure:"damagePerSecond"`
	Intensity       float64 `mapstructure:"intensity"`
}

type MaterialConfig struct {
	Name            string  `mapstructure:"name"`
	RicochetAngle   float64 `mapstructure:"ricochetAngle"`
	PenetrationLoss float64 `mapstructure:"penetrationLoss"`
	Thickness       float64 `mapstructure:"thickness"`
	Effect          string  `mapstructure:"effect"`
}

// Arsenal holds the resolved presets by name
type Arsenal struct {
	Weapons   map[string]entity.WeaponPreset
	Accuracy  map[string]entity.Accuracy
	Grenades  map[string]entity.GrenadePreset
	Materials map[string]entity.SurfaceMaterial
}

// DefaultArsenal returns a copy of the built-in presets
func DefaultArsenal() *Arsenal {
	a := &Arsenal{
		Weapons:   make(map[string]entity.WeaponPreset, len(entity.WeaponPresets)),
		Accuracy:  make(map[string]entity.Accuracy, len(entity.AccuracyPresets)),
		Grenades:  make(map[string]entity.GrenadePreset, len(entity.GrenadePresets)),
		Materials: make(map[string]entity.SurfaceMaterial, len(entity.MaterialPresets)),
	}
	for k, v := range entity.WeaponPresets {
		a.Weapons[k] = v
	}
	for k, v := range entity.AccuracyPresets {
		a.Accuracy[k] = v
	}
	for k, v := range entity.GrenadePresets {
		a.Grenades[k] = v
	}
	for k, v := range entity.MaterialPresets {
		a.Materials[k] = v
	}
	return a
}

// Resolve merges the config over the built-in presets. Accuracy entries are
// resolved first so weapons can refer to them by name.
func (c *ArsenalConfig) Resolve() (*Arsenal, error) {
	a := DefaultArsenal()

	for _, ac := range c.Accuracy {
		if ac.Name == "" {
			return nil, fmt.Errorf("failed to resolve accuracy: missing name")
		}
		a.Accuracy[ac.Name] = entity.Accuracy{
			BaseSpread:         ac.BaseSpread,
			MaxSpread:          ac.MaxSpread,
			BloomPerShot:       ac.BloomPerShot,
			RecoveryRate:       ac.RecoveryRate,
			MovementPenalty:    ac.MovementPenalty,
			ADSModifier:        ac.ADSModifier,
			AirborneMultiplier: ac.AirborneMultiplier,
		}
	}

	for _, mc := range c.Materials {
		if mc.Name == "" {
			return nil, fmt.Errorf("failed to resolve material: missing name")
		}
		if mc.Thickness <= 0 || mc.PenetrationLoss < 0 {
			return nil, fmt.Errorf("failed to resolve material %s: thickness must be positive and loss non-negative", mc.Name)
		}
		a.Materials[mc.Name] = entity.SurfaceMaterial{
			RicochetAngle:   mc.RicochetAngle,
			PenetrationLoss: mc.PenetrationLoss,
			Thickness:       mc.Thickness,
			Effect:          entity.ParseHitEffect(mc.Effect),
		}
	}

	for _, wc := range c.Weapons {
		w, err := wc.resolve(a.Accuracy)
		if err != nil {
			return nil, err
		}
		a.Weapons[w.Name] = w
	}

	for _, gc := range c.Grenades {
		g, err := gc.resolve()
		if err != nil {
			return nil, err
		}
		a.Grenades[g.Name] = g
	}

	return a, nil
}

func (wc WeaponConfig) resolve(accuracy map[string]entity.Accuracy) (entity.WeaponPreset, error) {
	if wc.Name == "" {
		return entity.WeaponPreset{}, fmt.Errorf("failed to resolve weapon: missing name")
	}
	category, ok := entity.ParseWeaponCategory(wc.Category)
	if !ok {
		return entity.WeaponPreset{}, fmt.Errorf("failed to resolve weapon %s: %w: category %q", wc.Name, ErrUnknownPreset, wc.Category)
	}

	acc := entity.DefaultAccuracy()
	if wc.Accuracy != "" {
		acc, ok = accuracy[wc.Accuracy]
		if !ok {
			return entity.WeaponPreset{}, fmt.Errorf("failed to resolve weapon %s: %w: accuracy %q", wc.Name, ErrUnknownPreset, wc.Accuracy)
		}
	}

	pellets := wc.Pellets
	if pellets < 1 {
		pellets = 1
	}
	return entity.WeaponPreset{
		Name:            wc.Name,
		Category:        category,
		MuzzleVelocity:  wc.MuzzleVelocity,
		Mass:            wc.Mass,
		DragCoefficient: wc.DragCoefficient,
		Damage:          wc.Damage,
		SpinRate:        wc.SpinRate,
		Pellets:         pellets,
		FireRate:        wc.FireRate,
		Automatic:       wc.Automatic,
		BurstSize:       wc.BurstSize,
		Accuracy:        acc,
	}, nil
}

func (gc GrenadeConfig) resolve() (entity.GrenadePreset, error) {
	if gc.Name == "" {
		return entity.GrenadePreset{}, fmt.Errorf("failed to resolve grenade: missing name")
	}
	logic, err := gc.Logic.ToLogic()
	if err != nil {
		return entity.GrenadePreset{}, fmt.Errorf("failed to resolve grenade %s: %w", gc.Name, err)
	}
	payload, err := gc.Payload.ToPayload()
	if err != nil {
		return entity.GrenadePreset{}, fmt.Errorf("failed to resolve grenade %s: %w", gc.Name, err)
	}
	return entity.GrenadePreset{
		Name:       gc.Name,
		Mass:       gc.Mass,
		ThrowSpeed: gc.ThrowSpeed,
		Logic:      logic,
		Payload:    payload,
	}, nil
}

// ToLogic converts to a logic variant
func (lc LogicConfig) ToLogic() (entity.Logic, error) {
	switch lc.Type {
	case "", "impact":
		return entity.ImpactLogic{}, nil
	case "timed":
		return entity.TimedLogic{Fuse: lc.Fuse}, nil
	case "proximity":
		return entity.ProximityLogic{Range: lc.Range}, nil
	case "hitscan":
		return entity.HitscanLogic{Range: lc.Range}, nil
	case "sticky":
		return entity.StickyLogic{}, nil
	default:
		return nil, fmt.Errorf("%w: logic %q", ErrUnknownPreset, lc.Type)
	}
}

// ToPayload converts to a payload variant; an empty type means no payload
func (pc PayloadConfig) ToPayload() (entity.Payload, error) {
	switch pc.Type {
	case "":
		return nil, nil
	case "kinetic":
		return entity.Kinetic{Damage: pc.Damage}, nil
	case "explosive":
		return entity.Explosive{Damage: pc.Damage, Radius: pc.Radius, Falloff: pc.Falloff}, nil
	case "incendiary":
		return entity.Incendiary{Duration: pc.Duration, DamagePerSecond: pc.DamagePerSecond, Radius: pc.Radius}, nil
	case "flash":
		return entity.Flash{Intensity: pc.Intensity, Duration: pc.Duration, Radius: pc.Radius}, nil
	case "smoke":
		return entity.Smoke{Duration: pc.Duration, Radius: pc.Radius}, nil
	default:
		return nil, fmt.Errorf("%w: payload %q", ErrUnknownPreset, pc.Type)
	}
}
