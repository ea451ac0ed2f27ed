package entity

// Accuracy is the spread model of a weapon. All angles are radians.
type Accuracy struct {
	CurrentBloom       float64
	BaseSpread         float64
	MaxSpread          float64
	BloomPerShot       float64
	RecoveryRate       float64 // rad/s
	MovementPenalty    float64
	ADSModifier        float64 // 0-1
	AirborneMultiplier float64 // >= 1
}

// ShooterState describes the shooter at the moment of firing
type ShooterState struct {
	Moving   bool
	Speed    float64 // m/s
	MaxSpeed float64 // m/s
	Airborne bool
	Aiming   bool // aiming down sights
}

// DefaultAccuracy returns a generic rifle-like spread model
func DefaultAccuracy() Accuracy {
	return Accuracy{
		BaseSpread:         0.002,
		MaxSpread:          0.05,
		BloomPerShot:       0.01,
		RecoveryRate:       0.05,
		MovementPenalty:    2.0,
		ADSModifier:        0.3,
		AirborneMultiplier: 3.0,
	}
}

// Recover decays bloom by RecoveryRate*dt, floored at zero
func (a *Accuracy) Recover(dt float64) {
	a.CurrentBloom -= a.RecoveryRate * dt
	if a.CurrentBloom < 0 {
		a.CurrentBloom = 0
	}
}

// ApplyShotBloom adds one shot of bloom, capped at MaxSpread
func (a *Accuracy) ApplyShotBloom() {
	a.CurrentBloom += a.BloomPerShot
	if a.CurrentBloom > a.MaxSpread {
		a.CurrentBloom = a.MaxSpread
	}
}

// TotalSpread returns the spread angle for a shot fired in state s.
// The movement term is additive and is applied before the airborne and ADS factors.
func (a Accuracy) TotalSpread(s ShooterState) float64 {
	spread := a.BaseSpread + a.CurrentBloom

	if s.Moving && s.MaxSpeed > 0 {
		ratio := s.Speed / s.MaxSpeed
		if ratio > 1 {
			ratio = 1
		}
		spread += a.MovementPenalty * ratio * a.BaseSpread
	}
	if s.Airborne {
		spread *= a.AirborneMultiplier
	}
	if s.Aiming {
		spread *= a.ADSModifier
	}

	if spread > a.MaxSpread {
		spread = a.MaxSpread
	}
	return spread
}

// AccuracyPresets are the built-in spread models by weapon class
var AccuracyPresets = map[string]Accuracy{
	"pistol":  {BaseSpread: 0.003, MaxSpread: 0.08, BloomPerShot: 0.015, RecoveryRate: 0.08, MovementPenalty: 1.5, ADSModifier: 0.5, AirborneMultiplier: 2.5},
	"rifle":   {BaseSpread: 0.001, MaxSpread: 0.06, BloomPerShot: 0.02, RecoveryRate: 0.04, MovementPenalty: 2.0, ADSModifier: 0.3, AirborneMultiplier: 3.0},
	"sniper":  {BaseSpread: 0.0005, MaxSpread: 0.04, BloomPerShot: 0.03, RecoveryRate: 0.02, MovementPenalty: 3.0, ADSModifier: 0.1, AirborneMultiplier: 5.0},
	"shotgun": {BaseSpread: 0.02, MaxSpread: 0.1, BloomPerShot: 0.005, RecoveryRate: 0.1, MovementPenalty: 1.0, ADSModifier: 0.7, AirborneMultiplier: 1.5},
	"smg":     {BaseSpread: 0.004, MaxSpread: 0.1, BloomPerShot: 0.008, RecoveryRate: 0.12, MovementPenalty: 0.8, ADSModifier: 0.4, AirborneMultiplier: 2.0},
	"bow":     {BaseSpread: 0.002, MaxSpread: 0.03, BloomPerShot: 0, RecoveryRate: 0, MovementPenalty: 2.5, ADSModifier: 0.2, AirborneMultiplier: 4.0},
}
