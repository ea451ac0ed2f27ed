package entity

// DefaultHitDamage is used when a projectile carries no damage-bearing payload
const DefaultHitDamage = 25.0

// Payload is what a projectile delivers. The variant never changes after spawn.
type Payload interface {
	isPayload()
}

// Kinetic is plain impact damage
type Kinetic struct {
	Damage float64
}

func (Kinetic) isPayload() {}

// Explosive is a high-explosive charge
type Explosive struct {
	Damage  float64
	Radius  float64 // m
	Falloff float64 // exponent
}

func (Explosive) isPayload() {}

// Incendiary is an area fire
type Incendiary struct {
	Duration        float64 // s
	DamagePerSecond float64
	Radius          float64 // m
}

func (Incendiary) isPayload() {}

// Flash is a blinding flash
type Flash struct {
	Intensity float64
	Duration  float64 // s
	Radius    float64 // m
}

func (Flash) isPayload() {}

// Smoke is a smoke screen
type Smoke struct {
	Duration float64 // s
	Radius   float64 // m
}

func (Smoke) isPayload() {}

// HitDamage returns the damage a direct hit carries for the given payload
func HitDamage(p Payload) float64 {
	switch v := p.(type) {
	case Kinetic:
		return v.Damage
	case Explosive:
		return v.Damage
	default:
		return DefaultHitDamage
	}
}

// ExplosionType classifies an explosion for impulse and presentation
type ExplosionType int

const (
	ExplosionHighExplosive ExplosionType = iota
	ExplosionIncendiary
	ExplosionFlash
	ExplosionSmoke
	ExplosionFragmentation
	ExplosionConcussion
	ExplosionEMP
)

// String returns the string representation of the explosion type
func (t ExplosionType) String() string {
	switch t {
	case ExplosionHighExplosive:
		return "HighExplosive"
	case ExplosionIncendiary:
		return "Incendiary"
	case ExplosionFlash:
		return "Flash"
	case ExplosionSmoke:
		return "Smoke"
	case ExplosionFragmentation:
		return "Fragmentation"
	case ExplosionConcussion:
		return "Concussion"
	case ExplosionEMP:
		return "EMP"
	default:
		return "Unknown"
	}
}

// BaseImpulse returns the impulse scale (kg·m/s at the center) for the explosion type
func (t ExplosionType) BaseImpulse() float64 {
	switch t {
	case ExplosionHighExplosive:
		return 30
	case ExplosionIncendiary:
		return 5
	case ExplosionFlash:
		return 2
	case ExplosionSmoke:
		return 0.5
	case ExplosionFragmentation:
		return 25
	case ExplosionConcussion:
		return 50
	default:
		return 0
	}
}
