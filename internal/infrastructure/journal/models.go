package journal

import (
	"time"

	"gorm.io/datatypes"
)

// Run is one simulation run. Every journal row carries its RunID.
type Run struct {
	ID         string `gorm:"primaryKey;size:36"`
	RangeID    string `gorm:"size:64"`
	Seed       uint64
	TickRate   int
	Ticks      uint64
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Fire is a weapon discharge
type Fire struct {
	ID         uint   `gorm:"primaryKey"`
	RunID      string `gorm:"size:36;index"`
	Tick       uint64 `gorm:"index"`
	Shooter    uint64
	Weapon     string `gorm:"size:64"`
	OriginX    float64
	OriginY    float64
	OriginZ    float64
	DirectionX float64
	DirectionY float64
	DirectionZ float64
	Velocity   float64
	Spread     float64
	SpreadSeed uint64
	Pellets    int
}

// Hit is a projectile striking a surface or target
type Hit struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           string `gorm:"size:36;index"`
	Tick            uint64 `gorm:"index"`
	ProjectileIndex uint32
	ProjectileGen   uint32
	Target          uint64 `gorm:"index"`
	X, Y, Z         float64
	Damage          float64
	Penetrated      bool
	Ricocheted      bool
}

// Explosion is a detonation with the effects it had on nearby bodies
type Explosion struct {
	ID      uint   `gorm:"primaryKey"`
	RunID   string `gorm:"size:36;index"`
	Tick    uint64 `gorm:"index"`
	Type    string `gorm:"size:32"`
	Source  uint64
	X, Y, Z float64
	Radius  float64
	Damage  float64
	Effects datatypes.JSON
}

// Event is any other simulation event, with its detail kept as JSON
type Event struct {
	ID     uint   `gorm:"primaryKey"`
	RunID  string `gorm:"size:36;index"`
	Tick   uint64 `gorm:"index"`
	Kind   string `gorm:"size:32;index"`
	Detail datatypes.JSON
}

// Models lists every journal table for migration
var Models = []any{&Run{}, &Fire{}, &Hit{}, &Explosion{}, &Event{}}

const (
	KindPenetration = "penetration"
	KindRicochet    = "ricochet"
	KindRemoval     = "removal"
)
