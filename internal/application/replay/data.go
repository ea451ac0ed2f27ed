package replay

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// Version is written into every recording
const Version = "2.0"

// Fire is a recorded discharge
type Fire struct {
	Origin    [3]float64 `json:"o"`
	Direction [3]float64 `json:"d"`
	Velocity  float64    `json:"v"`
	Shooter   uint64     `json:"s"`
	Seed      uint64     `json:"seed"`
	Spread    float64    `json:"sp,omitempty"`
	Pellets   int        `json:"n,omitempty"`
	Weapon    string     `json:"w,omitempty"`
	Time      float64    `json:"ts"`
	Target    uint64     `json:"tg,omitempty"` // guidance target
}

// Throw is a recorded grenade throw
type Throw struct {
	Grenade   string     `json:"g"`
	Origin    [3]float64 `json:"o"`
	Direction [3]float64 `json:"d"`
	Owner     uint64     `json:"s"`
}

// Frame holds the inputs applied before one tick. Ticks without input have no frame.
type Frame struct {
	T      uint64  `json:"t"`
	Fires  []Fire  `json:"fires,omitempty"`
	Throws []Throw `json:"throws,omitempty"`
}

// Data contains all data needed to replay a range run
type Data struct {
	Version   string  `json:"version"`
	Seed      uint64  `json:"seed"`
	Range     string  `json:"range"`
	TickRate  int     `json:"tickRate"`
	StartTime string  `json:"startTime"`
	Frames    []Frame `json:"frames"`
}

// FromFireEvent records ev with an optional guidance target
func FromFireEvent(ev entity.FireEvent, target entity.EntityID) Fire {
	return Fire{
		Origin:    ev.Origin,
		Direction: ev.Direction,
		Velocity:  ev.MuzzleVelocity,
		Shooter:   uint64(ev.Shooter),
		Seed:      ev.SpreadSeed,
		Spread:    ev.SpreadAngle,
		Pellets:   ev.ProjectileCount,
		Weapon:    ev.WeaponType,
		Time:      ev.Timestamp,
		Target:    uint64(target),
	}
}

// Event rebuilds the FireEvent
func (f Fire) Event() entity.FireEvent {
	return entity.FireEvent{
		Origin:          f.Origin,
		Direction:       f.Direction,
		MuzzleVelocity:  f.Velocity,
		Shooter:         entity.EntityID(f.Shooter),
		SpreadSeed:      f.Seed,
		WeaponType:      f.Weapon,
		Timestamp:       f.Time,
		ProjectileCount: f.Pellets,
		SpreadAngle:     f.Spread,
	}
}

// NewThrow records a grenade throw
func NewThrow(grenade string, origin, direction mgl64.Vec3, owner entity.EntityID) Throw {
	return Throw{Grenade: grenade, Origin: origin, Direction: direction, Owner: uint64(owner)}
}
