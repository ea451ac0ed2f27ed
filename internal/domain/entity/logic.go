package entity

// Logic is the per-projectile behaviour. Exactly one variant is active and the
// variant never changes after spawn; only TimedLogic.Elapsed mutates.
type Logic interface {
	isLogic()
}

// ImpactLogic is resolved entirely by collision
type ImpactLogic struct{}

func (ImpactLogic) isLogic() {}

// TimedLogic detonates once Elapsed reaches Fuse
type TimedLogic struct {
	Fuse    float64 // s
	Elapsed float64 // s
}

func (TimedLogic) isLogic() {}

// Ready reports whether the fuse has burned down
func (l TimedLogic) Ready() bool {
	return l.Elapsed >= l.Fuse
}

// ProximityLogic detonates when any target enters Range
type ProximityLogic struct {
	Range float64 // m
}

func (ProximityLogic) isLogic() {}

// HitscanLogic resolves with a single ray of length Range on its first tick
type HitscanLogic struct {
	Range float64 // m
}

func (HitscanLogic) isLogic() {}

// StickyLogic embeds at the impact point instead of despawning
type StickyLogic struct{}

func (StickyLogic) isLogic() {}

// LogicName returns a short name for a logic variant
func LogicName(l Logic) string {
	switch l.(type) {
	case ImpactLogic:
		return "impact"
	case TimedLogic:
		return "timed"
	case ProximityLogic:
		return "proximity"
	case HitscanLogic:
		return "hitscan"
	case StickyLogic:
		return "sticky"
	default:
		return "none"
	}
}
