package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

const (
	// penetrationEnergyScale converts kinetic energy (J) into penetration units
	penetrationEnergyScale = 0.1
	// maxRicochetLoss caps the fraction of speed lost to a ricochet
	maxRicochetLoss = 0.8
	// minExitFraction keeps a penetrating projectile from stopping inside the material
	minExitFraction = 0.1
	// minCrossingCos caps the path length through material at grazing angles
	minCrossingCos = 0.1
)

// ImpactAngle returns the angle between the flight direction and the inward
// surface normal: 0 for a head-on hit, approaching π/2 for a grazing one.
func ImpactAngle(velocity, normal mgl64.Vec3) float64 {
	dir := entity.NormalizeOrZero(velocity)
	cos := entity.Clamp(dir.Dot(normal.Mul(-1)), -1, 1)
	return math.Acos(cos)
}

// ShouldRicochet reports whether an impact at angle is shallow enough to deflect
func ShouldRicochet(angle float64, mat entity.SurfaceMaterial) bool {
	return angle > mat.RicochetAngle
}

// Reflect mirrors v about the plane with unit normal n
func Reflect(v, n mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * v.Dot(n)))
}

// RicochetSpeed returns the speed retained after deflecting off mat
func RicochetSpeed(speed float64, mat entity.SurfaceMaterial) float64 {
	return speed * (1 - math.Min(mat.PenetrationLoss/200, maxRicochetLoss))
}

// PenetrationPower returns the energy available to cross a surface hit at angle
func PenetrationPower(p *entity.Projectile, angle float64) float64 {
	speed := p.Speed()
	kinetic := 0.5 * p.Mass * speed * speed
	return kinetic * penetrationEnergyScale * math.Abs(math.Cos(angle))
}

// CanPenetrate reports whether p carries enough energy and budget to pass through mat
func CanPenetrate(p *entity.Projectile, mat entity.SurfaceMaterial, angle float64) bool {
	if p.PenetrationPower <= 0 {
		return false
	}
	return PenetrationPower(p, angle) > mat.PenetrationLoss
}

// PenetrationTravel returns the path length through mat at the given impact angle
func PenetrationTravel(mat entity.SurfaceMaterial, angle float64) float64 {
	return mat.Thickness / math.Max(math.Abs(math.Cos(angle)), minCrossingCos)
}

// RemainingPower returns the penetration budget left after crossing travel metres of mat
func RemainingPower(power float64, mat entity.SurfaceMaterial, travel float64) float64 {
	return math.Max(power-mat.PenetrationLoss*(travel/mat.Thickness), 0)
}

// ExitSpeed returns the speed after crossing travel metres of mat
func ExitSpeed(speed float64, mat entity.SurfaceMaterial, travel float64) float64 {
	crossed := math.Min(travel/mat.Thickness, 1)
	return speed * math.Max(1-mat.PenetrationLoss/100*crossed, minExitFraction)
}
