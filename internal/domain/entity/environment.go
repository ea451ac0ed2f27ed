package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EarthAngularVelocity is the sidereal rotation rate of the Earth (rad/s)
const EarthAngularVelocity = 7.2921159e-5

// Environment holds process-wide physical constants. The core only reads it.
type Environment struct {
	Gravity     mgl64.Vec3 // m/s²
	AirDensity  float64    // kg/m³ at sea level
	Wind        mgl64.Vec3 // m/s
	Temperature float64    // °C
	Altitude    float64    // m
	Latitude    float64    // degrees
}

// DefaultEnvironment returns sea-level standard conditions at 45° latitude
func DefaultEnvironment() Environment {
	return Environment{
		Gravity:     mgl64.Vec3{0, -9.81, 0},
		AirDensity:  1.225,
		Temperature: 20,
		Latitude:    45,
	}
}

// EffectiveAirDensity applies the barometric and temperature approximation:
// density * exp(-altitude/8500) * (288.15/(temperature+273.15))
func (e Environment) EffectiveAirDensity() float64 {
	altitudeFactor := math.Exp(-e.Altitude / 8500.0)
	temperatureFactor := 288.15 / (e.Temperature + 273.15)
	return e.AirDensity * altitudeFactor * temperatureFactor
}

// SpeedOfSound returns the speed of sound in dry air at the environment temperature (m/s)
func (e Environment) SpeedOfSound() float64 {
	return 331.3 * math.Sqrt(1+e.Temperature/273.15)
}

// EarthRotation returns the Earth's angular velocity vector in the local frame
// (Y up, Z north) for Coriolis corrections.
func (e Environment) EarthRotation() mgl64.Vec3 {
	lat := mgl64.DegToRad(e.Latitude)
	return mgl64.Vec3{
		0,
		EarthAngularVelocity * math.Sin(lat),
		EarthAngularVelocity * math.Cos(lat),
	}
}

// PhysicsModel selects the integration algorithm
type PhysicsModel int

const (
	ModelEuler PhysicsModel = iota
	ModelRK4
)

// String returns the string representation of the physics model
func (m PhysicsModel) String() string {
	switch m {
	case ModelEuler:
		return "Euler"
	case ModelRK4:
		return "RK4"
	default:
		return "Unknown"
	}
}

// Config is the per-tick simulation configuration. It must not change mid-step.
type Config struct {
	UseRK4                bool
	MaxProjectileLifetime float64 // s
	MaxProjectileDistance float64 // m
	EnablePenetration     bool
	EnableRicochet        bool
	MinProjectileSpeed    float64 // m/s
	DebugDraw             bool    // presentation only

	// Range damage falloff for kinetic hits. Disabled when FalloffEnd <= FalloffStart.
	DamageFalloffStart float64 // m
	DamageFalloffEnd   float64 // m
}

// DefaultConfig returns the default simulation configuration
func DefaultConfig() Config {
	return Config{
		UseRK4:                true,
		MaxProjectileLifetime: 10,
		MaxProjectileDistance: 2000,
		EnablePenetration:     true,
		EnableRicochet:        true,
		MinProjectileSpeed:    20,
	}
}

// Model returns the integration algorithm selected by UseRK4
func (c Config) Model() PhysicsModel {
	if c.UseRK4 {
		return ModelRK4
	}
	return ModelEuler
}
