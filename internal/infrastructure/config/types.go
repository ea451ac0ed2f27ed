package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

var (
	// ErrInvalidEnvironment is returned for physically meaningless environment values
	ErrInvalidEnvironment = errors.New("invalid environment")
	// ErrUnknownPreset is returned when a name does not resolve to a preset
	ErrUnknownPreset = errors.New("unknown preset")
)

// SimulationConfig is the root config for simulation.json
type SimulationConfig struct {
	TickRate    int               `mapstructure:"tickRate"`
	Workers     int               `mapstructure:"workers"`
	Seed        uint64            `mapstructure:"seed"`
	Ticks       int               `mapstructure:"ticks"`
	Range       string            `mapstructure:"range"`
	Environment EnvironmentConfig `mapstructure:"environment"`
	Simulation  BehaviorConfig    `mapstructure:"simulation"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Journal     JournalConfig     `mapstructure:"journal"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Display     DisplayConfig     `mapstructure:"display"`
}

// Vec3Config is a vector written as an object in JSON
type Vec3Config struct {
	X float64 `mapstructure:"x"`
	Y float64 `mapstructure:"y"`
	Z float64 `mapstructure:"z"`
}

// Vec returns the mgl64 vector
func (v Vec3Config) Vec() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type EnvironmentConfig struct {
	Gravity     Vec3Config `mapstructure:"gravity"`
	AirDensity  float64    `mapstructure:"airDensity"`
	Wind        Vec3Config `mapstructure:"wind"`
	Temperature float64    `mapstructure:"temperature"` // °C
	Altitude    float64    `mapstructure:"altitude"`    // m
	Latitude    float64    `mapstructure:"latitude"`    // degrees
}

type BehaviorConfig struct {
	UseRK4                bool    `mapstructure:"useRK4"`
	MaxProjectileLifetime float64 `mapstructure:"maxProjectileLifetime"`
	MaxProjectileDistance float64 `mapstructure:"maxProjectileDistance"`
	EnablePenetration     bool    `mapstructure:"enablePenetration"`
	EnableRicochet        bool    `mapstructure:"enableRicochet"`
	MinProjectileSpeed    float64 `mapstructure:"minProjectileSpeed"`
	DebugDraw             bool    `mapstructure:"debugDraw"`
	DamageFalloffStart    float64 `mapstructure:"damageFalloffStart"`
	DamageFalloffEnd      float64 `mapstructure:"damageFalloffEnd"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type JournalConfig struct {
	Driver    string `mapstructure:"driver"` // sqlite, postgres or none
	DSN       string `mapstructure:"dsn"`
	BatchSize int    `mapstructure:"batchSize"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type DisplayConfig struct {
	ScreenWidth    int     `mapstructure:"screenWidth"`
	ScreenHeight   int     `mapstructure:"screenHeight"`
	Scale          int     `mapstructure:"scale"`
	PixelsPerMeter float64 `mapstructure:"pixelsPerMeter"`
}

// simulationDefaults mirrors entity.DefaultEnvironment and entity.DefaultConfig
var simulationDefaults = map[string]any{
	"tickRate": 60,
	"workers":  0,
	"seed":     1,
	"ticks":    600,
	"range":    "proving-ground",

	"environment.gravity.x":   0.0,
	"environment.gravity.y":   -9.81,
	"environment.gravity.z":   0.0,
	"environment.airDensity":  1.225,
	"environment.wind.x":      0.0,
	"environment.wind.y":      0.0,
	"environment.wind.z":      0.0,
	"environment.temperature": 20.0,
	"environment.altitude":    0.0,
	"environment.latitude":    45.0,

	"simulation.useRK4":                true,
	"simulation.maxProjectileLifetime": 10.0,
	"simulation.maxProjectileDistance": 2000.0,
	"simulation.enablePenetration":     true,
	"simulation.enableRicochet":        true,
	"simulation.minProjectileSpeed":    20.0,
	"simulation.debugDraw":             false,
	"simulation.damageFalloffStart":    0.0,
	"simulation.damageFalloffEnd":      0.0,

	"logging.level":  "info",
	"logging.pretty": true,

	"journal.driver":    "sqlite",
	"journal.dsn":       "file::memory:?cache=shared",
	"journal.batchSize": 500,

	"metrics.enabled": true,

	"display.screenWidth":    640,
	"display.screenHeight":   360,
	"display.scale":          2,
	"display.pixelsPerMeter": 2.0,
}

// Validate rejects values the simulation cannot run with
func (c *SimulationConfig) Validate() error {
	env := c.Environment
	if env.AirDensity < 0 {
		return fmt.Errorf("%w: negative air density %v", ErrInvalidEnvironment, env.AirDensity)
	}
	if env.Temperature <= -273.15 {
		return fmt.Errorf("%w: temperature %v below absolute zero", ErrInvalidEnvironment, env.Temperature)
	}
	if env.Latitude < -90 || env.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidEnvironment, env.Latitude)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("invalid tick rate %d", c.TickRate)
	}
	return nil
}

// Dt returns the fixed timestep in seconds
func (c *SimulationConfig) Dt() float64 {
	return 1.0 / float64(c.TickRate)
}

// ToEnvironment converts to the simulation environment
func (c *SimulationConfig) ToEnvironment() entity.Environment {
	e := c.Environment
	return entity.Environment{
		Gravity:     e.Gravity.Vec(),
		AirDensity:  e.AirDensity,
		Wind:        e.Wind.Vec(),
		Temperature: e.Temperature,
		Altitude:    e.Altitude,
		Latitude:    e.Latitude,
	}
}

// ToConfig converts to the simulation behaviour switches
func (c *SimulationConfig) ToConfig() entity.Config {
	b := c.Simulation
	return entity.Config{
		UseRK4:                b.UseRK4,
		MaxProjectileLifetime: b.MaxProjectileLifetime,
		MaxProjectileDistance: b.MaxProjectileDistance,
		EnablePenetration:     b.EnablePenetration,
		EnableRicochet:        b.EnableRicochet,
		MinProjectileSpeed:    b.MinProjectileSpeed,
		DebugDraw:             b.DebugDraw,
		DamageFalloffStart:    b.DamageFalloffStart,
		DamageFalloffEnd:      b.DamageFalloffEnd,
	}
}
