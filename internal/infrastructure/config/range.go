package config

// RangeConfig is the root config for ranges/<name>.json
type RangeConfig struct {
	ID       string           `mapstructure:"id"`
	Name     string           `mapstructure:"name"`
	Boxes    []BoxConfig      `mapstructure:"boxes"`
	Targets  []TargetConfig   `mapstructure:"targets"`
	Shooters []ShooterConfig  `mapstructure:"shooters"`
	Scenario []ScenarioAction `mapstructure:"scenario"`
}

type BoxConfig struct {
	ID       uint64     `mapstructure:"id"`
	Min      Vec3Config `mapstructure:"min"`
	Max      Vec3Config `mapstructure:"max"`
	Material string     `mapstructure:"material"`
}

type TargetConfig struct {
	ID       uint64     `mapstructure:"id"`
	Position Vec3Config `mapstructure:"position"`
	Velocity Vec3Config `mapstructure:"velocity"`
	Radius   float64    `mapstructure:"radius"`
	Mass     float64    `mapstructure:"mass"`
	Health   float64    `mapstructure:"health"`
	Material string     `mapstructure:"material"`
}

type ShooterConfig struct {
	ID       uint64     `mapstructure:"id"`
	Position Vec3Config `mapstructure:"position"`
	Aim      Vec3Config `mapstructure:"aim"`
	Weapon   string     `mapstructure:"weapon"`
}

// ScenarioAction is a scripted shot or throw. Exactly one of Weapon and Grenade is set.
type ScenarioAction struct {
	Tick    int         `mapstructure:"tick"`
	Shooter uint64      `mapstructure:"shooter"`
	Weapon  string      `mapstructure:"weapon"`
	Grenade string      `mapstructure:"grenade"`
	Target  uint64      `mapstructure:"target"` // optional guidance target
	Aim     *Vec3Config `mapstructure:"aim"`    // overrides the shooter's aim
	Aiming  bool        `mapstructure:"aiming"`
	Moving  bool        `mapstructure:"moving"`
}
