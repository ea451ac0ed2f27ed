package config

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// Bundle holds all loaded configurations
type Bundle struct {
	Simulation *SimulationConfig
	Arsenal    *Arsenal
}

// Loader loads configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// read parses path through a fresh viper instance seeded with defaults
func (l *Loader) read(path string, defaults map[string]any, out any) error {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigType("json")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// LoadSimulation loads simulation.json
func (l *Loader) LoadSimulation() (*SimulationConfig, error) {
	var cfg SimulationConfig
	if err := l.read("simulation.json", simulationDefaults, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate simulation.json: %w", err)
	}
	return &cfg, nil
}

// LoadArsenal loads arsenal.json and resolves it over the built-in presets
func (l *Loader) LoadArsenal() (*Arsenal, error) {
	var cfg ArsenalConfig
	if err := l.read("arsenal.json", nil, &cfg); err != nil {
		return nil, err
	}
	arsenal, err := cfg.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve arsenal.json: %w", err)
	}
	return arsenal, nil
}

// LoadRange loads a range JSON file
func (l *Loader) LoadRange(name string) (*RangeConfig, error) {
	var cfg RangeConfig
	if err := l.read("ranges/"+name+".json", nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load range %s: %w", name, err)
	}
	return &cfg, nil
}

// LoadAll loads all base configurations (simulation, arsenal)
func (l *Loader) LoadAll() (*Bundle, error) {
	sim, err := l.LoadSimulation()
	if err != nil {
		return nil, err
	}

	arsenal, err := l.LoadArsenal()
	if err != nil {
		return nil, err
	}

	return &Bundle{
		Simulation: sim,
		Arsenal:    arsenal,
	}, nil
}
