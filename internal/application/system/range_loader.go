package system

import (
	"fmt"

	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/infrastructure/config"
)

// LoadRange converts a RangeConfig into a Range entity. Materials resolve against
// the arsenal; entity IDs must be non-zero and unique across boxes, targets and shooters.
func LoadRange(cfg *config.RangeConfig, arsenal *config.Arsenal) (*entity.Range, error) {
	seen := make(map[entity.EntityID]bool)
	claim := func(raw uint64, kind string) (entity.EntityID, error) {
		id := entity.EntityID(raw)
		if id == entity.NoEntity {
			return 0, fmt.Errorf("failed to load range %s: %s with zero id", cfg.ID, kind)
		}
		if seen[id] {
			return 0, fmt.Errorf("failed to load range %s: duplicate id %d", cfg.ID, id)
		}
		seen[id] = true
		return id, nil
	}
	material := func(name string) error {
		if _, ok := arsenal.Materials[name]; !ok {
			return fmt.Errorf("failed to load range %s: %w: material %q", cfg.ID, config.ErrUnknownPreset, name)
		}
		return nil
	}

	boxes := make([]entity.Box, 0, len(cfg.Boxes))
	for _, bc := range cfg.Boxes {
		id, err := claim(bc.ID, "box")
		if err != nil {
			return nil, err
		}
		if err := material(bc.Material); err != nil {
			return nil, err
		}
		lo, hi := bc.Min.Vec(), bc.Max.Vec()
		for axis := 0; axis < 3; axis++ {
			if lo[axis] > hi[axis] {
				return nil, fmt.Errorf("failed to load range %s: box %d is inverted", cfg.ID, id)
			}
		}
		boxes = append(boxes, entity.Box{ID: id, Min: lo, Max: hi, Material: bc.Material})
	}

	targets := make([]*entity.Target, 0, len(cfg.Targets))
	for _, tc := range cfg.Targets {
		id, err := claim(tc.ID, "target")
		if err != nil {
			return nil, err
		}
		if err := material(tc.Material); err != nil {
			return nil, err
		}
		if tc.Radius <= 0 {
			return nil, fmt.Errorf("failed to load range %s: target %d needs a positive radius", cfg.ID, id)
		}
		t := entity.NewTarget(id, tc.Position.Vec(), tc.Radius, tc.Mass, tc.Health, tc.Material)
		t.Velocity = tc.Velocity.Vec()
		targets = append(targets, t)
	}

	r := entity.NewRange(cfg.ID, cfg.Name, boxes, targets, arsenal.Materials)

	for _, sc := range cfg.Shooters {
		id, err := claim(sc.ID, "shooter")
		if err != nil {
			return nil, err
		}
		if _, ok := arsenal.Weapons[sc.Weapon]; !ok {
			return nil, fmt.Errorf("failed to load range %s: %w: weapon %q", cfg.ID, config.ErrUnknownPreset, sc.Weapon)
		}
		r.Shooters = append(r.Shooters, entity.Shooter{
			ID:       id,
			Position: sc.Position.Vec(),
			Aim:      entity.NormalizeOrZero(sc.Aim.Vec()),
			Weapon:   sc.Weapon,
		})
	}

	return r, nil
}
