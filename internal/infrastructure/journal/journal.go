package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/younwookim/ballistics/internal/application/system"
	"github.com/younwookim/ballistics/internal/domain/entity"
)

// ErrDisabled is returned by Open when the journal driver is "none"
var ErrDisabled = errors.New("journal disabled")

// Options selects the journal database
type Options struct {
	Driver    string // sqlite, postgres or none
	DSN       string
	BatchSize int
}

// Open connects to the journal database and migrates its schema
func Open(opts Options, log zerolog.Logger) (*gorm.DB, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        opts.BatchSize,
		Logger:                 logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch opts.Driver {
	case "", "sqlite":
		dsn := opts.DSN
		if dsn == "" {
			dsn = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
		if err == nil {
			// SQLite serialises writers; a single connection also keeps
			// in-memory databases from splitting per connection.
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				sqlDB.SetMaxOpenConns(1)
			}
		}
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  opts.DSN,
			PreferSimpleProtocol: true,
		}), cfg)
	case "none":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown journal driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s journal: %w", opts.Driver, err)
	}

	if err := db.AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	log.Debug().Str("driver", db.Dialector.Name()).Msg("journal ready")
	return db, nil
}

// RunInfo describes a run when it begins
type RunInfo struct {
	RangeID  string
	Seed     uint64
	TickRate int
}

// Journal writes drained simulation events for one run
type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
	run Run

	fires      []Fire
	hits       []Hit
	explosions []Explosion
	events     []Event
	batch      int
}

// New creates a journal over db. Rows are buffered until batch rows are
// pending or Flush is called.
func New(db *gorm.DB, batch int, log zerolog.Logger) *Journal {
	if batch <= 0 {
		batch = 500
	}
	return &Journal{db: db, batch: batch, log: log}
}

// Begin starts a new run and returns its ID
func (j *Journal) Begin(ctx context.Context, info RunInfo) (string, error) {
	j.run = Run{
		ID:        uuid.NewString(),
		RangeID:   info.RangeID,
		Seed:      info.Seed,
		TickRate:  info.TickRate,
		StartedAt: time.Now().UTC(),
	}
	if err := j.db.WithContext(ctx).Create(&j.run).Error; err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	j.log.Info().Str("run", j.run.ID).Str("range", info.RangeID).Msg("journal run started")
	return j.run.ID, nil
}

// RunID returns the current run ID
func (j *Journal) RunID() string { return j.run.ID }

// Record buffers the events drained after tick
func (j *Journal) Record(ctx context.Context, tick uint64, ev system.Events) error {
	runID := j.run.ID

	for _, f := range ev.Fires {
		j.fires = append(j.fires, Fire{
			RunID:      runID,
			Tick:       tick,
			Shooter:    uint64(f.Shooter),
			Weapon:     f.WeaponType,
			OriginX:    f.Origin.X(),
			OriginY:    f.Origin.Y(),
			OriginZ:    f.Origin.Z(),
			DirectionX: f.Direction.X(),
			DirectionY: f.Direction.Y(),
			DirectionZ: f.Direction.Z(),
			Velocity:   f.MuzzleVelocity,
			Spread:     f.SpreadAngle,
			SpreadSeed: f.SpreadSeed,
			Pellets:    f.ProjectileCount,
		})
	}

	for _, h := range ev.Hits {
		j.hits = append(j.hits, Hit{
			RunID:           runID,
			Tick:            tick,
			ProjectileIndex: h.Projectile.Index,
			ProjectileGen:   h.Projectile.Generation,
			Target:          uint64(h.Target),
			X:               h.ImpactPoint.X(),
			Y:               h.ImpactPoint.Y(),
			Z:               h.ImpactPoint.Z(),
			Damage:          h.Damage,
			Penetrated:      h.Penetrated,
			Ricocheted:      h.Ricocheted,
		})
	}

	effects := make(map[int][]effectDetail, len(ev.Explosions))
	for _, e := range ev.Effects {
		effects[e.Explosion] = append(effects[e.Explosion], effectDetail{
			Target:   uint64(e.Target),
			Distance: e.Distance,
			Damage:   e.Damage,
			Impulse:  e.Impulse,
		})
	}
	for i, x := range ev.Explosions {
		detail, err := json.Marshal(effects[i])
		if err != nil {
			return fmt.Errorf("failed to encode explosion effects: %w", err)
		}
		j.explosions = append(j.explosions, Explosion{
			RunID:   runID,
			Tick:    tick,
			Type:    x.Type.String(),
			Source:  uint64(x.Source),
			X:       x.Center.X(),
			Y:       x.Center.Y(),
			Z:       x.Center.Z(),
			Radius:  x.Radius,
			Damage:  x.Damage,
			Effects: datatypes.JSON(detail),
		})
	}

	for _, p := range ev.Penetrations {
		if err := j.event(tick, KindPenetration, p); err != nil {
			return err
		}
	}
	for _, r := range ev.Ricochets {
		if err := j.event(tick, KindRicochet, r); err != nil {
			return err
		}
	}
	for _, r := range ev.Removed {
		if err := j.event(tick, KindRemoval, removalDetail{
			Index:      r.Handle.Index,
			Generation: r.Handle.Generation,
			Reason:     r.Reason.String(),
			Position:   r.Position,
		}); err != nil {
			return err
		}
	}

	if j.pending() >= j.batch {
		return j.Flush(ctx)
	}
	return nil
}

type effectDetail struct {
	Target   uint64     `json:"target"`
	Distance float64    `json:"distance"`
	Damage   float64    `json:"damage"`
	Impulse  [3]float64 `json:"impulse"`
}

type removalDetail struct {
	Index      uint32     `json:"index"`
	Generation uint32     `json:"generation"`
	Reason     string     `json:"reason"`
	Position   [3]float64 `json:"position"`
}

func (j *Journal) event(tick uint64, kind string, detail any) error {
	data, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", kind, err)
	}
	j.events = append(j.events, Event{RunID: j.run.ID, Tick: tick, Kind: kind, Detail: datatypes.JSON(data)})
	return nil
}

func (j *Journal) pending() int {
	return len(j.fires) + len(j.hits) + len(j.explosions) + len(j.events)
}

// Flush writes every buffered row
func (j *Journal) Flush(ctx context.Context) error {
	if j.pending() == 0 {
		return nil
	}
	db := j.db.WithContext(ctx)
	err := db.Transaction(func(tx *gorm.DB) error {
		if len(j.fires) > 0 {
			if err := tx.CreateInBatches(j.fires, j.batch).Error; err != nil {
				return fmt.Errorf("fires: %w", err)
			}
		}
		if len(j.hits) > 0 {
			if err := tx.CreateInBatches(j.hits, j.batch).Error; err != nil {
				return fmt.Errorf("hits: %w", err)
			}
		}
		if len(j.explosions) > 0 {
			if err := tx.CreateInBatches(j.explosions, j.batch).Error; err != nil {
				return fmt.Errorf("explosions: %w", err)
			}
		}
		if len(j.events) > 0 {
			if err := tx.CreateInBatches(j.events, j.batch).Error; err != nil {
				return fmt.Errorf("events: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to flush journal: %w", err)
	}

	j.log.Debug().
		Int("fires", len(j.fires)).
		Int("hits", len(j.hits)).
		Int("explosions", len(j.explosions)).
		Int("events", len(j.events)).
		Msg("journal flushed")
	j.fires, j.hits, j.explosions, j.events = j.fires[:0], j.hits[:0], j.explosions[:0], j.events[:0]
	return nil
}

// Finish flushes pending rows and stamps the run with its tick count
func (j *Journal) Finish(ctx context.Context, ticks uint64) error {
	if err := j.Flush(ctx); err != nil {
		return err
	}
	now := time.Now().UTC()
	err := j.db.WithContext(ctx).Model(&Run{}).Where("id = ?", j.run.ID).
		Updates(map[string]any{"ticks": ticks, "finished_at": now}).Error
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	j.run.Ticks, j.run.FinishedAt = ticks, &now
	return nil
}

// Fires returns the recorded discharges of a run in tick order, rebuilt as FireEvents
func Fires(ctx context.Context, db *gorm.DB, runID string) ([]uint64, []entity.FireEvent, error) {
	var rows []Fire
	if err := db.WithContext(ctx).Where("run_id = ?", runID).Order("tick, id").Find(&rows).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load fires: %w", err)
	}
	ticks := make([]uint64, len(rows))
	events := make([]entity.FireEvent, len(rows))
	for i, r := range rows {
		ticks[i] = r.Tick
		events[i] = entity.FireEvent{
			Origin:          [3]float64{r.OriginX, r.OriginY, r.OriginZ},
			Direction:       [3]float64{r.DirectionX, r.DirectionY, r.DirectionZ},
			MuzzleVelocity:  r.Velocity,
			Shooter:         entity.EntityID(r.Shooter),
			SpreadSeed:      r.SpreadSeed,
			WeaponType:      r.Weapon,
			ProjectileCount: r.Pellets,
			SpreadAngle:     r.Spread,
		}
	}
	return ticks, events, nil
}

// Summary counts the journal rows of a run
type Summary struct {
	Fires        int64
	Hits         int64
	Explosions   int64
	Penetrations int64
	Ricochets    int64
	Removals     int64
	Damage       float64
}

// Summarize aggregates a run
func Summarize(ctx context.Context, db *gorm.DB, runID string) (Summary, error) {
	var s Summary
	db = db.WithContext(ctx)
	if err := db.Model(&Fire{}).Where("run_id = ?", runID).Count(&s.Fires).Error; err != nil {
		return s, fmt.Errorf("failed to count fires: %w", err)
	}
	if err := db.Model(&Hit{}).Where("run_id = ?", runID).Count(&s.Hits).Error; err != nil {
		return s, fmt.Errorf("failed to count hits: %w", err)
	}
	if err := db.Model(&Explosion{}).Where("run_id = ?", runID).Count(&s.Explosions).Error; err != nil {
		return s, fmt.Errorf("failed to count explosions: %w", err)
	}

	var kinds []struct {
		Kind  string
		Count int64
	}
	err := db.Model(&Event{}).Select("kind, count(*) as count").
		Where("run_id = ?", runID).Group("kind").Scan(&kinds).Error
	if err != nil {
		return s, fmt.Errorf("failed to count events: %w", err)
	}
	for _, k := range kinds {
		switch k.Kind {
		case KindPenetration:
			s.Penetrations = k.Count
		case KindRicochet:
			s.Ricochets = k.Count
		case KindRemoval:
			s.Removals = k.Count
		}
	}

	var damage struct{ Total float64 }
	err = db.Model(&Hit{}).Select("coalesce(sum(damage), 0) as total").
		Where("run_id = ?", runID).Scan(&damage).Error
	if err != nil {
		return s, fmt.Errorf("failed to sum damage: %w", err)
	}
	s.Damage = damage.Total
	return s, nil
}
