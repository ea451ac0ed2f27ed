package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/younwookim/ballistics/internal/application/game"
	"github.com/younwookim/ballistics/internal/application/replay"
	"github.com/younwookim/ballistics/internal/application/scene/viewer"
	"github.com/younwookim/ballistics/internal/application/session"
	"github.com/younwookim/ballistics/internal/application/system"
	"github.com/younwookim/ballistics/internal/infrastructure/config"
	"github.com/younwookim/ballistics/internal/infrastructure/journal"
	"github.com/younwookim/ballistics/internal/infrastructure/logging"
	"github.com/younwookim/ballistics/internal/infrastructure/telemetry"
)

type options struct {
	headless  bool
	configDir string
	rangeName string
	ticks     int
	workers   int
	record    string
	replay    string
	journal   string
	dsn       string
	logLevel  string
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fl := flag.NewFlagSet("range", flag.ContinueOnError)
	fl.SetOutput(out)
	fl.BoolVar(&o.headless, "headless", false, "Run the scenario without a window and log a summary")
	fl.StringVar(&o.configDir, "config", "", "Config directory (defaults to the embedded configs)")
	fl.StringVar(&o.rangeName, "range", "", "Range to load (defaults to simulation.json range)")
	fl.IntVar(&o.ticks, "ticks", 0, "Ticks to run (0 uses simulation.json)")
	fl.IntVar(&o.workers, "workers", -1, "Parallel workers (-1 uses simulation.json, 0 uses GOMAXPROCS)")
	fl.StringVar(&o.record, "record", "", "Record fires and throws to file (\"auto\" picks a name)")
	fl.StringVar(&o.replay, "replay", "", "Replay a recording instead of the range scenario")
	fl.StringVar(&o.journal, "journal", "", "Journal driver: sqlite, postgres or none")
	fl.StringVar(&o.dsn, "dsn", "", "Journal DSN")
	fl.StringVar(&o.logLevel, "log", "", "Log level")
	if err := fl.Parse(args); err != nil {
		return options{}, err
	}
	if o.record != "" && o.replay != "" {
		return options{}, errors.New("-record and -replay are exclusive")
	}
	return o, nil
}

// runner owns everything one process run needs and builds sessions on demand
type runner struct {
	opts    options
	sim     *config.SimulationConfig
	arsenal *config.Arsenal
	rng     *config.RangeConfig
	data    *replay.Data
	log     zerolog.Logger
	stats   system.StatsRecorder

	db       *gorm.DB
	journal  *journal.Journal
	recorder *replay.Recorder
	current  *session.Session
}

func newRunner(opts options, fsys fs.FS, logOut io.Writer) (*runner, error) {
	loader := config.NewFSLoader(fsys, "configs")
	if opts.configDir != "" {
		loader = config.NewLoader(opts.configDir)
	}
	bundle, err := loader.LoadAll()
	if err != nil {
		return nil, err
	}
	sim := bundle.Simulation
	if opts.ticks > 0 {
		sim.Ticks = opts.ticks
	}
	if opts.workers >= 0 {
		sim.Workers = opts.workers
	}
	if opts.logLevel != "" {
		sim.Logging.Level = opts.logLevel
	}

	r := &runner{
		opts:    opts,
		sim:     sim,
		arsenal: bundle.Arsenal,
		log:     logging.New(logging.Options{Level: sim.Logging.Level, Pretty: sim.Logging.Pretty, Writer: logOut}),
	}

	rangeName := sim.Range
	if opts.rangeName != "" {
		rangeName = opts.rangeName
	}
	if opts.replay != "" {
		data, err := replay.LoadReplay(opts.replay)
		if err != nil {
			return nil, fmt.Errorf("failed to load replay: %w", err)
		}
		r.data = data
		rangeName = data.Range
		if data.TickRate > 0 {
			sim.TickRate = data.TickRate
		}
		r.log.Info().Str("file", opts.replay).Int("frames", len(data.Frames)).Msg("replaying")
	}
	if r.rng, err = loader.LoadRange(rangeName); err != nil {
		return nil, err
	}

	if sim.Metrics.Enabled {
		rec, err := telemetry.NewRecorder(telemetry.Meter())
		if err != nil {
			return nil, err
		}
		r.stats = rec
	}

	jopts := journal.Options{Driver: sim.Journal.Driver, DSN: sim.Journal.DSN, BatchSize: sim.Journal.BatchSize}
	if opts.journal != "" {
		jopts.Driver = opts.journal
	}
	if opts.dsn != "" {
		jopts.DSN = opts.dsn
	}
	db, err := journal.Open(jopts, r.log)
	switch {
	case errors.Is(err, journal.ErrDisabled):
	case err != nil:
		return nil, err
	default:
		r.db = db
		r.journal = journal.New(db, jopts.BatchSize, r.log)
	}
	return r, nil
}

// newSession finishes the current session, if any, and starts a fresh one
func (r *runner) newSession(ctx context.Context) (*session.Session, error) {
	if err := r.finish(ctx); err != nil {
		return nil, err
	}

	opts := []session.Option{session.WithLogger(logging.Sampled(r.log, 20, time.Second, 50))}
	if r.stats != nil {
		opts = append(opts, session.WithStats(r.stats))
	}

	seed := r.sim.Seed
	if r.data != nil {
		seed = r.data.Seed
		opts = append(opts, session.WithReplay(*r.data))
	} else if r.opts.record != "" {
		r.recorder = replay.NewRecorder(seed, r.rng.ID, r.sim.TickRate)
		opts = append(opts, session.WithRecorder(r.recorder))
	}

	if r.journal != nil {
		info := journal.RunInfo{RangeID: r.rng.ID, Seed: seed, TickRate: r.sim.TickRate}
		if _, err := r.journal.Begin(ctx, info); err != nil {
			return nil, err
		}
		opts = append(opts, session.WithSink(r.journal))
	}

	s, err := session.New(r.sim, r.rng, r.arsenal, opts...)
	if err != nil {
		return nil, err
	}
	r.current = s
	return s, nil
}

// finish closes out the current session: journal run, summary and recording
func (r *runner) finish(ctx context.Context) error {
	s := r.current
	if s == nil {
		return nil
	}
	r.current = nil

	t := s.Totals()
	r.log.Info().
		Str("range", s.RangeID()).
		Str("state", s.State().String()).
		Uint64("ticks", t.Ticks).
		Int("fires", t.Fires).
		Int("pellets", t.Pellets).
		Int("throws", t.Throws).
		Int("hits", t.Hits).
		Int("penetrations", t.Penetrations).
		Int("ricochets", t.Ricochets).
		Int("explosions", t.Explosions).
		Float64("damage", t.Damage).
		Int("targetsDown", t.TargetsDown).
		Msg("run finished")

	if r.recorder != nil {
		r.recorder.Stop()
		path := r.opts.record
		if path == "auto" {
			path = replay.GenerateFilename()
		}
		if err := r.recorder.Save(path); err != nil {
			r.log.Warn().Err(err).Str("file", path).Msg("recording not saved")
		} else {
			r.log.Info().Str("file", path).Int("frames", r.recorder.FrameCount()).Msg("recording saved")
		}
		r.recorder = nil
	}

	if r.journal == nil {
		return nil
	}
	if err := r.journal.Finish(ctx, t.Ticks); err != nil {
		return err
	}
	sum, err := journal.Summarize(ctx, r.db, r.journal.RunID())
	if err != nil {
		return err
	}
	r.log.Info().
		Str("run", r.journal.RunID()).
		Int64("fires", sum.Fires).
		Int64("hits", sum.Hits).
		Int64("explosions", sum.Explosions).
		Int64("removals", sum.Removals).
		Float64("damage", sum.Damage).
		Msg("journal summary")
	return nil
}

func (r *runner) close(ctx context.Context) error {
	err := r.finish(ctx)
	if r.db != nil {
		if sqlDB, dbErr := r.db.DB(); dbErr == nil {
			err = errors.Join(err, sqlDB.Close())
		}
	}
	return err
}

func (r *runner) headless(ctx context.Context) error {
	s, err := r.newSession(ctx)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return err
	}
	r.log.Debug().Dur("elapsed", time.Since(start)).Msg("headless run complete")
	return nil
}

func (r *runner) interactive(ctx context.Context) error {
	s, err := r.newSession(ctx)
	if err != nil {
		return err
	}
	d := r.sim.Display
	v := viewer.New(s, func() (*session.Session, error) { return r.newSession(ctx) },
		viewer.NewCamera(d.ScreenWidth, d.ScreenHeight, d.PixelsPerMeter),
		d.ScreenWidth, d.ScreenHeight, r.log)

	ebiten.SetWindowSize(d.ScreenWidth*d.Scale, d.ScreenHeight*d.Scale)
	ebiten.SetWindowTitle("Ballistics Range: " + r.rng.Name)
	ebiten.SetTPS(r.sim.TickRate)
	return ebiten.RunGame(game.New(v, d.ScreenWidth, d.ScreenHeight, r.sim.TickRate))
}

func run(ctx context.Context, args []string, logOut io.Writer) error {
	opts, err := parseFlags(args, logOut)
	if err != nil {
		return err
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return fmt.Errorf("failed to get config subfs: %w", err)
	}
	r, err := newRunner(opts, fsys, logOut)
	if err != nil {
		return err
	}

	if opts.headless {
		err = r.headless(ctx)
	} else {
		err = r.interactive(ctx)
	}
	return errors.Join(err, r.close(ctx))
}
