// Package session runs a scripted or replayed range run on top of the ballistics system.
package session

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/younwookim/ballistics/internal/application/replay"
	"github.com/younwookim/ballistics/internal/application/state"
	"github.com/younwookim/ballistics/internal/application/system"
	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/ecs"
	"github.com/younwookim/ballistics/internal/infrastructure/config"
)

// walkSpeed is the shooter speed assumed for scripted shots fired on the move
const walkSpeed = 4.0 // m/s

// Sink receives the events drained after every tick
type Sink interface {
	Record(ctx context.Context, tick uint64, ev system.Events) error
}

// Totals accumulates what happened over a run
type Totals struct {
	Ticks        uint64
	Fires        int
	Pellets      int
	Throws       int
	Hits         int
	Penetrations int
	Ricochets    int
	Explosions   int
	Removed      int
	Damage       float64
	TargetsDown  int
}

// Option configures a Session
type Option func(*Session)

// WithLogger sets the logger, also used by the ballistics system
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithStats sets the per-tick metrics sink of the ballistics system
func WithStats(r system.StatsRecorder) Option {
	return func(s *Session) { s.stats = r }
}

// WithSink adds an event sink such as the journal
func WithSink(sink Sink) Option {
	return func(s *Session) { s.sinks = append(s.sinks, sink) }
}

// WithRecorder records every fire and throw for replay
func WithRecorder(r *replay.Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithReplay drives the run from a recording instead of the range scenario
func WithReplay(data replay.Data) Option {
	return func(s *Session) { s.replayer = replay.NewReplayer(data) }
}

type burst struct {
	aim    mgl64.Vec3
	state  entity.ShooterState
	target entity.EntityID
}

// Session owns a range, the simulation over it and the inputs that drive it
type Session struct {
	rangeID  string
	arsenal  *config.Arsenal
	world    *entity.Range
	sim      *system.BallisticsSystem
	shooters map[entity.EntityID]entity.Shooter

	actions  []config.ScenarioAction
	next     int
	bursts   map[entity.EntityID]burst
	replayer *replay.Replayer
	recorder *replay.Recorder
	sinks    []Sink
	stats    system.StatsRecorder
	log      zerolog.Logger

	state    state.RunState
	dt       float64
	maxTicks uint64
	seed     uint64
	shots    uint64
	totals   Totals
	last     system.Events
}

// New builds the range and the ballistics system for one run
func New(sim *config.SimulationConfig, rc *config.RangeConfig, arsenal *config.Arsenal, opts ...Option) (*Session, error) {
	s := &Session{
		rangeID:  rc.ID,
		arsenal:  arsenal,
		shooters: make(map[entity.EntityID]entity.Shooter, len(rc.Shooters)),
		bursts:   make(map[entity.EntityID]burst),
		log:      zerolog.Nop(),
		state:    state.StateLoading,
		dt:       sim.Dt(),
		seed:     sim.Seed,
	}
	if sim.Ticks > 0 {
		s.maxTicks = uint64(sim.Ticks)
	}
	for _, opt := range opts {
		opt(s)
	}

	world, err := system.LoadRange(rc, arsenal)
	if err != nil {
		return nil, err
	}
	s.world = world
	for _, sh := range world.Shooters {
		s.shooters[sh.ID] = sh
	}

	if s.replayer != nil {
		if r := s.replayer.Range(); r != rc.ID {
			return nil, fmt.Errorf("replay was recorded on range %q, not %q", r, rc.ID)
		}
		s.seed = s.replayer.Seed()
	} else {
		if err := s.loadScenario(rc.Scenario); err != nil {
			return nil, err
		}
	}

	sysOpts := []system.Option{
		system.WithLogger(s.log),
		system.WithWorkers(sim.Workers),
		system.WithArsenal(arsenal.Weapons),
	}
	if s.stats != nil {
		sysOpts = append(sysOpts, system.WithStats(s.stats))
	}
	collaborators := system.Collaborators{Query: world, Surfaces: world, Targets: world, Bodies: world}
	s.sim = system.NewBallisticsSystem(sim.ToEnvironment(), sim.ToConfig(), collaborators, sysOpts...)

	s.state = state.StateRunning
	return s, nil
}

func (s *Session) loadScenario(actions []config.ScenarioAction) error {
	for i, a := range actions {
		sh, ok := s.shooters[entity.EntityID(a.Shooter)]
		if !ok {
			return fmt.Errorf("scenario action %d: unknown shooter %d", i, a.Shooter)
		}
		if a.Tick < 0 {
			return fmt.Errorf("scenario action %d: negative tick %d", i, a.Tick)
		}
		if a.Grenade != "" {
			if a.Weapon != "" {
				return fmt.Errorf("scenario action %d: both weapon and grenade set", i)
			}
			if _, ok := s.arsenal.Grenades[a.Grenade]; !ok {
				return fmt.Errorf("scenario action %d: %w: grenade %q", i, config.ErrUnknownPreset, a.Grenade)
			}
			continue
		}
		weapon := a.Weapon
		if weapon == "" {
			weapon = sh.Weapon
		}
		if _, ok := s.arsenal.Weapons[weapon]; !ok {
			return fmt.Errorf("scenario action %d: %w: weapon %q", i, config.ErrUnknownPreset, weapon)
		}
	}

	s.actions = append([]config.ScenarioAction(nil), actions...)
	sort.SliceStable(s.actions, func(i, j int) bool { return s.actions[i].Tick < s.actions[j].Tick })
	return nil
}

// World returns the range
func (s *Session) World() *entity.Range { return s.world }

// System returns the ballistics system
func (s *Session) System() *system.BallisticsSystem { return s.sim }

// State returns the run state
func (s *Session) State() state.RunState { return s.state }

// TogglePause pauses or resumes the run
func (s *Session) TogglePause() { s.state = s.state.Toggle() }

// Totals returns the accumulated run counts
func (s *Session) Totals() Totals { return s.totals }

// LastEvents returns the events drained by the last step
func (s *Session) LastEvents() system.Events { return s.last }

// Seed returns the run seed
func (s *Session) Seed() uint64 { return s.seed }

// RangeID returns the range ID
func (s *Session) RangeID() string { return s.rangeID }

// Step applies the inputs for the next tick, advances the simulation, applies
// damage to the range and hands the drained events to every sink
func (s *Session) Step(ctx context.Context) error {
	if s.state != state.StateRunning {
		return nil
	}
	tick := s.sim.Tick()

	// Spawn order within a tick is fires, burst rounds, then throws, the
	// same order a replay frame is applied in.
	if s.replayer != nil {
		if err := s.applyFrame(tick); err != nil {
			s.state = state.StateFailed
			return err
		}
	} else {
		throws := s.applyScenario(tick)
		s.continueBursts(tick)
		for _, a := range throws {
			s.throw(tick, a.Grenade, s.shooters[entity.EntityID(a.Shooter)].Position, s.aim(a), entity.EntityID(a.Shooter))
		}
	}

	if err := s.sim.Update(ctx, s.dt); err != nil {
		s.state = state.StateFailed
		return fmt.Errorf("failed to step tick %d: %w", tick, err)
	}

	ev := s.sim.Drain()
	s.applyDamage(ev)
	s.world.Update(s.dt)
	s.tally(ev)
	s.last = ev

	for _, sink := range s.sinks {
		if err := sink.Record(ctx, s.sim.Tick(), ev); err != nil {
			s.state = state.StateFailed
			return fmt.Errorf("failed to record tick %d: %w", tick, err)
		}
	}

	if s.maxTicks > 0 && s.sim.Tick() >= s.maxTicks {
		s.state = state.StateFinished
	}
	return nil
}

// Run steps until the run finishes or fails
func (s *Session) Run(ctx context.Context) error {
	for s.state == state.StateRunning {
		if err := s.Step(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) aim(a config.ScenarioAction) mgl64.Vec3 {
	if a.Aim != nil {
		return entity.NormalizeOrZero(a.Aim.Vec())
	}
	return s.shooters[entity.EntityID(a.Shooter)].Aim
}

// applyScenario pulls the triggers scripted for tick and returns its throws
func (s *Session) applyScenario(tick uint64) []config.ScenarioAction {
	var throws []config.ScenarioAction
	for s.next < len(s.actions) && uint64(s.actions[s.next].Tick) <= tick {
		a := s.actions[s.next]
		s.next++
		if uint64(a.Tick) < tick {
			continue
		}
		if a.Grenade != "" {
			throws = append(throws, a)
			continue
		}

		id := entity.EntityID(a.Shooter)
		aim := s.aim(a)
		weapon := a.Weapon
		if weapon == "" {
			weapon = s.shooters[id].Weapon
		}
		if w, ok := s.sim.Weapon(id); !ok || w.Preset.Name != weapon {
			s.sim.Equip(id, s.arsenal.Weapons[weapon])
		}

		shooter := entity.ShooterState{Aiming: a.Aiming, Moving: a.Moving}
		if a.Moving {
			shooter.Speed, shooter.MaxSpeed = walkSpeed, walkSpeed
		}
		b := burst{aim: aim, state: shooter, target: entity.EntityID(a.Target)}
		trigger := system.TriggerState{Held: true, JustPressed: true}
		if !s.pull(tick, id, trigger, b) {
			s.log.Debug().Uint64("tick", tick).Uint64("shooter", a.Shooter).Str("weapon", weapon).Msg("trigger rejected")
		}
		s.bursts[id] = b
	}
	return throws
}

// continueBursts keeps the trigger held for weapons with rounds left in a burst
func (s *Session) continueBursts(tick uint64) {
	if len(s.bursts) == 0 {
		return
	}
	ids := make([]entity.EntityID, 0, len(s.bursts))
	for id := range s.bursts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		w, ok := s.sim.Weapon(id)
		if !ok || w.BurstRemaining == 0 {
			delete(s.bursts, id)
			continue
		}
		s.pull(tick, id, system.TriggerState{Held: true}, s.bursts[id])
	}
}

func (s *Session) pull(tick uint64, id entity.EntityID, trigger system.TriggerState, b burst) bool {
	origin := s.shooters[id].Position
	ev, handles, ok := s.sim.PullTrigger(id, trigger, origin, b.aim, b.state, s.nextSeed())
	if !ok {
		return false
	}
	s.fired(tick, ev, handles, b.target)
	return true
}

// nextSeed spaces shot seeds so that pellet seeds of different shots never overlap
func (s *Session) nextSeed() uint64 {
	seed := s.seed + s.shots<<8
	s.shots++
	return seed
}

func (s *Session) fired(tick uint64, ev entity.FireEvent, handles []ecs.Handle, target entity.EntityID) {
	if target != entity.NoEntity {
		for _, h := range handles {
			if p := s.sim.Projectile(h); p != nil {
				p.Guidance = entity.NewGuidance(target)
			}
		}
	}
	if s.recorder != nil {
		s.recorder.RecordFire(tick, replay.FromFireEvent(ev, target))
	}
	s.totals.Fires++
	s.totals.Pellets += len(handles)
}

func (s *Session) throw(tick uint64, name string, origin, aim mgl64.Vec3, owner entity.EntityID) {
	s.sim.Throw(s.arsenal.Grenades[name], origin, aim, owner)
	if s.recorder != nil {
		s.recorder.RecordThrow(tick, replay.NewThrow(name, origin, aim, owner))
	}
	s.totals.Throws++
}

func (s *Session) applyFrame(tick uint64) error {
	frame, ok := s.replayer.Next(tick)
	if !ok {
		return nil
	}
	for _, f := range frame.Fires {
		ev := f.Event()
		s.fired(tick, ev, s.sim.Fire(ev), entity.EntityID(f.Target))
	}
	for _, t := range frame.Throws {
		if _, ok := s.arsenal.Grenades[t.Grenade]; !ok {
			return fmt.Errorf("replay tick %d: %w: grenade %q", tick, config.ErrUnknownPreset, t.Grenade)
		}
		s.throw(tick, t.Grenade, t.Origin, t.Direction, entity.EntityID(t.Owner))
	}
	return nil
}

func (s *Session) applyDamage(ev system.Events) {
	before := s.world.ActiveTargets()
	damage := func(id entity.EntityID, amount float64) {
		if t, ok := s.world.Target(id); ok && t.Active {
			s.world.Damage(id, amount)
			s.totals.Damage += amount
		}
	}
	for _, h := range ev.Hits {
		damage(h.Target, h.Damage)
	}
	for _, e := range ev.Effects {
		damage(e.Target, e.Damage)
	}
	if down := before - s.world.ActiveTargets(); down > 0 {
		s.totals.TargetsDown += down
		s.log.Info().Int("down", down).Int("standing", s.world.ActiveTargets()).Msg("targets down")
	}
}

func (s *Session) tally(ev system.Events) {
	s.totals.Ticks = s.sim.Tick()
	s.totals.Hits += len(ev.Hits)
	s.totals.Penetrations += len(ev.Penetrations)
	s.totals.Ricochets += len(ev.Ricochets)
	s.totals.Explosions += len(ev.Explosions)
	s.totals.Removed += len(ev.Removed)
}
