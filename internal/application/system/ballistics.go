package system

import (
	"context"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/ecs"
)

// Events are the per-kind output queues of the simulation. They accumulate
// until drained, normally once per tick.
type Events struct {
	Fires        []entity.FireEvent
	Hits         []entity.HitEvent
	Explosions   []entity.ExplosionEvent
	Penetrations []entity.PenetrationEvent
	Ricochets    []entity.RicochetEvent
	Effects      []ExplosionEffect
	Removed      []RemovedProjectile
}

// RemovedProjectile reports a projectile that left the simulation
type RemovedProjectile struct {
	Handle   ecs.Handle
	Reason   Removal
	Position mgl64.Vec3
}

// Empty reports whether no event of any kind is queued
func (e *Events) Empty() bool {
	return len(e.Fires) == 0 && len(e.Hits) == 0 && len(e.Explosions) == 0 &&
		len(e.Penetrations) == 0 && len(e.Ricochets) == 0 && len(e.Effects) == 0 &&
		len(e.Removed) == 0
}

// TickStats summarises one tick for metrics
type TickStats struct {
	Tick         uint64
	Spawned      int
	Hits         int
	Penetrations int
	Ricochets    int
	Explosions   int
	Removed      int
	Active       int
}

// StatsRecorder receives a summary after every tick
type StatsRecorder interface {
	RecordTick(ctx context.Context, stats TickStats)
}

// Collaborators are the host services the simulation reads from. Any may be nil;
// a missing collaborator turns the features that need it into no-ops.
type Collaborators struct {
	Query    SpatialQuery
	Surfaces Surfaces
	Targets  TargetLookup
	Bodies   Bodies
}

// Option configures a BallisticsSystem
type Option func(*BallisticsSystem)

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *BallisticsSystem) { s.log = l }
}

// WithStats sets the per-tick metrics sink
func WithStats(r StatsRecorder) Option {
	return func(s *BallisticsSystem) { s.stats = r }
}

// WithWorkers sets the goroutine count for parallel phases (0 = GOMAXPROCS)
func WithWorkers(n int) Option {
	return func(s *BallisticsSystem) { s.workers = n }
}

// WithArsenal replaces the weapon presets used to build fired projectiles
func WithArsenal(weapons map[string]entity.WeaponPreset) Option {
	return func(s *BallisticsSystem) { s.weapons = weapons }
}

// BallisticsSystem owns the projectile store and runs the fixed-tick pipeline:
// bloom recovery, guidance, integration, collision, logic and expiry, explosions.
type BallisticsSystem struct {
	env   entity.Environment
	cfg   entity.Config
	world Collaborators

	store    *ecs.Store[entity.Projectile]
	weapons  map[string]entity.WeaponPreset
	shooters map[entity.EntityID]*entity.Weapon

	results []sweepResult
	events  Events

	log     zerolog.Logger
	stats   StatsRecorder
	workers int

	tick    uint64
	clock   float64
	spawned int
}

// NewBallisticsSystem creates a simulation over the given host collaborators
func NewBallisticsSystem(env entity.Environment, cfg entity.Config, world Collaborators, opts ...Option) *BallisticsSystem {
	s := &BallisticsSystem{
		env:      env,
		cfg:      cfg,
		world:    world,
		store:    ecs.NewStore[entity.Projectile](256),
		weapons:  entity.WeaponPresets,
		shooters: make(map[entity.EntityID]*entity.Weapon),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Environment returns the environment used by the next tick
func (s *BallisticsSystem) Environment() entity.Environment { return s.env }

// SetEnvironment replaces the environment between ticks
func (s *BallisticsSystem) SetEnvironment(env entity.Environment) { s.env = env }

// Config returns the config used by the next tick
func (s *BallisticsSystem) Config() entity.Config { return s.cfg }

// SetConfig replaces the config between ticks
func (s *BallisticsSystem) SetConfig(cfg entity.Config) { s.cfg = cfg }

// Tick returns the number of completed ticks
func (s *BallisticsSystem) Tick() uint64 { return s.tick }

// Clock returns the simulated time in seconds
func (s *BallisticsSystem) Clock() float64 { return s.clock }

// Len returns the number of live projectiles
func (s *BallisticsSystem) Len() int { return s.store.Len() }

// Projectile returns the projectile behind h, or nil once it has been removed
func (s *BallisticsSystem) Projectile(h ecs.Handle) *entity.Projectile {
	return s.store.Get(h)
}

// Each calls fn for every live projectile in slot order
func (s *BallisticsSystem) Each(fn func(h ecs.Handle, p *entity.Projectile)) {
	s.store.Each(fn)
}

// Spawn adds a projectile to the simulation
func (s *BallisticsSystem) Spawn(p entity.Projectile) ecs.Handle {
	if p.Logic == nil {
		p.Logic = entity.ImpactLogic{}
	}
	p.PreviousPosition = p.Position
	s.spawned++
	return s.store.Insert(p)
}

// Remove deletes a projectile on behalf of the host, e.g. to clean up embedded arrows
func (s *BallisticsSystem) Remove(h ecs.Handle) bool {
	p := s.store.Get(h)
	if p == nil {
		return false
	}
	s.events.Removed = append(s.events.Removed, RemovedProjectile{Handle: h, Reason: RemovalExternal, Position: p.Position})
	return s.store.Remove(h)
}

// Fire spawns the projectiles of a discharge. Pellet i leaves along the base
// direction perturbed with seed SpreadSeed+i.
func (s *BallisticsSystem) Fire(ev entity.FireEvent) []ecs.Handle {
	preset, known := s.weapons[ev.WeaponType]

	count := ev.ProjectileCount
	if count < 1 {
		count = 1
	}

	handles := make([]ecs.Handle, 0, count)
	for i := 0; i < count; i++ {
		dir := SpreadDirection(ev.Direction, ev.SpreadAngle, ev.SpreadSeed+uint64(i))

		var p entity.Projectile
		if known {
			p = preset.Projectile(ev.Origin, dir)
		} else {
			p = entity.NewProjectile(ev.Origin, dir)
		}
		p.Velocity = dir.Mul(ev.MuzzleVelocity)
		p.Owner = ev.Shooter
		handles = append(handles, s.Spawn(p))
	}

	s.events.Fires = append(s.events.Fires, ev)
	return handles
}

// Throw launches a grenade preset from origin along direction
func (s *BallisticsSystem) Throw(g entity.GrenadePreset, origin, direction mgl64.Vec3, owner entity.EntityID) ecs.Handle {
	p := g.Projectile(origin, direction)
	p.Owner = owner
	return s.Spawn(p)
}

// Equip gives shooter a fresh weapon built from preset
func (s *BallisticsSystem) Equip(shooter entity.EntityID, preset entity.WeaponPreset) *entity.Weapon {
	w := entity.NewWeapon(preset)
	s.shooters[shooter] = w
	return w
}

// Weapon returns the weapon held by shooter
func (s *BallisticsSystem) Weapon(shooter entity.EntityID) (*entity.Weapon, bool) {
	w, ok := s.shooters[shooter]
	return w, ok
}

// PullTrigger runs fire control for shooter's weapon. When it discharges, the
// spread for state is computed before the shot adds its bloom, and the resulting
// FireEvent is fired and returned with the spawned handles.
func (s *BallisticsSystem) PullTrigger(shooter entity.EntityID, trigger TriggerState, origin, direction mgl64.Vec3, state entity.ShooterState, seed uint64) (entity.FireEvent, []ecs.Handle, bool) {
	w, ok := s.shooters[shooter]
	if !ok || !FireControl(w, trigger, s.clock) {
		return entity.FireEvent{}, nil, false
	}

	spread := w.Accuracy.TotalSpread(state)
	w.Accuracy.ApplyShotBloom()

	ev := entity.NewFireEvent(origin, direction).
		WithVelocity(w.Preset.MuzzleVelocity).
		WithShooter(shooter).
		WithSpread(spread, seed).
		WithPellets(w.Preset.Pellets).
		WithWeapon(w.Preset.Name).
		At(s.clock)
	return ev, s.Fire(ev), true
}

// Drain returns and clears every queued event
func (s *BallisticsSystem) Drain() Events {
	out := s.events
	s.events = Events{}
	return out
}

// Update advances the simulation by one fixed step of dt seconds
func (s *BallisticsSystem) Update(ctx context.Context, dt float64) error {
	env, cfg := s.env, s.cfg
	s.tick++
	s.clock += dt

	stats := TickStats{Tick: s.tick, Spawned: s.spawned}
	s.spawned = 0
	hitsBefore := len(s.events.Hits)
	penBefore := len(s.events.Penetrations)
	ricBefore := len(s.events.Ricochets)
	explBefore := len(s.events.Explosions)
	removedBefore := len(s.events.Removed)

	s.recoverBloom(dt)
	s.guide(dt)

	integrator := NewIntegrator(env, cfg)
	err := ecs.ParallelFor(ctx, s.store, s.workers, func(_ ecs.Handle, p *entity.Projectile) {
		if p.State == entity.StateStuck && waitsForTrigger(p.Logic) {
			p.Age += dt
			return
		}
		if !p.InFlight() || isHitscan(p) {
			return
		}
		integrator.Step(p, dt)
		p.Ticks++
	})
	if err != nil {
		return err
	}

	if err := s.collide(ctx, cfg); err != nil {
		return err
	}
	s.runLogic(cfg, dt)
	s.explode(explBefore)
	s.sweepRemoved()

	stats.Hits = len(s.events.Hits) - hitsBefore
	stats.Penetrations = len(s.events.Penetrations) - penBefore
	stats.Ricochets = len(s.events.Ricochets) - ricBefore
	stats.Explosions = len(s.events.Explosions) - explBefore
	stats.Removed = len(s.events.Removed) - removedBefore
	stats.Active = s.store.Len()
	if s.stats != nil {
		s.stats.RecordTick(ctx, stats)
	}
	return nil
}

func (s *BallisticsSystem) recoverBloom(dt float64) {
	for _, w := range s.shooters {
		w.Accuracy.Recover(dt)
	}
}

func (s *BallisticsSystem) guide(dt float64) {
	var ids []entity.EntityID
	s.store.Each(func(_ ecs.Handle, p *entity.Projectile) {
		if p.Guidance != nil && p.InFlight() {
			ids = append(ids, p.Guidance.Target)
		}
	})
	if len(ids) == 0 {
		return
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	targets := SnapshotTargets(s.world.Targets, ids)
	s.store.Each(func(_ ecs.Handle, p *entity.Projectile) {
		if p.InFlight() && !isHitscan(p) {
			ApplyGuidance(p, targets, dt)
		}
	})
}

func (s *BallisticsSystem) collide(ctx context.Context, cfg entity.Config) error {
	if n := s.store.Cap(); len(s.results) < n {
		s.results = append(s.results, make([]sweepResult, n-len(s.results))...)
	}
	resolver := NewCollisionResolver(s.world.Query, s.world.Surfaces, cfg)

	err := ecs.ParallelFor(ctx, s.store, s.workers, func(h ecs.Handle, p *entity.Projectile) {
		out := &s.results[h.Index]
		out.reset()
		if !p.InFlight() {
			return
		}
		if l, ok := p.Logic.(entity.HitscanLogic); ok {
			resolver.Hitscan(h, p, l.Range, out)
			return
		}
		resolver.Sweep(h, p, out)
	})
	if err != nil {
		return err
	}

	// Merge in slot order so event order never depends on goroutine scheduling.
	s.store.Each(func(h ecs.Handle, p *entity.Projectile) {
		out := &s.results[h.Index]
		s.events.Hits = append(s.events.Hits, out.hits...)
		s.events.Ricochets = append(s.events.Ricochets, out.ricochets...)
		s.events.Penetrations = append(s.events.Penetrations, out.penetrations...)
		s.events.Explosions = append(s.events.Explosions, out.explosions...)
		if out.removal != RemovalNone {
			s.events.Removed = append(s.events.Removed, RemovedProjectile{Handle: h, Reason: out.removal, Position: p.Position})
		}
		out.reset()
	})
	return nil
}

func (s *BallisticsSystem) runLogic(cfg entity.Config, dt float64) {
	s.store.Each(func(h ecs.Handle, p *entity.Projectile) {
		if p.State == entity.StateDespawning || p.State == entity.StateDetonating {
			return
		}

		if p.State == entity.StateInFlight || waitsForTrigger(p.Logic) {
			outcome := UpdateLogic(p, s.world.Query, dt)
			if outcome.FuseWasted {
				s.log.Debug().
					Uint32("index", h.Index).
					Str("payload", "kinetic").
					Msg("fuse elapsed on a payload that cannot explode")
			}
			if outcome.Detonated {
				s.events.Explosions = append(s.events.Explosions, outcome.Explosion)
				s.events.Removed = append(s.events.Removed, RemovedProjectile{Handle: h, Reason: outcome.Removal, Position: p.Position})
				return
			}
		}

		if p.State == entity.StateStuck {
			// Resting charges age during integration so duds and unclaimed mines
			// still expire; embedded sticky projectiles stay until the host removes them.
			if !waitsForTrigger(p.Logic) {
				return
			}
			if p.Age > cfg.MaxProjectileLifetime {
				p.Despawn()
				s.events.Removed = append(s.events.Removed, RemovedProjectile{Handle: h, Reason: RemovalLifetime, Position: p.Position})
			}
			return
		}
		if !p.InFlight() {
			return
		}
		if reason := Expiry(p, cfg); reason != RemovalNone {
			p.Despawn()
			s.events.Removed = append(s.events.Removed, RemovedProjectile{Handle: h, Reason: reason, Position: p.Position})
		}
	})
}

func (s *BallisticsSystem) explode(from int) {
	if from >= len(s.events.Explosions) {
		return
	}
	resolver := NewExplosionResolver(s.world.Query, s.world.Bodies)
	for i, ev := range s.events.Explosions[from:] {
		effects := resolver.Apply(ev)
		for j := range effects {
			effects[j].Explosion = from + i
		}
		s.events.Effects = append(s.events.Effects, effects...)
		s.log.Debug().
			Str("type", ev.Type.String()).
			Float64("radius", ev.Radius).
			Int("affected", len(effects)).
			Msg("explosion resolved")
	}
}

func (s *BallisticsSystem) sweepRemoved() {
	s.store.Each(func(h ecs.Handle, p *entity.Projectile) {
		if p.State == entity.StateDespawning || p.State == entity.StateDetonating {
			s.store.Remove(h)
		}
	})
}

func isHitscan(p *entity.Projectile) bool {
	_, ok := p.Logic.(entity.HitscanLogic)
	return ok
}
