package system

import (
	"context"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/ecs"
)

const (
	testDt      = 1.0 / 60.0
	testShooter = entity.EntityID(1000)
)

// newTestRange builds a flat dirt field with a concrete wall to the east,
// a dummy 50 m downrange and a dummy beside the grenade landing zone
func newTestRange() *entity.Range {
	boxes := []entity.Box{
		{ID: 1, Min: mgl64.Vec3{-50, -1, -200}, Max: mgl64.Vec3{50, 0, 10}, Material: "dirt"},
		{ID: 2, Min: mgl64.Vec3{10, 0, -5}, Max: mgl64.Vec3{11, 5, 5}, Material: "concrete"},
	}
	targets := []*entity.Target{
		entity.NewTarget(100, mgl64.Vec3{0, 1, -50}, 0.5, 80, 100, "flesh"),
		entity.NewTarget(101, mgl64.Vec3{3, 1, -8}, 0.5, 80, 100, "flesh"),
	}
	return entity.NewRange("test", "Test Range", boxes, targets, nil)
}

func newRangeSystem(r *entity.Range, opts ...Option) *BallisticsSystem {
	world := Collaborators{Query: r, Surfaces: r, Targets: r, Bodies: r}
	return NewBallisticsSystem(entity.DefaultEnvironment(), entity.DefaultConfig(), world, opts...)
}

func run(t *testing.T, s *BallisticsSystem, ticks int) Events {
	t.Helper()
	var all Events
	for i := 0; i < ticks; i++ {
		require.NoError(t, s.Update(context.Background(), testDt))
		ev := s.Drain()
		all.Fires = append(all.Fires, ev.Fires...)
		all.Hits = append(all.Hits, ev.Hits...)
		all.Explosions = append(all.Explosions, ev.Explosions...)
		all.Penetrations = append(all.Penetrations, ev.Penetrations...)
		all.Ricochets = append(all.Ricochets, ev.Ricochets...)
		all.Effects = append(all.Effects, ev.Effects...)
		all.Removed = append(all.Removed, ev.Removed...)
	}
	return all
}

func removalsOf(ev Events, reason Removal) int {
	n := 0
	for _, r := range ev.Removed {
		if r.Reason == reason {
			n++
		}
	}
	return n
}

func TestBallisticsSystem_RifleHitsTarget(t *testing.T) {
	r := newTestRange()
	s := newRangeSystem(r)

	ev := entity.NewFireEvent(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1}).
		WithVelocity(900).
		WithShooter(testShooter).
		WithWeapon("rifle")
	handles := s.Fire(ev)
	require.Len(t, handles, 1)

	events := run(t, s, 10)
	require.Len(t, events.Fires, 1)

	var hit *entity.HitEvent
	for i := range events.Hits {
		if events.Hits[i].Target == 100 {
			hit = &events.Hits[i]
			break
		}
	}
	require.NotNil(t, hit, "bullet should reach the dummy")
	assert.True(t, hit.Penetrated)
	assert.Equal(t, 35.0, hit.Damage)
	assert.Equal(t, handles[0], hit.Projectile)
	assert.InDelta(t, -49.5, hit.ImpactPoint.Z(), 0.05)
	require.NotEmpty(t, events.Penetrations)

	r.Damage(hit.Target, hit.Damage)
	target, _ := r.Target(100)
	assert.Equal(t, 65.0, target.Health)
}

func TestBallisticsSystem_DeterministicAcrossWorkers(t *testing.T) {
	simulate := func(workers int) Events {
		s := newRangeSystem(newTestRange(), WithWorkers(workers))
		s.Fire(entity.NewFireEvent(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, -0.05, -1}).
			WithVelocity(400).
			WithShooter(testShooter).
			WithSpread(0.05, 77).
			WithPellets(300).
			WithWeapon("pistol"))
		return run(t, s, 30)
	}

	serial := simulate(1)
	parallel := simulate(4)

	assert.NotEmpty(t, serial.Hits)
	assert.Equal(t, serial, parallel)
}

func TestBallisticsSystem_GrenadeRestsThenDetonates(t *testing.T) {
	r := newTestRange()
	s := newRangeSystem(r)

	h := s.Throw(entity.GrenadePresets["frag"], mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -1}, testShooter)

	events := run(t, s, 90)
	p := s.Projectile(h)
	require.NotNil(t, p)
	assert.Equal(t, entity.StateStuck, p.State, "grenade should have come to rest on the ground")
	assert.InDelta(t, surfaceOffset, p.Position.Y(), 1e-9)
	assert.Empty(t, events.Explosions)

	events = run(t, s, 110)
	require.Len(t, events.Explosions, 1)
	assert.Equal(t, entity.ExplosionHighExplosive, events.Explosions[0].Type)
	assert.Equal(t, testShooter, events.Explosions[0].Source)
	assert.Equal(t, 1, removalsOf(events, RemovalDetonated))
	assert.Nil(t, s.Projectile(h))
	assert.Zero(t, s.Len())

	require.Len(t, events.Effects, 1)
	effect := events.Effects[0]
	assert.Equal(t, entity.EntityID(101), effect.Target)
	assert.Greater(t, effect.Damage, 0.0)
	assert.Less(t, effect.Damage, 150.0)

	target, _ := r.Target(101)
	assert.NotEqual(t, mgl64.Vec3{}, target.Velocity, "impulse should push the dummy")
}

func TestBallisticsSystem_LifetimeExpiry(t *testing.T) {
	cfg := entity.DefaultConfig()
	cfg.MaxProjectileLifetime = 0.5
	s := NewBallisticsSystem(entity.DefaultEnvironment(), cfg, Collaborators{})

	s.Spawn(entity.NewProjectile(mgl64.Vec3{}, mgl64.Vec3{0, 300, 0}))
	events := run(t, s, 40)

	assert.Equal(t, 1, removalsOf(events, RemovalLifetime))
	assert.Zero(t, s.Len())
}

func TestBallisticsSystem_RestingChargeExpires(t *testing.T) {
	newSystem := func(lifetime float64) *BallisticsSystem {
		cfg := entity.DefaultConfig()
		cfg.MaxProjectileLifetime = lifetime
		r := newTestRange()
		world := Collaborators{Query: r, Surfaces: r, Targets: r, Bodies: r}
		return NewBallisticsSystem(entity.DefaultEnvironment(), cfg, world)
	}

	t.Run("dud fuse", func(t *testing.T) {
		s := newSystem(2)
		dud := entity.GrenadePreset{
			Name:       "dud",
			Mass:       0.4,
			ThrowSpeed: 15,
			Logic:      entity.TimedLogic{Fuse: 1},
			Payload:    entity.Kinetic{Damage: 10},
		}
		h := s.Throw(dud, mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -1}, testShooter)

		events := run(t, s, 110)
		p := s.Projectile(h)
		require.NotNil(t, p)
		assert.Equal(t, entity.StateStuck, p.State)
		assert.InDelta(t, 110*testDt, p.Age, 1e-9, "a resting charge keeps ageing")
		assert.Empty(t, events.Explosions)
		assert.Zero(t, removalsOf(events, RemovalLifetime))

		events = run(t, s, 15)
		assert.Equal(t, 1, removalsOf(events, RemovalLifetime))
		assert.Empty(t, events.Explosions)
		assert.Nil(t, s.Projectile(h))
		assert.Zero(t, s.Len())
	})

	t.Run("fuse longer than lifetime", func(t *testing.T) {
		s := newSystem(1)
		s.Throw(entity.GrenadePresets["frag"], mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -1}, testShooter)

		events := run(t, s, 240)
		assert.Empty(t, events.Explosions)
		assert.Equal(t, 1, removalsOf(events, RemovalLifetime))
		assert.Zero(t, s.Len())
	})

	t.Run("sticky stays", func(t *testing.T) {
		s := newSystem(0.5)
		p := entity.NewProjectile(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{80, 0, 0})
		p.Logic = entity.StickyLogic{}
		h := s.Spawn(p)

		events := run(t, s, 120)
		assert.Zero(t, removalsOf(events, RemovalLifetime))
		require.NotNil(t, s.Projectile(h))
		assert.Equal(t, entity.StateStuck, s.Projectile(h).State)
	})
}

func TestBallisticsSystem_SpeedExpiry(t *testing.T) {
	s := NewBallisticsSystem(entity.DefaultEnvironment(), entity.DefaultConfig(), Collaborators{})

	s.Spawn(entity.NewProjectile(mgl64.Vec3{}, mgl64.Vec3{5, 0, 0}))
	events := run(t, s, 3)

	assert.Equal(t, 1, removalsOf(events, RemovalSpeed))
}

func TestBallisticsSystem_StickyEmbedAndRemove(t *testing.T) {
	s := newRangeSystem(newTestRange())

	p := entity.NewProjectile(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{80, 0, 0})
	p.Logic = entity.StickyLogic{}
	p.Owner = testShooter
	h := s.Spawn(p)

	events := run(t, s, 20)
	require.NotEmpty(t, events.Hits)
	assert.Equal(t, entity.EntityID(2), events.Hits[0].Target)

	arrow := s.Projectile(h)
	require.NotNil(t, arrow)
	assert.Equal(t, entity.StateStuck, arrow.State)
	assert.InDelta(t, 10, arrow.Position.X(), 1e-9)

	run(t, s, 600)
	require.NotNil(t, s.Projectile(h), "embedded projectiles never expire")

	assert.True(t, s.Remove(h))
	assert.False(t, s.Remove(h))
	events = s.Drain()
	require.Len(t, events.Removed, 1)
	assert.Equal(t, RemovalExternal, events.Removed[0].Reason)
	assert.Nil(t, s.Projectile(h))
}

func TestBallisticsSystem_Hitscan(t *testing.T) {
	s := newRangeSystem(newTestRange())

	p := entity.NewProjectile(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, -1})
	p.Logic = entity.HitscanLogic{Range: 100}
	p.Owner = testShooter
	s.Spawn(p)

	events := run(t, s, 1)
	require.Len(t, events.Hits, 1)
	assert.Equal(t, entity.EntityID(100), events.Hits[0].Target)
	assert.InDelta(t, -49.5, events.Hits[0].ImpactPoint.Z(), 1e-9)
	assert.Equal(t, 1, removalsOf(events, RemovalHitscan))
	assert.Zero(t, s.Len())
}

type recordedStats struct {
	ticks []TickStats
}

func (r *recordedStats) RecordTick(_ context.Context, stats TickStats) {
	r.ticks = append(r.ticks, stats)
}

func TestBallisticsSystem_Stats(t *testing.T) {
	rec := &recordedStats{}
	s := NewBallisticsSystem(entity.DefaultEnvironment(), entity.DefaultConfig(), Collaborators{}, WithStats(rec))

	s.Spawn(entity.NewProjectile(mgl64.Vec3{}, mgl64.Vec3{0, 0, -300}))
	s.Spawn(entity.NewProjectile(mgl64.Vec3{}, mgl64.Vec3{0, 0, -5}))
	run(t, s, 3)

	require.Len(t, rec.ticks, 3)
	assert.Equal(t, TickStats{Tick: 1, Spawned: 2, Active: 2}, rec.ticks[0])
	assert.Equal(t, uint64(3), rec.ticks[2].Tick)
	assert.Equal(t, 0, rec.ticks[2].Spawned)
	assert.Equal(t, 1, rec.ticks[1].Removed+rec.ticks[2].Removed)
	assert.Equal(t, 1, rec.ticks[2].Active)
	assert.InDelta(t, 3*testDt, s.Clock(), 1e-12)
}

func TestBallisticsSystem_CancelledContext(t *testing.T) {
	s := NewBallisticsSystem(entity.DefaultEnvironment(), entity.DefaultConfig(), Collaborators{})
	s.Spawn(entity.NewProjectile(mgl64.Vec3{}, mgl64.Vec3{0, 0, -300}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Update(ctx, testDt), context.Canceled)
}

func TestBallisticsSystem_PullTrigger(t *testing.T) {
	s := NewBallisticsSystem(entity.DefaultEnvironment(), entity.DefaultConfig(), Collaborators{})
	w := s.Equip(testShooter, entity.WeaponPresets["pistol"])

	press := TriggerState{Held: true, JustPressed: true}
	origin, aim := mgl64.Vec3{0, 1.5, 0}, mgl64.Vec3{0, 0, -1}

	ev, handles, ok := s.PullTrigger(testShooter, press, origin, aim, entity.ShooterState{}, 9)
	require.True(t, ok)
	require.Len(t, handles, 1)
	assert.InDelta(t, 0.003, ev.SpreadAngle, 1e-12, "first shot fires before bloom")
	assert.Equal(t, uint64(9), ev.SpreadSeed)
	assert.Equal(t, "pistol", ev.WeaponType)
	assert.Equal(t, testShooter, ev.Shooter)
	assert.InDelta(t, 0.015, w.Accuracy.CurrentBloom, 1e-12)

	_, _, ok = s.PullTrigger(testShooter, press, origin, aim, entity.ShooterState{}, 10)
	assert.False(t, ok, "pistol is still cycling")

	_, _, ok = s.PullTrigger(entity.EntityID(5), press, origin, aim, entity.ShooterState{}, 10)
	assert.False(t, ok, "unarmed shooter")

	var live []ecs.Handle
	s.Each(func(h ecs.Handle, _ *entity.Projectile) { live = append(live, h) })
	assert.Equal(t, handles, live)
	p := s.Projectile(handles[0])
	require.NotNil(t, p)
	assert.InDelta(t, 350, p.Speed(), 1e-9)
	assert.Equal(t, testShooter, p.Owner)
	assert.Equal(t, entity.Kinetic{Damage: 20}, p.Payload)

	require.NoError(t, s.Update(context.Background(), 0.25))
	assert.Zero(t, w.Accuracy.CurrentBloom, "bloom recovers between shots")

	ev, _, ok = s.PullTrigger(testShooter, press, origin, aim, entity.ShooterState{}, 11)
	require.True(t, ok)
	assert.InDelta(t, 0.003, ev.SpreadAngle, 1e-12)
	assert.Len(t, s.Drain().Fires, 2)
}

func TestEvents_Empty(t *testing.T) {
	var ev Events
	assert.True(t, ev.Empty())
	ev.Removed = append(ev.Removed, RemovedProjectile{Reason: RemovalSpeed})
	assert.False(t, ev.Empty())
}
