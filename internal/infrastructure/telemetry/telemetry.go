package telemetry

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/younwookim/ballistics/internal/application/system"
)

const instrumentationName = "github.com/younwookim/ballistics/internal/infrastructure/telemetry"

// Meter returns the global meter, a no-op unless a provider was installed
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Recorder exports per-tick simulation stats as OTel instruments
type Recorder struct {
	spawned      metric.Int64Counter
	hits         metric.Int64Counter
	penetrations metric.Int64Counter
	ricochets    metric.Int64Counter
	explosions   metric.Int64Counter
	removed      metric.Int64Counter
	active       metric.Int64ObservableGauge

	lastActive atomic.Int64
	lastTick   atomic.Uint64
}

// NewRecorder registers the simulation instruments on m
func NewRecorder(m metric.Meter) (*Recorder, error) {
	r := &Recorder{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.spawned, "ballistics.projectiles.spawned", "Projectiles spawned"},
		{&r.hits, "ballistics.hits", "Surface and target hits"},
		{&r.penetrations, "ballistics.penetrations", "Surfaces penetrated"},
		{&r.ricochets, "ballistics.ricochets", "Ricochets"},
		{&r.explosions, "ballistics.explosions", "Explosions"},
		{&r.removed, "ballistics.projectiles.removed", "Projectiles removed"},
	}
	for _, c := range counters {
		counter, err := m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
		*c.dst = counter
	}

	var err error
	r.active, err = m.Int64ObservableGauge(
		"ballistics.projectiles.active",
		metric.WithDescription("Projectiles alive after the last tick"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active gauge: %w", err)
	}

	_, err = m.RegisterCallback(
		func(_ context.Context, o metric.Observer) error {
			o.ObserveInt64(r.active, r.lastActive.Load())
			return nil
		},
		r.active,
	)
	if err != nil {
		return nil, fmt.Errorf("registering active callback: %w", err)
	}
	return r, nil
}

// RecordTick adds one tick's counts
func (r *Recorder) RecordTick(ctx context.Context, s system.TickStats) {
	add := func(c metric.Int64Counter, n int) {
		if n > 0 {
			c.Add(ctx, int64(n))
		}
	}
	add(r.spawned, s.Spawned)
	add(r.hits, s.Hits)
	add(r.penetrations, s.Penetrations)
	add(r.ricochets, s.Ricochets)
	add(r.explosions, s.Explosions)
	add(r.removed, s.Removed)

	r.lastActive.Store(int64(s.Active))
	r.lastTick.Store(s.Tick)
}

// Active returns the active projectile count reported by the last tick
func (r *Recorder) Active() int64 { return r.lastActive.Load() }

// LastTick returns the last recorded tick
func (r *Recorder) LastTick() uint64 { return r.lastTick.Load() }
