package viewer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/ballistics/internal/application/session"
	"github.com/younwookim/ballistics/internal/application/state"
	"github.com/younwookim/ballistics/internal/application/system"
	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/infrastructure/config"
)

func newFactory(t *testing.T) Factory {
	t.Helper()
	loader := config.NewLoader("../../../../cmd/range/configs")
	bundle, err := loader.LoadAll()
	require.NoError(t, err)
	rc, err := loader.LoadRange("proving-ground")
	require.NoError(t, err)
	bundle.Simulation.Ticks = 120

	return func() (*session.Session, error) {
		return session.New(bundle.Simulation, rc, bundle.Arsenal)
	}
}

func newViewer(t *testing.T) *Viewer {
	t.Helper()
	factory := newFactory(t)
	s, err := factory()
	require.NoError(t, err)
	return New(s, factory, NewCamera(640, 360, 2), 640, 360, zerolog.Nop())
}

func TestCamera_Project(t *testing.T) {
	c := Camera{PixelsPerMeter: 2, Exaggeration: 4, OriginX: 10, GroundY: 300}

	x, y := c.Project(mgl64.Vec3{5, 0, 0})
	assert.Equal(t, 10.0, x, "lateral offset is not drawn")
	assert.Equal(t, 300.0, y)

	x, y = c.Project(mgl64.Vec3{0, 1.5, -100})
	assert.Equal(t, 210.0, x)
	assert.Equal(t, 288.0, y)
}

func TestNewCamera(t *testing.T) {
	c := NewCamera(640, 360, 0)
	assert.Equal(t, 2.0, c.PixelsPerMeter)
	assert.Equal(t, 320.0, c.GroundY)
	assert.Greater(t, c.OriginX, 0.0)
}

func TestViewer_UpdateStepsSession(t *testing.T) {
	v := newViewer(t)
	v.OnEnter()

	for i := 0; i < 10; i++ {
		next, err := v.Update(1.0 / 60)
		require.NoError(t, err)
		assert.Nil(t, next)
	}
	assert.Equal(t, uint64(10), v.Session().System().Tick())
	assert.Equal(t, uint64(10), v.lastTick)
	v.OnExit()
}

func TestViewer_PausedSessionHoldsMarks(t *testing.T) {
	v := newViewer(t)
	_, err := v.Update(1.0 / 60)
	require.NoError(t, err)

	v.Session().TogglePause()
	v.blasts = []mark{{radius: 5, ttl: blastTTL}}
	for i := 0; i < 3; i++ {
		_, err := v.Update(0.1)
		require.NoError(t, err)
	}
	assert.Equal(t, uint64(1), v.Session().System().Tick())
	assert.Len(t, v.blasts, 1)
	assert.InDelta(t, 0.2, v.blasts[0].ttl, 1e-9)
}

func TestViewer_Restart(t *testing.T) {
	v := newViewer(t)
	for i := 0; i < 5; i++ {
		_, err := v.Update(1.0 / 60)
		require.NoError(t, err)
	}
	first := v.Session()
	v.impacts = []mark{{ttl: 1}}

	require.NoError(t, v.Restart())
	assert.NotSame(t, first, v.Session())
	assert.Equal(t, uint64(0), v.Session().System().Tick())
	assert.Equal(t, state.StateRunning, v.Session().State())
	assert.Empty(t, v.impacts)
	assert.Equal(t, 1, v.restarts)
}

func TestViewer_RestartErrors(t *testing.T) {
	v := newViewer(t)
	boom := errors.New("range missing")
	v.factory = func() (*session.Session, error) { return nil, boom }

	err := v.Restart()
	assert.ErrorIs(t, err, boom)
	assert.NotNil(t, v.Session(), "the old session stays on failure")

	v.factory = nil
	assert.NoError(t, v.Restart())
}

func TestViewer_AbsorbAndAge(t *testing.T) {
	v := newViewer(t)
	v.absorb(system.Events{
		Explosions: []entity.ExplosionEvent{{Center: mgl64.Vec3{0, 0, -30}, Radius: 6}},
		Hits:       []entity.HitEvent{{ImpactPoint: mgl64.Vec3{0, 1, -52}}, {ImpactPoint: mgl64.Vec3{0, 1, -100}}},
	})
	require.Len(t, v.blasts, 1)
	require.Len(t, v.impacts, 2)
	assert.Equal(t, 6.0, v.blasts[0].radius)

	v.impacts = age(v.impacts, impactTTL/2)
	assert.Len(t, v.impacts, 2)
	v.impacts = age(v.impacts, impactTTL)
	assert.Empty(t, v.impacts)

	v.blasts = age(v.blasts, blastTTL+0.01)
	assert.Empty(t, v.blasts)
}

func TestViewer_RunsToFinish(t *testing.T) {
	v := newViewer(t)
	for i := 0; i < 200; i++ {
		_, err := v.Update(1.0 / 60)
		require.NoError(t, err)
	}
	assert.Equal(t, state.StateFinished, v.Session().State())
	assert.Equal(t, uint64(120), v.Session().System().Tick())
}
