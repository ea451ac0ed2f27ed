// Package viewer provides the side-on range scene that steps a session and
// draws its boxes, targets, projectiles and detonations.
package viewer

import (
	"context"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/younwookim/ballistics/internal/application/scene"
	"github.com/younwookim/ballistics/internal/application/session"
	"github.com/younwookim/ballistics/internal/application/state"
	"github.com/younwookim/ballistics/internal/application/system"
	"github.com/younwookim/ballistics/internal/domain/entity"
	"github.com/younwookim/ballistics/internal/ecs"
)

var (
	colorBG         = color.RGBA{26, 26, 46, 255}
	colorBox        = color.RGBA{80, 80, 100, 255}
	colorTarget     = color.RGBA{100, 200, 100, 255}
	colorTargetHit  = color.RGBA{255, 255, 255, 255}
	colorTargetDown = color.RGBA{70, 70, 70, 255}
	colorProjectile = color.RGBA{255, 215, 0, 255}
	colorStuck      = color.RGBA{200, 120, 40, 255}
	colorImpact     = color.RGBA{255, 100, 100, 255}
	colorBlast      = color.RGBA{255, 140, 0, 255}
)

const (
	blastTTL  = 0.5 // s
	impactTTL = 0.3 // s
)

// Factory builds a fresh session for a restart
type Factory func() (*session.Session, error)

// Camera projects range coordinates onto a side view: distance downrange
// (-Z) runs left to right and height (Y) runs up the screen.
type Camera struct {
	PixelsPerMeter float64
	Exaggeration   float64 // vertical scale relative to horizontal
	OriginX        float64 // screen x of Z = 0
	GroundY        float64 // screen y of Y = 0
}

// NewCamera fits a camera to the screen with the ground near the bottom edge
func NewCamera(screenW, screenH int, pixelsPerMeter float64) Camera {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = 2
	}
	return Camera{
		PixelsPerMeter: pixelsPerMeter,
		Exaggeration:   4,
		OriginX:        float64(screenW) * 0.02,
		GroundY:        float64(screenH) - 40,
	}
}

// Project returns the screen position of p
func (c Camera) Project(p mgl64.Vec3) (float64, float64) {
	return c.OriginX - p.Z()*c.PixelsPerMeter, c.GroundY - p.Y()*c.PixelsPerMeter*c.Exaggeration
}

type mark struct {
	pos    mgl64.Vec3
	radius float64
	ttl    float64
}

// Viewer is the range scene
type Viewer struct {
	factory Factory
	session *session.Session
	camera  Camera
	log     zerolog.Logger
	screenW int
	screenH int

	lastTick uint64
	blasts   []mark
	impacts  []mark
	restarts int
}

// New creates the scene over s. factory is used by Restart and may be nil.
func New(s *session.Session, factory Factory, camera Camera, screenW, screenH int, log zerolog.Logger) *Viewer {
	return &Viewer{
		factory: factory,
		session: s,
		camera:  camera,
		log:     log,
		screenW: screenW,
		screenH: screenH,
	}
}

// Session returns the session currently shown
func (v *Viewer) Session() *session.Session { return v.session }

// OnEnter implements scene.Scene
func (v *Viewer) OnEnter() {
	v.log.Info().Str("range", v.session.RangeID()).Uint64("seed", v.session.Seed()).Msg("viewer started")
}

// OnExit implements scene.Scene
func (v *Viewer) OnExit() {
	t := v.session.Totals()
	v.log.Info().Uint64("ticks", t.Ticks).Int("fires", t.Fires).Int("hits", t.Hits).Msg("viewer closed")
}

// Update handles the keys and steps the session by one tick.
// Space pauses, R restarts and Escape quits.
func (v *Viewer) Update(dt float64) (scene.Scene, error) {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return nil, ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.session.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.Restart(); err != nil {
			return nil, err
		}
	}
	return nil, v.step(context.Background(), dt)
}

func (v *Viewer) step(ctx context.Context, dt float64) error {
	if err := v.session.Step(ctx); err != nil {
		return err
	}
	if tick := v.session.System().Tick(); tick != v.lastTick {
		v.lastTick = tick
		v.absorb(v.session.LastEvents())
	}
	v.blasts = age(v.blasts, dt)
	v.impacts = age(v.impacts, dt)
	return nil
}

// Restart replaces the session with a fresh one from the factory
func (v *Viewer) Restart() error {
	if v.factory == nil {
		return nil
	}
	s, err := v.factory()
	if err != nil {
		return fmt.Errorf("failed to restart session: %w", err)
	}
	v.session = s
	v.lastTick = 0
	v.blasts = nil
	v.impacts = nil
	v.restarts++
	v.log.Info().Int("restarts", v.restarts).Msg("session restarted")
	return nil
}

func (v *Viewer) absorb(ev system.Events) {
	for _, e := range ev.Explosions {
		v.blasts = append(v.blasts, mark{pos: e.Center, radius: e.Radius, ttl: blastTTL})
	}
	for _, h := range ev.Hits {
		v.impacts = append(v.impacts, mark{pos: h.ImpactPoint, ttl: impactTTL})
	}
}

// age counts marks down and drops the expired ones in place
func age(marks []mark, dt float64) []mark {
	kept := marks[:0]
	for _, m := range marks {
		m.ttl -= dt
		if m.ttl > 0 {
			kept = append(kept, m)
		}
	}
	return kept
}

// Draw implements scene.Scene
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBG)
	world := v.session.World()

	for _, b := range world.Boxes {
		x0, y0 := v.camera.Project(mgl64.Vec3{0, b.Max.Y(), b.Max.Z()})
		x1, y1 := v.camera.Project(mgl64.Vec3{0, b.Min.Y(), b.Min.Z()})
		ebitenutil.DrawRect(screen, x0, y0, max(x1-x0, 1), max(y1-y0, 1), colorBox)
	}

	for _, t := range world.Targets {
		c := colorTarget
		switch {
		case !t.Active:
			c = colorTargetDown
		case t.HitTimer > 0:
			c = colorTargetHit
		}
		x, y := v.camera.Project(t.Position)
		w := max(t.Radius*v.camera.PixelsPerMeter, 2)
		h := max(t.Radius*v.camera.PixelsPerMeter*v.camera.Exaggeration, 2)
		ebitenutil.DrawRect(screen, x-w, y-h, 2*w, 2*h, c)
	}

	v.session.System().Each(func(_ ecs.Handle, p *entity.Projectile) {
		x, y := v.camera.Project(p.Position)
		if !p.InFlight() {
			ebitenutil.DrawRect(screen, x-1, y-1, 3, 3, colorStuck)
			return
		}
		px, py := v.camera.Project(p.PreviousPosition)
		ebitenutil.DrawLine(screen, px, py, x, y, colorProjectile)
		ebitenutil.DrawRect(screen, x-1, y-1, 2, 2, colorProjectile)
	})

	for _, m := range v.impacts {
		x, y := v.camera.Project(m.pos)
		ebitenutil.DrawRect(screen, x-2, y-2, 4, 4, colorImpact)
	}
	for _, m := range v.blasts {
		c := colorBlast
		c.A = uint8(200 * m.ttl / blastTTL)
		x, y := v.camera.Project(m.pos)
		r := m.radius * v.camera.PixelsPerMeter
		ebitenutil.DrawRect(screen, x-r, y-r, 2*r, 2*r, c)
	}

	v.drawHUD(screen)
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	t := v.session.Totals()
	hud := fmt.Sprintf("%s  tick %d  projectiles %d\nfires %d  hits %d  pen %d  ric %d  blasts %d  down %d/%d",
		v.session.State(), t.Ticks, v.session.System().Len(),
		t.Fires, t.Hits, t.Penetrations, t.Ricochets, t.Explosions,
		t.TargetsDown, len(v.session.World().Targets))
	ebitenutil.DebugPrint(screen, hud)
	ebitenutil.DebugPrintAt(screen, "Space: Pause | R: Restart | ESC: Quit", 10, v.screenH-20)

	var text string
	switch v.session.State() {
	case state.StatePaused:
		text = "PAUSED\n\nPress Space to resume"
	case state.StateFinished:
		text = "FINISHED\n\nPress R to run again"
	case state.StateFailed:
		text = "FAILED\n\nPress R to restart"
	default:
		return
	}
	ebitenutil.DrawRect(screen, 0, 0, float64(v.screenW), float64(v.screenH), color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrintAt(screen, text, v.screenW/2-60, v.screenH/2-20)
}
