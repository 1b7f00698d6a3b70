package gui

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/wavesurf/internal/anim"
	"github.com/san-kum/wavesurf/internal/surface"
	"github.com/san-kum/wavesurf/internal/viz"
)

var (
	ColBg      = rl.NewColor(250, 250, 250, 255)
	ColAxis    = rl.NewColor(90, 90, 90, 255)
	ColText    = rl.NewColor(40, 40, 40, 255)
	ColTextDim = rl.NewColor(140, 140, 140, 255)
)

const (
	sceneScale  = 10.0
	orbitStep   = 1.5 * math.Pi / 180
	defaultElev = 30 * math.Pi / 180
	defaultAzim = -60 * math.Pi / 180
	camDistance = 24.0
)

// Options sizes the window.
type Options struct {
	Width  int
	Height int
	Title  string
}

// App plays a driver in a raylib window.
type App struct {
	Driver  *anim.Driver
	Camera  rl.Camera3D
	Paused  bool
	Elev    float64
	Azim    float64
	elapsed float64
	err     error
}

func initWindow(opts Options) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	rl.SetTargetFPS(60)
}

// NewApp returns an app with the camera at the default elevation and
// azimuth.
func NewApp(d *anim.Driver) *App {
	a := &App{
		Driver: d,
		Elev:   defaultElev,
		Azim:   defaultAzim,
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 0, camDistance),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			35.0,
			rl.CameraPerspective,
		),
	}
	a.Camera.Position = orbitPosition(a.Elev, a.Azim, camDistance)
	return a
}

// Run opens the window and plays d until the window is closed.
func Run(d *anim.Driver, opts Options) error {
	if opts.Title == "" {
		opts.Title = "wavesurf"
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(d)
	if err := d.Step(); err != nil {
		return err
	}
	return app.RunLoop()
}

func (a *App) RunLoop() error {
	for !rl.WindowShouldClose() {
		a.Update(float64(rl.GetFrameTime()))
		if a.err != nil {
			return a.err
		}
		a.Draw()
	}
	return nil
}

// Update handles input and advances the driver once per frame interval.
func (a *App) Update(dt float64) {
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Driver.Restart()
		a.elapsed = 0
		a.advance()
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		a.Azim -= orbitStep
	}
	if rl.IsKeyDown(rl.KeyRight) {
		a.Azim += orbitStep
	}
	if rl.IsKeyDown(rl.KeyUp) {
		a.Elev = math.Min(a.Elev+orbitStep, math.Pi/2-0.01)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		a.Elev = math.Max(a.Elev-orbitStep, -math.Pi/2+0.01)
	}
	a.Camera.Position = orbitPosition(a.Elev, a.Azim, camDistance)

	if a.Paused {
		return
	}
	a.elapsed += dt
	interval := a.Driver.Interval().Seconds()
	for a.elapsed >= interval && a.err == nil {
		a.elapsed -= interval
		a.advance()
	}
}

func (a *App) advance() {
	err := a.Driver.Step()
	switch {
	case err == nil:
	case errors.Is(err, anim.ErrDone):
		a.elapsed = 0
	default:
		slog.Error("playback failed", "frame", a.Driver.Index()+1, "error", err)
		a.err = err
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	s := a.Driver.Surface()
	rl.BeginMode3D(a.Camera)
	rl.DisableBackfaceCulling()
	rl.DrawCubeWires(rl.NewVector3(0, 0, 0), sceneScale, sceneScale, sceneScale, ColAxis)
	if s != nil {
		a.drawSurface(s)
	}
	rl.EnableBackfaceCulling()
	rl.EndMode3D()

	a.drawLabels(a.Driver.Style())
	a.drawHUD()
	rl.EndDrawing()
}

func (a *App) drawSurface(s *surface.Surface) {
	if s.N == 1 {
		rl.DrawSphere(vertex(s, s.Points[0][0]), 0.2, toColor(s.Points[0][0].Color))
		return
	}
	quads := make([]surface.Quad, len(s.Quads))
	copy(quads, s.Quads)
	dist := func(q surface.Quad) float32 {
		x, y, z := q.Center()
		v := sceneVec(viz.Scene(x, y, s.ClampZ(z)))
		return rl.Vector3Distance(v, a.Camera.Position)
	}
	sort.Slice(quads, func(i, j int) bool { return dist(quads[i]) > dist(quads[j]) })

	for _, q := range quads {
		c := toColor(q.Color)
		p0, p1, p2, p3 := vertex(s, q.Corners[0]), vertex(s, q.Corners[1]), vertex(s, q.Corners[2]), vertex(s, q.Corners[3])
		rl.DrawTriangle3D(p0, p1, p2, c)
		rl.DrawTriangle3D(p0, p2, p3, c)
	}
}

func (a *App) drawLabels(st surface.Style) {
	label := func(text string, v viz.Vec3) {
		p := rl.GetWorldToScreen(sceneVec(v), a.Camera)
		rl.DrawText(text, int32(p.X), int32(p.Y), 16, ColTextDim)
	}
	for _, t := range []float64{0, 0.5, 1} {
		tick := fmt.Sprintf("%.1f", t)
		label(tick, viz.Scene(t, -0.08, 0))
		label(tick, viz.Scene(1.08, t, 0))
		label(tick, viz.Scene(-0.08, 1.08, t))
	}
	label(st.XLabel, viz.Scene(0.5, -0.2, 0))
	label(st.YLabel, viz.Scene(1.2, 0.5, 0))
	label(st.ZLabel, viz.Scene(-0.2, 1.2, 0.5))
}

func (a *App) drawHUD() {
	status := fmt.Sprintf("frame %d/%d", a.Driver.Index()+1, a.Driver.Total())
	if a.Paused {
		status += "  [paused]"
	}
	rl.DrawText(status, 16, 16, 20, ColText)
	if f := a.Driver.Frame(); f != nil {
		rl.DrawText(f.Path, 16, 42, 16, ColTextDim)
	}
	rl.DrawText("space pause  r restart  arrows orbit", 16, int32(rl.GetScreenHeight())-28, 16, ColTextDim)
}

// orbitPosition places the camera on a sphere around the origin. Azimuth is
// measured from +X toward the data's +Y axis, which points into -Z.
func orbitPosition(elev, azim, dist float64) rl.Vector3 {
	return rl.NewVector3(
		float32(dist*math.Cos(elev)*math.Cos(azim)),
		float32(dist*math.Sin(elev)),
		float32(-dist*math.Cos(elev)*math.Sin(azim)),
	)
}

func vertex(s *surface.Surface, p surface.Point) rl.Vector3 {
	return sceneVec(viz.PointVec(s, p))
}

func sceneVec(v viz.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X*sceneScale), float32(v.Y*sceneScale), float32(v.Z*sceneScale))
}

func toColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
