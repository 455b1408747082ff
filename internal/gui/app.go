package gui

import (
	"fmt"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/watersim/internal/config"
	"github.com/san-kum/watersim/internal/experiment"
	"github.com/san-kum/watersim/internal/physics"
	"github.com/san-kum/watersim/internal/sim"
)

const title = "2D Water Simulation"

var (
	ColBg       = rl.Black
	ColParticle = rl.NewColor(0, 0, 255, 128)
	ColText     = rl.NewColor(140, 140, 140, 255)
	ColTextDim  = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Config   *config.Config
	Registry *experiment.Registry
	Engine   *physics.Engine
	Buffer   *sim.Buffer

	Paused        bool
	ShowHUD       bool
	StepsPerFrame int
	Reseeds       int64
	err           string
}

// initWindow opens a resizable window of the configured size at the
// configured frame rate. Escape does not close it; q and the close button do.
func initWindow(cfg *config.Config) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Width), int32(cfg.Height), title)
	rl.SetTargetFPS(int32(cfg.FPS))
	rl.SetExitKey(0)
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		Config:        cfg.Clone(),
		Registry:      experiment.NewRegistry(),
		ShowHUD:       true,
		StepsPerFrame: 1,
	}
	if err := app.reseed(); err != nil {
		return nil, err
	}
	return app, nil
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	initWindow(cfg)
	defer rl.CloseWindow()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.handleInput() {
			return
		}
		a.Update(a.screenBounds())
		a.Draw()
	}
}

// screenBounds is re-read every frame so resizing the window moves the walls.
func (a *App) screenBounds() physics.Bounds {
	return physics.Bounds{Width: float64(rl.GetScreenWidth()), Height: float64(rl.GetScreenHeight())}
}

// seedBounds prefers the live window size over the configured one.
func seedBounds(configured, screen physics.Bounds) physics.Bounds {
	if screen.Width <= 0 || screen.Height <= 0 {
		return configured
	}
	return screen
}

func (a *App) reseed() error {
	layout, err := a.Registry.GetLayout(a.Config.Layout)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(a.Config.Seed + a.Reseeds))
	bounds := a.Config.Bounds()
	if rl.IsWindowReady() {
		bounds = seedBounds(bounds, a.screenBounds())
	}
	initial := layout(a.Config.Particles, bounds, rng)

	a.Engine = physics.NewEngine(a.Config.Params())
	if a.Buffer == nil {
		a.Buffer = sim.NewBuffer(initial)
	} else {
		a.Buffer.Reset(initial)
	}
	return nil
}

// Update advances the buffer StepsPerFrame ticks within b unless paused.
func (a *App) Update(b physics.Bounds) {
	if a.Paused {
		return
	}
	for i := 0; i < a.StepsPerFrame; i++ {
		a.Buffer.Advance(a.Engine, b)
	}
}

// setParam swaps the engine for one with a changed parameter; particles keep
// their state.
func (a *App) setParam(name string, v float64) {
	if err := a.Config.SetParam(name, v); err != nil {
		a.err = err.Error()
		return
	}
	a.Engine = physics.NewEngine(a.Config.Params())
}

// handleInput reports whether the user asked to quit.
func (a *App) handleInput() bool {
	p := a.Config.Physics

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Paused = !a.Paused
	case rl.IsKeyPressed(rl.KeyR):
		a.Reseeds++
		if err := a.reseed(); err != nil {
			a.err = err.Error()
		}
	case rl.IsKeyPressed(rl.KeyH):
		a.ShowHUD = !a.ShowHUD
	case rl.IsKeyPressed(rl.KeyN):
		if a.Paused {
			a.Buffer.Advance(a.Engine, a.screenBounds())
		}
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.StepsPerFrame = min(a.StepsPerFrame*2, 16)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.StepsPerFrame = max(a.StepsPerFrame/2, 1)
	case rl.IsKeyPressed(rl.KeyG):
		if p.Gravity == 0 {
			a.setParam("gravity", physics.DefaultGravity)
		} else {
			a.setParam("gravity", 0)
		}
	case rl.IsKeyPressed(rl.KeyUp):
		a.setParam("damping", min(p.Damping+0.05, 1))
	case rl.IsKeyPressed(rl.KeyDown):
		a.setParam("damping", max(p.Damping-0.05, 0))
	}
	return false
}

func (a *App) statusLine(tick int) string {
	state := "running"
	if a.Paused {
		state = "paused"
	}
	return fmt.Sprintf("%s  tick %d  x%d  %d FPS", state, tick, a.StepsPerFrame, rl.GetFPS())
}
