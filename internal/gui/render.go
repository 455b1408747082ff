package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/watersim/internal/physics"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ColBg)

	radius := float32(a.Config.Physics.RenderRadius())
	var tick, n int
	a.Buffer.Read(func(v physics.View, t int) {
		tick, n = t, v.Len()
		v.Each(func(_ int, p physics.Vec2) {
			rl.DrawCircleV(rl.NewVector2(float32(p.X), float32(p.Y)), radius, ColParticle)
		})
	})

	if a.ShowHUD {
		a.drawHUD(tick, n)
	}
}

func (a *App) drawHUD(tick, n int) {
	p := a.Config.Physics
	rl.DrawText(a.statusLine(tick), 10, 10, 16, ColText)
	rl.DrawText(fmt.Sprintf("%d particles  g=%.2f  damping=%.2f  R=%.1f  K=%.3f",
		n, p.Gravity, p.Damping, p.InteractionRadius, p.InteractionForce), 10, 30, 14, ColTextDim)
	if a.err != "" {
		rl.DrawText(a.err, 10, 50, 14, rl.Red)
	}

	h := int32(rl.GetScreenHeight())
	rl.DrawText("space pause  n step  r reseed  g gravity  up/down damping  +/- speed  h hud  q quit", 10, h-22, 12, ColTextDim)
}
