package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/sphview/internal/playback"
)

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(a.palette.Bg)

	a.drawBalls()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) drawBalls() {
	r := float32(a.ctrl.BallDiameter() / 2)
	for _, b := range a.ctrl.Drawables() {
		c := b.Color.RGBA()
		center := rl.NewVector2(float32(b.X)+r, float32(b.Y)+r)
		rl.DrawCircleV(center, r, rl.NewColor(c.R, c.G, c.B, c.A))
	}
}

func (a *App) DrawHUD() {
	y := a.height.Load() + 6
	w := a.width.Load()
	rl.DrawLine(0, y-6, w, y-6, a.palette.Dim)

	status := a.ctrl.State().String()
	if a.err != nil {
		rl.DrawText(a.err.Error(), 8, y, 14, rl.Red)
		return
	}
	rl.DrawText(fmt.Sprintf("%s  %s", a.ctrl.Progress(), status), 8, y, 14, a.palette.Text)

	help := "[SPACE] RUN  [N] STEP  [R] RELOAD  [T] THEME  [Q] QUIT"
	if a.ctrl.State() == playback.NoData {
		help = "drop a trace file on the window"
	}
	tw := rl.MeasureText(help, 12)
	rl.DrawText(help, w-tw-8, y+2, 12, a.palette.Dim)
}
