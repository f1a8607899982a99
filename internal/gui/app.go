package gui

import (
	"errors"
	"fmt"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/sphview/internal/playback"
)

type palette struct {
	Bg, Text, Dim rl.Color
}

var (
	lightPalette = palette{
		Bg:   rl.NewColor(255, 255, 255, 255),
		Text: rl.NewColor(40, 40, 40, 255),
		Dim:  rl.NewColor(140, 140, 140, 255),
	}
	darkPalette = palette{
		Bg:   rl.NewColor(10, 10, 10, 255),
		Text: rl.NewColor(180, 180, 180, 255),
		Dim:  rl.NewColor(60, 60, 60, 255),
	}
)

const hudHeight = 28

type Options struct {
	Path          string
	Width, Height int
	FPS           int32
	AutoRun       bool
	Dark          bool
	// Reload delivers paths to load again, typically from a file watcher.
	Reload <-chan string
}

// App is the raylib host of a playback.Controller. The window's drawing area
// below the HUD is the controller's viewport.
type App struct {
	ctrl    *playback.Controller
	opts    Options
	palette palette

	// Written on the window thread, read by the controller's ticker.
	width, height atomic.Int32

	index, total atomic.Int64
	changed      atomic.Bool
	err          error
}

// NewApp sizes the window. Build the controller with [App.Viewport] and
// pass both to [Run].
func NewApp(opts Options) *App {
	if opts.Width <= 0 {
		opts.Width = 500
	}
	if opts.Height <= 0 {
		opts.Height = 500
	}
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	a := &App{opts: opts, palette: lightPalette}
	if opts.Dark {
		a.palette = darkPalette
	}
	a.width.Store(int32(opts.Width))
	a.height.Store(int32(opts.Height))
	return a
}

// Viewport reports the drawing area without touching raylib, so it is safe
// to call from any goroutine.
func (a *App) Viewport() playback.Viewport {
	return playback.ViewportFunc(func() (int, int) {
		return int(a.width.Load()), int(a.height.Load())
	})
}

func initWindow(w, h int, fps int32) {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h+hudHeight), "sphview")
	rl.SetTargetFPS(fps)
	rl.SetExitKey(0)
}

// Run opens the window and blocks until it is closed or q is pressed.
func Run(ctrl *playback.Controller, a *App) error {
	a.ctrl = ctrl
	initWindow(a.opts.Width, a.opts.Height, a.opts.FPS)
	defer rl.CloseWindow()

	ctrl.OnFrameChanged(func(index, total int) {
		a.index.Store(int64(index))
		a.total.Store(int64(total))
		a.changed.Store(true)
	})
	if a.opts.Path != "" {
		a.load(a.opts.Path)
		if a.opts.AutoRun {
			a.setErr(ctrl.Run())
		}
	}

	a.RunLoop()
	return ctrl.Close()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and resizes. It returns false when the user quits.
func (a *App) Update() bool {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())-hudHeight
	if h < 0 {
		h = 0
	}
	if w != a.width.Load() || h != a.height.Load() {
		a.width.Store(w)
		a.height.Store(h)
		a.ctrl.Refresh()
	}

	if a.changed.Swap(false) {
		rl.SetWindowTitle(fmt.Sprintf("sphview %d/%d", a.index.Load(), a.total.Load()))
	}

	select {
	case path, ok := <-a.opts.Reload:
		if ok {
			a.reload(path)
		}
	default:
	}

	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		if len(files) > 0 {
			a.opts.Path = files[0]
			a.load(files[0])
		}
		rl.UnloadDroppedFiles()
	}

	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return false
	case rl.IsKeyPressed(rl.KeySpace):
		if a.ctrl.State() == playback.Running {
			a.setErr(a.ctrl.Stop())
		} else {
			a.setErr(a.ctrl.Run())
		}
	case rl.IsKeyPressed(rl.KeyN), rl.IsKeyPressed(rl.KeyRight):
		_, err := a.ctrl.Step()
		a.setErr(err)
	case rl.IsKeyPressed(rl.KeyR):
		if a.opts.Path != "" {
			a.reload(a.opts.Path)
		}
	case rl.IsKeyPressed(rl.KeyT):
		if a.palette == lightPalette {
			a.palette = darkPalette
		} else {
			a.palette = lightPalette
		}
	}
	return true
}

func (a *App) load(path string) {
	a.err = a.ctrl.Load(path)
}

// reload keeps a running playback running across the load.
func (a *App) reload(path string) {
	running := a.ctrl.State() == playback.Running
	a.load(path)
	if a.err == nil && running {
		a.setErr(a.ctrl.Run())
	}
}

func (a *App) setErr(err error) {
	if errors.Is(err, playback.ErrEmptyTrace) {
		err = nil
	}
	a.err = err
}
