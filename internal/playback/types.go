package playback

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/san-kum/sphview/internal/store"
	"github.com/san-kum/sphview/internal/trace"
)

const (
	// DefaultInterval is 25 ticks per second.
	DefaultInterval = 40 * time.Millisecond

	// BallDiameter is the display size of a ball in viewport units.
	BallDiameter = 5.0
)

var (
	// ErrEmptyTrace is returned when stepping or running without frames.
	ErrEmptyTrace = store.ErrEmptyTrace

	ErrRunning    = errors.New("playback: already running")
	ErrNotRunning = errors.New("playback: not running")
	ErrBallRange  = errors.New("playback: ball index out of range")
)

type State int

const (
	NoData State = iota
	Ready
	Running
)

func (s State) String() string {
	switch s {
	case NoData:
		return "no data"
	case Ready:
		return "ready"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Viewport reports the current display size. It is queried on every step.
type Viewport interface {
	Size() (width, height int)
}

// ViewportFunc adapts a function to Viewport.
type ViewportFunc func() (int, int)

func (f ViewportFunc) Size() (int, int) { return f() }

// FixedViewport is a viewport that never resizes, for headless use.
type FixedViewport struct {
	Width, Height int
}

func (v FixedViewport) Size() (int, int) { return v.Width, v.Height }

// Color is the display bucket of a ball's class.
type Color int

const (
	Red Color = iota
	Blue
)

// ColorOf maps class 0 to red and every other class to blue.
func ColorOf(class int) Color {
	if class == 0 {
		return Red
	}
	return Blue
}

func (c Color) String() string {
	if c == Red {
		return "red"
	}
	return "blue"
}

func (c Color) RGBA() color.RGBA {
	if c == Red {
		return color.RGBA{R: 255, A: 255}
	}
	return color.RGBA{B: 255, A: 255}
}

// Drawable is one ball in display space, top-left origin.
type Drawable struct {
	X, Y  float64
	Class int
	Color Color
}

// Project maps a ball from native space into a width x height viewport.
func Project(b trace.Ball, scale float64, width, height int, diameter float64) Drawable {
	return Drawable{
		X:     (b.X / scale) * (float64(width) - diameter),
		Y:     (1 - b.Y/scale) * (float64(height) - diameter),
		Class: b.Class,
		Color: ColorOf(b.Class),
	}
}

// ProjectFrame maps every ball of f into dst, reusing its storage.
func ProjectFrame(dst []Drawable, f trace.Frame, scale float64, width, height int, diameter float64) []Drawable {
	dst = dst[:0]
	for i := 0; i < f.Len(); i++ {
		dst = append(dst, Project(f.Ball(i), scale, width, height, diameter))
	}
	return dst
}
