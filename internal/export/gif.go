package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"time"

	"github.com/san-kum/sphview/internal/playback"
	"github.com/san-kum/sphview/internal/trace"
)

var palette = color.Palette{
	color.White,
	playback.Red.RGBA(),
	playback.Blue.RGBA(),
}

type GIFOptions struct {
	Width, Height int
	Diameter      float64
	Interval      time.Duration
	// MaxFrames caps the animation length; 0 records every frame once.
	MaxFrames int
}

// GIF plays t through a controller at a fixed viewport and records one image
// per frame, starting at frame 0.
func GIF(w io.Writer, t *trace.Trace, opts GIFOptions) error {
	if t.Len() == 0 {
		return playback.ErrEmptyTrace
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.New("export: gif size must be positive")
	}
	n := t.Len()
	if opts.MaxFrames > 0 && opts.MaxFrames < n {
		n = opts.MaxFrames
	}
	delay := int(opts.Interval / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}

	ctrl := playback.New(playback.FixedViewport{Width: opts.Width, Height: opts.Height}, playback.Options{
		BallDiameter: opts.Diameter,
	})
	ctrl.LoadTrace(t)
	d := ctrl.BallDiameter()

	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, err := ctrl.Step(); err != nil {
				return err
			}
		}
		img := image.NewPaletted(image.Rect(0, 0, opts.Width, opts.Height), palette)
		for _, b := range ctrl.Drawables() {
			fillOval(img, b.X, b.Y, d, uint8(b.Color)+1)
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func fillOval(img *image.Paletted, x, y, d float64, idx uint8) {
	r := d / 2
	cx, cy := x+r, y+r
	for py := int(y); py <= int(y+d); py++ {
		for px := int(x); px <= int(x+d); px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if dx*dx+dy*dy <= r*r {
				img.SetColorIndex(px, py, idx)
			}
		}
	}
}
