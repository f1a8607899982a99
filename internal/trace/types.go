package trace

import "fmt"

// Format identifies one of the two on-disk encodings.
type Format int

const (
	FormatText Format = iota
	FormatBinary
)

const (
	TextTag   = "SPHView00"
	BinaryTag = "SPHView01"
)

func (f Format) Tag() string {
	if f == FormatBinary {
		return BinaryTag
	}
	return TextTag
}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat accepts "text", "binary" or a tag.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "txt", TextTag:
		return FormatText, nil
	case "binary", "bin", BinaryTag:
		return FormatBinary, nil
	}
	return 0, fmt.Errorf("trace: unknown format name %q", s)
}

// Ball is one particle in native coordinates.
type Ball struct {
	X, Y  float64
	Class int
}

// Frame is an immutable snapshot of every ball at one tick.
type Frame struct {
	balls []Ball
}

// NewFrame copies balls into a new Frame.
func NewFrame(balls []Ball) Frame {
	b := make([]Ball, len(balls))
	copy(b, balls)
	return Frame{balls: b}
}

func (f Frame) Len() int        { return len(f.balls) }
func (f Frame) Ball(i int) Ball { return f.balls[i] }

// Balls returns a copy of the frame's balls.
func (f Frame) Balls() []Ball {
	b := make([]Ball, len(f.balls))
	copy(b, f.balls)
	return b
}

// Trace is a decoded file. Every frame holds exactly NumBalls balls.
type Trace struct {
	Format   Format
	NumBalls int
	Scale    float64
	Frames   []Frame
}

func (t *Trace) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Frames)
}

// Validate checks the invariants Decode guarantees, for traces built by hand.
func (t *Trace) Validate() error {
	if t.NumBalls < 1 {
		return fmt.Errorf("trace: ball count must be positive, got %d", t.NumBalls)
	}
	if !(t.Scale > 0) {
		return fmt.Errorf("trace: scale must be positive, got %g", t.Scale)
	}
	for i, f := range t.Frames {
		if f.Len() != t.NumBalls {
			return fmt.Errorf("trace: frame %d has %d balls, want %d", i, f.Len(), t.NumBalls)
		}
	}
	return nil
}
