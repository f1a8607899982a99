package store

import (
	"errors"

	"github.com/san-kum/sphview/internal/trace"
)

// ErrEmptyTrace is returned by frame access on a store with no frames.
var ErrEmptyTrace = errors.New("store: empty trace")

// Store owns the active trace and the current frame index. It is not safe
// for concurrent use; the playback controller serializes access.
type Store struct {
	trace *trace.Trace
	index int
	dirty bool
}

func New() *Store {
	return &Store{}
}

// Load replaces the active trace, rewinds to frame 0 and marks the store dirty.
func (s *Store) Load(t *trace.Trace) {
	s.trace = t
	s.index = 0
	s.dirty = true
}

func (s *Store) Trace() *trace.Trace { return s.trace }

// Loaded reports whether any trace has been loaded, even an empty one.
func (s *Store) Loaded() bool { return s.trace != nil }

func (s *Store) BallCount() int {
	if s.trace == nil {
		return 0
	}
	return s.trace.NumBalls
}

func (s *Store) FrameCount() int { return s.trace.Len() }

func (s *Store) Scale() float64 {
	if s.trace == nil {
		return 0
	}
	return s.trace.Scale
}

// Index is meaningful only while FrameCount is non-zero.
func (s *Store) Index() int { return s.index }

func (s *Store) CurrentFrame() (trace.Frame, error) {
	if s.FrameCount() == 0 {
		return trace.Frame{}, ErrEmptyTrace
	}
	return s.trace.Frames[s.index], nil
}

// Advance moves to the next frame, wrapping to 0 after the last one.
func (s *Store) Advance() (int, error) {
	n := s.FrameCount()
	if n == 0 {
		return 0, ErrEmptyTrace
	}
	s.index++
	if s.index >= n {
		s.index = 0
	}
	return s.index, nil
}

// Dirty reports whether a Load happened since the last ClearDirty.
func (s *Store) Dirty() bool { return s.dirty }
func (s *Store) ClearDirty() { s.dirty = false }
