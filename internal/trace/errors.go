package trace

import (
	"errors"
	"fmt"
)

// Decode failure kinds. Test with errors.Is.
var (
	// ErrUnknownFormat indicates the leading tag names no known encoding.
	ErrUnknownFormat = errors.New("trace: unknown format")

	// ErrMalformedFrame indicates a numeric token that does not parse inside
	// a frame or the header.
	ErrMalformedFrame = errors.New("trace: malformed frame")

	// ErrIOFailure indicates the stream could not be opened or read.
	ErrIOFailure = errors.New("trace: read failure")
)

// DecodeError wraps a decode failure with its position in the input.
type DecodeError struct {
	Kind  error
	Tag   string
	Frame int // -1 for the header
	Ball  int
	Token string
	Err   error
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Error()
	switch {
	case e.Kind == ErrUnknownFormat:
		msg = fmt.Sprintf("%s %q", msg, e.Tag)
	case e.Frame < 0:
		msg += " (header)"
	default:
		msg = fmt.Sprintf("%s %d, ball %d", msg, e.Frame, e.Ball)
	}
	if e.Token != "" {
		msg = fmt.Sprintf("%s: bad token %q", msg, e.Token)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func ioFailure(err error) error {
	return &DecodeError{Kind: ErrIOFailure, Frame: -1, Err: err}
}

func malformed(frame, ball int, token string, err error) error {
	return &DecodeError{Kind: ErrMalformedFrame, Frame: frame, Ball: ball, Token: token, Err: err}
}
