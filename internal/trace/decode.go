package trace

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"log"
	"math"
	"os"
	"strconv"
)

const (
	// DefaultReservedLines is the number of lines after the binary tag line
	// that are skipped before the header.
	DefaultReservedLines = 1

	// recordSize is the byte size of one ball in a binary frame.
	recordSize = 12

	maxTagLen   = 32
	maxBalls    = 1 << 24
	maxTokenLen = 1 << 20

	// framePrealloc bounds the ball slice reserved before any record is
	// read, so a bogus header costs nothing until data backs it.
	framePrealloc = 4096
)

// Decoder turns a tagged stream into a Trace.
type Decoder struct {
	// ReservedLines is how many lines follow the binary tag line before the
	// header. Files written straight by the simulator carry none.
	ReservedLines int

	// Logger, when set, receives notes about tolerated input such as a
	// discarded trailer token.
	Logger *log.Logger
}

func NewDecoder() *Decoder {
	return &Decoder{ReservedLines: DefaultReservedLines}
}

// Decode reads r with the default decoder.
func Decode(r io.Reader) (*Trace, error) {
	return NewDecoder().Decode(r)
}

// DecodeFile opens and decodes path with the default decoder.
func DecodeFile(path string) (*Trace, error) {
	return NewDecoder().DecodeFile(path)
}

func (d *Decoder) DecodeFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ioFailure(err)
	}
	defer f.Close()
	return d.Decode(f)
}

// Decode dispatches on the leading tag token. On error the returned trace is nil.
func (d *Decoder) Decode(r io.Reader) (*Trace, error) {
	br := bufio.NewReader(r)
	tag, err := readTag(br)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, ioFailure(err)
	}

	switch tag {
	case TextTag:
		return d.decodeText(br)
	case BinaryTag:
		return d.decodeBinary(br)
	}
	return nil, &DecodeError{Kind: ErrUnknownFormat, Tag: tag, Frame: -1}
}

// readTag returns the first whitespace-delimited token, leaving the
// delimiter unread.
func readTag(br *bufio.Reader) (string, error) {
	var tag []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			return string(tag), err
		}
		if isSpace(c) {
			if len(tag) == 0 {
				continue
			}
			return string(tag), br.UnreadByte()
		}
		tag = append(tag, c)
		if len(tag) > maxTagLen {
			return string(tag), nil
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func (d *Decoder) decodeText(br *bufio.Reader) (*Trace, error) {
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), maxTokenLen)
	sc.Split(bufio.ScanWords)

	frame, ball := -1, 0
	token := func() (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		switch err := sc.Err(); {
		case errors.Is(err, bufio.ErrTooLong):
			return "", malformed(frame, ball, "", err)
		case err != nil:
			return "", ioFailure(err)
		}
		return "", malformed(frame, ball, "", io.ErrUnexpectedEOF)
	}
	float := func() (float64, error) {
		tok, err := token()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, malformed(frame, ball, tok, nil)
		}
		return v, nil
	}
	integer := func() (int, error) {
		tok, err := token()
		if err != nil {
			return 0, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return 0, malformed(frame, ball, tok, nil)
		}
		return v, nil
	}

	numBalls, err := integer()
	if err != nil {
		return nil, err
	}
	scale, err := float()
	if err != nil {
		return nil, err
	}
	if err := checkHeader(numBalls, scale); err != nil {
		return nil, err
	}

	tr := &Trace{Format: FormatText, NumBalls: numBalls, Scale: scale}
	balls := make([]Ball, 0, min(numBalls, framePrealloc))
	for {
		if !sc.Scan() {
			err := sc.Err()
			if errors.Is(err, bufio.ErrTooLong) {
				d.logf("trace: stopped at oversized token after %d frames", len(tr.Frames))
				break
			}
			if err != nil {
				return nil, ioFailure(err)
			}
			break
		}
		tok := sc.Text()
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			d.logf("trace: stopped at %q after %d frames", tok, len(tr.Frames))
			break
		}

		frame = len(tr.Frames)
		balls = balls[:0]
		for ball = 0; ball < numBalls; ball++ {
			if ball > 0 {
				if x, err = float(); err != nil {
					return nil, err
				}
			}
			y, err := float()
			if err != nil {
				return nil, err
			}
			class, err := integer()
			if err != nil {
				return nil, err
			}
			balls = append(balls, Ball{X: x, Y: y, Class: class})
		}
		tr.Frames = append(tr.Frames, NewFrame(balls))
	}
	return tr, nil
}

func (d *Decoder) decodeBinary(br *bufio.Reader) (*Trace, error) {
	// Remainder of the tag line, then the reserved lines.
	for i := 0; i <= d.ReservedLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, ioFailure(err)
		}
	}

	var hdr [8]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, ioFailure(err)
	}
	numBalls := int(int32(binary.BigEndian.Uint32(hdr[0:4])))
	scale := float64(math.Float32frombits(binary.BigEndian.Uint32(hdr[4:8])))
	if err := checkHeader(numBalls, scale); err != nil {
		return nil, err
	}

	tr := &Trace{Format: FormatBinary, NumBalls: numBalls, Scale: scale}
	balls := make([]Ball, 0, min(numBalls, framePrealloc))
	var rec [recordSize]byte
	for {
		balls = balls[:0]
		for len(balls) < numBalls {
			n, err := io.ReadFull(br, rec[:])
			if errors.Is(err, io.EOF) && len(balls) == 0 {
				return tr, nil
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				d.logf("trace: dropped truncated frame %d (%d of %d bytes)",
					len(tr.Frames), len(balls)*recordSize+n, numBalls*recordSize)
				return tr, nil
			}
			if err != nil {
				return nil, ioFailure(err)
			}
			balls = append(balls, Ball{
				X:     float64(math.Float32frombits(binary.BigEndian.Uint32(rec[0:4]))),
				Y:     float64(math.Float32frombits(binary.BigEndian.Uint32(rec[4:8]))),
				Class: int(int32(binary.BigEndian.Uint32(rec[8:12]))),
			})
		}
		tr.Frames = append(tr.Frames, NewFrame(balls))
	}
}

func checkHeader(numBalls int, scale float64) error {
	if numBalls < 1 || numBalls > maxBalls {
		return malformed(-1, 0, strconv.Itoa(numBalls), errors.New("ball count out of range"))
	}
	if !(scale > 0) || math.IsInf(scale, 0) {
		return malformed(-1, 0, strconv.FormatFloat(scale, 'g', -1, 64), errors.New("scale must be positive"))
	}
	return nil
}

func (d *Decoder) logf(format string, args ...any) {
	if d.Logger != nil {
		d.Logger.Printf(format, args...)
	}
}
