package trace

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeText(t *testing.T) {
	input := `SPHView00 2 1.5
0.1 0.2 0
0.3 0.4 1
0.5 0.6 1
0.7 0.8 0
`
	tr, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if tr.Format != FormatText {
		t.Errorf("expected text format, got %v", tr.Format)
	}
	if tr.NumBalls != 2 {
		t.Errorf("expected 2 balls, got %d", tr.NumBalls)
	}
	if tr.Scale != 1.5 {
		t.Errorf("expected scale 1.5, got %f", tr.Scale)
	}
	if len(tr.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(tr.Frames))
	}

	want := [][]Ball{
		{{0.1, 0.2, 0}, {0.3, 0.4, 1}},
		{{0.5, 0.6, 1}, {0.7, 0.8, 0}},
	}
	for i, f := range tr.Frames {
		if f.Len() != tr.NumBalls {
			t.Fatalf("frame %d: expected %d balls, got %d", i, tr.NumBalls, f.Len())
		}
		for j, b := range want[i] {
			if got := f.Ball(j); got != b {
				t.Errorf("frame %d ball %d: expected %+v, got %+v", i, j, b, got)
			}
		}
	}
}

func TestDecodeTextTrailer(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		frames int
	}{
		{"no frames", "SPHView00 1 1.0\n", 0},
		{"end marker", "SPHView00 1 1.0\n0.5 0.5 0\nEND\n", 1},
		{"trailer then junk", "SPHView00 1 1.0\n0.5 0.5 0\n0.1 0.1 1\ndone 1 2 x\n", 2},
		{"tokens on one line", "SPHView00 1 2 1 1 0 2 2 1", 2},
		{"long trailer", "SPHView00 1 1.0\n0.5 0.5 0\n" + strings.Repeat("x", 70000), 1},
		{"oversized trailer", "SPHView00 1 1.0\n0.5 0.5 0\n" + strings.Repeat("x", maxTokenLen+1), 1},
	}

	for _, tt := range tests {
		tr, err := Decode(strings.NewReader(tt.input))
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
			continue
		}
		if len(tr.Frames) != tt.frames {
			t.Errorf("%s: expected %d frames, got %d", tt.name, tt.frames, len(tr.Frames))
		}
	}
}

func TestDecodeTextMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		frame int
	}{
		{"bad y", "SPHView00 2 1.0\n0.1 0.2 0 0.3 oops 1\n", 0},
		{"bad class", "SPHView00 1 1.0\n0.1 0.2 0\n0.1 0.2 red\n", 1},
		{"float class", "SPHView00 1 1.0\n0.1 0.2 0.5\n", 0},
		{"truncated", "SPHView00 2 1.0\n0.1 0.2 0 0.3\n", 0},
		{"bad ball count", "SPHView00 two 1.0\n", -1},
		{"zero scale", "SPHView00 1 0\n", -1},
		{"zero balls", "SPHView00 0 1\n", -1},
		{"missing header", "SPHView00", -1},
		{"oversized number", "SPHView00 1 1.0\n0.5 " + strings.Repeat("9", maxTokenLen+1) + " 0\n", 0},
	}

	for _, tt := range tests {
		tr, err := Decode(strings.NewReader(tt.input))
		if !errors.Is(err, ErrMalformedFrame) {
			t.Errorf("%s: expected ErrMalformedFrame, got %v", tt.name, err)
			continue
		}
		if tr != nil {
			t.Errorf("%s: expected no trace on error", tt.name)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("%s: expected *DecodeError, got %T", tt.name, err)
		}
		if de.Frame != tt.frame {
			t.Errorf("%s: expected frame %d, got %d", tt.name, tt.frame, de.Frame)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	for _, input := range []string{"FOO 1 1.0", "", "   \n", "SPHView02\n", "sphview00 1 1"} {
		tr, err := Decode(strings.NewReader(input))
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("%q: expected ErrUnknownFormat, got %v", input, err)
		}
		if tr != nil {
			t.Errorf("%q: expected nil trace", input)
		}
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "absent.sph"))
	if !errors.Is(err, ErrIOFailure) {
		t.Errorf("expected ErrIOFailure, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

type ball32 struct {
	x, y  float32
	class int32
}

func binaryTrace(reserved string, numBalls int32, scale float32, balls []ball32) []byte {
	var buf bytes.Buffer
	buf.WriteString(BinaryTag + "\n")
	if reserved != "" {
		buf.WriteString(reserved + "\n")
	}
	binary.Write(&buf, binary.BigEndian, numBalls)
	binary.Write(&buf, binary.BigEndian, scale)
	for _, b := range balls {
		binary.Write(&buf, binary.BigEndian, math.Float32bits(b.x))
		binary.Write(&buf, binary.BigEndian, math.Float32bits(b.y))
		binary.Write(&buf, binary.BigEndian, b.class)
	}
	return buf.Bytes()
}

func TestDecodeBinary(t *testing.T) {
	balls := []ball32{
		{0.25, 0.5, 0}, {0.75, 1, 1}, {2, 3, 7},
		{0.5, 0.5, 1}, {1, 1, 0}, {1.5, 1.5, -1},
	}
	data := binaryTrace("comment line", 3, 2.0, balls)

	tr, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if tr.Format != FormatBinary {
		t.Errorf("expected binary format, got %v", tr.Format)
	}
	if tr.NumBalls != 3 || tr.Scale != 2.0 {
		t.Errorf("expected 3 balls at scale 2, got %d at %f", tr.NumBalls, tr.Scale)
	}
	if len(tr.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(tr.Frames))
	}
	for i, b := range balls {
		got := tr.Frames[i/3].Ball(i % 3)
		want := Ball{X: float64(b.x), Y: float64(b.y), Class: int(b.class)}
		if got != want {
			t.Errorf("ball %d: expected %+v, got %+v", i, want, got)
		}
	}
}

func TestDecodeBinaryFrameCount(t *testing.T) {
	const numBalls = 4
	header := len(binaryTrace("r", numBalls, 1, nil))
	frameBytes := numBalls * recordSize

	for _, extra := range []int{0, 1, frameBytes - 1, frameBytes, frameBytes + frameBytes/2, 5*frameBytes + 11} {
		data := binaryTrace("r", numBalls, 1, nil)
		data = append(data, make([]byte, extra)...)

		tr, err := Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("extra=%d: decode failed: %v", extra, err)
		}
		want := (len(data) - header) / frameBytes
		if len(tr.Frames) != want {
			t.Errorf("extra=%d: expected %d frames, got %d", extra, want, len(tr.Frames))
		}
	}
}

func TestDecodeBinaryTruncatedFrame(t *testing.T) {
	balls := []ball32{{0.1, 0.2, 0}, {0.3, 0.4, 1}, {0.5, 0.6, 0}, {0.7, 0.8, 1}}
	data := binaryTrace("r", 2, 1, balls)
	// Header plus 1.5 frames.
	data = data[:len(data)-recordSize]

	tr, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("truncated trace should decode, got %v", err)
	}
	if len(tr.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(tr.Frames))
	}
	if b := tr.Frames[0].Ball(1); b.X != float64(float32(0.3)) {
		t.Errorf("expected first frame kept intact, got %+v", b)
	}
}

func TestDecodeBinaryReservedLines(t *testing.T) {
	data := binaryTrace("", 1, 1, []ball32{{0.5, 0.5, 0}})

	dec := NewDecoder()
	dec.ReservedLines = 0
	tr, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(tr.Frames) != 1 {
		t.Errorf("expected 1 frame, got %d", len(tr.Frames))
	}
}

func TestDecodeBinaryHeader(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		kind error
	}{
		{"no newline", []byte(BinaryTag), ErrIOFailure},
		{"short header", append([]byte(BinaryTag+"\nr\n"), 0, 0, 0), ErrIOFailure},
		{"negative balls", binaryTrace("r", -3, 1, nil), ErrMalformedFrame},
		{"negative scale", binaryTrace("r", 1, -1, nil), ErrMalformedFrame},
	}

	for _, tt := range tests {
		tr, err := Decode(bytes.NewReader(tt.data))
		if !errors.Is(err, tt.kind) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.kind, err)
		}
		if tr != nil {
			t.Errorf("%s: expected nil trace", tt.name)
		}
	}
}

func TestDecodeBinaryHugeHeaderWithoutData(t *testing.T) {
	// A simulator file read with one reserved line too many lands the header
	// inside the records; whatever count it reads is only trusted as far as
	// the stream backs it.
	data := binaryTrace("r", maxBalls, 1, []ball32{{0.5, 0.5, 0}, {0.25, 0.25, 1}})

	tr, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NumBalls != maxBalls || len(tr.Frames) != 0 {
		t.Errorf("expected no complete frame of %d balls, got %d frames", maxBalls, len(tr.Frames))
	}
}
