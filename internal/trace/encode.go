package trace

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
)

// reservedLine fills the binary format's reserved lines.
const reservedLine = "sphview trace"

// Encoder writes traces in either format. Text frames are written one ball
// per line; binary traces round-trip through float32.
type Encoder struct {
	Format        Format
	ReservedLines int
}

func NewEncoder(f Format) *Encoder {
	return &Encoder{Format: f, ReservedLines: DefaultReservedLines}
}

// Encode writes t to w in format f with default settings.
func Encode(w io.Writer, t *Trace, f Format) error {
	return NewEncoder(f).Encode(w, t)
}

// EncodeFile creates path and encodes t into it.
func (e *Encoder) EncodeFile(path string, t *Trace) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := e.Encode(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Encoder) Encode(w io.Writer, t *Trace) error {
	if err := t.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	var err error
	if e.Format == FormatBinary {
		err = e.encodeBinary(bw, t)
	} else {
		err = encodeText(bw, t)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

func encodeText(w *bufio.Writer, t *Trace) error {
	buf := make([]byte, 0, 64)
	buf = append(buf, TextTag...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(t.NumBalls), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendFloat(buf, t.Scale, 'g', -1, 64)
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return err
	}

	for _, f := range t.Frames {
		for _, b := range f.balls {
			buf = buf[:0]
			buf = strconv.AppendFloat(buf, b.X, 'e', -1, 64)
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, b.Y, 'e', -1, 64)
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(b.Class), 10)
			buf = append(buf, '\n')
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Encoder) encodeBinary(w *bufio.Writer, t *Trace) error {
	if _, err := w.WriteString(BinaryTag + "\n"); err != nil {
		return err
	}
	for i := 0; i < e.ReservedLines; i++ {
		if _, err := w.WriteString(reservedLine + "\n"); err != nil {
			return err
		}
	}

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(int32(t.NumBalls)))
	binary.BigEndian.PutUint32(hdr[4:8], math.Float32bits(float32(t.Scale)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	rec := make([]byte, t.NumBalls*recordSize)
	for _, f := range t.Frames {
		for i, b := range f.balls {
			r := rec[i*recordSize:]
			binary.BigEndian.PutUint32(r[0:4], math.Float32bits(float32(b.X)))
			binary.BigEndian.PutUint32(r[4:8], math.Float32bits(float32(b.Y)))
			binary.BigEndian.PutUint32(r[8:12], uint32(int32(b.Class)))
		}
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
