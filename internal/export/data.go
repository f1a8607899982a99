package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/sphview/internal/trace"
)

type ExportData struct {
	Format   string       `json:"format"`
	NumBalls int          `json:"num_balls"`
	Scale    float64      `json:"scale"`
	Frames   int          `json:"frames"`
	Balls    [][]BallData `json:"balls"`
}

type BallData struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Class int     `json:"class"`
}

// JSON writes the whole trace as indented json.
func JSON(w io.Writer, t *trace.Trace) error {
	data := ExportData{
		Format:   t.Format.String(),
		NumBalls: t.NumBalls,
		Scale:    t.Scale,
		Frames:   t.Len(),
		Balls:    make([][]BallData, t.Len()),
	}
	for i, f := range t.Frames {
		row := make([]BallData, f.Len())
		for j := range row {
			b := f.Ball(j)
			row[j] = BallData{X: b.X, Y: b.Y, Class: b.Class}
		}
		data.Balls[i] = row
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// CSV writes one row per ball per frame in native coordinates.
func CSV(w io.Writer, t *trace.Trace) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "ball", "x", "y", "class"}); err != nil {
		return err
	}
	for i, f := range t.Frames {
		for j := 0; j < f.Len(); j++ {
			b := f.Ball(j)
			row := []string{
				strconv.Itoa(i),
				strconv.Itoa(j),
				strconv.FormatFloat(b.X, 'f', 6, 64),
				strconv.FormatFloat(b.Y, 'f', 6, 64),
				strconv.Itoa(b.Class),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
