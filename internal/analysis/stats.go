package analysis

import (
	"math"
	"sort"

	"github.com/san-kum/sphview/internal/trace"
)

type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

type ClassCount struct {
	Class int
	Count int
}

type Summary struct {
	Format   trace.Format
	NumBalls int
	Scale    float64
	Frames   int
	// Classes counts balls per class in the first frame, sorted by class.
	Classes []ClassCount
	// Bounds covers every ball of every frame, in native coordinates.
	Bounds Bounds
	// Outside counts ball positions that fall outside [0, scale].
	Outside int
}

func Summarize(t *trace.Trace) Summary {
	s := Summary{
		Format:   t.Format,
		NumBalls: t.NumBalls,
		Scale:    t.Scale,
		Frames:   t.Len(),
	}
	if t.Len() == 0 {
		return s
	}

	counts := map[int]int{}
	first := t.Frames[0]
	for i := 0; i < first.Len(); i++ {
		counts[first.Ball(i).Class]++
	}
	for c, n := range counts {
		s.Classes = append(s.Classes, ClassCount{Class: c, Count: n})
	}
	sort.Slice(s.Classes, func(i, j int) bool { return s.Classes[i].Class < s.Classes[j].Class })

	b := Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
	for _, f := range t.Frames {
		for i := 0; i < f.Len(); i++ {
			p := f.Ball(i)
			b.MinX = math.Min(b.MinX, p.X)
			b.MinY = math.Min(b.MinY, p.Y)
			b.MaxX = math.Max(b.MaxX, p.X)
			b.MaxY = math.Max(b.MaxY, p.Y)
			if p.X < 0 || p.Y < 0 || p.X > t.Scale || p.Y > t.Scale {
				s.Outside++
			}
		}
	}
	s.Bounds = b
	return s
}

// MeanSeries returns the centre of mass of each frame.
func MeanSeries(t *trace.Trace) (xs, ys []float64) {
	xs = make([]float64, t.Len())
	ys = make([]float64, t.Len())
	for i, f := range t.Frames {
		if f.Len() == 0 {
			continue
		}
		var sx, sy float64
		for j := 0; j < f.Len(); j++ {
			b := f.Ball(j)
			sx += b.X
			sy += b.Y
		}
		xs[i] = sx / float64(f.Len())
		ys[i] = sy / float64(f.Len())
	}
	return xs, ys
}
