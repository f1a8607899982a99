// Package trace decodes and encodes recorded particle traces.
//
// A trace file starts with a tag naming its encoding:
//
//   - SPHView00: whitespace separated text tokens
//   - SPHView01: a tag line, a reserved line and big-endian binary records
//
// Both encodings decode into the same [Trace]: a ball count, a coordinate
// scale and an ordered sequence of immutable [Frame] values.
//
// # Example
//
//	tr, err := trace.DecodeFile("run.sph")
//	if errors.Is(err, trace.ErrUnknownFormat) {
//		...
//	}
//	for _, f := range tr.Frames {
//		b := f.Ball(0)
//		fmt.Println(b.X, b.Y, b.Class)
//	}
//
// Decoding never returns a partial trace: on error the result is nil.
package trace
