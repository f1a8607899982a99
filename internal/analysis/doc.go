// Package analysis summarises decoded traces for the info command.
//
//   - [Summarize]: ball count, frame count, class histogram and bounding box
//   - [MeanSeries]: centre of mass per frame
//   - [PowerSpectrum]: spectrum of a series, zero-padded to a power of two
//   - [DominantPeriod]: strongest non-constant period of a series, in frames
//
// A sloshing fluid shows up as a clear peak:
//
//	_, ys := analysis.MeanSeries(t)
//	if p, ok := analysis.DominantPeriod(ys); ok {
//	    fmt.Printf("period %.1f frames\n", p)
//	}
package analysis
