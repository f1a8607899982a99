// Package viz is the terminal front end for trace playback.
//
// The [Player] is a Bubble Tea model around a playback.Controller. Balls are
// drawn on a braille [Canvas] (2x4 sub-pixels per cell) and colored per class
// with the active [Theme]. The canvas size in sub-pixels is the controller's
// viewport, so resizing the terminal rescales playback on the next step.
//
// # Key Bindings
//
//	Space - Run/Stop
//	N, →  - Single step
//	O     - Open another trace
//	R     - Reload the current trace
//	T     - Cycle color themes
//	?     - Show key help
//	Q     - Quit
package viz
