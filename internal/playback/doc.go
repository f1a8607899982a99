// Package playback steps through a decoded trace and maps it to display space.
//
// A [Controller] owns a [store.Store] and moves through three states:
//
//   - [NoData]: nothing usable has been loaded
//   - [Ready]: single steps allowed, no timer
//   - [Running]: a ticker advances one frame per tick (25 per second by default)
//
// Every step reads the current size from the host's [Viewport], advances the
// store (looping at the end) and recomputes one [Drawable] per ball:
//
//	x = (nativeX/scale) * (width - diameter)
//	y = (1 - nativeY/scale) * (height - diameter)
//
// Listeners registered with [Controller.OnFrameChanged] are called after
// every step, tick and successful load.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Steps, ticks and loads run one at a
// time, listener calls included, so ticks never overlap each other or a user
// step. A listener may call the read accessors and [Controller.Stop], but must
// not call Step, Run or the Load methods synchronously; post them to the
// host's own loop instead.
package playback
