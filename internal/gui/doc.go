// Package gui is a desktop window for trace playback built on raylib.
//
// The window reports its drawing area to the controller through
// [App.Viewport], shows "index/total" in its title after every frame change
// and accepts trace files dropped onto it.
package gui
