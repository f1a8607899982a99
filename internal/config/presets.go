package config

import "sort"

// Presets are named starting points selected with --preset.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"sph": {
		// The simulator's binary writer emits no reserved line.
		Playback: PlaybackConfig{FPS: DefaultFPS, BallSize: DefaultBallSize},
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Decoder:  DecoderConfig{ReservedLines: 0},
		Theme:    DefaultTheme,
		Record:   RecordConfig{MaxFrames: DefaultGIFFrames},
	},
	"slow": {
		Playback: PlaybackConfig{FPS: 5, BallSize: DefaultBallSize},
		Viewport: ViewportConfig{Width: DefaultWidth, Height: DefaultHeight},
		Decoder:  DecoderConfig{ReservedLines: DefaultReservedLines},
		Theme:    DefaultTheme,
		Record:   RecordConfig{MaxFrames: DefaultGIFFrames},
	},
	"large": {
		Playback: PlaybackConfig{FPS: DefaultFPS, BallSize: 8},
		Viewport: ViewportConfig{Width: 1000, Height: 1000},
		Decoder:  DecoderConfig{ReservedLines: DefaultReservedLines},
		Theme:    "ocean",
		Record:   RecordConfig{MaxFrames: 500},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
