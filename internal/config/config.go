package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS           = 25
	DefaultBallSize      = 5.0
	DefaultWidth         = 500
	DefaultHeight        = 500
	DefaultReservedLines = 1
	DefaultTheme         = "classic"
	DefaultGIFFrames     = 250
)

type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Viewport ViewportConfig `yaml:"viewport"`
	Decoder  DecoderConfig  `yaml:"decoder"`
	Theme    string         `yaml:"theme"`
	Watch    bool           `yaml:"watch"`
	Record   RecordConfig   `yaml:"record"`
}

type PlaybackConfig struct {
	FPS      int     `yaml:"fps"`
	BallSize float64 `yaml:"ball_size"`
	AutoRun  bool    `yaml:"auto_run"`
}

// ViewportConfig sizes the window and the headless exports.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type DecoderConfig struct {
	ReservedLines int `yaml:"reserved_lines"`
}

type RecordConfig struct {
	MaxFrames int `yaml:"max_frames"`
}

func DefaultConfig() *Config {
	return &Config{
		Playback: PlaybackConfig{
			FPS:      DefaultFPS,
			BallSize: DefaultBallSize,
		},
		Viewport: ViewportConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
		Decoder: DecoderConfig{
			ReservedLines: DefaultReservedLines,
		},
		Theme: DefaultTheme,
		Record: RecordConfig{
			MaxFrames: DefaultGIFFrames,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Playback.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.Playback.FPS)
	}
	if c.Playback.BallSize <= 0 {
		return fmt.Errorf("ball_size must be positive, got %f", c.Playback.BallSize)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Decoder.ReservedLines < 0 {
		return fmt.Errorf("reserved_lines must not be negative, got %d", c.Decoder.ReservedLines)
	}
	return nil
}

// Interval is the tick period for the configured frame rate.
func (c *Config) Interval() time.Duration {
	if c.Playback.FPS <= 0 {
		return time.Second / DefaultFPS
	}
	return time.Second / time.Duration(c.Playback.FPS)
}
