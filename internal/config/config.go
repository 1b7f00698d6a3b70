package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/san-kum/wavesurf/internal/surface"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFramePattern = "output/frame_*.csv"
	DefaultOutput       = "water_cube.mp4"
	DefaultFPS          = 30
	DefaultColormap     = surface.DefaultColormap
	DefaultAlpha        = surface.DefaultAlpha
	DefaultWidth        = 960
	DefaultHeight       = 720
	minRasterSize       = 16
)

var (
	Encoders = []string{"auto", "ffmpeg", "gif", "opencv"}
	Backends = []string{"window", "terminal"}
)

type Config struct {
	FramePattern string  `yaml:"frame_pattern"`
	Export       bool    `yaml:"export"`
	Output       string  `yaml:"output"`
	FPS          int     `yaml:"fps"`
	Encoder      string  `yaml:"encoder"`
	Backend      string  `yaml:"backend"`
	Loop         bool    `yaml:"loop"`
	Colormap     string  `yaml:"colormap"`
	Alpha        float64 `yaml:"alpha"`
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
}

// DefaultConfig reads frames from output/, exports water_cube.mp4 at 30 fps.
func DefaultConfig() *Config {
	return &Config{
		FramePattern: DefaultFramePattern,
		Export:       true,
		Output:       DefaultOutput,
		FPS:          DefaultFPS,
		Encoder:      "auto",
		Backend:      "window",
		Loop:         true,
		Colormap:     DefaultColormap,
		Alpha:        DefaultAlpha,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads a YAML file over a copy of base. Keys absent from the file
// keep base's values.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.FramePattern == "":
		return fmt.Errorf("config: frame_pattern is empty")
	case c.FPS <= 0:
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	case c.Export && c.Output == "":
		return fmt.Errorf("config: output is required in export mode")
	case !slices.Contains(Encoders, c.Encoder):
		return fmt.Errorf("config: unknown encoder %q (available: %v)", c.Encoder, Encoders)
	case !slices.Contains(Backends, c.Backend):
		return fmt.Errorf("config: unknown backend %q (available: %v)", c.Backend, Backends)
	case !slices.Contains(surface.ColormapNames(), c.Colormap):
		return fmt.Errorf("config: unknown colormap %q (available: %v)", c.Colormap, surface.ColormapNames())
	case c.Alpha <= 0 || c.Alpha > 1:
		return fmt.Errorf("config: alpha must be in (0, 1], got %g", c.Alpha)
	case c.Width < minRasterSize || c.Height < minRasterSize:
		return fmt.Errorf("config: raster size %dx%d below %dx%d", c.Width, c.Height, minRasterSize, minRasterSize)
	}
	return nil
}

// Mode names the terminal behavior for logs.
func (c *Config) Mode() string {
	if c.Export {
		return "export"
	}
	return "interactive"
}

// Style applies the configured colormap and alpha to the default style.
func (c *Config) Style() surface.Style {
	st := surface.DefaultStyle()
	st.Colormap = c.Colormap
	st.Alpha = c.Alpha
	return st
}
