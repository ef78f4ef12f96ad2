// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/surfview/internal/engine/trackball"
	"github.com/Faultbox/surfview/internal/frame"
	"github.com/Faultbox/surfview/pkg/surface"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Surface SurfaceConfig `yaml:"surface"`
	Shading ShadingConfig `yaml:"shading"`
	Camera  CameraConfig  `yaml:"camera"`
	Texture TextureConfig `yaml:"texture"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file Load read, empty when only defaults and flags apply.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Fullscreen  bool   `yaml:"fullscreen"`
	VSync       bool   `yaml:"vsync"`
	Multisample int    `yaml:"multisample"`
}

// SurfaceConfig holds the sampling grid, in degrees.
type SurfaceConfig struct {
	Min        float64 `yaml:"min"`
	Max        float64 `yaml:"max"`
	Step       float64 `yaml:"step"`
	H          float64 `yaml:"h"`
	Derivative string  `yaml:"derivative"` // "legacy" or "radians"
}

// ShadingConfig holds the material and light colors.
type ShadingConfig struct {
	Ambient   [3]float32 `yaml:"ambient"`
	Diffuse   [3]float32 `yaml:"diffuse"`
	Shininess float32    `yaml:"shininess"`
	Color     [4]float32 `yaml:"color"`
}

// CameraConfig holds trackball settings.
type CameraConfig struct {
	Inertia   bool    `yaml:"inertia"`
	Frequency float64 `yaml:"frequency"`
	Damping   float64 `yaml:"damping"`
}

// TextureConfig holds the surface texture source.
type TextureConfig struct {
	Path    string `yaml:"path"`     // empty keeps the white placeholder
	MaxSize int    `yaml:"max_size"` // longest side after downsampling, 0 for no limit
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the viewer's stock values.
func Default() *Config {
	look := frame.DefaultLighting()
	cam := trackball.DefaultConfig()

	return &Config{
		Window: WindowConfig{
			Title:       "Pseudospherical surface",
			Width:       800,
			Height:      800,
			Fullscreen:  false,
			VSync:       true,
			Multisample: 4,
		},
		Surface: SurfaceConfig{
			Min:        surface.DefaultMin,
			Max:        surface.DefaultMax,
			Step:       surface.DefaultStep,
			H:          surface.DefaultH,
			Derivative: surface.DerivativeLegacy.String(),
		},
		Shading: ShadingConfig{
			Ambient:   look.Ambient,
			Diffuse:   look.Diffuse,
			Shininess: look.Shininess,
			Color:     look.Color,
		},
		Camera: CameraConfig{
			Inertia:   cam.Inertia,
			Frequency: cam.Frequency,
			Damping:   cam.Damping,
		},
		Texture: TextureConfig{
			Path:    "",
			MaxSize: 2048,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the settings that cannot be corrected at run time.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if c.Texture.MaxSize < 0 {
		return fmt.Errorf("%w: texture max_size %d", ErrInvalid, c.Texture.MaxSize)
	}
	if _, err := c.SurfaceParams(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// SurfaceParams returns the sampling parameters for the mesh generator.
func (c *Config) SurfaceParams() (surface.Params, error) {
	mode, err := surface.ParseDerivativeMode(c.Surface.Derivative)
	if err != nil {
		return surface.Params{}, err
	}
	p := surface.Params{
		UMin:       c.Surface.Min,
		UMax:       c.Surface.Max,
		VMin:       c.Surface.Min,
		VMax:       c.Surface.Max,
		Step:       c.Surface.Step,
		H:          c.Surface.H,
		Derivative: mode,
	}
	if err := p.Validate(); err != nil {
		return surface.Params{}, err
	}
	return p, nil
}

// Lighting returns the shading constants for the frame composer.
func (c *Config) Lighting() frame.Lighting {
	return frame.Lighting{
		Ambient:   c.Shading.Ambient,
		Diffuse:   c.Shading.Diffuse,
		Shininess: c.Shading.Shininess,
		Color:     c.Shading.Color,
	}
}

// Trackball returns the camera settings.
func (c *Config) Trackball() trackball.Config {
	cfg := trackball.DefaultConfig()
	cfg.Inertia = c.Camera.Inertia
	cfg.Frequency = c.Camera.Frequency
	cfg.Damping = c.Camera.Damping
	return cfg
}
