// Package config holds the startup configuration of the viewer.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/oliverbestmann/showcase/orbit"
	"github.com/oliverbestmann/showcase/scene"
	"github.com/oliverbestmann/showcase/viewer"
	"gopkg.in/yaml.v3"
)

var ErrInvalidMode = viewer.ErrInvalidMode

// DefaultModel is shown if nothing else is configured.
const DefaultModel = "model1"

type Config struct {
	// directory of the model below Assets, containing a scene.gltf
	Model string `yaml:"model"`

	// local directory or http(s) url the models are read from
	Assets string `yaml:"assets"`

	Mode viewer.Mode `yaml:"mode"`

	Window Window `yaml:"window"`
	Camera Camera `yaml:"camera"`
	Lights Lights `yaml:"lights"`

	Free  viewer.FreeRotation `yaml:"free"`
	Orbit orbit.Options       `yaml:"orbit"`

	Profile  bool       `yaml:"profile"`
	LogLevel slog.Level `yaml:"logLevel"`
}

type Window struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
	Title  string `yaml:"title"`
}

type Camera struct {
	// vertical field of view in degrees
	Fov  float32 `yaml:"fov"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`

	// initial distance of the camera to the model along the z axis
	Distance float32 `yaml:"distance"`
}

type Lights struct {
	Directional DirectionalLight `yaml:"directional"`
	Ambient     AmbientLight     `yaml:"ambient"`
}

type DirectionalLight struct {
	Color      Color      `yaml:"color"`
	Intensity  float32    `yaml:"intensity"`
	Position   [3]float32 `yaml:"position,flow"`
	CastShadow bool       `yaml:"castShadow"`
}

func (l DirectionalLight) Light() scene.DirectionalLight {
	return scene.DirectionalLight{
		Color:      scene.ColorHex(uint32(l.Color)),
		Intensity:  l.Intensity,
		Position:   l.Position,
		CastShadow: l.CastShadow,
	}
}

type AmbientLight struct {
	Color     Color   `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

func (l AmbientLight) Light() scene.AmbientLight {
	return scene.AmbientLight{
		Color:     scene.ColorHex(uint32(l.Color)),
		Intensity: l.Intensity,
	}
}

// Default returns the configuration of the default model.
func Default() Config {
	return Config{
		Model:  DefaultModel,
		Assets: "public",
		Mode:   viewer.ModeFree,

		Window: Window{
			Width:  1000,
			Height: 600,
			Title:  "showcase",
		},

		Camera: Camera{
			Fov:      75,
			Near:     0.1,
			Far:      1000,
			Distance: 0.175,
		},

		Lights: Lights{
			Directional: DirectionalLight{
				Color:      0xffffff,
				Intensity:  3,
				Position:   [3]float32{10, 50, 50},
				CastShadow: true,
			},

			Ambient: AmbientLight{
				Color:     0x333333,
				Intensity: 1,
			},
		},

		Free:     viewer.DefaultFreeRotation(),
		Orbit:    orbit.DefaultOptions(),
		LogLevel: slog.LevelInfo,
	}
}

// Preset returns the defaults tuned for the given model. The second model
// is presented with orbit controls from further away and a brighter
// ambient light.
func Preset(model string) Config {
	cfg := Default()

	if model == "" {
		return cfg
	}

	cfg.Model = model

	if model == "model2" {
		cfg.Mode = viewer.ModeOrbit
		cfg.Camera.Distance = 25
		cfg.Lights.Ambient.Intensity = 5
	}

	return cfg
}

// Load reads a yaml configuration file. Values not present in the file
// are taken from the preset of the configured model.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	var head struct {
		Model string `yaml:"model"`
	}

	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg := Preset(head.Model)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// OrbitOptions returns the orbit settings widened to include the initial
// camera distance, so the first update does not move the camera.
func (c Config) OrbitOptions() orbit.Options {
	opts := c.Orbit
	opts.MinDistance = min(opts.MinDistance, c.Camera.Distance)
	opts.MaxDistance = max(opts.MaxDistance, c.Camera.Distance)
	return opts
}

func (c Config) Validate() error {
	var errs []error

	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}

	if c.Window.Width == 0 || c.Window.Height == 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}

	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov must be in (0, 180), got %v", c.Camera.Fov))
	}

	if c.Camera.Near <= 0 || c.Camera.Near >= c.Camera.Far {
		errs = append(errs, fmt.Errorf("camera planes must satisfy 0 < near < far, got %v and %v", c.Camera.Near, c.Camera.Far))
	}

	if c.Camera.Distance <= 0 {
		errs = append(errs, fmt.Errorf("camera distance must be positive, got %v", c.Camera.Distance))
	}

	switch c.Mode {
	case viewer.ModeFree:

	case viewer.ModeOrbit:
		o := c.Orbit
		if o.MinDistance <= 0 || o.MinDistance > o.MaxDistance {
			errs = append(errs, fmt.Errorf("orbit distances must satisfy 0 < min <= max, got %v and %v", o.MinDistance, o.MaxDistance))
		}

		if o.Damping < 0 || o.Damping >= 1 {
			errs = append(errs, fmt.Errorf("orbit damping must be in [0, 1), got %v", o.Damping))
		}

	default:
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidMode, c.Mode))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
