package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/oliverbestmann/showcase/viewer"
)

func TestPresets(t *testing.T) {
	first := Preset("model1")
	if first.Mode != viewer.ModeFree || first.Camera.Distance != 0.175 || first.Lights.Ambient.Intensity != 1 {
		t.Fatalf("unexpected model1 preset: %+v", first)
	}

	second := Preset("model2")
	if second.Mode != viewer.ModeOrbit || second.Camera.Distance != 25 || second.Lights.Ambient.Intensity != 5 {
		t.Fatalf("unexpected model2 preset: %+v", second)
	}

	if Preset("").Model != DefaultModel {
		t.Fatal("expected the default model")
	}

	for _, cfg := range []Config{first, second, Default()} {
		if err := cfg.Validate(); err != nil {
			t.Fatalf("preset %q is invalid: %v", cfg.Model, err)
		}
	}
}

func TestParseAppliesPresetOfModel(t *testing.T) {
	cfg, err := Parse([]byte("model: model2\nlights:\n  ambient:\n    color: '#101010'\n"))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != viewer.ModeOrbit || cfg.Camera.Distance != 25 {
		t.Fatalf("preset not applied: %+v", cfg)
	}

	if cfg.Lights.Ambient.Color != 0x101010 {
		t.Fatalf("unexpected ambient color %#x", cfg.Lights.Ambient.Color)
	}

	// values of the preset not mentioned in the file survive
	if cfg.Lights.Ambient.Intensity != 5 {
		t.Fatalf("unexpected ambient intensity %v", cfg.Lights.Ambient.Intensity)
	}
}

func TestParseFullFile(t *testing.T) {
	data := `
model: eye
assets: https://example.com/public
mode: orbit
window: {width: 640, height: 480, title: test}
camera: {fov: 60, near: 0.5, far: 100, distance: 12}
lights:
  directional: {color: 0x00ff00, intensity: 2, position: [1, 2, 3], castShadow: false}
free: {baseYaw: 0, yawSensitivity: 2, basePitch: 0, pitchSensitivity: 2}
orbit: {rotateSpeed: 2, zoomSpeed: 1, minDistance: 2, maxDistance: 50, damping: 0.1}
profile: true
logLevel: debug
`

	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Model != "eye" || cfg.Assets != "https://example.com/public" || cfg.Mode != viewer.ModeOrbit {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if cfg.Window != (Window{Width: 640, Height: 480, Title: "test"}) {
		t.Fatalf("unexpected window %+v", cfg.Window)
	}

	light := cfg.Lights.Directional.Light()
	if light.Color != [3]float32{0, 1, 0} || light.Position != [3]float32{1, 2, 3} || light.CastShadow {
		t.Fatalf("unexpected light %+v", light)
	}

	if cfg.Free.YawSensitivity != 2 || cfg.Orbit.MaxDistance != 50 || cfg.Orbit.Damping != 0.1 {
		t.Fatalf("unexpected controls %+v %+v", cfg.Free, cfg.Orbit)
	}

	if !cfg.Profile || cfg.LogLevel != slog.LevelDebug {
		t.Fatalf("unexpected profile/log level: %v %v", cfg.Profile, cfg.LogLevel)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown mode": "mode: spin\n",
		"bad color":    "lights:\n  ambient:\n    color: '#zz0000'\n",
		"zero width":   "window: {width: 0}\n",
		"bad fov":      "camera: {fov: 180}\n",
		"near far":     "camera: {near: 10, far: 1}\n",
		"not yaml":     "model: [unclosed\n",
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestValidateMode(t *testing.T) {
	cfg := Default()
	cfg.Mode = viewer.Mode(7)

	if err := cfg.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestValidateOrbitDistances(t *testing.T) {
	cfg := Preset("model2")
	cfg.Orbit.MinDistance = 100
	cfg.Orbit.MaxDistance = 10

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error")
	}

	// orbit settings are irrelevant in free mode
	cfg.Mode = viewer.ModeFree
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestResolve(t *testing.T) {
	cfg, err := Resolve(Overrides{Model: "model2", Mode: "free", LogLevel: "warn"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Mode != viewer.ModeFree || cfg.Camera.Distance != 25 || cfg.LogLevel != slog.LevelWarn {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if _, err := Resolve(Overrides{Mode: "spin"}); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestResolveWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "showcase.yaml")
	if err := os.WriteFile(path, []byte("model: model2\ncamera: {distance: 40}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(Overrides{ConfigFile: path, Model: "robot", Assets: "/srv/models", Profile: true})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Model != "robot" || cfg.Assets != "/srv/models" || !cfg.Profile {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	if cfg.Mode != viewer.ModeOrbit || cfg.Camera.Distance != 40 {
		t.Fatalf("file values not applied: %+v", cfg)
	}

	if _, err := Resolve(Overrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestOrbitOptionsIncludeCameraDistance(t *testing.T) {
	cfg := Preset("model1")
	cfg.Mode = viewer.ModeOrbit

	opts := cfg.OrbitOptions()
	if opts.MinDistance != cfg.Camera.Distance {
		t.Fatalf("expected min distance %v, got %v", cfg.Camera.Distance, opts.MinDistance)
	}

	if opts.MaxDistance != cfg.Orbit.MaxDistance {
		t.Fatalf("max distance changed to %v", opts.MaxDistance)
	}

	cfg.Camera.Distance = 800
	if opts := cfg.OrbitOptions(); opts.MaxDistance != 800 || opts.MinDistance != cfg.Orbit.MinDistance {
		t.Fatalf("expected distances [%v, 800], got [%v, %v]", cfg.Orbit.MinDistance, opts.MinDistance, opts.MaxDistance)
	}

	second := Preset("model2")
	if second.OrbitOptions() != second.Orbit {
		t.Fatalf("options of the second model must not change: %+v", second.OrbitOptions())
	}
}
