package orion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/oliverbestmann/showcase/asset"
	"github.com/oliverbestmann/showcase/config"
	"github.com/oliverbestmann/showcase/glimpse"
	"github.com/oliverbestmann/showcase/orbit"
	"github.com/oliverbestmann/showcase/pulse"
	"github.com/oliverbestmann/showcase/scene"
	"github.com/oliverbestmann/showcase/viewer"
)

type RunOptions struct {
	// configuration of the viewer. Window values left empty use the defaults.
	Config config.Config

	// source the model is loaded from. Defaults to a source for Config.Assets
	Source fs.FS

	// receives the load progress of the model. Defaults to asset.DefaultProgress
	Progress asset.Progress

	// id of the html element the canvas is placed in when running in the browser
	Container string

	// render with 4x multisampling
	MSAA bool
}

func (opts *RunOptions) withDefaults() error {
	if opts.Config.Window.Width == 0 {
		opts.Config.Window.Width = 1000
	}

	if opts.Config.Window.Height == 0 {
		opts.Config.Window.Height = 600
	}

	if opts.Config.Window.Title == "" {
		opts.Config.Window.Title = "Showcase"
	}

	if opts.Container == "" {
		opts.Container = "container3D"
	}

	if opts.Progress == nil {
		opts.Progress = asset.DefaultProgress()
	}

	if opts.Source == nil {
		src, err := asset.NewSource(opts.Config.Assets)
		if err != nil {
			return fmt.Errorf("open assets: %w", err)
		}

		opts.Source = src
	}

	return opts.Config.Validate()
}

// Run opens the window, starts loading the model and runs the frame loop
// until the window is closed.
func Run(opts RunOptions) error {
	if err := opts.withDefaults(); err != nil {
		return err
	}

	cfg := opts.Config

	if cfg.Profile {
		stop := startProfiling()
		defer stop()
	}

	// create a new window (or canvas)
	win, err := glimpse.NewWindow(glimpse.WindowOptions{
		Width:     int(cfg.Window.Width),
		Height:    int(cfg.Window.Height),
		Title:     cfg.Window.Title,
		Container: opts.Container,
	})
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	ctx, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer ctx.Release()

	renderer := pulse.NewRenderer(pulse.NewView(ctx, opts.MSAA))
	defer renderer.Release()

	camera := newCamera(cfg)

	width, height := win.Size()
	viewport := viewer.NewViewport(camera, renderer, width, height)

	var controls viewer.Controls
	if cfg.Mode == viewer.ModeOrbit {
		controls = orbit.New(camera, viewport, cfg.OrbitOptions())
	}

	loadCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	modelPath := asset.ModelPath(cfg.Model)

	slog.Info("Loading model",
		slog.String("model", modelPath),
		slog.String("assets", cfg.Assets),
		slog.String("mode", cfg.Mode.String()),
	)

	loads := asset.LoadAsync(loadCtx, opts.Source, modelPath, asset.Options{
		Progress: opts.Progress,
	})

	driver, err := viewer.NewDriver(viewer.DriverOptions{
		Mode:         cfg.Mode,
		FreeRotation: cfg.Free,
		Scene:        newScene(cfg),
		Camera:       camera,
		Viewport:     viewport,
		Renderer:     renderer,
		Controls:     controls,
		Loads:        loads,
	})

	Handle(err, "create driver")

	loopState := &LoopState{
		Window:        win,
		Driver:        driver,
		Viewport:      viewport,
		SurfaceWidth:  width,
		SurfaceHeight: height,
	}

	return win.Run(func(inputState glimpse.UpdateInputState) error {
		return loopOnce(loopState, inputState)
	})
}

func newCamera(cfg config.Config) *scene.PerspectiveCamera {
	camera := scene.NewPerspectiveCamera(cfg.Camera.Fov, 1, cfg.Camera.Near, cfg.Camera.Far)
	camera.Position[2] = cfg.Camera.Distance
	return camera
}

func newScene(cfg config.Config) *scene.Scene {
	sc := scene.New()
	sc.Background = pulse.ColorTransparent.ToVec()
	sc.Ambient = cfg.Lights.Ambient.Light()
	sc.Directional = append(sc.Directional, cfg.Lights.Directional.Light())
	return sc
}
