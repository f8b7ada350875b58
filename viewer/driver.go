package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/showcase/asset"
	"github.com/oliverbestmann/showcase/scene"
)

// Renderer issues the draw call for a frame.
type Renderer interface {
	Render(s *scene.Scene, camera *scene.PerspectiveCamera) error
}

// Controls is an input handler that moves the camera, ticked once per frame.
type Controls interface {
	Update(input Input)
}

// Input is the host input observed since the previous tick.
type Input struct {
	// true if at least one pointer-move notification arrived
	CursorMoved      bool
	CursorX, CursorY float32

	// cursor movement since the previous tick
	DeltaX, DeltaY float32

	// scroll steps since the previous tick, positive away from the user
	Scroll float32

	// primary button is held down
	Dragging bool
}

type DriverOptions struct {
	Mode         Mode
	FreeRotation FreeRotation

	Scene    *scene.Scene
	Camera   *scene.PerspectiveCamera
	Viewport *Viewport
	Renderer Renderer

	// only ticked in ModeOrbit, may be nil
	Controls Controls

	// delivers the one result of the asynchronous model load, may be nil
	Loads <-chan asset.Result
}

// Driver runs one frame per Tick: it picks up a finished model load,
// records input, updates the view state and draws exactly once.
type Driver struct {
	mode    Mode
	updater Updater

	scene    *scene.Scene
	camera   *scene.PerspectiveCamera
	viewport *Viewport
	renderer Renderer
	controls Controls

	loads <-chan asset.Result

	cursor Cursor
	asset  AssetSlot
	frames uint64
}

func NewDriver(opts DriverOptions) (*Driver, error) {
	switch {
	case opts.Scene == nil:
		return nil, errors.New("Scene must not be nil")
	case opts.Camera == nil:
		return nil, errors.New("Camera must not be nil")
	case opts.Viewport == nil:
		return nil, errors.New("Viewport must not be nil")
	case opts.Renderer == nil:
		return nil, errors.New("Renderer must not be nil")
	}

	return &Driver{
		mode:     opts.Mode,
		updater:  Updater{Mode: opts.Mode, Free: opts.FreeRotation},
		scene:    opts.Scene,
		camera:   opts.Camera,
		viewport: opts.Viewport,
		renderer: opts.Renderer,
		controls: opts.Controls,
		loads:    opts.Loads,
	}, nil
}

func (d *Driver) Tick(input Input) error {
	d.pollAsset()

	if input.CursorMoved {
		d.cursor.Move(input.CursorX, input.CursorY)
	}

	switch d.mode {
	case ModeOrbit:
		if d.controls != nil {
			d.controls.Update(input)
		}

	case ModeFree:

	default:
		panic(fmt.Sprintf("unhandled mode %s", d.mode))
	}

	d.updater.Update(State{
		Asset:    &d.asset,
		Cursor:   &d.cursor,
		Viewport: d.viewport,
		Camera:   d.camera,
	})

	d.frames += 1

	if err := d.renderer.Render(d.scene, d.camera); err != nil {
		return fmt.Errorf("render frame %d: %w", d.frames, err)
	}

	return nil
}

// pollAsset takes the load result if it is ready, without waiting for it.
func (d *Driver) pollAsset() {
	if d.loads == nil {
		return
	}

	select {
	case result, ok := <-d.loads:
		// there is only ever one result
		d.loads = nil

		if !ok {
			slog.Warn("Model loader finished without a result")
			return
		}

		if result.Err != nil {
			slog.Error("Failed to load model",
				slog.String("model", result.Name),
				slog.String("error", result.Err.Error()),
			)

			return
		}

		if err := d.asset.Set(result.Node); err != nil {
			slog.Warn("Ignoring model", slog.String("model", result.Name), slog.String("error", err.Error()))
			return
		}

		d.scene.Add(result.Node)

		slog.Info("Model added to scene",
			slog.String("model", result.Name),
			slog.Uint64("frame", d.frames+1),
		)

	default:
	}
}

func (d *Driver) Mode() Mode {
	return d.mode
}

func (d *Driver) Asset() *AssetSlot {
	return &d.asset
}

func (d *Driver) Cursor() *Cursor {
	return &d.cursor
}

func (d *Driver) Viewport() *Viewport {
	return d.viewport
}

func (d *Driver) Camera() *scene.PerspectiveCamera {
	return d.camera
}

// Frames returns the number of ticks run so far.
func (d *Driver) Frames() uint64 {
	return d.frames
}
