package orion

import (
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/showcase/glimpse"
	"github.com/oliverbestmann/showcase/viewer"
)

type LoopState struct {
	Window   glimpse.Window
	Driver   *viewer.Driver
	Viewport *viewer.Viewport

	SurfaceWidth  uint32
	SurfaceHeight uint32

	Times FrameTimes
}

func loopOnce(loopState *LoopState, inputState glimpse.UpdateInputState) error {
	// get surface size for next frame
	surfaceWidth, surfaceHeight := loopState.Window.Size()

	// reconfigure surface if needed
	if loopState.SurfaceWidth != surfaceWidth || loopState.SurfaceHeight != surfaceHeight {
		loopState.Viewport.Resize(surfaceWidth, surfaceHeight)

		loopState.SurfaceWidth = surfaceWidth
		loopState.SurfaceHeight = surfaceHeight
	}

	input := viewerInput(inputState())

	if err := loopState.Driver.Tick(input); err != nil {
		return fmt.Errorf("tick: %w", err)
	}

	if loopState.Times.Tick() {
		slog.Debug("Frame statistics",
			slog.Uint64("frame", loopState.Driver.Frames()),
			slog.Float64("fps", loopState.Times.FPS()),
			slog.Duration("average", loopState.Times.AverageDuration),
			slog.Duration("max", loopState.Times.MaxDuration),
		)
	}

	return nil
}
