package orion

import (
	"github.com/oliverbestmann/showcase/glimpse"
	"github.com/oliverbestmann/showcase/viewer"
)

func viewerInput(state glimpse.InputState) viewer.Input {
	mouse := state.Mouse

	return viewer.Input{
		CursorMoved: mouse.HasCursor && mouse.Moved,
		CursorX:     mouse.CursorX,
		CursorY:     mouse.CursorY,
		DeltaX:      mouse.DeltaX,
		DeltaY:      mouse.DeltaY,
		Scroll:      mouse.Scroll,
		Dragging:    mouse.Pressed[glimpse.MouseButtonLeft],
	}
}
