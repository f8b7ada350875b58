package glimpse

import "github.com/cogentcore/webgpu/wgpu"

// UpdateInputState collects the pending input events and returns the
// input observed since the previous frame.
type UpdateInputState func() InputState

type WindowOptions struct {
	Width, Height int
	Title         string

	// id of the html element the canvas is added to. Only used in the browser.
	Container string
}

type Window interface {
	Size() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Run calls render once per display refresh until the window is closed
	// or render returns an error.
	Run(render func(input UpdateInputState) error) error

	Terminate()
}
