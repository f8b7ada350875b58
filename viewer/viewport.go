package viewer

import (
	"log/slog"

	"github.com/oliverbestmann/showcase/scene"
)

// Surface is the drawable the viewport keeps in sync with its size.
type Surface interface {
	Resize(width, height uint32)
}

// Viewport owns the current drawable size and keeps the camera aspect
// ratio and the surface consistent with it.
type Viewport struct {
	width, height uint32

	camera  *scene.PerspectiveCamera
	surface Surface

	// set by Resize when the size changed, consumed by the updater
	changed bool
}

func NewViewport(camera *scene.PerspectiveCamera, surface Surface, width, height uint32) *Viewport {
	vp := &Viewport{camera: camera, surface: surface}
	vp.Resize(width, height)
	return vp
}

// Resize reacts to a resize notification. It updates the size, the camera
// projection and the surface before returning. Calling it again with the
// same size only repeats the computation.
func (vp *Viewport) Resize(width, height uint32) {
	if width != vp.width || height != vp.height {
		slog.Debug("Resize viewport",
			slog.Int("width", int(width)),
			slog.Int("height", int(height)),
		)

		vp.changed = true
	}

	vp.width = width
	vp.height = height

	vp.camera.SetAspect(vp.Aspect())

	if vp.surface != nil {
		vp.surface.Resize(width, height)
	}
}

func (vp *Viewport) Size() (width, height uint32) {
	return vp.width, vp.height
}

// Aspect returns width / height, or zero for a surface without height.
func (vp *Viewport) Aspect() float32 {
	if vp.height == 0 {
		return 0
	}

	return float32(vp.width) / float32(vp.height)
}

func (vp *Viewport) consumeChanged() bool {
	changed := vp.changed
	vp.changed = false
	return changed
}
