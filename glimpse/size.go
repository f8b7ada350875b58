package glimpse

import "math"

// SurfaceSize converts a size in css pixels into device pixels. Partial
// device pixels are dropped, so the canvas and the surface configured for
// it always agree.
func SurfaceSize(cssWidth, cssHeight, devicePixelRatio float64) (uint32, uint32) {
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}

	return devicePixels(cssWidth * devicePixelRatio), devicePixels(cssHeight * devicePixelRatio)
}

func devicePixels(value float64) uint32 {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}

	return uint32(math.Floor(value))
}
