// Package orbit moves a camera around a target point from pointer input.
package orbit

import (
	"math"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
	"github.com/oliverbestmann/showcase/viewer"
)

// keeps the camera from flipping over the poles
const polarEpsilon = 1e-6

type Options struct {
	// radians per viewport height dragged, times 2π
	RotateSpeed float32 `yaml:"rotateSpeed"`

	// zoom per scroll step, 1 scales the distance by 0.95
	ZoomSpeed float32 `yaml:"zoomSpeed"`

	MinDistance float32 `yaml:"minDistance"`
	MaxDistance float32 `yaml:"maxDistance"`

	// fraction of the remaining motion applied per tick. Zero disables damping.
	Damping float32 `yaml:"damping"`
}

func DefaultOptions() Options {
	return Options{
		RotateSpeed: 1,
		ZoomSpeed:   1,
		MinDistance: 1,
		MaxDistance: 500,
	}
}

// Sizer reports the size of the viewport the pointer moves in.
type Sizer interface {
	Size() (width, height uint32)
}

// Controls rotates the camera around Target while the primary button is
// dragged and changes the distance to the target on scroll. Only the
// camera position and look-at target are modified.
type Controls struct {
	Options
	Target glm.Vec3f

	camera   *scene.PerspectiveCamera
	viewport Sizer

	// pending rotation and zoom not yet applied to the camera
	deltaTheta float64
	deltaPhi   float64
	scale      float64
}

var _ viewer.Controls = (*Controls)(nil)

func New(camera *scene.PerspectiveCamera, viewport Sizer, opts Options) *Controls {
	return &Controls{
		Options:  opts,
		Target:   camera.Target,
		camera:   camera,
		viewport: viewport,
		scale:    1,
	}
}

func (c *Controls) Update(input viewer.Input) {
	_, height := c.viewport.Size()

	if input.Dragging && height > 0 {
		perPixel := 2 * math.Pi / float64(height) * float64(c.RotateSpeed)
		c.deltaTheta -= float64(input.DeltaX) * perPixel
		c.deltaPhi -= float64(input.DeltaY) * perPixel
	}

	if input.Scroll != 0 {
		// scrolling away from the user moves the camera closer
		c.scale *= math.Pow(0.95, float64(c.ZoomSpeed*input.Scroll))
	}

	c.apply()
}

func (c *Controls) apply() {
	offset := c.camera.Position.Sub(c.Target)

	radius := float64(offset.Length())
	theta := 0.0
	phi := math.Pi / 2

	if radius > 0 {
		x, y, z := offset.XYZ()
		theta = math.Atan2(float64(x), float64(z))
		phi = math.Acos(clamp(float64(y)/radius, -1, 1))
	}

	if c.Damping > 0 {
		damping := float64(c.Damping)
		theta += c.deltaTheta * damping
		phi += c.deltaPhi * damping

		c.deltaTheta *= 1 - damping
		c.deltaPhi *= 1 - damping
	} else {
		theta += c.deltaTheta
		phi += c.deltaPhi

		c.deltaTheta = 0
		c.deltaPhi = 0
	}

	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius = clamp(radius*c.scale, float64(c.MinDistance), float64(c.MaxDistance))
	c.scale = 1

	sinPhi := math.Sin(phi)

	offset = glm.Vec3f{
		float32(radius * sinPhi * math.Sin(theta)),
		float32(radius * math.Cos(phi)),
		float32(radius * sinPhi * math.Cos(theta)),
	}

	c.camera.Position = c.Target.Add(offset)
	c.camera.Target = c.Target
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}
