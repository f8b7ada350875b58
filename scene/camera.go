package scene

import (
	"github.com/oliverbestmann/showcase/glm"
)

// PerspectiveCamera looks from Position at Target. The projection is
// cached and only recomputed by UpdateProjectionMatrix.
type PerspectiveCamera struct {
	// vertical field of view in degrees
	Fov    float32
	Aspect float32
	Near   float32
	Far    float32

	Position glm.Vec3f
	Target   glm.Vec3f
	Up       glm.Vec3f

	projection glm.Mat4f
}

func NewPerspectiveCamera(fov, aspect, near, far float32) *PerspectiveCamera {
	c := &PerspectiveCamera{
		Fov:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     glm.Vec3f{0, 1, 0},
	}

	c.UpdateProjectionMatrix()

	return c
}

// SetAspect updates the aspect ratio and the projection matrix.
func (c *PerspectiveCamera) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.UpdateProjectionMatrix()
}

func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}

	c.projection = glm.Perspective(glm.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

func (c *PerspectiveCamera) Projection() glm.Mat4f {
	return c.projection
}

func (c *PerspectiveCamera) View() glm.Mat4f {
	return glm.LookAt(c.Position, c.Target, c.Up)
}

func (c *PerspectiveCamera) ViewProjection() glm.Mat4f {
	return c.projection.Mul(c.View())
}

// Distance returns the distance between camera and target.
func (c *PerspectiveCamera) Distance() float32 {
	return c.Position.Sub(c.Target).Length()
}
