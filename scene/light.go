package scene

import (
	"github.com/oliverbestmann/showcase/glm"
)

// ColorHex converts a 0xRRGGBB value into linear rgb components in [0, 1].
func ColorHex(hex uint32) glm.Vec3f {
	return glm.Vec3f{
		float32((hex>>16)&0xff) / 255,
		float32((hex>>8)&0xff) / 255,
		float32(hex&0xff) / 255,
	}
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     glm.Vec3f
	Intensity float32
	Position  glm.Vec3f

	// recorded for renderers supporting shadow maps
	CastShadow bool
}

// Direction is the normalized direction the light travels in.
func (l DirectionalLight) Direction() glm.Vec3f {
	return glm.Vec3f{}.Sub(l.Position).Normalize()
}

// Radiance is the color scaled by the intensity.
func (l DirectionalLight) Radiance() glm.Vec3f {
	return l.Color.MulScalar(l.Intensity)
}

type AmbientLight struct {
	Color     glm.Vec3f
	Intensity float32
}

func (l AmbientLight) Radiance() glm.Vec3f {
	return l.Color.MulScalar(l.Intensity)
}
