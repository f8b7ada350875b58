package viewer

import (
	"fmt"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
)

// FreeRotation maps the cursor position to the model orientation in free mode:
//
//	yaw   = BaseYaw   + (x / width)  * YawSensitivity
//	pitch = BasePitch + (y / height) * PitchSensitivity
type FreeRotation struct {
	BaseYaw          float32 `yaml:"baseYaw"`
	YawSensitivity   float32 `yaml:"yawSensitivity"`
	BasePitch        float32 `yaml:"basePitch"`
	PitchSensitivity float32 `yaml:"pitchSensitivity"`
}

func DefaultFreeRotation() FreeRotation {
	return FreeRotation{
		BaseYaw:          1,
		YawSensitivity:   4,
		BasePitch:        -1,
		PitchSensitivity: 3,
	}
}

// Angles computes pitch (rotation around x) and yaw (rotation around y)
// for a cursor position inside a viewport of the given size.
func (r FreeRotation) Angles(x, y float32, width, height uint32) (pitch, yaw glm.Rad) {
	yaw = glm.Rad(r.BaseYaw + ratio(x, width)*r.YawSensitivity)
	pitch = glm.Rad(r.BasePitch + ratio(y, height)*r.PitchSensitivity)
	return
}

func ratio(value float32, extent uint32) float32 {
	if extent == 0 {
		return 0
	}

	return value / float32(extent)
}

// State is everything the updater reads or writes in one tick.
type State struct {
	Asset    *AssetSlot
	Cursor   *Cursor
	Viewport *Viewport
	Camera   *scene.PerspectiveCamera
}

// Updater computes the view state for the next frame. It never fails:
// a missing asset or cursor simply leaves less to do.
type Updater struct {
	Mode Mode
	Free FreeRotation
}

func (u Updater) Update(state State) {
	if state.Viewport.consumeChanged() {
		state.Camera.SetAspect(state.Viewport.Aspect())
	}

	switch u.Mode {
	case ModeFree:
		u.updateFree(state)

	case ModeOrbit:
		// the orbit controls own the camera, the model is not touched

	default:
		panic(fmt.Sprintf("unhandled mode %s", u.Mode))
	}
}

func (u Updater) updateFree(state State) {
	node, ok := state.Asset.Get()
	if !ok {
		return
	}

	x, y, ok := state.Cursor.Position()
	if !ok {
		// no pointer event yet
		node.Rotation = scene.Euler{}
		return
	}

	width, height := state.Viewport.Size()
	node.Rotation.X, node.Rotation.Y = u.Free.Angles(x, y, width, height)
}
