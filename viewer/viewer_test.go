package viewer

import (
	"errors"
	"math"
	"testing"

	"github.com/oliverbestmann/showcase/asset"
	"github.com/oliverbestmann/showcase/scene"
)

type recordingRenderer struct {
	calls int

	// number of meshes drawn in each call
	drawn []int
}

func (r *recordingRenderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	r.calls += 1
	r.drawn = append(r.drawn, len(s.DrawList()))
	return nil
}

type recordingSurface struct {
	width, height uint32
	resizes       int
}

func (s *recordingSurface) Resize(width, height uint32) {
	s.width = width
	s.height = height
	s.resizes += 1
}

type countingControls struct {
	updates int
}

func (c *countingControls) Update(input Input) {
	c.updates += 1
}

type fixture struct {
	driver   *Driver
	renderer *recordingRenderer
	surface  *recordingSurface
}

func newFixture(t *testing.T, mode Mode, loads <-chan asset.Result, controls Controls) fixture {
	t.Helper()

	camera := scene.NewPerspectiveCamera(75, 1, 0.1, 1000)
	surface := &recordingSurface{}
	renderer := &recordingRenderer{}

	driver, err := NewDriver(DriverOptions{
		Mode:         mode,
		FreeRotation: DefaultFreeRotation(),
		Scene:        scene.New(),
		Camera:       camera,
		Viewport:     NewViewport(camera, surface, 800, 600),
		Renderer:     renderer,
		Controls:     controls,
		Loads:        loads,
	})

	if err != nil {
		t.Fatalf("create driver: %v", err)
	}

	return fixture{driver: driver, renderer: renderer, surface: surface}
}

func testModel() *scene.Node {
	node := scene.NewNode("model")
	node.Mesh = &scene.Mesh{
		Vertices: make([]scene.Vertex, 3),
		Indices:  []uint32{0, 1, 2},
	}

	return node
}

func loaded(node *scene.Node) <-chan asset.Result {
	ch := make(chan asset.Result, 1)
	ch <- asset.Result{Name: "model", Node: node}
	return ch
}

func moveTo(x, y float32) Input {
	return Input{CursorMoved: true, CursorX: x, CursorY: y}
}

func TestFreeRotationIsMonotonic(t *testing.T) {
	rotation := DefaultFreeRotation()

	prevPitch, prevYaw := rotation.Angles(0, 0, 800, 600)

	for step := 1; step <= 100; step++ {
		x := float32(step) * 8
		y := float32(step) * 6

		pitch, yaw := rotation.Angles(x, y, 800, 600)
		if yaw <= prevYaw {
			t.Fatalf("yaw not increasing at x=%v: %v <= %v", x, yaw, prevYaw)
		}

		if pitch <= prevPitch {
			t.Fatalf("pitch not increasing at y=%v: %v <= %v", y, pitch, prevPitch)
		}

		prevPitch, prevYaw = pitch, yaw
	}
}

func TestFreeRotationZeroViewport(t *testing.T) {
	pitch, yaw := DefaultFreeRotation().Angles(100, 100, 0, 0)

	if pitch != -1 || yaw != 1 {
		t.Fatalf("expected base offsets for an empty viewport, got pitch=%v yaw=%v", pitch, yaw)
	}
}

func TestIdentityBeforeFirstPointerEvent(t *testing.T) {
	node := testModel()
	node.Rotation = scene.Euler{X: 1, Y: 2, Z: 3}

	f := newFixture(t, ModeFree, loaded(node), nil)

	if err := f.driver.Tick(Input{}); err != nil {
		t.Fatal(err)
	}

	if node.Rotation != (scene.Euler{}) {
		t.Fatalf("expected identity rotation, got %+v", node.Rotation)
	}

	for _, v := range []float64{float64(node.Rotation.X), float64(node.Rotation.Y), float64(node.Rotation.Z)} {
		if math.IsNaN(v) {
			t.Fatal("rotation is NaN")
		}
	}
}

func TestResizeUpdatesCameraAndSurface(t *testing.T) {
	f := newFixture(t, ModeFree, nil, nil)

	f.driver.Viewport().Resize(400, 300)

	if got := f.driver.Camera().Aspect; got != float32(400)/300 {
		t.Fatalf("expected aspect 400/300, got %v", got)
	}

	if f.surface.width != 400 || f.surface.height != 300 {
		t.Fatalf("expected surface 400x300, got %dx%d", f.surface.width, f.surface.height)
	}

	// same size again is harmless
	f.driver.Viewport().Resize(400, 300)

	if w, h := f.driver.Viewport().Size(); w != 400 || h != 300 {
		t.Fatalf("unexpected viewport size %dx%d", w, h)
	}

	if err := f.driver.Tick(Input{}); err != nil {
		t.Fatal(err)
	}

	if got := f.driver.Camera().Aspect; got != float32(400)/300 {
		t.Fatalf("aspect changed after tick: %v", got)
	}
}

func TestLoadFailureKeepsDrawing(t *testing.T) {
	ch := make(chan asset.Result, 1)
	ch <- asset.Result{Name: "model", Err: errors.New("file not found")}

	f := newFixture(t, ModeFree, ch, nil)

	for tick := 1; tick <= 100; tick++ {
		if err := f.driver.Tick(moveTo(float32(tick), float32(tick))); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}

		if f.renderer.calls != tick {
			t.Fatalf("expected %d draw calls, got %d", tick, f.renderer.calls)
		}
	}

	if f.driver.Asset().Loaded() {
		t.Fatal("asset slot must stay empty after a failed load")
	}

	for idx, count := range f.renderer.drawn {
		if count != 0 {
			t.Fatalf("draw %d rendered %d meshes", idx, count)
		}
	}

	if f.driver.Frames() != 100 {
		t.Fatalf("expected 100 frames, got %d", f.driver.Frames())
	}
}

func TestLateLoadStartsFollowingCursor(t *testing.T) {
	ch := make(chan asset.Result, 1)
	f := newFixture(t, ModeFree, ch, nil)

	node := testModel()
	sentinel := scene.Euler{X: 0.25, Y: 0.5, Z: 0.75}
	node.Rotation = sentinel

	for tick := 1; tick <= 50; tick++ {
		if err := f.driver.Tick(moveTo(float32(tick)*10, 20)); err != nil {
			t.Fatal(err)
		}

		if node.Rotation != sentinel {
			t.Fatalf("tick %d touched the model before it was loaded", tick)
		}
	}

	ch <- asset.Result{Name: "model", Node: node}

	if err := f.driver.Tick(moveTo(400, 300)); err != nil {
		t.Fatal(err)
	}

	if !f.driver.Asset().Loaded() {
		t.Fatal("expected the asset to be available at tick 51")
	}

	// yaw = 1 + 400/800*4, pitch = -1 + 300/600*3
	if node.Rotation.Y != 3 || node.Rotation.X != 0.5 {
		t.Fatalf("unexpected rotation %+v", node.Rotation)
	}

	if node.Rotation.Z != sentinel.Z {
		t.Fatalf("rotation around z must not change, got %v", node.Rotation.Z)
	}

	if err := f.driver.Tick(moveTo(0, 0)); err != nil {
		t.Fatal(err)
	}

	if node.Rotation.Y != 1 || node.Rotation.X != -1 {
		t.Fatalf("rotation does not follow the cursor: %+v", node.Rotation)
	}

	if last := f.renderer.drawn[len(f.renderer.drawn)-1]; last != 1 {
		t.Fatalf("expected the model to be drawn, got %d meshes", last)
	}
}

func TestOrbitModeNeverRotatesModel(t *testing.T) {
	node := testModel()
	sentinel := scene.Euler{X: 0.1, Y: 0.2, Z: 0.3}
	node.Rotation = sentinel

	controls := &countingControls{}
	f := newFixture(t, ModeOrbit, loaded(node), controls)

	for tick := 1; tick <= 20; tick++ {
		if err := f.driver.Tick(moveTo(float32(tick)*37, float32(tick)*11)); err != nil {
			t.Fatal(err)
		}

		if node.Rotation != sentinel {
			t.Fatalf("tick %d rotated the model in orbit mode: %+v", tick, node.Rotation)
		}
	}

	if controls.updates != 20 {
		t.Fatalf("expected controls to be ticked 20 times, got %d", controls.updates)
	}
}

func TestFreeModeIgnoresControls(t *testing.T) {
	controls := &countingControls{}
	f := newFixture(t, ModeFree, nil, controls)

	if err := f.driver.Tick(moveTo(1, 1)); err != nil {
		t.Fatal(err)
	}

	if controls.updates != 0 {
		t.Fatal("controls must not be ticked in free mode")
	}
}

func TestAssetSlotIsSetOnce(t *testing.T) {
	var slot AssetSlot

	if _, ok := slot.Get(); ok {
		t.Fatal("new slot must be empty")
	}

	if err := slot.Set(nil); err == nil {
		t.Fatal("expected error for nil node")
	}

	first := testModel()
	if err := slot.Set(first); err != nil {
		t.Fatal(err)
	}

	if err := slot.Set(testModel()); !errors.Is(err, ErrAssetAlreadySet) {
		t.Fatalf("expected ErrAssetAlreadySet, got %v", err)
	}

	if node, _ := slot.Get(); node != first {
		t.Fatal("slot content was replaced")
	}
}

func TestNewDriverRequiresRenderer(t *testing.T) {
	camera := scene.NewPerspectiveCamera(75, 1, 0.1, 1000)

	_, err := NewDriver(DriverOptions{
		Scene:    scene.New(),
		Camera:   camera,
		Viewport: NewViewport(camera, nil, 10, 10),
	})

	if err == nil {
		t.Fatal("expected an error without renderer")
	}
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		input string
		want  Mode
		ok    bool
	}{
		{"free", ModeFree, true},
		{"Orbit", ModeOrbit, true},
		{" orbit ", ModeOrbit, true},
		{"model2", 0, false},
		{"", 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			mode, err := ParseMode(tc.input)
			if tc.ok != (err == nil) {
				t.Fatalf("unexpected error state: %v", err)
			}

			if err != nil && !errors.Is(err, ErrInvalidMode) {
				t.Fatalf("expected ErrInvalidMode, got %v", err)
			}

			if mode != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, mode)
			}
		})
	}
}

func TestModeText(t *testing.T) {
	text, err := ModeOrbit.MarshalText()
	if err != nil || string(text) != "orbit" {
		t.Fatalf("unexpected text %q (%v)", text, err)
	}

	var mode Mode
	if err := mode.UnmarshalText([]byte("free")); err != nil || mode != ModeFree {
		t.Fatalf("unexpected mode %s (%v)", mode, err)
	}

	if _, err := Mode(9).MarshalText(); err == nil {
		t.Fatal("expected error for unknown mode")
	}

	if Mode(9).String() != "Mode(9)" {
		t.Fatalf("unexpected string %q", Mode(9).String())
	}
}

func TestUnknownModePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()

	camera := scene.NewPerspectiveCamera(75, 1, 0.1, 1000)

	Updater{Mode: Mode(5)}.Update(State{
		Asset:    &AssetSlot{},
		Cursor:   &Cursor{},
		Viewport: NewViewport(camera, nil, 1, 1),
		Camera:   camera,
	})
}
