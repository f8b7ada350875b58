//go:build js

package glimpse

import (
	"errors"
	"log/slog"
	"syscall/js"

	"github.com/cogentcore/webgpu/wgpu"
)

type jsWindow struct {
	canvas js.Value
	input  InputState

	listeners []listener
}

type listener struct {
	target js.Value
	event  string
	fn     js.Func
}

func NewWindow(opts WindowOptions) (Window, error) {
	document := js.Global().Get("document")
	if document.IsUndefined() {
		return nil, errors.New("no document available")
	}

	canvas := document.Call("createElement", "canvas")
	canvas.Set("style", "width:100vw; height:100vh; display:block")

	parent := document.Call("getElementById", opts.Container)
	if parent.IsNull() {
		slog.Warn("Container element not found, using document body", slog.String("container", opts.Container))
		parent = document.Get("body")
	}

	parent.Call("appendChild", canvas)

	document.Set("title", opts.Title)

	win := &jsWindow{canvas: canvas}
	win.configureInput(document)

	return win, nil
}

func (g *jsWindow) Size() (uint32, uint32) {
	return viewportSize()
}

// viewportSize returns the size of the visual viewport in device pixels.
func viewportSize() (uint32, uint32) {
	vv := js.Global().Get("visualViewport")
	ratio := js.Global().Get("devicePixelRatio").Float()
	return SurfaceSize(vv.Get("width").Float(), vv.Get("height").Float(), ratio)
}

func (g *jsWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return &wgpu.SurfaceDescriptor{Canvas: g.canvas}
}

func (g *jsWindow) Terminate() {
	for _, l := range g.listeners {
		l.target.Call("removeEventListener", l.event, l.fn)
		l.fn.Release()
	}

	g.listeners = nil
	g.canvas.Call("remove")
}

func (g *jsWindow) Run(render func(input UpdateInputState) error) error {
	helper := js.Global().Call("eval", `({
        async run(runOnce) {
            while (true) {
                await new Promise(resolve => requestAnimationFrame(resolve))
                if (!runOnce()) {
                    break
                }
            }
        }
	})`)

	// events are delivered between two frames, nothing to poll
	var updateInputState UpdateInputState = func() InputState {
		return g.input
	}

	result := make(chan error, 1)

	renderWrapper := func(this js.Value, args []js.Value) any {
		resizeCanvas(g.canvas)

		err := render(updateInputState)
		g.input.nextTick()

		if err != nil {
			result <- err
			return false
		}

		return true
	}

	fn := js.FuncOf(renderWrapper)
	defer fn.Release()

	helper.Call("run", fn)

	return <-result
}

func (g *jsWindow) configureInput(document js.Value) {
	pixelRatio := func() float32 {
		return float32(js.Global().Get("devicePixelRatio").Float())
	}

	g.listen(document, "mousemove", func(event js.Value) {
		ratio := pixelRatio()
		x := float32(event.Get("clientX").Float()) * ratio
		y := float32(event.Get("clientY").Float()) * ratio
		g.input.Mouse.position(x, y)
	})

	g.listen(g.canvas, "mousedown", func(event js.Value) {
		g.input.Mouse.press(MouseButton(event.Get("button").Int()))
	})

	g.listen(document, "mouseup", func(event js.Value) {
		g.input.Mouse.release(MouseButton(event.Get("button").Int()))
	})

	g.listen(g.canvas, "wheel", func(event js.Value) {
		// positive deltaY scrolls towards the user
		switch deltaY := event.Get("deltaY").Float(); {
		case deltaY < 0:
			g.input.Mouse.scroll(1)
		case deltaY > 0:
			g.input.Mouse.scroll(-1)
		}
	})
}

func (g *jsWindow) listen(target js.Value, event string, handle func(event js.Value)) {
	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			handle(args[0])
		}

		return nil
	})

	target.Call("addEventListener", event, fn)
	g.listeners = append(g.listeners, listener{target: target, event: event, fn: fn})
}

func resizeCanvas(canvas js.Value) {
	width, height := viewportSize()

	canvas.Set("width", width)
	canvas.Set("height", height)
}
