package glimpse

type MouseButton uint32

// MouseButtonLeft is the primary button, on desktop and in the browser.
const MouseButtonLeft MouseButton = 0

type MouseState struct {
	CursorX, CursorY float32

	// true once the cursor position is known
	HasCursor bool

	// true if the cursor moved since the last tick
	Moved bool

	// recorded movement since last tick
	DeltaX, DeltaY float32

	// scroll steps since last tick, positive when scrolling away from the user
	Scroll float32

	Pressed map[MouseButton]bool

	// mouse buttons that were just clicked after the last call to nextTick()
	JustPressed map[MouseButton]bool

	// mouse buttons that were just released after the last call to nextTick()
	JustReleased map[MouseButton]bool
}

func (m *MouseState) press(button MouseButton) {
	setTrue(&m.Pressed, button)
	setTrue(&m.JustPressed, button)
}

func (m *MouseState) release(button MouseButton) {
	setFalse(&m.Pressed, button)
	setTrue(&m.JustReleased, button)
}

func (m *MouseState) position(x, y float32) {
	if m.HasCursor {
		m.DeltaX += x - m.CursorX
		m.DeltaY += y - m.CursorY
	}

	m.CursorX = x
	m.CursorY = y

	m.HasCursor = true
	m.Moved = true
}

func (m *MouseState) scroll(steps float32) {
	m.Scroll += steps
}

func (m *MouseState) nextTick() {
	clear(m.JustPressed)
	clear(m.JustReleased)

	m.DeltaX = 0
	m.DeltaY = 0
	m.Scroll = 0
	m.Moved = false
}

type InputState struct {
	Mouse MouseState
}

func (s *InputState) nextTick() {
	s.Mouse.nextTick()
}

func setTrue[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = true
}

func setFalse[K comparable](m *map[K]bool, key K) {
	if *m == nil {
		*m = map[K]bool{}
	}

	(*m)[key] = false
}
