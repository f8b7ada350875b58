package viewer

// Cursor holds the last known pointer position in viewport pixels.
// It has a single writer (the input listener) and is read by the updater.
type Cursor struct {
	x, y  float32
	valid bool
}

// Move records a pointer-move notification. The position is stored as is.
func (c *Cursor) Move(x, y float32) {
	c.x = x
	c.y = y
	c.valid = true
}

// Position returns the last position. ok is false until the first Move.
func (c *Cursor) Position() (x, y float32, ok bool) {
	return c.x, c.y, c.valid
}
