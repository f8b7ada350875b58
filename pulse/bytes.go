package pulse

import "unsafe"

// putUniform copies the raw memory of value into the slot with the given
// index of a buffer of uniform blocks aligned to uniformAlignment.
func putUniform[T any](buf []byte, slot int, value *T) {
	size := int(unsafe.Sizeof(*value))
	if size > uniformAlignment {
		panic("uniform block exceeds alignment")
	}

	src := unsafe.Slice((*byte)(unsafe.Pointer(value)), size)
	copy(buf[slot*uniformAlignment:], src)
}
