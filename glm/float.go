package glm

import "golang.org/x/exp/constraints"

type float interface {
	~float32 | ~float64
}

type numeric interface {
	float | uint32
}

// Numeric accepts every integer and float type. It is used by the
// conversion helpers that do not produce a vector or matrix.
type Numeric interface {
	constraints.Integer | constraints.Float
}

// Rad is an angle in radians.
type Rad float32
