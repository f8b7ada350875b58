package glm

import "math"

// Box3 is an axis aligned bounding box. The zero value is not empty,
// use EmptyBox3 to start accumulating points.
type Box3[T numeric] struct {
	Min Vec3[T]
	Max Vec3[T]
}

func EmptyBox3() Box3f {
	inf := float32(math.Inf(1))

	return Box3f{
		Min: Vec3f{inf, inf, inf},
		Max: Vec3f{-inf, -inf, -inf},
	}
}

func (r Box3[T]) IsEmpty() bool {
	return r.Min[0] > r.Max[0] || r.Min[1] > r.Max[1] || r.Min[2] > r.Max[2]
}

func (r Box3[T]) Extend(point Vec3[T]) Box3[T] {
	return Box3[T]{
		Min: Vec3[T]{
			min(r.Min[0], point[0]),
			min(r.Min[1], point[1]),
			min(r.Min[2], point[2]),
		},
		Max: Vec3[T]{
			max(r.Max[0], point[0]),
			max(r.Max[1], point[1]),
			max(r.Max[2], point[2]),
		},
	}
}

func (r Box3[T]) Union(other Box3[T]) Box3[T] {
	if other.IsEmpty() {
		return r
	}

	return r.Extend(other.Min).Extend(other.Max)
}

func (r Box3[T]) Center() Vec3[T] {
	return r.Min.Add(r.Max).MulScalar(T(1) / 2)
}

func (r Box3[T]) Size() Vec3[T] {
	return r.Max.Sub(r.Min)
}
