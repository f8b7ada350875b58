package glm

// Quaternion is a rotation with vector part V and scalar part S.
type Quaternion[T numeric] struct {
	V Vec3[T]
	S T
}

// QuaternionXYZW builds a quaternion from the component order used by glTF.
func QuaternionXYZW[T numeric](x, y, z, w T) Quaternion[T] {
	return Quaternion[T]{V: Vec3[T]{x, y, z}, S: w}
}

func IdentityQuaternion[T numeric]() Quaternion[T] {
	return Quaternion[T]{S: 1}
}
