package scene

import (
	"github.com/oliverbestmann/showcase/glm"
)

// Euler holds rotation angles in radians, applied in XYZ order.
type Euler struct {
	X, Y, Z glm.Rad
}

// Node is an element of the scene graph. A node without a mesh only
// groups and transforms its children.
type Node struct {
	Name     string
	Position glm.Vec3f
	Rotation Euler
	Scale    glm.Vec3f

	Mesh     *Mesh
	Children []*Node

	// Bounds of the node's meshes in the node's local space.
	Bounds glm.Box3f
}

func NewNode(name string) *Node {
	return &Node{
		Name:   name,
		Scale:  glm.Vec3f{1, 1, 1},
		Bounds: glm.EmptyBox3(),
	}
}

func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

// LocalMatrix composes translation, rotation and scale of this node.
func (n *Node) LocalMatrix() glm.Mat4f {
	x, y, z := n.Position.XYZ()
	sx, sy, sz := n.Scale.XYZ()

	return glm.TranslationMat4(x, y, z).
		Mul(glm.EulerMat4[float32](n.Rotation.X, n.Rotation.Y, n.Rotation.Z)).
		Scale(sx, sy, sz)
}

// Walk visits n and all of its descendants depth first, passing the
// world matrix of each visited node.
func (n *Node) Walk(parent glm.Mat4f, visit func(node *Node, world glm.Mat4f)) {
	world := parent.Mul(n.LocalMatrix())
	visit(n, world)

	for _, child := range n.Children {
		child.Walk(world, visit)
	}
}
