package scene

import (
	"github.com/oliverbestmann/showcase/glm"
)

// Scene is the root of everything that is drawn in a frame.
type Scene struct {
	Root *Node

	Ambient     AmbientLight
	Directional []DirectionalLight

	// rgba clear color; an alpha of zero keeps the surface transparent
	Background glm.Vec4f
}

func New() *Scene {
	return &Scene{Root: NewNode("scene")}
}

func (s *Scene) Add(node *Node) {
	s.Root.Add(node)
}

// DrawItem is a mesh together with its world transform.
type DrawItem struct {
	Mesh  *Mesh
	World glm.Mat4f
}

// DrawList flattens the scene graph into the meshes to draw.
func (s *Scene) DrawList() []DrawItem {
	var items []DrawItem

	s.Root.Walk(glm.IdentityMat4[float32](), func(node *Node, world glm.Mat4f) {
		if node.Mesh != nil && len(node.Mesh.Indices) > 0 {
			items = append(items, DrawItem{Mesh: node.Mesh, World: world})
		}
	})

	return items
}
