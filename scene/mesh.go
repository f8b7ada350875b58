package scene

import (
	"image"
	"structs"

	"github.com/oliverbestmann/showcase/glm"
)

// Vertex is laid out exactly as the renderer uploads it to the GPU.
type Vertex struct {
	_ structs.HostLayout

	Position glm.Vec3f
	Normal   glm.Vec3f
	UV       glm.Vec2f
	Color    glm.Vec4f
}

// Texture is a decoded base color image. The renderer uploads it once
// per Texture pointer.
type Texture struct {
	Name  string
	Image image.Image
}

// Part is a range of a mesh's indices sharing one texture.
// A nil Texture samples as opaque white.
type Part struct {
	First   uint32
	Count   uint32
	Texture *Texture
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Parts    []Part
	Bounds   glm.Box3f
}

// AddPart records that count indices starting at first use the given texture.
// A part continuing the previous one with the same texture is merged into it.
func (m *Mesh) AddPart(first, count uint32, texture *Texture) {
	if count == 0 {
		return
	}

	if n := len(m.Parts); n > 0 {
		last := &m.Parts[n-1]
		if last.Texture == texture && last.First+last.Count == first {
			last.Count += count
			return
		}
	}

	m.Parts = append(m.Parts, Part{First: first, Count: count, Texture: texture})
}

// DrawParts returns the parts to draw. A mesh without parts is drawn
// as a single untextured part.
func (m *Mesh) DrawParts() []Part {
	if len(m.Parts) > 0 {
		return m.Parts
	}

	if len(m.Indices) == 0 {
		return nil
	}

	return []Part{{First: 0, Count: uint32(len(m.Indices))}}
}

func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// ComputeBounds recalculates Bounds from the vertex positions.
func (m *Mesh) ComputeBounds() {
	bounds := glm.EmptyBox3()
	for _, v := range m.Vertices {
		bounds = bounds.Extend(v.Position)
	}

	m.Bounds = bounds
}

// FlatNormals assigns every vertex of a triangle that triangle's face normal.
// Vertices shared between triangles receive the normal of the last one.
func (m *Mesh) FlatNormals() {
	for idx := 0; idx+2 < len(m.Indices); idx += 3 {
		a := &m.Vertices[m.Indices[idx+0]]
		b := &m.Vertices[m.Indices[idx+1]]
		c := &m.Vertices[m.Indices[idx+2]]

		n := FaceNormal(a.Position, b.Position, c.Position)
		a.Normal, b.Normal, c.Normal = n, n, n
	}
}

// FaceNormal returns the normal of the counter clockwise triangle a, b, c.
func FaceNormal(a, b, c glm.Vec3f) glm.Vec3f {
	u := b.Sub(a)
	v := c.Sub(a)
	return u.Cross(v).Normalize()
}
