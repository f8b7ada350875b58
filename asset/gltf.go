package asset

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func loadGLTF(src fs.FS, name string, opts Options) (*scene.Node, error) {
	fp, err := src.Open(name)
	if err != nil {
		return nil, err
	}

	defer fp.Close()

	// external buffers are referenced relative to the scene file
	dir, err := fs.Sub(src, path.Dir(name))
	if err != nil {
		return nil, err
	}

	var doc gltf.Document
	if err := gltf.NewDecoderFS(fp, dir).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gltf: %w", err)
	}

	mesh, err := bakeScene(&doc, dir, opts.color())
	if err != nil {
		return nil, err
	}

	mesh.Name = name

	return newModelNode(name, mesh), nil
}

// bakeScene merges all primitives reachable from the default scene into
// one mesh, transformed into the scene's root space. External images are
// resolved relative to dir.
func bakeScene(doc *gltf.Document, dir fs.FS, color glm.Vec4f) (*scene.Mesh, error) {
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = *doc.Scene
	}

	if sceneIdx < 0 || sceneIdx >= len(doc.Scenes) {
		return nil, ErrNoScene
	}

	b := baker{
		doc:      doc,
		color:    color,
		mesh:     &scene.Mesh{},
		textures: textureLoader{doc: doc, dir: dir},
	}

	for _, nodeIdx := range doc.Scenes[sceneIdx].Nodes {
		if err := b.visit(nodeIdx, glm.IdentityMat4[float32](), 0); err != nil {
			return nil, err
		}
	}

	return b.mesh, nil
}

type baker struct {
	doc      *gltf.Document
	color    glm.Vec4f
	mesh     *scene.Mesh
	textures textureLoader
}

func (b *baker) visit(nodeIdx int, parent glm.Mat4f, depth int) error {
	if nodeIdx < 0 || nodeIdx >= len(b.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", nodeIdx)
	}

	// a valid node hierarchy is a forest, anything deeper is a cycle
	if depth > len(b.doc.Nodes) {
		return fmt.Errorf("node %d is part of a cycle", nodeIdx)
	}

	node := b.doc.Nodes[nodeIdx]
	world := parent.Mul(nodeMatrix(node))

	if node.Mesh != nil {
		if err := b.addMesh(*node.Mesh, world); err != nil {
			return fmt.Errorf("mesh of node %q: %w", node.Name, err)
		}
	}

	for _, child := range node.Children {
		if err := b.visit(child, world, depth+1); err != nil {
			return err
		}
	}

	return nil
}

func (b *baker) addMesh(meshIdx int, world glm.Mat4f) error {
	if meshIdx < 0 || meshIdx >= len(b.doc.Meshes) {
		return fmt.Errorf("mesh index %d out of range", meshIdx)
	}

	for idx, primitive := range b.doc.Meshes[meshIdx].Primitives {
		if primitive.Mode != gltf.PrimitiveTriangles {
			slog.Warn("Skipping primitive that is not a triangle list",
				slog.Int("mesh", meshIdx),
				slog.Int("primitive", idx),
			)

			continue
		}

		if err := b.addPrimitive(primitive, world); err != nil {
			return fmt.Errorf("primitive %d: %w", idx, err)
		}
	}

	return nil
}

func (b *baker) addPrimitive(primitive *gltf.Primitive, world glm.Mat4f) error {
	posIdx, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil
	}

	accessor, err := b.accessor(posIdx)
	if err != nil {
		return err
	}

	positions, err := modeler.ReadPosition(b.doc, accessor, nil)
	if err != nil {
		return fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if normalIdx, ok := primitive.Attributes[gltf.NORMAL]; ok {
		accessor, err := b.accessor(normalIdx)
		if err != nil {
			return err
		}

		normals, err = modeler.ReadNormal(b.doc, accessor, nil)
		if err != nil {
			return fmt.Errorf("read normals: %w", err)
		}
	}

	var colors [][4]uint8
	if colorIdx, ok := primitive.Attributes[gltf.COLOR_0]; ok {
		accessor, err := b.accessor(colorIdx)
		if err != nil {
			return err
		}

		colors, err = modeler.ReadColor(b.doc, accessor, nil)
		if err != nil {
			return fmt.Errorf("read colors: %w", err)
		}
	}

	var indices []uint32
	if primitive.Indices != nil {
		accessor, err := b.accessor(*primitive.Indices)
		if err != nil {
			return err
		}

		indices, err = modeler.ReadIndices(b.doc, accessor, nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for idx := range indices {
			indices[idx] = uint32(idx)
		}
	}

	mat, err := b.material(primitive.Material)
	if err != nil {
		return err
	}

	var uvs [][2]float32
	if mat.texture != nil {
		uvIdx, ok := primitive.Attributes[fmt.Sprintf("TEXCOORD_%d", mat.texCoord)]
		if !ok {
			slog.Warn("Textured primitive has no texture coordinates",
				slog.String("texture", mat.texture.Name),
				slog.Int("texCoord", mat.texCoord),
			)

			mat.texture = nil
		} else {
			accessor, err := b.accessor(uvIdx)
			if err != nil {
				return err
			}

			uvs, err = modeler.ReadTextureCoord(b.doc, accessor, nil)
			if err != nil {
				return fmt.Errorf("read texture coordinates: %w", err)
			}
		}
	}

	base := uint32(len(b.mesh.Vertices))

	for idx, pos := range positions {
		vertex := scene.Vertex{
			Position: world.TransformPoint(pos),
			Color:    mat.color,
		}

		if idx < len(normals) {
			vertex.Normal = world.TransformDirection(normals[idx]).Normalize()
		}

		if idx < len(uvs) {
			vertex.UV = uvs[idx]
		}

		if idx < len(colors) {
			vertex.Color = vertex.Color.Mul(unpackColor(colors[idx]))
		}

		b.mesh.Vertices = append(b.mesh.Vertices, vertex)
	}

	first := len(b.mesh.Indices)

	for _, index := range indices {
		if int(index) >= len(positions) {
			return fmt.Errorf("vertex index %d out of range", index)
		}

		b.mesh.Indices = append(b.mesh.Indices, base+index)
	}

	if len(normals) < len(positions) {
		part := scene.Mesh{Vertices: b.mesh.Vertices, Indices: b.mesh.Indices[first:]}
		part.FlatNormals()
	}

	b.mesh.AddPart(uint32(first), uint32(len(indices)), mat.texture)

	return nil
}

func (b *baker) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", idx)
	}

	return b.doc.Accessors[idx], nil
}

type material struct {
	color    glm.Vec4f
	texture  *scene.Texture
	texCoord int
}

func (b *baker) material(materialIdx *int) (material, error) {
	mat := material{color: b.color}

	if materialIdx == nil || *materialIdx < 0 || *materialIdx >= len(b.doc.Materials) {
		return mat, nil
	}

	pbr := b.doc.Materials[*materialIdx].PBRMetallicRoughness
	if pbr == nil {
		return mat, nil
	}

	if f := pbr.BaseColorFactor; f != nil {
		mat.color = glm.Vec4f{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}
	}

	if info := pbr.BaseColorTexture; info != nil {
		texture, err := b.textures.Get(info.Index)
		if err != nil {
			return mat, err
		}

		mat.texture = texture
		mat.texCoord = info.TexCoord
	}

	return mat, nil
}

func unpackColor(c [4]uint8) glm.Vec4f {
	return glm.Vec4f{
		float32(c[0]) / 255,
		float32(c[1]) / 255,
		float32(c[2]) / 255,
		float32(c[3]) / 255,
	}
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeMatrix returns the local transform of a node, either given as
// matrix or as translation, rotation and scale.
func nodeMatrix(node *gltf.Node) glm.Mat4f {
	if node.Matrix != ([16]float64{}) && node.Matrix != identityMatrix {
		var m glm.Mat4f
		for idx, value := range node.Matrix {
			m[idx] = float32(value)
		}

		return m
	}

	t := node.Translation
	transform := glm.TranslationMat4(float32(t[0]), float32(t[1]), float32(t[2]))

	if r := node.Rotation; r != ([4]float64{}) {
		quat := glm.QuaternionXYZW(float32(r[0]), float32(r[1]), float32(r[2]), float32(r[3]))
		transform = transform.Mul(glm.Mat4FromQuaternion(quat))
	}

	if s := node.Scale; s != ([3]float64{}) {
		transform = transform.Scale(float32(s[0]), float32(s[1]), float32(s[2]))
	}

	return transform
}
