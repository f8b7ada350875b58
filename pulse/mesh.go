package pulse

import (
	"fmt"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/showcase/scene"
)

// number of meshes kept on the gpu
const meshCacheSize = 64

// gpuMesh holds the buffers of a mesh uploaded to the gpu.
type gpuMesh struct {
	vertices *wgpu.Buffer
	indices  *wgpu.Buffer
}

func (m *gpuMesh) Release() {
	m.vertices.Release()
	m.indices.Release()
}

// MeshCache uploads meshes on first use. Meshes are assumed to be immutable
// once drawn.
type MeshCache struct {
	ctx   *Context
	cache *lru.Cache[*scene.Mesh, *gpuMesh]
}

func NewMeshCache(ctx *Context) *MeshCache {
	cache, _ := lru.NewWithEvict[*scene.Mesh, *gpuMesh](meshCacheSize, func(mesh *scene.Mesh, buffers *gpuMesh) {
		slog.Debug("Release mesh buffers", slog.String("mesh", mesh.Name))
		buffers.Release()
	})

	return &MeshCache{ctx: ctx, cache: cache}
}

func (c *MeshCache) Get(mesh *scene.Mesh) (*gpuMesh, error) {
	if cached, ok := c.cache.Get(mesh); ok {
		return cached, nil
	}

	vertices, err := c.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("Mesh.Vertices[%s]", mesh.Name),
		Contents: wgpu.ToBytes(mesh.Vertices),
		Usage:    wgpu.BufferUsageVertex,
	})

	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}

	verticesGuard := NewReleaseGuard(vertices)
	defer verticesGuard.Release()

	indices, err := c.ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    fmt.Sprintf("Mesh.Indices[%s]", mesh.Name),
		Contents: wgpu.ToBytes(mesh.Indices),
		Usage:    wgpu.BufferUsageIndex,
	})

	if err != nil {
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	verticesGuard.Keep()

	slog.Info("Uploaded mesh",
		slog.String("mesh", mesh.Name),
		slog.Int("vertices", len(mesh.Vertices)),
		slog.Int("triangles", mesh.TriangleCount()),
	)

	buffers := &gpuMesh{
		vertices: vertices,
		indices:  indices,
	}

	c.cache.Add(mesh, buffers)

	return buffers, nil
}

func (c *MeshCache) Purge() {
	c.cache.Purge()
}
