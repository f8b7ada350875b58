package asset

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
)

var ErrUnsupportedFormat = errors.New("unsupported model format")

var ErrNoScene = errors.New("model has no scene")

type Options struct {
	// Progress is informed about every chunk read from the source. May be nil.
	Progress Progress

	// Color of primitives without a material. Defaults to opaque white.
	Color glm.Vec4f
}

func (opts Options) color() glm.Vec4f {
	if opts.Color == (glm.Vec4f{}) {
		return glm.Vec4f{1, 1, 1, 1}
	}

	return opts.Color
}

// ModelPath returns the path of the scene file of a model directory.
func ModelPath(model string) string {
	return path.Join(model, "scene.gltf")
}

// Load reads and decodes the model stored at name in src. The format is
// chosen by the file extension. All meshes of the model are merged into
// the returned node.
func Load(ctx context.Context, src fs.FS, name string, opts Options) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src = &trackedFS{FS: src, ctx: ctx, progress: opts.Progress}

	var decode func(fs.FS, string, Options) (*scene.Node, error)

	switch strings.ToLower(path.Ext(name)) {
	case ".gltf", ".glb":
		decode = loadGLTF
	case ".obj":
		decode = loadOBJ
	default:
		return nil, fmt.Errorf("load %q: %w", name, ErrUnsupportedFormat)
	}

	node, err := decode(src, name, opts)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}

	var triangles int
	if node.Mesh != nil {
		triangles = node.Mesh.TriangleCount()
	}

	slog.Info("Model loaded",
		slog.String("model", name),
		slog.Int("triangles", triangles),
		slog.Any("min", node.Bounds.Min),
		slog.Any("max", node.Bounds.Max),
	)

	return node, nil
}

// Result is the outcome of an asynchronous load.
type Result struct {
	Name string
	Node *scene.Node
	Err  error
}

// LoadAsync runs Load in a new goroutine. The returned channel receives
// exactly one Result and is never closed.
func LoadAsync(ctx context.Context, src fs.FS, name string, opts Options) <-chan Result {
	results := make(chan Result, 1)

	go func() {
		node, err := Load(ctx, src, name, opts)
		results <- Result{Name: name, Node: node, Err: err}
	}()

	return results
}

func newModelNode(name string, mesh *scene.Mesh) *scene.Node {
	mesh.ComputeBounds()

	node := scene.NewNode(name)
	node.Mesh = mesh
	node.Bounds = mesh.Bounds
	return node
}
