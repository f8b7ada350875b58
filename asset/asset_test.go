package asset

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/oliverbestmann/showcase/glm"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const quadOBJ = `# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 2
f 1//1 2//1 3//1 4//1
`

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func requireVec3(t *testing.T, got, want glm.Vec3f) {
	t.Helper()

	for idx := range got {
		if !near(got[idx], want[idx]) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestLoadOBJ(t *testing.T) {
	src := fstest.MapFS{
		"quad.obj": {Data: []byte(quadOBJ)},
	}

	node, err := Load(context.Background(), src, "quad.obj", Options{})
	if err != nil {
		t.Fatal(err)
	}

	mesh := node.Mesh
	if mesh.TriangleCount() != 2 {
		t.Fatalf("expected two triangles, got %d", mesh.TriangleCount())
	}

	for _, vertex := range mesh.Vertices {
		requireVec3(t, vertex.Normal, glm.Vec3f{0, 0, 1})

		if vertex.Color != (glm.Vec4f{1, 1, 1, 1}) {
			t.Fatalf("expected default color, got %v", vertex.Color)
		}
	}

	requireVec3(t, node.Bounds.Min, glm.Vec3f{0, 0, 0})
	requireVec3(t, node.Bounds.Max, glm.Vec3f{1, 1, 0})
}

func TestLoadOBJWithoutNormals(t *testing.T) {
	src := fstest.MapFS{
		"tri.obj": {Data: []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n")},
	}

	node, err := Load(context.Background(), src, "tri.obj", Options{Color: glm.Vec4f{1, 0, 0, 1}})
	if err != nil {
		t.Fatal(err)
	}

	if len(node.Mesh.Vertices) != 3 {
		t.Fatalf("expected three vertices, got %d", len(node.Mesh.Vertices))
	}

	for _, vertex := range node.Mesh.Vertices {
		requireVec3(t, vertex.Normal, glm.Vec3f{0, 0, 1})

		if vertex.Color != (glm.Vec4f{1, 0, 0, 1}) {
			t.Fatalf("expected the configured color, got %v", vertex.Color)
		}
	}
}

func TestLoadOBJErrors(t *testing.T) {
	cases := map[string]string{
		"index out of range": "v 0 0 0\nf 1 2 3\n",
		"short face":         "v 0 0 0\nv 1 0 0\nf 1 2\n",
		"bad coordinate":     "v 0 zero 0\n",
		"bad normal index":   "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//4 2//4 3//4\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			src := fstest.MapFS{"broken.obj": {Data: []byte(content)}}

			if _, err := Load(context.Background(), src, "broken.obj", Options{}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestParseVertexRef(t *testing.T) {
	cases := map[string]vertexRef{
		"3":      {Vertex: 3},
		"3/7":    {Vertex: 3},
		"3//5":   {Vertex: 3, Normal: 5},
		"3/7/5":  {Vertex: 3, Normal: 5},
		"-1//-2": {Vertex: -1, Normal: -2},
	}

	for input, want := range cases {
		got, err := parseVertexRef(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}

		if got != want {
			t.Fatalf("parse %q: expected %+v, got %+v", input, want, got)
		}
	}

	if _, err := parseVertexRef("a/b/c"); err == nil {
		t.Fatal("expected an error")
	}
}

// writeGLB writes a scene with a scaled parent node and a translated
// child node holding a single triangle.
func writeGLB(t *testing.T) string {
	t.Helper()

	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	indices := modeler.WriteIndices(doc, []uint16{0, 1, 2})

	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Indices:    gltf.Index(indices),
			Attributes: map[string]int{gltf.POSITION: positions},
		}},
	}}

	doc.Nodes = []*gltf.Node{
		{Name: "parent", Scale: [3]float64{2, 2, 2}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Translation: [3]float64{0, 0, 1}},
	}

	doc.Scene = gltf.Index(0)
	doc.Scenes = []*gltf.Scene{{Name: "root", Nodes: []int{0}}}

	name := filepath.Join(t.TempDir(), "model.glb")
	if err := gltf.SaveBinary(doc, name); err != nil {
		t.Fatalf("write glb: %v", err)
	}

	return name
}

func TestLoadGLB(t *testing.T) {
	name := writeGLB(t)

	var reported int64
	progress := func(file string, loaded, total int64) {
		reported = loaded
	}

	node, err := Load(context.Background(), Dir(filepath.Dir(name)), "model.glb", Options{Progress: progress})
	if err != nil {
		t.Fatal(err)
	}

	mesh := node.Mesh
	if mesh.TriangleCount() != 1 {
		t.Fatalf("expected one triangle, got %d", mesh.TriangleCount())
	}

	requireVec3(t, mesh.Vertices[0].Position, glm.Vec3f{0, 0, 2})
	requireVec3(t, mesh.Vertices[1].Position, glm.Vec3f{2, 0, 2})
	requireVec3(t, mesh.Vertices[2].Position, glm.Vec3f{0, 2, 2})

	for _, vertex := range mesh.Vertices {
		requireVec3(t, vertex.Normal, glm.Vec3f{0, 0, 1})
	}

	requireVec3(t, node.Bounds.Min, glm.Vec3f{0, 0, 2})
	requireVec3(t, node.Bounds.Max, glm.Vec3f{2, 2, 2})

	if reported == 0 {
		t.Fatal("expected progress to be reported")
	}
}

func TestBakeSceneWithoutScene(t *testing.T) {
	_, err := bakeScene(&gltf.Document{}, nil, glm.Vec4f{1, 1, 1, 1})
	if !errors.Is(err, ErrNoScene) {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	src := fstest.MapFS{"model.fbx": {Data: []byte("binary")}}

	_, err := Load(context.Background(), src, "model.fbx", Options{})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), Dir(t.TempDir()), ModelPath("model1"), Options{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadOverHTTP(t *testing.T) {
	files := fstest.MapFS{
		"models/quad.obj": {Data: []byte(quadOBJ)},
	}

	server := httptest.NewServer(http.FileServer(http.FS(files)))
	defer server.Close()

	base, err := url.Parse(server.URL + "/models")
	if err != nil {
		t.Fatal(err)
	}

	var lastLoaded, lastTotal int64
	progress := func(name string, loaded, total int64) {
		lastLoaded, lastTotal = loaded, total
	}

	src := HTTP(base, server.Client())

	node, err := Load(context.Background(), src, "quad.obj", Options{Progress: progress})
	if err != nil {
		t.Fatal(err)
	}

	if node.Mesh.TriangleCount() != 2 {
		t.Fatalf("expected two triangles, got %d", node.Mesh.TriangleCount())
	}

	if lastTotal != int64(len(quadOBJ)) || lastLoaded != lastTotal {
		t.Fatalf("unexpected progress %d/%d", lastLoaded, lastTotal)
	}

	_, err = Load(context.Background(), src, "missing.obj", Options{})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestNewSourceLocal(t *testing.T) {
	src, err := NewSource(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := src.(*httpFS); ok {
		t.Fatal("expected a local source")
	}

	src, err = NewSource("https://example.com/public")
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := src.(*httpFS); !ok {
		t.Fatal("expected a remote source")
	}
}

func TestLoadAsync(t *testing.T) {
	src := fstest.MapFS{"quad.obj": {Data: []byte(quadOBJ)}}

	select {
	case result := <-LoadAsync(context.Background(), src, "quad.obj", Options{}):
		if result.Err != nil {
			t.Fatal(result.Err)
		}

		if result.Name != "quad.obj" || result.Node == nil {
			t.Fatalf("unexpected result %+v", result)
		}

	case <-time.After(5 * time.Second):
		t.Fatal("load did not finish")
	}
}

func TestLoadAsyncCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := fstest.MapFS{"quad.obj": {Data: []byte(quadOBJ)}}

	result := <-LoadAsync(ctx, src, "quad.obj", Options{})
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", result.Err)
	}

	if result.Node != nil {
		t.Fatal("expected no node")
	}
}

func TestLoadAsyncCancelAbortsRequest(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)

		// never answers on its own
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))

	defer server.Close()
	defer close(release)

	base, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := LoadAsync(ctx, HTTP(base, server.Client()), "quad.obj", Options{})

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request did not reach the server")
	}

	cancel()

	select {
	case result := <-results:
		if !errors.Is(result.Err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", result.Err)
		}

	case <-time.After(5 * time.Second):
		t.Fatal("canceling did not abort the request")
	}
}

func TestModelPath(t *testing.T) {
	if got := ModelPath("model2"); got != "model2/scene.gltf" {
		t.Fatalf("unexpected path %q", got)
	}
}

func encodePNG(t *testing.T, fill color.NRGBA) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := range 2 {
		for x := range 2 {
			img.SetNRGBA(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	return buf.Bytes()
}

// texturedDocument returns a document with one textured triangle whose
// base color image is img.
func texturedDocument(img *gltf.Image) *gltf.Document {
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uvs := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})

	doc.Images = []*gltf.Image{img}
	doc.Textures = []*gltf.Texture{{Source: gltf.Index(0)}}
	doc.Materials = []*gltf.Material{{
		Name: "painted",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float64{1, 0.5, 1, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
	}}

	doc.Meshes = []*gltf.Mesh{{
		Name: "triangle",
		Primitives: []*gltf.Primitive{{
			Mode:       gltf.PrimitiveTriangles,
			Material:   gltf.Index(0),
			Attributes: map[string]int{gltf.POSITION: positions, gltf.TEXCOORD_0: uvs},
		}},
	}}

	doc.Nodes = []*gltf.Node{{Name: "triangle", Mesh: gltf.Index(0)}}
	doc.Scene = gltf.Index(0)
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}

	return doc
}

func TestBakeSceneWithTexture(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	data := encodePNG(t, red)

	cases := []struct {
		name  string
		image *gltf.Image
		files fstest.MapFS
	}{
		{
			name:  "external file",
			image: &gltf.Image{URI: "textures/base%20color.png"},
			files: fstest.MapFS{"textures/base color.png": {Data: data}},
		},
		{
			name:  "data uri",
			image: &gltf.Image{URI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := texturedDocument(tc.image)

			mesh, err := bakeScene(doc, tc.files, glm.Vec4f{1, 1, 1, 1})
			if err != nil {
				t.Fatal(err)
			}

			if len(mesh.Parts) != 1 {
				t.Fatalf("expected one part, got %v", mesh.Parts)
			}

			part := mesh.Parts[0]
			if part.First != 0 || part.Count != 3 {
				t.Fatalf("unexpected part range %+v", part)
			}

			if part.Texture == nil || part.Texture.Image == nil {
				t.Fatal("expected a decoded texture")
			}

			if size := part.Texture.Image.Bounds().Size(); size != image.Pt(2, 2) {
				t.Fatalf("unexpected texture size %v", size)
			}

			if got := color.NRGBAModel.Convert(part.Texture.Image.At(1, 1)); got != red {
				t.Fatalf("unexpected texel %v", got)
			}

			if mesh.Vertices[1].UV != (glm.Vec2f{1, 0}) || mesh.Vertices[2].UV != (glm.Vec2f{0, 1}) {
				t.Fatalf("unexpected texture coordinates %v, %v", mesh.Vertices[1].UV, mesh.Vertices[2].UV)
			}

			if mesh.Vertices[0].Color != (glm.Vec4f{1, 0.5, 1, 1}) {
				t.Fatalf("expected base color factor, got %v", mesh.Vertices[0].Color)
			}
		})
	}
}

func TestBakeSceneWithMissingTexture(t *testing.T) {
	doc := texturedDocument(&gltf.Image{URI: "missing.png"})

	mesh, err := bakeScene(doc, fstest.MapFS{}, glm.Vec4f{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	// the triangle is still drawn with its base color
	if parts := mesh.DrawParts(); len(parts) != 1 || parts[0].Texture != nil || parts[0].Count != 3 {
		t.Fatalf("expected one untextured part, got %v", parts)
	}
}

func TestBakeSceneSharesTextures(t *testing.T) {
	doc := texturedDocument(&gltf.Image{URI: "base.png"})

	// a second node draws the same mesh
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: "copy", Mesh: gltf.Index(0), Translation: [3]float64{2, 0, 0}})
	doc.Scenes[0].Nodes = []int{0, 1}

	files := fstest.MapFS{"base.png": {Data: encodePNG(t, color.NRGBA{G: 255, A: 255})}}

	mesh, err := bakeScene(doc, files, glm.Vec4f{1, 1, 1, 1})
	if err != nil {
		t.Fatal(err)
	}

	// both primitives share one texture and are merged into one part
	if len(mesh.Parts) != 1 || mesh.Parts[0].Count != 6 {
		t.Fatalf("expected a single merged part, got %v", mesh.Parts)
	}
}
