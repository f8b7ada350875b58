package asset

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"log/slog"
	"net/url"
	"path"

	"github.com/oliverbestmann/showcase/scene"
	"github.com/qmuntal/gltf"
)

// textureLoader decodes the images referenced by glTF textures. Every
// texture is decoded at most once, materials sharing a texture share the
// same *scene.Texture.
type textureLoader struct {
	doc *gltf.Document
	dir fs.FS

	cache map[int]*scene.Texture
}

// Get returns the decoded texture with the given index. A texture whose
// image can not be read is reported and yields nil, the primitive is then
// drawn with its base color only.
func (l *textureLoader) Get(textureIdx int) (*scene.Texture, error) {
	if texture, ok := l.cache[textureIdx]; ok {
		return texture, nil
	}

	if textureIdx < 0 || textureIdx >= len(l.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", textureIdx)
	}

	source := l.doc.Textures[textureIdx].Source
	if source == nil || *source < 0 || *source >= len(l.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", textureIdx)
	}

	img := l.doc.Images[*source]

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("image%d", *source)
		if img.URI != "" && !img.IsEmbeddedResource() {
			name = img.URI
		}
	}

	var texture *scene.Texture

	decoded, err := l.decode(img)
	if err != nil {
		slog.Warn("Failed to decode texture image",
			slog.String("image", name),
			slog.String("error", err.Error()),
		)
	} else {
		texture = &scene.Texture{Name: name, Image: decoded}
	}

	if l.cache == nil {
		l.cache = map[int]*scene.Texture{}
	}

	l.cache[textureIdx] = texture

	return texture, nil
}

func (l *textureLoader) decode(img *gltf.Image) (image.Image, error) {
	buf, err := l.imageData(img)
	if err != nil {
		return nil, err
	}

	decoded, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	return decoded, nil
}

func (l *textureLoader) imageData(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		return l.bufferView(*img.BufferView)

	case img.IsEmbeddedResource():
		return img.MarshalData()

	case img.URI != "":
		if l.dir == nil {
			return nil, fmt.Errorf("no source for external image %q", img.URI)
		}

		// uris are url encoded and relative to the scene file
		name, err := url.PathUnescape(img.URI)
		if err != nil {
			return nil, fmt.Errorf("invalid image uri %q: %w", img.URI, err)
		}

		return fs.ReadFile(l.dir, path.Clean(name))

	default:
		return nil, fmt.Errorf("image has neither uri nor buffer view")
	}
}

func (l *textureLoader) bufferView(idx int) ([]byte, error) {
	if idx < 0 || idx >= len(l.doc.BufferViews) {
		return nil, fmt.Errorf("buffer view index %d out of range", idx)
	}

	view := l.doc.BufferViews[idx]
	if view.Buffer < 0 || view.Buffer >= len(l.doc.Buffers) {
		return nil, fmt.Errorf("buffer index %d out of range", view.Buffer)
	}

	data := l.doc.Buffers[view.Buffer].Data

	end := view.ByteOffset + view.ByteLength
	if view.ByteOffset < 0 || end > len(data) {
		return nil, fmt.Errorf("buffer view %d exceeds its buffer", idx)
	}

	return data[view.ByteOffset:end], nil
}
