package pulse

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/showcase/scene"
)

// number of textures kept on the gpu
const textureCacheSize = 64

// whitePixel is sampled by parts without a texture
func whitePixel() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return img
}

// gpuTexture is an uploaded texture and the bind group sampling it.
type gpuTexture struct {
	texture   *Texture
	bindGroup *wgpu.BindGroup

	// layout the bind group was created for
	layout *wgpu.BindGroupLayout
}

func (t *gpuTexture) Release() {
	t.bindGroup.Release()
	t.texture.Release()
}

// TextureCache uploads the textures of meshes on first use. The nil
// texture maps to a single white pixel.
type TextureCache struct {
	ctx      *Context
	samplers *SamplerCache
	cache    *lru.Cache[*scene.Texture, *gpuTexture]
}

func NewTextureCache(ctx *Context) *TextureCache {
	cache, _ := lru.NewWithEvict[*scene.Texture, *gpuTexture](textureCacheSize, func(texture *scene.Texture, uploaded *gpuTexture) {
		slog.Debug("Release texture", slog.String("texture", textureName(texture)))
		uploaded.Release()
	})

	return &TextureCache{
		ctx:      ctx,
		samplers: NewSamplerCache(ctx),
		cache:    cache,
	}
}

// BindGroup returns a bind group with the texture in binding 0 and its
// sampler in binding 1, created for the given layout.
func (c *TextureCache) BindGroup(texture *scene.Texture, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
	if cached, ok := c.cache.Get(texture); ok {
		if cached.layout == layout {
			return cached.bindGroup, nil
		}

		// the pipeline changed, the texture can stay
		bindGroup, err := c.createBindGroup(cached.texture, layout)
		if err != nil {
			return nil, err
		}

		cached.bindGroup.Release()
		cached.bindGroup = bindGroup
		cached.layout = layout

		return bindGroup, nil
	}

	src := whitePixel()
	if texture != nil && texture.Image != nil {
		src = texture.Image
	}

	uploaded, err := NewTextureFromImage(c.ctx, textureName(texture), src)
	if err != nil {
		return nil, err
	}

	bindGroup, err := c.createBindGroup(uploaded, layout)
	if err != nil {
		uploaded.Release()
		return nil, err
	}

	slog.Info("Uploaded texture",
		slog.String("texture", textureName(texture)),
		slog.Int("width", int(uploaded.Width())),
		slog.Int("height", int(uploaded.Height())),
	)

	c.cache.Add(texture, &gpuTexture{
		texture:   uploaded,
		bindGroup: bindGroup,
		layout:    layout,
	})

	return bindGroup, nil
}

func (c *TextureCache) createBindGroup(texture *Texture, layout *wgpu.BindGroupLayout) (*wgpu.BindGroup, error) {
	sampler, err := c.samplers.Get(textureSamplerDescriptor)
	if err != nil {
		return nil, err
	}

	bindGroup, err := c.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Mesh.Texture",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding:     0,
				TextureView: texture.View(),
			},
			{
				Binding: 1,
				Sampler: sampler,
			},
		},
	})

	if err != nil {
		return nil, fmt.Errorf("create texture bind group: %w", err)
	}

	return bindGroup, nil
}

// Purge releases all textures and samplers.
func (c *TextureCache) Purge() {
	c.cache.Purge()
	c.samplers.Purge()
}

func textureName(texture *scene.Texture) string {
	if texture == nil {
		return "white"
	}

	return texture.Name
}
