package pulse

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	lru "github.com/hashicorp/golang-lru/v2"
)

// sampler for the base color textures of a model
var textureSamplerDescriptor = wgpu.SamplerDescriptor{
	Label:         "Mesh.Sampler",
	AddressModeU:  wgpu.AddressModeRepeat,
	AddressModeV:  wgpu.AddressModeRepeat,
	AddressModeW:  wgpu.AddressModeRepeat,
	MagFilter:     wgpu.FilterModeLinear,
	MinFilter:     wgpu.FilterModeLinear,
	MipmapFilter:  wgpu.MipmapFilterModeNearest,
	LodMinClamp:   0,
	LodMaxClamp:   32,
	MaxAnisotropy: 1,
}

// SamplerCache creates samplers on first use. Evicted samplers are released.
type SamplerCache struct {
	device *wgpu.Device
	cache  *lru.Cache[wgpu.SamplerDescriptor, *wgpu.Sampler]
}

func NewSamplerCache(ctx *Context) *SamplerCache {
	cache, _ := lru.NewWithEvict[wgpu.SamplerDescriptor, *wgpu.Sampler](16, func(_ wgpu.SamplerDescriptor, sampler *wgpu.Sampler) {
		sampler.Release()
	})

	return &SamplerCache{device: ctx.Device, cache: cache}
}

// Get returns a sampler matching your description. The sampler is owned by
// the cache, you must not call wgpu.Sampler.Release() on it.
func (c *SamplerCache) Get(desc wgpu.SamplerDescriptor) (*wgpu.Sampler, error) {
	if sampler, ok := c.cache.Get(desc); ok {
		return sampler, nil
	}

	sampler, err := c.device.CreateSampler(&desc)
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}

	c.cache.Add(desc, sampler)

	return sampler, nil
}

func (c *SamplerCache) Purge() {
	c.cache.Purge()
}
