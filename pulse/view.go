package pulse

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
)

const depthFormat = wgpu.TextureFormatDepth32Float

type View struct {
	*Context

	surfaceConfig *wgpu.SurfaceConfiguration

	// only configured if we have a multisample texture configured
	msaaTexture *Texture

	// depth texture to render to.
	// has the same sampleCount as the surface itself
	depthTexture *Texture

	sampleCount uint32
}

func NewView(dev *Context, msaa bool) *View {
	st := &View{Context: dev}

	if msaa {
		st.sampleCount = 4
	} else {
		st.sampleCount = 1
	}

	// Print the available render formats
	caps := dev.Surface.GetCapabilities(dev.Adapter)
	slog.Info("Available surface formats",
		slog.Any("formats", caps.Formats),
		slog.Any("alphaModes", caps.AlphaModes),
	)

	// a transparent surface shows the page behind the canvas
	alphaMode := caps.AlphaModes[0]
	if slices.Contains(caps.AlphaModes, wgpu.CompositeAlphaModePremultiplied) {
		alphaMode = wgpu.CompositeAlphaModePremultiplied
	}

	st.surfaceConfig = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      wgpu.TextureFormatBGRA8Unorm,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alphaMode,
	}

	return st
}

func (vs *View) MSAA() bool {
	return vs.sampleCount > 1
}

func (vs *View) SampleCount() uint32 {
	return vs.sampleCount
}

func (vs *View) Format() wgpu.TextureFormat {
	return vs.surfaceConfig.Format
}

func (vs *View) Size() (width, height uint32) {
	return vs.surfaceConfig.Width, vs.surfaceConfig.Height
}

func (vs *View) ReleaseTexture() {
	if vs.depthTexture != nil {
		vs.depthTexture.Release()
		vs.depthTexture = nil
	}

	if vs.msaaTexture != nil {
		vs.msaaTexture.Release()
		vs.msaaTexture = nil
	}
}

// Configure resizes the surface and recreates the depth and multisample
// textures to match.
func (vs *View) Configure(width, height uint32) error {
	vs.surfaceConfig.Width = width
	vs.surfaceConfig.Height = height
	vs.Surface.Configure(vs.Adapter, vs.Device, vs.surfaceConfig)

	// release depth depth texture
	vs.ReleaseTexture()

	var err error

	vs.depthTexture, err = createDepthTexture(vs.Context, width, height, vs.sampleCount)
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}

	if vs.MSAA() {
		// create msaa render target texture
		vs.msaaTexture, err = createMultisampleTexture(vs.Context, vs.surfaceConfig, vs.sampleCount)
		if err != nil {
			return fmt.Errorf("create multisample texture: %w", err)
		}
	}

	return nil
}

// Frame is the set of views a single frame is rendered into.
type Frame struct {
	// view to render to
	View *wgpu.TextureView

	// surface view the multisampled view is resolved to, if any
	ResolveTarget *wgpu.TextureView

	Depth *wgpu.TextureView

	surface     *wgpu.Texture
	surfaceView *wgpu.TextureView
}

func (f *Frame) Release() {
	f.surfaceView.Release()
	f.surface.Release()
}

// Acquire returns the views of the next surface texture.
func (vs *View) Acquire() (*Frame, error) {
	if vs.depthTexture == nil {
		return nil, fmt.Errorf("view is not configured")
	}

	surface, err := vs.Surface.GetCurrentTexture()
	if err != nil {
		return nil, fmt.Errorf("get surface texture: %w", err)
	}

	surfaceView, err := surface.CreateView(nil)
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("create surface view: %w", err)
	}

	frame := &Frame{
		View:        surfaceView,
		Depth:       vs.depthTexture.View(),
		surface:     surface,
		surfaceView: surfaceView,
	}

	if vs.MSAA() {
		frame.View = vs.msaaTexture.View()
		frame.ResolveTarget = surfaceView
	}

	return frame, nil
}

func (vs *View) Present() {
	vs.Surface.Present()
}

func createMultisampleTexture(ctx *Context, surfaceConfig *wgpu.SurfaceConfiguration, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label: "MultisampleRenderTarget",
		Usage: wgpu.TextureUsageRenderAttachment,
		Size: wgpu.Extent3D{
			Width:              surfaceConfig.Width,
			Height:             surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        surfaceConfig.Format,
		Dimension:     wgpu.TextureDimension2D,
		SampleCount:   sampleCount,
		MipLevelCount: 1,
	})
}

func createDepthTexture(ctx *Context, width, height, sampleCount uint32) (*Texture, error) {
	return NewTextureFromDesc(ctx, &wgpu.TextureDescriptor{
		Label:     "DepthTexture",
		Usage:     wgpu.TextureUsageRenderAttachment,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		Format:        depthFormat,
		MipLevelCount: 1,
		SampleCount:   sampleCount,
	})
}
