package pulse

import (
	_ "embed"
	"fmt"
	"log/slog"
	"structs"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/showcase/glm"
	"github.com/oliverbestmann/showcase/scene"
)

//go:embed mesh.wgsl
var meshShaderCode string

// uniform buffer offsets must be aligned to this value
const uniformAlignment = 256

type meshUniforms struct {
	_ structs.HostLayout

	ViewProjection glm.Mat4f
	Model          glm.Mat4f
	LightDirection glm.Vec4f
	LightColor     glm.Vec4f
	Ambient        glm.Vec4f
}

// Renderer draws a scene.Scene into the surface of a View.
type Renderer struct {
	view *View

	pipelines *PipelineCache[meshRenderPipeline]
	meshes    *MeshCache
	textures  *TextureCache

	// one block of meshUniforms per draw item
	uniforms   *wgpu.Buffer
	bindGroups []*wgpu.BindGroup
	layout     *wgpu.BindGroupLayout
	staging    []byte
}

func NewRenderer(view *View) *Renderer {
	return &Renderer{
		view:      view,
		pipelines: NewPipelineCache[meshRenderPipeline](view.Context),
		meshes:    NewMeshCache(view.Context),
		textures:  NewTextureCache(view.Context),
	}
}

// Resize reconfigures the surface. A surface without area is ignored
// until it gets a size again.
func (r *Renderer) Resize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}

	if w, h := r.view.Size(); w == width && h == height {
		return
	}

	if err := r.view.Configure(width, height); err != nil {
		slog.Error("Failed to configure surface",
			slog.Int("width", int(width)),
			slog.Int("height", int(height)),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Renderer) Render(s *scene.Scene, camera *scene.PerspectiveCamera) error {
	if w, h := r.view.Size(); w == 0 || h == 0 {
		// nothing to draw into
		return nil
	}

	items := s.DrawList()

	pipelineConfig := meshRenderPipeline{
		TargetFormat:      r.view.Format(),
		TargetSampleCount: r.view.SampleCount(),
		ShaderSource:      meshShaderCode,
	}

	pc, err := r.pipelines.Get(pipelineConfig)
	if err != nil {
		return fmt.Errorf("get mesh pipeline: %w", err)
	}

	if err := r.prepareUniforms(pc.GetBindGroupLayout(0), len(items)); err != nil {
		return err
	}

	if err := r.writeUniforms(s, camera, items); err != nil {
		return err
	}

	frame, err := r.view.Acquire()
	if err != nil {
		return err
	}

	defer frame.Release()

	encoder, err := r.view.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}

	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "RenderPassScene",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          frame.View,
				ResolveTarget: frame.ResolveTarget,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       wgpu.StoreOpStore,
				ClearValue:    ColorOf(s.Background).Premultiplied().ToWGPU(),
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            frame.Depth,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})

	passGuard := NewReleaseGuard(pass)
	defer passGuard.Release()

	pass.SetPipeline(pc.Pipeline)

	textureLayout := pc.GetBindGroupLayout(1)

	for idx, item := range items {
		buffers, err := r.meshes.Get(item.Mesh)
		if err != nil {
			return fmt.Errorf("upload mesh %q: %w", item.Mesh.Name, err)
		}

		pass.SetBindGroup(0, r.bindGroups[idx], nil)
		pass.SetVertexBuffer(0, buffers.vertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(buffers.indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)

		// one draw call per texture
		for _, part := range item.Mesh.DrawParts() {
			textureBindGroup, err := r.textures.BindGroup(part.Texture, textureLayout)
			if err != nil {
				return fmt.Errorf("upload texture %q: %w", textureName(part.Texture), err)
			}

			pass.SetBindGroup(1, textureBindGroup, nil)
			pass.DrawIndexed(part.Count, 1, part.First, 0, 0)
		}
	}

	if err := pass.End(); err != nil {
		return err
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return err
	}

	defer cmdBuffer.Release()

	r.view.Submit(cmdBuffer)
	r.view.Present()

	return nil
}

// prepareUniforms makes sure there is a uniform block and bind group for
// count draw items, all created for the given layout.
func (r *Renderer) prepareUniforms(layout *wgpu.BindGroupLayout, count int) error {
	count = max(count, 1)

	if r.layout == layout && len(r.bindGroups) >= count {
		return nil
	}

	capacity := max(count, 2*len(r.bindGroups))

	r.releaseUniforms()

	uniforms, err := r.view.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Scene.Uniforms",
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:  uint64(capacity * uniformAlignment),
	})

	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}

	r.uniforms = uniforms
	r.layout = layout
	r.staging = make([]byte, capacity*uniformAlignment)

	for idx := range capacity {
		bindGroup, err := r.view.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Scene.Uniforms",
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  uniforms,
					Offset:  uint64(idx * uniformAlignment),
					Size:    uint64(unsafe.Sizeof(meshUniforms{})),
				},
			},
		})

		if err != nil {
			return fmt.Errorf("create bind group: %w", err)
		}

		r.bindGroups = append(r.bindGroups, bindGroup)
	}

	return nil
}

func (r *Renderer) writeUniforms(s *scene.Scene, camera *scene.PerspectiveCamera, items []scene.DrawItem) error {
	if len(items) == 0 {
		return nil
	}

	u := meshUniforms{
		ViewProjection: camera.ViewProjection(),
		Ambient:        s.Ambient.Radiance().Extend(1),
	}

	// the shader supports a single directional light
	if len(s.Directional) > 0 {
		light := s.Directional[0]
		u.LightDirection = light.Direction().Extend(0)
		u.LightColor = light.Radiance().Extend(1)
	}

	for idx, item := range items {
		u.Model = item.World
		putUniform(r.staging, idx, &u)
	}

	err := r.view.WriteBuffer(r.uniforms, 0, r.staging[:len(items)*uniformAlignment])
	if err != nil {
		return fmt.Errorf("update uniform buffer: %w", err)
	}

	return nil
}

func (r *Renderer) releaseUniforms() {
	for _, bindGroup := range r.bindGroups {
		bindGroup.Release()
	}

	r.bindGroups = nil

	if r.uniforms != nil {
		r.uniforms.Release()
		r.uniforms = nil
	}
}

func (r *Renderer) Release() {
	r.releaseUniforms()
	r.meshes.Purge()
	r.textures.Purge()
	r.pipelines.Purge()
	r.view.ReleaseTexture()
}

var premultipliedAlphaBlending = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type meshRenderPipeline struct {
	TargetFormat      wgpu.TextureFormat
	TargetSampleCount uint32
	ShaderSource      string
}

func (conf meshRenderPipeline) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for meshes",
		slog.Any("format", conf.TargetFormat),
		slog.Any("sampleCount", conf.TargetSampleCount),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Mesh.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: conf.ShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile mesh shader: %w", err)
	}

	defer shader.Release()

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Mesh.%s", conf.TargetFormat),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(scene.Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							// position
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         uint64(unsafe.Offsetof(scene.Vertex{}.Position)),
							ShaderLocation: 0,
						},
						{
							// normal
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         uint64(unsafe.Offsetof(scene.Vertex{}.Normal)),
							ShaderLocation: 1,
						},
						{
							// color
							Format:         wgpu.VertexFormatFloat32x4,
							Offset:         uint64(unsafe.Offsetof(scene.Vertex{}.Color)),
							ShaderLocation: 2,
						},
						{
							// texture coordinates
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(scene.Vertex{}.UV)),
							ShaderLocation: 3,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &premultipliedAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count:                  conf.TargetSampleCount,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build mesh pipeline: %w", err)
	}

	return pipeline, nil
}
