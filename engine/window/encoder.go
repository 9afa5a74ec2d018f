package window

import (
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/session"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// WindowCommandEncoder records one frame into the acquired surface image. It embeds the
// session encoder, so passes into offscreen targets are recorded the same way.
type WindowCommandEncoder struct {
	*session.CommandEncoder

	surface Surface
	frame   *Frame
	depth   *texture.Texture

	clear      wgpu.Color
	depthLoad  wgpu.LoadOp
	depthStore wgpu.StoreOp
	depthClear float32

	submitted bool
	presented bool
}

// RenderPass begins a render pass into the surface image.
//
// Parameters:
//   - load: the color load operation, or nil to clear to the encoder's clear color
//   - depth: whether to attach the window depth texture
//
// Returns:
//   - *session.RenderPass: the pass in the empty state
func (e *WindowCommandEncoder) RenderPass(load *session.LoadOp, depth bool) *session.RenderPass {
	return e.RenderPassWith(e.frame.View, load, depth)
}

// RenderPassWith begins a render pass into view, still sharing the window depth texture.
// Used to draw the scene into an offscreen target that is later resolved to the surface.
//
// Parameters:
//   - view: the color target
//   - load: the color load operation, or nil to clear to the encoder's clear color
//   - depth: whether to attach the window depth texture
//
// Returns:
//   - *session.RenderPass: the pass in the empty state
func (e *WindowCommandEncoder) RenderPassWith(view gpu.TextureView, load *session.LoadOp, depth bool) *session.RenderPass {
	if load == nil {
		load = session.ClearTo(e.clear)
	}
	var att *gpu.DepthAttachment
	if depth {
		att = &gpu.DepthAttachment{
			View:            e.depth.View(),
			DepthLoadOp:     e.depthLoad,
			DepthStoreOp:    e.depthStore,
			DepthClearValue: e.depthClear,
		}
	}
	return e.CommandEncoder.RenderPass(view, load, att)
}

// SetClear sets the color that passes begun with a nil load clear to.
func (e *WindowCommandEncoder) SetClear(color wgpu.Color) {
	e.clear = color
}

// SetDepthOps sets the depth attachment operations of passes begun afterwards.
//
// Parameters:
//   - load: the depth load operation
//   - store: the depth store operation
//   - clear: the depth value used when load is wgpu.LoadOpClear
func (e *WindowCommandEncoder) SetDepthOps(load wgpu.LoadOp, store wgpu.StoreOp, clear float32) {
	e.depthLoad = load
	e.depthStore = store
	e.depthClear = clear
}

// Frame returns the acquired surface image.
func (e *WindowCommandEncoder) Frame() *Frame {
	return e.frame
}

// CopyFromOutput ends any open pass and copies the surface image into dst. dst must
// match the surface size and format.
func (e *WindowCommandEncoder) CopyFromOutput(dst *texture.RawTexture) {
	e.CopyTextureToTexture(
		&gpu.TextureCopy{Texture: e.frame.Texture, Aspect: wgpu.TextureAspectAll},
		&gpu.TextureCopy{Texture: dst.Texture(), Aspect: wgpu.TextureAspectAll},
		e.frame.Texture.Size(),
	)
}

// Submit ends any open pass and submits the frame's commands.
func (e *WindowCommandEncoder) Submit() error {
	if err := e.CommandEncoder.Submit(); err != nil {
		return err
	}
	e.submitted = true
	return nil
}

// Presented reports whether Present was called.
func (e *WindowCommandEncoder) Presented() bool {
	return e.presented
}

// Present submits the commands if Submit was not called, then shows the surface image
// and releases it. Calling Present twice panics.
func (e *WindowCommandEncoder) Present() error {
	if e.presented {
		panic("window: frame presented twice")
	}
	if !e.submitted {
		if err := e.Submit(); err != nil {
			e.frame.Release()
			e.presented = true
			return err
		}
	}
	e.surface.Present()
	e.frame.Release()
	e.presented = true
	return nil
}
