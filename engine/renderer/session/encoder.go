// Package session records one frame of GPU commands through pass values whose Go type
// is the pass state. Each transition consumes the receiver and returns the next state,
// so a draw can only be written after a layout, a shader and its settings are bound.
// Properties the type system cannot carry (which layout, which schema) are checked at
// the call site and panic on mismatch.
package session

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/texture"
	"github.com/cogentcore/webgpu/wgpu"
)

// LoadOp selects how a color attachment starts: cleared to a color or keeping its contents.
type LoadOp struct {
	Load  bool
	Clear wgpu.Color
}

// ClearTo clears the attachment to c.
func ClearTo(c wgpu.Color) *LoadOp {
	return &LoadOp{Clear: c}
}

// LoadExisting keeps the attachment contents.
func LoadExisting() *LoadOp {
	return &LoadOp{Load: true}
}

// CommandEncoder records passes and copies for one submission. Only one pass is open at a
// time; beginning a pass ends the open one. It is not safe for concurrent use.
type CommandEncoder struct {
	label    string
	queue    gpu.Queue
	enc      gpu.CommandEncoder
	open     *recording
	finished bool
}

// NewCommandEncoder starts a command recording on device.
//
// Parameters:
//   - device: the device to record for
//   - options: functional options (label)
//
// Returns:
//   - *CommandEncoder: the encoder
//   - error: device error, if any
func NewCommandEncoder(device gpu.Device, options ...EncoderBuilderOption) (*CommandEncoder, error) {
	cfg := newEncoderConfig(options)
	enc, err := device.CreateCommandEncoder(cfg.label)
	if err != nil {
		return nil, fmt.Errorf("failed to create command encoder %q: %w", cfg.label, err)
	}
	return &CommandEncoder{label: cfg.label, queue: device.Queue(), enc: enc}, nil
}

func (e *CommandEncoder) usable() {
	if e.finished {
		panic("session: command encoder used after Submit")
	}
}

func (e *CommandEncoder) closeOpen() {
	if e.open != nil {
		e.open.end()
		e.open = nil
	}
}

// RenderPass begins a render pass with a single color attachment. A nil load clears to
// transparent black; the attachment is always stored.
//
// Parameters:
//   - view: the color target
//   - load: the load operation, or nil
//   - depth: the depth attachment, or nil
//
// Returns:
//   - *RenderPass: the pass in the empty state
func (e *CommandEncoder) RenderPass(view gpu.TextureView, load *LoadOp, depth *gpu.DepthAttachment) *RenderPass {
	att := gpu.ColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
	}
	if load != nil {
		if load.Load {
			att.LoadOp = wgpu.LoadOpLoad
		} else {
			att.ClearValue = load.Clear
		}
	}
	return e.BeginRenderPass(&gpu.RenderPassDescriptor{
		Label:            e.label + "-render-pass",
		ColorAttachments: []gpu.ColorAttachment{att},
		DepthAttachment:  depth,
	})
}

// BeginRenderPass begins a render pass from a full descriptor, for multiple color targets
// or resolve targets.
func (e *CommandEncoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) *RenderPass {
	e.usable()
	e.closeOpen()
	rec := &recording{render: e.enc.BeginRenderPass(desc)}
	e.open = rec
	return &RenderPass{pass{token: token{rec: rec, kind: "render"}}}
}

// ComputePass begins a compute pass.
//
// Returns:
//   - *ComputePass: the pass in the empty state
func (e *CommandEncoder) ComputePass() *ComputePass {
	e.usable()
	e.closeOpen()
	rec := &recording{compute: e.enc.BeginComputePass(e.label + "-compute-pass")}
	e.open = rec
	return &ComputePass{computeBase{token: token{rec: rec, kind: "compute"}}}
}

// CopyTexture ends any open pass and records a full-extent copy from src to dst.
func (e *CommandEncoder) CopyTexture(src, dst *texture.RawTexture) {
	e.usable()
	e.closeOpen()
	src.CopyTo(e.enc, dst)
}

// CopyTextureToTexture ends any open pass and records a copy between textures not owned by
// a RawTexture, such as a surface texture.
func (e *CommandEncoder) CopyTextureToTexture(src, dst *gpu.TextureCopy, size wgpu.Extent3D) {
	e.usable()
	e.closeOpen()
	e.enc.CopyTextureToTexture(src, dst, size)
}

// Inner returns the raw encoder. Recording on it while a pass is open is undefined.
func (e *CommandEncoder) Inner() gpu.CommandEncoder {
	return e.enc
}

// Finish ends any open pass and finishes the recording without submitting it.
// The encoder cannot be used afterwards.
//
// Returns:
//   - gpu.CommandBuffer: the finished commands
//   - error: device error, if any
func (e *CommandEncoder) Finish() (gpu.CommandBuffer, error) {
	e.usable()
	e.closeOpen()
	e.finished = true
	cmd, err := e.enc.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to finish command encoder %q: %w", e.label, err)
	}
	return cmd, nil
}

// Submit ends any open pass, finishes the recording and submits it to the queue.
// The encoder cannot be used afterwards.
func (e *CommandEncoder) Submit() error {
	cmd, err := e.Finish()
	if err != nil {
		return err
	}
	e.queue.Submit(cmd)
	e.enc.Release()
	common.Logger().Debug("commands submitted", "label", e.label)
	return nil
}

// recording is one device pass shared by every state value derived from it.
type recording struct {
	render  gpu.RenderPassEncoder
	compute gpu.ComputePassEncoder
	ended   bool
}

func (r *recording) end() {
	if r.ended {
		return
	}
	r.ended = true
	if r.render != nil {
		r.render.End()
		return
	}
	r.compute.End()
}

// token is the consumable handle a state value holds on its recording.
type token struct {
	rec   *recording
	kind  string
	spent bool
}

// live returns the recording for a non-consuming call.
func (t *token) live() *recording {
	if t.spent {
		panic(fmt.Sprintf("session: %s pass used after transition", t.kind))
	}
	if t.rec.ended {
		panic(fmt.Sprintf("session: %s pass used after End", t.kind))
	}
	return t.rec
}

// take returns the recording and spends the token.
func (t *token) take() token {
	rec := t.live()
	t.spent = true
	return token{rec: rec, kind: t.kind}
}

type bindSetter interface {
	SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32)
}

// setBinds sets binds at consecutive group indices starting at first.
func setBinds(p bindSetter, first int, binds []*bind.Bind) {
	for i, b := range binds {
		p.SetBindGroup(uint32(first+i), b.BindGroup(), b.Offsets())
	}
}
