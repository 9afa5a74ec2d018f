package gputest

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Op names a recorded command.
type Op string

const (
	OpBeginRenderPass    Op = "BeginRenderPass"
	OpBeginComputePass   Op = "BeginComputePass"
	OpSetPipeline        Op = "SetPipeline"
	OpSetBindGroup       Op = "SetBindGroup"
	OpSetVertexBuffer    Op = "SetVertexBuffer"
	OpSetIndexBuffer     Op = "SetIndexBuffer"
	OpDraw               Op = "Draw"
	OpDrawIndexed        Op = "DrawIndexed"
	OpDispatchWorkgroups Op = "DispatchWorkgroups"
	OpEnd                Op = "End"
	OpCopyTexture        Op = "CopyTextureToTexture"
	OpFinish             Op = "Finish"
	OpSubmit             Op = "Submit"
)

// Command is one recorded encoder or pass call. Only the fields relevant to Op are set.
//
// Index is the bind group index for SetBindGroup and the slot for SetVertexBuffer.
// For Draw and DrawIndexed, Count is the vertex or index count, Instances the
// instance count, First the first vertex or index.
type Command struct {
	Op   Op
	Pass int

	Pipeline    gpu.Releasable
	Index       uint32
	BindGroup   gpu.BindGroup
	Offsets     []uint32
	Buffer      gpu.Buffer
	IndexFormat wgpu.IndexFormat

	Count         uint32
	Instances     uint32
	First         uint32
	BaseVertex    int32
	FirstInstance uint32

	X, Y, Z uint32
}

// String renders the command compactly for failure output.
func (c Command) String() string {
	switch c.Op {
	case OpDraw:
		return fmt.Sprintf("Draw(%d, %d, %d, %d)", c.Count, c.Instances, c.First, c.FirstInstance)
	case OpDrawIndexed:
		return fmt.Sprintf("DrawIndexed(%d, %d, %d, %d, %d)", c.Count, c.Instances, c.First, c.BaseVertex, c.FirstInstance)
	case OpSetBindGroup:
		return fmt.Sprintf("SetBindGroup(%d, %v)", c.Index, c.BindGroup)
	case OpSetVertexBuffer:
		return fmt.Sprintf("SetVertexBuffer(%d, %v)", c.Index, c.Buffer)
	case OpDispatchWorkgroups:
		return fmt.Sprintf("DispatchWorkgroups(%d, %d, %d)", c.X, c.Y, c.Z)
	default:
		return string(c.Op)
	}
}

type commandEncoder struct {
	Handle
	dev    *Device
	passes int
}

func (e *commandEncoder) BeginRenderPass(desc *gpu.RenderPassDescriptor) gpu.RenderPassEncoder {
	e.passes++
	e.dev.mu.Lock()
	e.dev.RenderPasses = append(e.dev.RenderPasses, *desc)
	e.dev.mu.Unlock()
	e.dev.record(Command{Op: OpBeginRenderPass, Pass: e.passes})
	return &renderPass{dev: e.dev, pass: e.passes}
}

func (e *commandEncoder) BeginComputePass(string) gpu.ComputePassEncoder {
	e.passes++
	e.dev.record(Command{Op: OpBeginComputePass, Pass: e.passes})
	return &computePass{dev: e.dev, pass: e.passes}
}

func (e *commandEncoder) CopyTextureToTexture(src, dst *gpu.TextureCopy, size wgpu.Extent3D) {
	e.dev.record(Command{Op: OpCopyTexture, X: size.Width, Y: size.Height, Z: size.DepthOrArrayLayers})
}

func (e *commandEncoder) Finish() (gpu.CommandBuffer, error) {
	e.dev.record(Command{Op: OpFinish})
	h := e.dev.handle("command-buffer", e.Label)
	return &h, nil
}

type renderPass struct {
	dev   *Device
	pass  int
	ended bool
}

func (p *renderPass) rec(c Command) {
	if p.ended {
		panic(fmt.Sprintf("gputest: %s recorded on ended render pass %d", c.Op, p.pass))
	}
	c.Pass = p.pass
	p.dev.record(c)
}

func (p *renderPass) SetPipeline(pipeline gpu.RenderPipeline) {
	p.rec(Command{Op: OpSetPipeline, Pipeline: pipeline})
}

func (p *renderPass) SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	p.rec(Command{Op: OpSetBindGroup, Index: index, BindGroup: group, Offsets: dynamicOffsets})
}

func (p *renderPass) SetVertexBuffer(slot uint32, buf gpu.Buffer, offset, size uint64) {
	p.rec(Command{Op: OpSetVertexBuffer, Index: slot, Buffer: buf})
}

func (p *renderPass) SetIndexBuffer(buf gpu.Buffer, format wgpu.IndexFormat, offset, size uint64) {
	p.rec(Command{Op: OpSetIndexBuffer, Buffer: buf, IndexFormat: format})
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec(Command{Op: OpDraw, Count: vertexCount, Instances: instanceCount, First: firstVertex, FirstInstance: firstInstance})
}

func (p *renderPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.rec(Command{Op: OpDrawIndexed, Count: indexCount, Instances: instanceCount, First: firstIndex, BaseVertex: baseVertex, FirstInstance: firstInstance})
}

func (p *renderPass) End() {
	p.rec(Command{Op: OpEnd})
	p.ended = true
}

type computePass struct {
	dev   *Device
	pass  int
	ended bool
}

func (p *computePass) rec(c Command) {
	if p.ended {
		panic(fmt.Sprintf("gputest: %s recorded on ended compute pass %d", c.Op, p.pass))
	}
	c.Pass = p.pass
	p.dev.record(c)
}

func (p *computePass) SetPipeline(pipeline gpu.ComputePipeline) {
	p.rec(Command{Op: OpSetPipeline, Pipeline: pipeline})
}

func (p *computePass) SetBindGroup(index uint32, group gpu.BindGroup, dynamicOffsets []uint32) {
	p.rec(Command{Op: OpSetBindGroup, Index: index, BindGroup: group, Offsets: dynamicOffsets})
}

func (p *computePass) DispatchWorkgroups(x, y, z uint32) {
	p.rec(Command{Op: OpDispatchWorkgroups, X: x, Y: y, Z: z})
}

func (p *computePass) End() {
	p.rec(Command{Op: OpEnd})
	p.ended = true
}
