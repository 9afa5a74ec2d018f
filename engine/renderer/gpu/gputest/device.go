// Package gputest provides an in-memory gpu.Device that hands out fake handles and
// records every creation, queue write and pass command for inspection in tests.
package gputest

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

// Handle is the fake object behind every opaque device handle.
type Handle struct {
	ID       int
	Kind     string
	Label    string
	Released bool
}

// Release marks the handle as released.
func (h *Handle) Release() { h.Released = true }

// String renders the handle for failure messages.
func (h *Handle) String() string { return fmt.Sprintf("%s#%d(%s)", h.Kind, h.ID, h.Label) }

// Buffer is a fake buffer whose contents follow queue writes.
type Buffer struct {
	Handle
	size  uint64
	usage wgpu.BufferUsage
	Data  []byte
}

func (b *Buffer) Size() uint64            { return b.size }
func (b *Buffer) Usage() wgpu.BufferUsage { return b.usage }

// Texture is a fake texture. Every CreateView returns a fresh view.
type Texture struct {
	Handle
	Desc  wgpu.TextureDescriptor
	Views []*TextureView
	dev   *Device
}

func (t *Texture) Size() wgpu.Extent3D { return t.Desc.Size }

func (t *Texture) CreateView() (gpu.TextureView, error) {
	v := &TextureView{Handle: t.dev.handle("view", t.Label), Texture: t}
	t.Views = append(t.Views, v)
	return v, nil
}

// TextureView is a fake view remembering its texture.
type TextureView struct {
	Handle
	Texture *Texture
}

// BindGroupLayout is a fake layout holding the descriptor it was created from.
type BindGroupLayout struct {
	Handle
	Desc wgpu.BindGroupLayoutDescriptor
}

// BindGroup is a fake bind group holding the descriptor it was created from.
type BindGroup struct {
	Handle
	Desc gpu.BindGroupDescriptor
}

// PipelineLayout is a fake pipeline layout.
type PipelineLayout struct {
	Handle
	Desc gpu.PipelineLayoutDescriptor
}

// RenderPipeline is a fake render pipeline.
type RenderPipeline struct {
	Handle
	Desc gpu.RenderPipelineDescriptor
}

// ComputePipeline is a fake compute pipeline.
type ComputePipeline struct {
	Handle
	Desc gpu.ComputePipelineDescriptor
}

// ShaderModule is a fake shader module.
type ShaderModule struct {
	Handle
	WGSL string
}

// Sampler is a fake sampler.
type Sampler struct {
	Handle
	Desc wgpu.SamplerDescriptor
}

// BufferWrite is one recorded Queue.WriteBuffer call.
type BufferWrite struct {
	Buffer gpu.Buffer
	Offset uint64
	Data   []byte
}

// TextureWrite is one recorded Queue.WriteTexture call.
type TextureWrite struct {
	Dst    gpu.TextureCopy
	Data   []byte
	Layout wgpu.TextureDataLayout
	Size   wgpu.Extent3D
}

// Device is a recording gpu.Device. All fields are safe to read after the code
// under test returns; the accessor methods lock.
type Device struct {
	mu     sync.Mutex
	nextID int
	fail   error

	Buffers          []*Buffer
	Textures         []*Texture
	Samplers         []*Sampler
	BindGroupLayouts []*BindGroupLayout
	BindGroups       []*BindGroup
	PipelineLayouts  []*PipelineLayout
	RenderPipelines  []*RenderPipeline
	ComputePipelines []*ComputePipeline
	ShaderModules    []*ShaderModule
	RenderPasses     []gpu.RenderPassDescriptor

	BufferWrites  []BufferWrite
	TextureWrites []TextureWrite
	Submitted     int

	commands []Command
	queue    *queue
}

var _ gpu.Device = &Device{}

// New creates an empty recording device.
func New() *Device {
	d := &Device{}
	d.queue = &queue{dev: d}
	return d
}

// NewContext creates a recording device and a render context wrapping it.
//
// Returns:
//   - *gpu.RenderContext: context for the code under test
//   - *Device: the recorder to inspect
func NewContext() (*gpu.RenderContext, *Device) {
	d := New()
	return gpu.NewContextFromDevice(d), d
}

// FailNext makes the next Create* call return err.
func (d *Device) FailNext(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail = err
}

func (d *Device) handle(kind, label string) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	return Handle{ID: d.nextID, Kind: kind, Label: label}
}

func (d *Device) takeFailure() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	err := d.fail
	d.fail = nil
	return err
}

func (d *Device) record(c Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = append(d.commands, c)
}

func (d *Device) Queue() gpu.Queue { return d.queue }

func (d *Device) CreateBuffer(desc *wgpu.BufferDescriptor) (gpu.Buffer, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	b := &Buffer{Handle: d.handle("buffer", desc.Label), size: desc.Size, usage: desc.Usage, Data: make([]byte, desc.Size)}
	d.mu.Lock()
	d.Buffers = append(d.Buffers, b)
	d.mu.Unlock()
	return b, nil
}

func (d *Device) CreateBufferInit(desc *wgpu.BufferInitDescriptor) (gpu.Buffer, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	data := append([]byte(nil), desc.Contents...)
	b := &Buffer{Handle: d.handle("buffer", desc.Label), size: uint64(len(data)), usage: desc.Usage, Data: data}
	d.mu.Lock()
	d.Buffers = append(d.Buffers, b)
	d.mu.Unlock()
	return b, nil
}

func (d *Device) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (gpu.BindGroupLayout, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	l := &BindGroupLayout{Handle: d.handle("bind-group-layout", desc.Label), Desc: *desc}
	d.mu.Lock()
	d.BindGroupLayouts = append(d.BindGroupLayouts, l)
	d.mu.Unlock()
	return l, nil
}

func (d *Device) CreateBindGroup(desc *gpu.BindGroupDescriptor) (gpu.BindGroup, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	g := &BindGroup{Handle: d.handle("bind-group", desc.Label), Desc: *desc}
	g.Desc.Entries = append([]gpu.BindGroupEntry(nil), desc.Entries...)
	d.mu.Lock()
	d.BindGroups = append(d.BindGroups, g)
	d.mu.Unlock()
	return g, nil
}

func (d *Device) CreatePipelineLayout(desc *gpu.PipelineLayoutDescriptor) (gpu.PipelineLayout, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	l := &PipelineLayout{Handle: d.handle("pipeline-layout", desc.Label), Desc: *desc}
	d.mu.Lock()
	d.PipelineLayouts = append(d.PipelineLayouts, l)
	d.mu.Unlock()
	return l, nil
}

func (d *Device) CreateRenderPipeline(desc *gpu.RenderPipelineDescriptor) (gpu.RenderPipeline, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	p := &RenderPipeline{Handle: d.handle("render-pipeline", desc.Label), Desc: *desc}
	d.mu.Lock()
	d.RenderPipelines = append(d.RenderPipelines, p)
	d.mu.Unlock()
	return p, nil
}

func (d *Device) CreateComputePipeline(desc *gpu.ComputePipelineDescriptor) (gpu.ComputePipeline, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	p := &ComputePipeline{Handle: d.handle("compute-pipeline", desc.Label), Desc: *desc}
	d.mu.Lock()
	d.ComputePipelines = append(d.ComputePipelines, p)
	d.mu.Unlock()
	return p, nil
}

func (d *Device) CreateTexture(desc *wgpu.TextureDescriptor) (gpu.Texture, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	t := &Texture{Handle: d.handle("texture", desc.Label), Desc: *desc, dev: d}
	d.mu.Lock()
	d.Textures = append(d.Textures, t)
	d.mu.Unlock()
	return t, nil
}

func (d *Device) CreateSampler(desc *wgpu.SamplerDescriptor) (gpu.Sampler, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	s := &Sampler{Handle: d.handle("sampler", desc.Label), Desc: *desc}
	d.mu.Lock()
	d.Samplers = append(d.Samplers, s)
	d.mu.Unlock()
	return s, nil
}

func (d *Device) CreateShaderModule(desc *gpu.ShaderModuleDescriptor) (gpu.ShaderModule, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	m := &ShaderModule{Handle: d.handle("shader-module", desc.Label), WGSL: desc.WGSL}
	d.mu.Lock()
	d.ShaderModules = append(d.ShaderModules, m)
	d.mu.Unlock()
	return m, nil
}

func (d *Device) CreateCommandEncoder(label string) (gpu.CommandEncoder, error) {
	if err := d.takeFailure(); err != nil {
		return nil, err
	}
	return &commandEncoder{Handle: d.handle("command-encoder", label), dev: d}, nil
}

// Commands returns a copy of every recorded command in order.
func (d *Device) Commands() []Command {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Command(nil), d.commands...)
}

// CommandsOf returns the recorded commands with the given op, in order.
func (d *Device) CommandsOf(op Op) []Command {
	var out []Command
	for _, c := range d.Commands() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Ops returns the op sequence of all recorded commands.
func (d *Device) Ops() []Op {
	cmds := d.Commands()
	ops := make([]Op, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	return ops
}

// Reset forgets recorded commands and writes but keeps created objects.
func (d *Device) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.commands = nil
	d.BufferWrites = nil
	d.TextureWrites = nil
	d.RenderPasses = nil
	d.Submitted = 0
}

type queue struct {
	dev *Device
}

func (q *queue) WriteBuffer(buf gpu.Buffer, offset uint64, data []byte) error {
	q.dev.mu.Lock()
	defer q.dev.mu.Unlock()
	if offset+uint64(len(data)) > buf.Size() {
		return fmt.Errorf("gputest: write of %d bytes at %d overflows buffer of %d bytes", len(data), offset, buf.Size())
	}
	if b, ok := buf.(*Buffer); ok {
		copy(b.Data[offset:], data)
	}
	q.dev.BufferWrites = append(q.dev.BufferWrites, BufferWrite{Buffer: buf, Offset: offset, Data: append([]byte(nil), data...)})
	return nil
}

func (q *queue) WriteTexture(dst *gpu.TextureCopy, data []byte, layout *wgpu.TextureDataLayout, size *wgpu.Extent3D) error {
	q.dev.mu.Lock()
	defer q.dev.mu.Unlock()
	q.dev.TextureWrites = append(q.dev.TextureWrites, TextureWrite{
		Dst:    *dst,
		Data:   append([]byte(nil), data...),
		Layout: *layout,
		Size:   *size,
	})
	return nil
}

func (q *queue) Submit(buffers ...gpu.CommandBuffer) {
	q.dev.mu.Lock()
	q.dev.Submitted += len(buffers)
	q.dev.mu.Unlock()
	q.dev.record(Command{Op: OpSubmit, Count: uint32(len(buffers))})
}
