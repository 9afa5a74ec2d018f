package buffer_test

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/bind"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/gpu/gputest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type camera struct {
	ViewProj [16]float32
	Position [4]float32
}

var _ bind.BufferProvider = &buffer.Uniform[camera]{}
var _ bind.BufferProvider = &buffer.Storage[float32]{}
var _ bind.BufferProvider = &buffer.Dynamic[float32]{}

func elems(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i + 1)
	}
	return out
}

func TestUniformSizeUsageAndWrite(t *testing.T) {
	dev := gputest.New()
	u, err := buffer.NewUniform[camera](dev, buffer.WithLabel("camera"))
	require.NoError(t, err)

	raw := dev.Buffers[0]
	assert.Equal(t, uint64(80), raw.Size())
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, raw.Usage())
	assert.Equal(t, "camera", raw.Label)

	c := camera{Position: [4]float32{1, 2, 3, 1}}
	require.NoError(t, u.Write(c))
	require.Len(t, dev.BufferWrites, 1)
	assert.Equal(t, uint64(0), dev.BufferWrites[0].Offset)
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(raw.Data[68:72])))
}

func TestStorageWriteAtOffsetBounds(t *testing.T) {
	const capacity = 8

	for offset := uint64(0); offset <= capacity+1; offset++ {
		for n := 0; n <= capacity+1; n++ {
			t.Run(fmt.Sprintf("offset=%d/len=%d", offset, n), func(t *testing.T) {
				dev := gputest.New()
				s, err := buffer.NewStorage[float32](dev, capacity)
				require.NoError(t, err)

				write := func() { _ = s.WriteAtOffset(elems(n), offset) }
				if offset+uint64(n) > capacity {
					assert.Panics(t, write)
					return
				}
				assert.NotPanics(t, write)
				assert.Equal(t, uint64(capacity), s.Size())
				if n > 0 {
					require.Len(t, dev.BufferWrites, 1)
					assert.Equal(t, offset*4, dev.BufferWrites[0].Offset)
				}
			})
		}
	}
}

func TestStorageWriteAtOffsetRejectsWrappingOffset(t *testing.T) {
	dev := gputest.New()
	s, err := buffer.NewStorage[float32](dev, 8)
	require.NoError(t, err)

	for _, offset := range []uint64{math.MaxUint64, math.MaxUint64 - 3} {
		assert.PanicsWithValue(t,
			fmt.Sprintf("buffer: offset (%d) + data len (1) larger than buffer size (8)", offset),
			func() { _ = s.WriteAtOffset(elems(1), offset) })
	}
	assert.Empty(t, dev.BufferWrites)
}

func TestDynamicWriteAtOffsetBounds(t *testing.T) {
	const capacity = 6

	for start := 0; start <= capacity; start++ {
		for offset := uint64(0); offset <= capacity+1; offset++ {
			for n := 0; n <= capacity+1; n++ {
				t.Run(fmt.Sprintf("size=%d/offset=%d/len=%d", start, offset, n), func(t *testing.T) {
					dev := gputest.New()
					d, err := buffer.NewDynamicInit(dev, elems(start), capacity)
					require.NoError(t, err)
					require.Equal(t, uint64(start), d.Size())

					write := func() { _ = d.WriteAtOffset(elems(n), offset) }
					if offset > uint64(start) || offset+uint64(n) > capacity {
						assert.Panics(t, write)
						assert.Equal(t, uint64(start), d.Size())
						return
					}
					assert.NotPanics(t, write)
					assert.Equal(t, offset+uint64(n), d.Size())
					assert.Equal(t, uint64(capacity), d.MaxSize())
				})
			}
		}
	}
}

func TestSetAtOffsetBounds(t *testing.T) {
	dev := gputest.New()

	s, err := buffer.NewStorageInit(dev, elems(3))
	require.NoError(t, err)
	assert.NotPanics(t, func() { _ = s.SetAtOffset(9, 2) })
	assert.PanicsWithValue(t, "buffer: offset (3) larger than or equal to buffer size (3)", func() { _ = s.SetAtOffset(9, 3) })

	d, err := buffer.NewDynamic[float32](dev, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), d.Size())
	assert.Panics(t, func() { _ = d.SetAtOffset(1, 0) })

	require.NoError(t, d.Write(elems(2)))
	assert.Equal(t, uint64(2), d.Size())
	assert.NotPanics(t, func() { _ = d.SetAtOffset(7, 1) })
	assert.PanicsWithValue(t, "buffer: offset (2) larger than or equal to current size (2)", func() { _ = d.SetAtOffset(7, 2) })
}

func TestDynamicMessagesAndConstruction(t *testing.T) {
	dev := gputest.New()

	assert.PanicsWithValue(t, "buffer: data len (3) larger than max size (2)", func() {
		_, _ = buffer.NewDynamicInit(dev, elems(3), 2)
	})
	assert.Panics(t, func() { _, _ = buffer.NewDynamic[float32](dev, 0) })
	assert.Panics(t, func() { _, _ = buffer.NewStorage[float32](dev, 0) })
	assert.Panics(t, func() { _, _ = buffer.NewStorageInit[float32](dev, nil) })

	d, err := buffer.NewDynamicInit(dev, elems(2), 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), d.Buffer().Size())
	assert.PanicsWithValue(t, "buffer: offset (3) larger than current size (2)", func() { _ = d.WriteAtOffset(elems(1), 3) })
	assert.PanicsWithValue(t, "buffer: offset (2) + data len (3) larger than max size (4)", func() { _ = d.WriteAtOffset(elems(3), 2) })

	// A write inside the current range truncates the logical size.
	require.NoError(t, d.WriteAtOffset(elems(1), 0))
	assert.Equal(t, uint64(1), d.Size())
}
