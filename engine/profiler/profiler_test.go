package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	for range 10 {
		assert.False(t, p.Tick())
	}
	assert.Zero(t, p.Stats().FPS)
}

func TestTickReports(t *testing.T) {
	p := NewProfiler(WithInterval(time.Millisecond))
	time.Sleep(2 * time.Millisecond)
	assert.True(t, p.Tick())
	s := p.Stats()
	assert.Greater(t, s.FPS, 0.0)
	assert.Greater(t, s.SysMB, 0.0)
}
