package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
	"github.com/chewxy/math32"
)

// Pitch limits keep the camera from flipping over the up axis.
const (
	MinPitch float32 = -math32.Pi / 2
	MaxPitch float32 = math32.Pi / 2
)

type groundedControllerImpl struct {
	mu *sync.Mutex

	position common.Vec3
	up       common.Vec3

	pitch float32
	yaw   float32
	roll  float32
}

var _ GroundedController = &groundedControllerImpl{}

// NewGroundedController creates a controller at the origin with +Y up and no rotation.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - GroundedController: the newly created controller
func NewGroundedController(options ...GroundedControllerOption) GroundedController {
	g := &groundedControllerImpl{
		mu: &sync.Mutex{},
		up: common.Vec3{0, 1, 0},
	}
	for _, option := range options {
		option(g)
	}
	g.pitch = common.Clamp(g.pitch, MinPitch, MaxPitch)
	return g
}

func (g *groundedControllerImpl) Transform() Transform {
	g.mu.Lock()
	defer g.mu.Unlock()
	rotation := common.QuatFromAxisAngle(g.up, g.yaw).
		Mul(common.QuatFromAxisAngle(common.Vec3{0, 0, 1}, g.roll)).
		Mul(common.QuatFromAxisAngle(common.Vec3{1, 0, 0}, g.pitch))
	return Transform{Position: g.position, Rotation: rotation, Scale: 1}
}

func (g *groundedControllerImpl) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *groundedControllerImpl) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = common.Vec3{x, y, z}
}

func (g *groundedControllerImpl) Translate(dx, dy, dz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position[0] += dx
	g.position[1] += dy
	g.position[2] += dz
}

func (g *groundedControllerImpl) Up() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.up[0], g.up[1], g.up[2]
}

func (g *groundedControllerImpl) Yaw() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.yaw
}

func (g *groundedControllerImpl) SetYaw(yaw float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw = yaw
}

func (g *groundedControllerImpl) AddYaw(delta float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.yaw = math32.Mod(g.yaw+delta, 2*math32.Pi)
}

func (g *groundedControllerImpl) Pitch() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pitch
}

func (g *groundedControllerImpl) SetPitch(pitch float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pitch = common.Clamp(pitch, MinPitch, MaxPitch)
}

func (g *groundedControllerImpl) Roll() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.roll
}

func (g *groundedControllerImpl) SetRoll(roll float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.roll = roll
}
