// Package viewer implements the mesh viewing core: the render scene
// session, camera/orientation controls, and the asset-loading facade.
package viewer

import "sync"

// Camera and orientation limits.
const (
	MinZoom         = 1.5
	MaxZoom         = 10.0
	ZoomStep        = 0.4
	DefaultDistance = 4.0

	minPitch = -1.5
	maxPitch = 1.5

	// Yaw advance per rendered frame while auto-rotating.
	autoYawStep = 0.01
)

// ViewState is a consistent snapshot of the camera and orientation state,
// taken once per frame by the render loop.
type ViewState struct {
	Distance       float32
	Pitch          float32
	Yaw            float32
	AutoRotate     bool
	ManualOverride bool
}

// Controls arbitrates between driver-animated and user-driven rotation.
// Setters are safe to call from the input thread; the render loop reads a
// snapshot via Advance. The (manualOverride, autoRotate) pair is always
// updated under one lock so the render loop never sees a torn state.
type Controls struct {
	mu             sync.Mutex
	distance       float32
	pitch          float32
	yaw            float32
	autoRotate     bool
	manualOverride bool
}

// NewControls creates controls at the default distance.
func NewControls(autoRotate bool) *Controls {
	return &Controls{
		distance:   DefaultDistance,
		autoRotate: autoRotate,
	}
}

// Advance applies one frame of autonomous rotation, if active, and returns
// the resulting view state. Called once per frame from the render loop.
func (c *Controls) Advance() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.autoRotate && !c.manualOverride {
		c.yaw += autoYawStep
	}
	return ViewState{
		Distance:       c.distance,
		Pitch:          c.pitch,
		Yaw:            c.yaw,
		AutoRotate:     c.autoRotate,
		ManualOverride: c.manualOverride,
	}
}

// View returns the current view state without advancing rotation.
func (c *Controls) View() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewState{
		Distance:       c.distance,
		Pitch:          c.pitch,
		Yaw:            c.yaw,
		AutoRotate:     c.autoRotate,
		ManualOverride: c.manualOverride,
	}
}

// ZoomIn moves the camera one step closer, clamped at MinZoom.
func (c *Controls) ZoomIn() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance = clamp(c.distance-ZoomStep, MinZoom, MaxZoom)
}

// ZoomOut moves the camera one step away, clamped at MaxZoom.
func (c *Controls) ZoomOut() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance = clamp(c.distance+ZoomStep, MinZoom, MaxZoom)
}

// ZoomWheel zooms by one fixed step; only the sign of deltaY is used.
// Scrolling up (positive) zooms in.
func (c *Controls) ZoomWheel(deltaY float32) {
	if deltaY > 0 {
		c.ZoomIn()
	} else if deltaY < 0 {
		c.ZoomOut()
	}
}

// SetPitch sets the vertical orientation angle in radians. Manual input
// takes over: autonomous rotation stops in the same update.
func (c *Controls) SetPitch(angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pitch = clamp(angle, minPitch, maxPitch)
	c.manualOverride = true
	c.autoRotate = false
}

// SetYaw sets the horizontal orientation angle in radians. Manual input
// takes over: autonomous rotation stops in the same update.
func (c *Controls) SetYaw(angle float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.yaw = angle
	c.manualOverride = true
	c.autoRotate = false
}

// ToggleAutoRotate flips autonomous rotation and returns the new value.
// Turning rotation on cancels any manual hold.
func (c *Controls) ToggleAutoRotate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoRotate = !c.autoRotate
	if c.autoRotate {
		c.manualOverride = false
	}
	return c.autoRotate
}

// Reset restores the default distance and zero orientation and releases any
// manual hold. The auto-rotate flag is deliberately left as-is: resetting
// the view does not resume or stop autonomous rotation.
func (c *Controls) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.distance = DefaultDistance
	c.pitch = 0
	c.yaw = 0
	c.manualOverride = false
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
