package preview

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/physical-layout/pkg/math"
)

// OrbitCamera orbits a center point on the ground. The world is Z-up.
type OrbitCamera struct {
	Center math.Vec3

	Distance float32
	// Pitch is the elevation above the ground plane, Yaw the heading around Z.
	Pitch float32
	Yaw   float32

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32
	Near float32
	Far  float32
}

// NewOrbitCamera returns a camera looking at the origin from distance.
func NewOrbitCamera(distance float32) *OrbitCamera {
	return &OrbitCamera{
		Distance:        distance,
		Pitch:           0.7,
		Yaw:             -math32.Pi / 2,
		MinDistance:     0.5,
		MaxDistance:     500,
		MinPitch:        0.05,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            math32.Pi / 4,
		Near:            0.01,
		Far:             1000,
	}
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	horiz := c.Distance * math32.Cos(c.Pitch)
	return c.Center.Add(math.Vec3{
		X: horiz * math32.Cos(c.Yaw),
		Y: horiz * math32.Sin(c.Yaw),
		Z: c.Distance * math32.Sin(c.Pitch),
	})
}

// ViewMatrix returns the view matrix.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitZ)
}

// ProjectionMatrix returns the perspective projection for a viewport.
func (c *OrbitCamera) ProjectionMatrix(width, height int) math.Mat4 {
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	return math.Perspective(c.FovY, aspect, c.Near, c.Far)
}

// HandleDrag turns the camera by a mouse drag delta in pixels.
func (c *OrbitCamera) HandleDrag(dx, dy float32) {
	c.Yaw -= dx * c.DragSensitivity
	c.Pitch = clamp(c.Pitch+dy*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom moves the camera in for positive wheel deltas.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}
