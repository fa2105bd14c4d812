package geometry

import "github.com/chewxy/math32"

// Marker tessellation limits.
const (
	MinMarkerRadius   = 0.001
	MinMarkerSegments = 3
)

// GenerateCircleWireframe tessellates a wheel-shaped circle marker in the
// local XY plane: a center vertex at index 0, then segments perimeter vertices
// at angle 2*pi*i/segments. Each segment contributes a spoke (center, i) and a
// rim edge (i, i+1) so rim and spokes draw in one indexed line-list call.
//
// radius and segments are clamped to their minimums; the call never fails.
func GenerateCircleWireframe(radius float32, segments int) *MeshGpuData {
	if radius < MinMarkerRadius {
		radius = MinMarkerRadius
	}
	if segments < MinMarkerSegments {
		segments = MinMarkerSegments
	}

	positions := make([][3]float32, 0, segments+1)
	positions = append(positions, [3]float32{0, 0, 0})
	for i := 0; i < segments; i++ {
		angle := float32(i) / float32(segments) * 2 * math32.Pi
		s, c := math32.Sincos(angle)
		positions = append(positions, [3]float32{radius * c, radius * s, 0})
	}

	indices := make([]uint32, 0, segments*4)
	const center = 0
	for i := 0; i < segments; i++ {
		outer := uint32(1 + i)
		next := uint32(1 + (i+1)%segments)
		indices = append(indices, center, outer, outer, next)
	}

	return &MeshGpuData{Positions: positions, Indices: indices, Topology: Lines}
}
