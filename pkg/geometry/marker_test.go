package geometry

import (
	"math"
	"testing"
)

func TestGenerateCircleWireframe(t *testing.T) {
	for _, segments := range []int{3, 4, 8, 16, 33, 128} {
		mesh := GenerateCircleWireframe(1, segments)

		if mesh.Topology != Lines {
			t.Fatalf("segments=%d: expected lines, got %s", segments, mesh.Topology)
		}
		if mesh.VertexCount() != segments+1 {
			t.Errorf("segments=%d: expected %d vertices, got %d", segments, segments+1, mesh.VertexCount())
		}
		if mesh.RowCount() != 2*segments {
			t.Errorf("segments=%d: expected %d line pairs, got %d", segments, 2*segments, mesh.RowCount())
		}
		if err := mesh.Validate(); err != nil {
			t.Errorf("segments=%d: %v", segments, err)
		}
		if mesh.Positions[0] != [3]float32{0, 0, 0} {
			t.Errorf("segments=%d: center vertex should be origin, got %v", segments, mesh.Positions[0])
		}
	}
}

func TestGenerateCircleWireframeTopology(t *testing.T) {
	mesh := GenerateCircleWireframe(2, 4)

	want := []uint32{
		0, 1, 1, 2,
		0, 2, 2, 3,
		0, 3, 3, 4,
		0, 4, 4, 1,
	}
	for i := range want {
		if mesh.Indices[i] != want[i] {
			t.Fatalf("indices: got %v, want %v", mesh.Indices, want)
		}
	}

	// Perimeter vertex 1 sits at angle 2*pi/4
	p := mesh.Positions[2]
	if math.Abs(float64(p[0])) > 1e-5 || math.Abs(float64(p[1]-2)) > 1e-5 || p[2] != 0 {
		t.Errorf("vertex 2: got %v, want (0, 2, 0)", p)
	}
}

func TestGenerateCircleWireframeRadiusScaling(t *testing.T) {
	base := GenerateCircleWireframe(1, 12)
	doubled := GenerateCircleWireframe(2, 12)

	for i := 1; i < base.VertexCount(); i++ {
		for axis := 0; axis < 3; axis++ {
			want := base.Positions[i][axis] * 2
			if math.Abs(float64(doubled.Positions[i][axis]-want)) > 1e-5 {
				t.Errorf("vertex %d axis %d: got %f, want %f", i, axis, doubled.Positions[i][axis], want)
			}
		}
	}
}

func TestGenerateCircleWireframeClamps(t *testing.T) {
	mesh := GenerateCircleWireframe(-5, 1)

	if mesh.VertexCount() != MinMarkerSegments+1 {
		t.Errorf("expected %d vertices, got %d", MinMarkerSegments+1, mesh.VertexCount())
	}
	p := mesh.Positions[1]
	if math.Abs(float64(p[0]-MinMarkerRadius)) > 1e-7 {
		t.Errorf("radius should clamp to %v, got first perimeter vertex %v", MinMarkerRadius, p)
	}
}
