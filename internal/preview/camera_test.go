package preview

import (
	"testing"

	"github.com/Faultbox/physical-layout/pkg/geometry"
)

func TestOrbitCameraPosition(t *testing.T) {
	cam := NewOrbitCamera(8)
	pos := cam.Position()
	if d := pos.Distance(cam.Center); !near(d, 8, 1e-4) {
		t.Errorf("distance from center = %f, want 8", d)
	}
	if pos.Z <= 0 {
		t.Errorf("camera below ground: z = %f", pos.Z)
	}
}

func TestOrbitCameraClamps(t *testing.T) {
	cam := NewOrbitCamera(8)

	cam.HandleDrag(0, 1e6)
	if cam.Pitch != cam.MaxPitch {
		t.Errorf("pitch = %f, want max %f", cam.Pitch, cam.MaxPitch)
	}
	cam.HandleDrag(0, -1e6)
	if cam.Pitch != cam.MinPitch {
		t.Errorf("pitch = %f, want min %f", cam.Pitch, cam.MinPitch)
	}

	for i := 0; i < 200; i++ {
		cam.HandleZoom(1)
	}
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %f, want min %f", cam.Distance, cam.MinDistance)
	}
}

func TestGroundGrid(t *testing.T) {
	mesh := GroundGrid(5, 4)
	if mesh.Topology != geometry.Lines {
		t.Fatalf("topology = %v, want lines", mesh.Topology)
	}
	// 5 lines per axis, 2 vertices each
	if got := mesh.VertexCount(); got != 20 {
		t.Errorf("vertices = %d, want 20", got)
	}
	if got := mesh.RowCount(); got != 10 {
		t.Errorf("rows = %d, want 10", got)
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
	b := mesh.Bounds()
	if b.Min != [3]float32{-5, -5, 0} || b.Max != [3]float32{5, 5, 0} {
		t.Errorf("bounds = %+v", b)
	}
}
