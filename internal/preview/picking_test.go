package preview

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/Faultbox/physical-layout/pkg/math"
)

func near(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func TestScreenCenterHitsOrbitCenter(t *testing.T) {
	cam := NewOrbitCamera(10)
	cam.Center = math.Vec3{X: 2, Y: -3, Z: 0}
	cam.Yaw = 0.4
	cam.Near, cam.Far = 0.1, 100

	const w, h = 800, 600
	viewProj := cam.ProjectionMatrix(w, h).Mul(cam.ViewMatrix())
	ray := ScreenToRay(w/2, h/2, w, h, viewProj.Inverse())

	p, ok := ray.IntersectGround(0)
	if !ok {
		t.Fatal("center ray missed the ground")
	}
	if !near(p.X, 2, 1e-2) || !near(p.Y, -3, 1e-2) || !near(p.Z, 0, 1e-5) {
		t.Errorf("hit = %+v, want (2, -3, 0)", p)
	}
	if !near(ray.Direction.Length(), 1, 1e-4) {
		t.Errorf("direction length = %f, want 1", ray.Direction.Length())
	}
}

func TestIntersectGround(t *testing.T) {
	tests := []struct {
		name string
		ray  Ray
		ok   bool
		want math.Vec3
	}{
		{"down", Ray{math.Vec3{X: 1, Y: 1, Z: 5}, math.Vec3{Z: -1}}, true, math.Vec3{X: 1, Y: 1, Z: 0}},
		{"parallel", Ray{math.Vec3{Z: 5}, math.Vec3{X: 1}}, false, math.Vec3{}},
		{"behind", Ray{math.Vec3{Z: 5}, math.Vec3{Z: 1}}, false, math.Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectGround(0)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("hit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGroundHit(t *testing.T) {
	h := GroundHit(math.Vec3{X: 1, Y: 2})
	if h.Normal != math.UnitZ {
		t.Errorf("normal = %+v, want +Z", h.Normal)
	}
	if h.StackCenter != nil {
		t.Error("ground hit should have no stack center")
	}
}
