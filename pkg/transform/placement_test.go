package transform

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/math"
)

func TestComposeIdentitySample(t *testing.T) {
	in := Input{
		Hit:       Hit{Location: math.Vec3{X: 1, Y: 2, Z: 3}, Normal: math.UnitZ},
		Sample:    Sample{ScaleUniform: 1},
		Placement: DefaultPlacement(),
	}
	got := Compose(in)
	want := math.Translate(1, 2, 3)

	if !got.ApproxEqual(want, 1e-6) {
		t.Errorf("Compose: got %v, want %v", got, want)
	}
}

func TestComposeHeightOffset(t *testing.T) {
	slope := math.Vec3{X: 1, Z: 1}
	tests := []struct {
		name string
		mode OffsetMode
		want math.Vec3
	}{
		{"world z", OffsetWorldZ, math.Vec3{Z: 2}},
		{"normal", OffsetNormal, slope.Normalize().Scale(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPlacement()
			p.OffsetMode = tt.mode
			m := Compose(Input{
				Hit:          Hit{Normal: slope},
				Sample:       Sample{ScaleUniform: 1},
				HeightOffset: 2,
				Placement:    p,
			})
			if m.Translation().Distance(tt.want) > 1e-5 {
				t.Errorf("pivot: got %v, want %v", m.Translation(), tt.want)
			}
		})
	}
}

func TestComposeAlignAndScale(t *testing.T) {
	normal := math.Vec3{X: 1}
	m := Compose(Input{
		Hit:       Hit{Normal: normal},
		Sample:    Sample{ScaleUniform: 3},
		Placement: DefaultPlacement(),
	})

	// Local +Z follows the normal, scaled uniformly
	up := math.Vec3From(m.TransformDirection([3]float32{0, 0, 1}))
	if up.Distance(normal.Scale(3)) > 1e-5 {
		t.Errorf("local Z: got %v, want %v", up, normal.Scale(3))
	}
}

func TestComposeMissingNormal(t *testing.T) {
	m := Compose(Input{
		Hit:       Hit{Location: math.Vec3{X: 5}},
		Sample:    Sample{RotationEulerRad: [3]float32{0, 0, gomath.Pi / 2}, ScaleUniform: 1},
		Placement: DefaultPlacement(),
	})

	x := math.Vec3From(m.TransformDirection([3]float32{1, 0, 0}))
	if x.Distance(math.Vec3{Y: 1}) > 1e-5 {
		t.Errorf("euler z rotation lost: local X maps to %v", x)
	}
}

func TestComposeSnapToStack(t *testing.T) {
	center := math.Vec3{X: 10, Y: 20, Z: 99}
	p := DefaultPlacement()
	p.SnapToStackCenter = true

	m := Compose(Input{
		Hit:       Hit{Location: math.Vec3{X: 1, Y: 1, Z: 4}, Normal: math.UnitZ, StackCenter: &center},
		Sample:    Sample{ScaleUniform: 1},
		Placement: p,
	})
	if m.Translation() != (math.Vec3{X: 10, Y: 20, Z: 4}) {
		t.Errorf("snapped pivot: got %v", m.Translation())
	}

	p.SnapToStackCenter = false
	m = Compose(Input{
		Hit:       Hit{Location: math.Vec3{X: 1, Y: 1, Z: 4}, StackCenter: &center},
		Sample:    Sample{ScaleUniform: 1},
		Placement: p,
	})
	if m.Translation() != (math.Vec3{X: 1, Y: 1, Z: 4}) {
		t.Errorf("unsnapped pivot: got %v", m.Translation())
	}
}

func TestLanding(t *testing.T) {
	b := geometry.Bounds{Min: [3]float32{-1, -1, -0.5}, Max: [3]float32{1, 1, 0.5}}

	minZ := MinLocalZ(math.Scale(2, 2, 2), b)
	if minZ != -1 {
		t.Errorf("MinLocalZ: got %v, want -1", minZ)
	}

	// Translation is ignored
	if got := MinLocalZ(math.Translate(0, 0, 100), b); got != -0.5 {
		t.Errorf("MinLocalZ with translation: got %v, want -0.5", got)
	}

	if got := LandingPivotZ(3, minZ, 0.015); gomath.Abs(float64(got-4.015)) > 1e-5 {
		t.Errorf("LandingPivotZ: got %v, want 4.015", got)
	}
}

func TestDownhillDirection(t *testing.T) {
	s := NewSampler(5)

	slope := math.Vec3{X: 1, Z: 1}.Normalize()
	dir := s.DownhillDirection(slope)
	if dir.Z >= 0 || dir.X <= 0 {
		t.Errorf("downhill on slope should descend toward +X, got %v", dir)
	}
	if gomath.Abs(float64(dir.Dot(slope))) > 1e-5 {
		t.Errorf("downhill should lie in the surface plane, dot=%v", dir.Dot(slope))
	}

	for i := 0; i < 100; i++ {
		flat := s.DownhillDirection(math.UnitZ)
		if flat.Z != 0 {
			t.Fatalf("level ground direction should be horizontal, got %v", flat)
		}
		if l := flat.Length(); l != 0 && gomath.Abs(float64(l-1)) > 1e-5 {
			t.Fatalf("level ground direction should be unit or zero, got length %v", l)
		}
	}
}

func TestPlaceUsesSampler(t *testing.T) {
	r := Ranges{RotZMin: 0, RotZMax: 360, ScaleMin: 1, ScaleMax: 2}
	p := DefaultPlacement()
	p.HeightMin, p.HeightMax = 0.5, 0.5
	hit := Hit{Location: math.Vec3{X: 3}, Normal: math.UnitZ}

	a := NewSampler(11).Place(hit, r, p)
	b := NewSampler(11).Place(hit, r, p)
	if a != b {
		t.Error("same seed should place identically")
	}
	if a.Translation() != (math.Vec3{X: 3, Z: 0.5}) {
		t.Errorf("pivot: got %v", a.Translation())
	}
}
