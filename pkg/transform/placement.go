package transform

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/math"
)

// OffsetMode selects the direction of the random height offset.
type OffsetMode string

const (
	// OffsetWorldZ offsets along world +Z.
	OffsetWorldZ OffsetMode = "WORLD_Z"
	// OffsetNormal offsets along the surface normal.
	OffsetNormal OffsetMode = "NORMAL"
)

// minNormalLength below which a surface normal is treated as missing.
const minNormalLength = 0.001

// Placement holds the settings that turn a surface hit into a pivot.
type Placement struct {
	HeightMin          float32    `yaml:"height_min" toml:"height_min"`
	HeightMax          float32    `yaml:"height_max" toml:"height_max"`
	OffsetMode         OffsetMode `yaml:"offset_mode" toml:"offset_mode"`
	AlignToNormal      bool       `yaml:"align_to_normal" toml:"align_to_normal"`
	SnapToStackCenter  bool       `yaml:"snap_to_stack_center" toml:"snap_to_stack_center"`
	LandingZCorrection float32    `yaml:"landing_z_correction" toml:"landing_z_correction"`
}

// DefaultPlacement returns zero height offset along world Z with normal
// alignment on.
func DefaultPlacement() Placement {
	return Placement{
		OffsetMode:         OffsetWorldZ,
		AlignToNormal:      true,
		LandingZCorrection: 0.015,
	}
}

// Hit is a surface point under the cursor.
type Hit struct {
	Location math.Vec3
	Normal   math.Vec3
	// StackCenter is the world position of a scattered object that was hit,
	// nil when the ground was hit.
	StackCenter *math.Vec3
}

// Input is everything Compose needs for one placement.
type Input struct {
	Hit          Hit
	Sample       Sample
	HeightOffset float32
	Placement    Placement
}

// SurfaceNormal returns the normalized n, or +Z when n is too short to use.
func SurfaceNormal(n math.Vec3) math.Vec3 {
	if n.Length() <= minNormalLength {
		return math.UnitZ
	}
	return n.Normalize()
}

// Compose builds T(pivot) * R(align * euler) * S(uniform). The pivot is the
// hit location offset by HeightOffset along world Z or the surface normal,
// with XY snapped to the stack center when that is enabled and present.
func Compose(in Input) math.Mat4 {
	normal := SurfaceNormal(in.Hit.Normal)

	align := math.QuatIdentity()
	if in.Placement.AlignToNormal {
		align = math.AlignZ(normal)
	}
	rx, ry, rz := in.Sample.RotationEulerRad[0], in.Sample.RotationEulerRad[1], in.Sample.RotationEulerRad[2]
	rot := align.Mul(math.QuatFromEulerXYZ(rx, ry, rz)).ToMat4()

	pivot := in.Hit.Location
	if in.Placement.OffsetMode == OffsetNormal {
		pivot = pivot.Add(normal.Scale(in.HeightOffset))
	} else {
		pivot.Z += in.HeightOffset
	}
	if in.Placement.SnapToStackCenter && in.Hit.StackCenter != nil {
		pivot.X = in.Hit.StackCenter.X
		pivot.Y = in.Hit.StackCenter.Y
	}

	s := in.Sample.ScaleUniform
	return math.Translate(pivot.X, pivot.Y, pivot.Z).Mul(rot).Mul(math.Scale(s, s, s))
}

// Place samples rotation, scale and height offset and composes the matrix.
func (s *Sampler) Place(hit Hit, r Ranges, p Placement) math.Mat4 {
	return Compose(Input{
		Hit:          hit,
		Sample:       s.Sample(r),
		HeightOffset: s.Uniform(p.HeightMin, p.HeightMax),
		Placement:    p,
	})
}

// MinLocalZ returns the lowest Z of the bounding box corners after the
// rotation and scale of m, ignoring its translation.
func MinLocalZ(m math.Mat4, b geometry.Bounds) float32 {
	minZ := math32.Inf(1)
	for i := 0; i < 8; i++ {
		corner := [3]float32{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		minZ = min(minZ, m.TransformDirection(corner)[2])
	}
	return minZ
}

// LandingPivotZ is the pivot height that rests an object whose lowest local
// point is minLocalZ on a surface at surfaceZ, raised by correction.
func LandingPivotZ(surfaceZ, minLocalZ, correction float32) float32 {
	return surfaceZ - minLocalZ + correction
}

// DownhillDirection projects world down onto the surface plane. On level
// ground it returns a random horizontal direction, or zero one time in ten.
func (s *Sampler) DownhillDirection(normal math.Vec3) math.Vec3 {
	down := math.Vec3{Z: -1}
	onPlane := down.Sub(normal.Scale(down.Dot(normal)))
	if onPlane.Length() > 0.0001 {
		return onPlane.Normalize()
	}
	if math32.Abs(normal.Z) > 0.9999 {
		if s.Float32() > 0.1 {
			return math.Vec3{X: s.Uniform(-1, 1), Y: s.Uniform(-1, 1)}.Normalize()
		}
	}
	return math.Vec3{}
}
