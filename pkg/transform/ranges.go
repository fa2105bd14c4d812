// Package transform samples randomized placement transforms and composes
// the world matrix of a placed object.
package transform

// MinScale is the smallest uniform scale the sampler produces.
const MinScale = 0.001

// Ranges bounds the random rotation (degrees, per axis) and uniform scale.
type Ranges struct {
	RotXMin  float32 `yaml:"rot_x_min" toml:"rot_x_min"`
	RotXMax  float32 `yaml:"rot_x_max" toml:"rot_x_max"`
	RotYMin  float32 `yaml:"rot_y_min" toml:"rot_y_min"`
	RotYMax  float32 `yaml:"rot_y_max" toml:"rot_y_max"`
	RotZMin  float32 `yaml:"rot_z_min" toml:"rot_z_min"`
	RotZMax  float32 `yaml:"rot_z_max" toml:"rot_z_max"`
	ScaleMin float32 `yaml:"scale_min" toml:"scale_min"`
	ScaleMax float32 `yaml:"scale_max" toml:"scale_max"`
}

// DefaultRanges is no rotation and unit scale.
func DefaultRanges() Ranges {
	return Ranges{ScaleMin: 1, ScaleMax: 1}
}

// Normalized swaps inverted bounds and clamps scale to MinScale.
func (r Ranges) Normalized() Ranges {
	r.RotXMin, r.RotXMax = ordered(r.RotXMin, r.RotXMax)
	r.RotYMin, r.RotYMax = ordered(r.RotYMin, r.RotYMax)
	r.RotZMin, r.RotZMax = ordered(r.RotZMin, r.RotZMax)
	r.ScaleMin, r.ScaleMax = ordered(r.ScaleMin, r.ScaleMax)
	r.ScaleMin = max(r.ScaleMin, MinScale)
	r.ScaleMax = max(r.ScaleMax, MinScale)
	return r
}

func ordered(lo, hi float32) (float32, float32) {
	if lo > hi {
		return hi, lo
	}
	return lo, hi
}
