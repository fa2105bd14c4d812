package transform

import (
	"math"
	"math/rand/v2"
	"time"
)

// Sample is one random rotation and uniform scale draw.
type Sample struct {
	RotationEulerRad [3]float32 `yaml:"rotation_euler_rad"`
	ScaleUniform     float32    `yaml:"scale_uniform"`
}

// Sampler draws independent samples from its own generator. A Sampler is not
// safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler returns a deterministic sampler: equal seeds produce equal
// sample sequences.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomSampler returns a sampler seeded from the clock.
func NewRandomSampler() *Sampler {
	return NewSampler(uint64(time.Now().UnixNano()))
}

// Sample draws one rotation per axis (converted to radians) and one uniform
// scale. Inverted bounds are swapped; equal bounds return the bound exactly.
func (s *Sampler) Sample(r Ranges) Sample {
	r = r.Normalized()
	return Sample{
		RotationEulerRad: [3]float32{
			s.radians(r.RotXMin, r.RotXMax),
			s.radians(r.RotYMin, r.RotYMax),
			s.radians(r.RotZMin, r.RotZMax),
		},
		ScaleUniform: s.Uniform(r.ScaleMin, r.ScaleMax),
	}
}

// Uniform returns a value in [lo, hi], swapping inverted bounds.
func (s *Sampler) Uniform(lo, hi float32) float32 {
	return float32(s.uniform64(lo, hi))
}

// Float32 returns a value in [0, 1).
func (s *Sampler) Float32() float32 {
	return s.rng.Float32()
}

func (s *Sampler) radians(loDeg, hiDeg float32) float32 {
	return float32(s.uniform64(loDeg, hiDeg) * math.Pi / 180)
}

// uniform64 works in float64 so rounding never leaves [lo, hi].
func (s *Sampler) uniform64(lo, hi float32) float64 {
	a, b := float64(lo), float64(hi)
	if a > b {
		a, b = b, a
	}
	if a == b {
		return a
	}
	return min(a+s.rng.Float64()*(b-a), b)
}
