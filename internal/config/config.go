// Package config loads the settings shared by the scatter tools.
package config

import (
	"github.com/Faultbox/physical-layout/internal/logger"
	"github.com/Faultbox/physical-layout/pkg/accel"
	"github.com/Faultbox/physical-layout/pkg/scatter"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

// Config holds all tool settings.
type Config struct {
	Processing  scatter.ProcessingConfig  `yaml:"processing" toml:"processing"`
	Transform   transform.Ranges          `yaml:"transform" toml:"transform"`
	Placement   transform.Placement       `yaml:"placement" toml:"placement"`
	Sampling    SamplingConfig            `yaml:"sampling" toml:"sampling"`
	Marker      MarkerConfig              `yaml:"marker" toml:"marker"`
	Instancer   InstancerConfig           `yaml:"instancer" toml:"instancer"`
	RigidBody   scatter.RigidBodySettings `yaml:"rigid_body" toml:"rigid_body"`
	Accelerator AcceleratorConfig         `yaml:"accelerator" toml:"accelerator"`
	Preview     PreviewConfig             `yaml:"preview" toml:"preview"`
	Logging     LoggingConfig             `yaml:"logging" toml:"logging"`
}

// SamplingConfig seeds the random transform sampler.
type SamplingConfig struct {
	// Seed makes sampling reproducible; 0 seeds from the clock.
	Seed uint64 `yaml:"seed" toml:"seed"`
}

// Sampler returns the sampler the settings describe.
func (s SamplingConfig) Sampler() *transform.Sampler {
	if s.Seed == 0 {
		return transform.NewRandomSampler()
	}
	return transform.NewSampler(s.Seed)
}

// MarkerConfig describes the circle marker drawn at placement points.
type MarkerConfig struct {
	Radius   float32    `yaml:"radius" toml:"radius"`
	Segments int        `yaml:"segments" toml:"segments"`
	Color    [4]float32 `yaml:"color" toml:"color"`
}

// InstancerConfig sizes instance buffers.
type InstancerConfig struct {
	ShaderName      string `yaml:"shader_name" toml:"shader_name"`
	InitialCapacity int    `yaml:"initial_capacity" toml:"initial_capacity"`
}

// AcceleratorConfig selects the compute core.
type AcceleratorConfig struct {
	Native      bool     `yaml:"native" toml:"native"`
	Module      string   `yaml:"module" toml:"module"`
	SearchRoots []string `yaml:"search_roots" toml:"search_roots"`
}

// Options converts the settings for accel.Select.
func (a AcceleratorConfig) Options(s SamplingConfig) accel.Options {
	return accel.Options{
		Native:  a.Native,
		Module:  a.Module,
		Roots:   a.SearchRoots,
		Sampler: s.Sampler(),
	}
}

// PreviewConfig holds scatterpreview window and scene settings.
type PreviewConfig struct {
	Width      int     `yaml:"width" toml:"width"`
	Height     int     `yaml:"height" toml:"height"`
	VSync      bool    `yaml:"vsync" toml:"vsync"`
	Instances  int     `yaml:"instances" toml:"instances"`
	GroundSize float32 `yaml:"ground_size" toml:"ground_size"`
	// ScreenshotDir receives captures taken with P.
	ScreenshotDir string `yaml:"screenshot_dir" toml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string            `yaml:"level" toml:"level"`
	File  logger.FileConfig `yaml:"file" toml:"file"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Processing: scatter.DefaultProcessingConfig(),
		Transform: transform.Ranges{
			RotZMin:  0,
			RotZMax:  360,
			ScaleMin: 0.8,
			ScaleMax: 1.2,
		},
		Placement: transform.DefaultPlacement(),
		Marker: MarkerConfig{
			Radius:   0.05,
			Segments: 16,
			Color:    [4]float32{0.2, 0.8, 1.0, 0.8},
		},
		Instancer: InstancerConfig{
			ShaderName:      "scatter_instanced",
			InitialCapacity: 256,
		},
		RigidBody: scatter.DefaultRigidBodySettings(),
		Accelerator: AcceleratorConfig{
			Module:      accel.DefaultModule,
			SearchRoots: []string{"."},
		},
		Preview: PreviewConfig{
			Width:      1280,
			Height:     720,
			VSync:      true,
			Instances:  200,
			GroundSize: 10,

			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
