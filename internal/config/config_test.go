package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/physical-layout/pkg/transform"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Processing.InstanceCollectionName != "UnknownInstanceCol" {
		t.Errorf("expected instance collection UnknownInstanceCol, got %s", cfg.Processing.InstanceCollectionName)
	}
	if cfg.Processing.StaticCollectionName != "UnknownStaticCol" {
		t.Errorf("expected static collection UnknownStaticCol, got %s", cfg.Processing.StaticCollectionName)
	}
	if cfg.Processing.InstanceNameBaseSuffix != "_inst" {
		t.Errorf("expected suffix _inst, got %s", cfg.Processing.InstanceNameBaseSuffix)
	}
	if cfg.Processing.ModeIsInstancing {
		t.Error("expected static mode by default")
	}

	if cfg.Marker.Radius != 0.05 {
		t.Errorf("expected marker radius 0.05, got %f", cfg.Marker.Radius)
	}
	if cfg.Marker.Segments != 16 {
		t.Errorf("expected 16 marker segments, got %d", cfg.Marker.Segments)
	}

	if cfg.Placement.OffsetMode != transform.OffsetWorldZ {
		t.Errorf("expected WORLD_Z offset, got %s", cfg.Placement.OffsetMode)
	}
	if cfg.RigidBody.CollisionMargin != 0.04 {
		t.Errorf("expected collision margin 0.04, got %f", cfg.RigidBody.CollisionMargin)
	}

	if cfg.Accelerator.Native {
		t.Error("expected pure accelerator by default")
	}
	if cfg.Accelerator.Module != "scatter_accel" {
		t.Errorf("expected module scatter_accel, got %s", cfg.Accelerator.Module)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.File.Path != "" {
		t.Errorf("expected no log file, got %s", cfg.Logging.File.Path)
	}
}

func TestLoadFromYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scatter.yaml")

	yamlContent := `
processing:
  mode_is_instancing: true
  instance_collection_name: "INST"
  available_meshes: [Rock, Tree]

transform:
  rot_z_min: 10
  rot_z_max: 20
  scale_min: 2
  scale_max: 2

placement:
  offset_mode: NORMAL
  height_max: 0.5

marker:
  segments: 32
  color: [1, 0, 0, 1]

rigid_body:
  mass: 4.5

logging:
  level: "debug"
  file:
    path: "scatter.log"
    max_backups: 5
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Processing.ModeIsInstancing {
		t.Error("expected instancing mode")
	}
	if cfg.Processing.InstanceCollectionName != "INST" {
		t.Errorf("expected INST, got %s", cfg.Processing.InstanceCollectionName)
	}
	if cfg.Processing.StaticCollectionName != "UnknownStaticCol" {
		t.Errorf("expected default static collection kept, got %s", cfg.Processing.StaticCollectionName)
	}
	if len(cfg.Processing.AvailableMeshes) != 2 {
		t.Errorf("expected 2 available meshes, got %v", cfg.Processing.AvailableMeshes)
	}
	if cfg.Transform.RotZMin != 10 || cfg.Transform.ScaleMax != 2 {
		t.Errorf("unexpected transform ranges %+v", cfg.Transform)
	}
	if cfg.Placement.OffsetMode != transform.OffsetNormal {
		t.Errorf("expected NORMAL offset, got %s", cfg.Placement.OffsetMode)
	}
	if !cfg.Placement.AlignToNormal {
		t.Error("expected align_to_normal default kept")
	}
	if cfg.Marker.Segments != 32 || cfg.Marker.Radius != 0.05 {
		t.Errorf("unexpected marker %+v", cfg.Marker)
	}
	if cfg.Marker.Color != [4]float32{1, 0, 0, 1} {
		t.Errorf("unexpected marker color %v", cfg.Marker.Color)
	}
	if cfg.RigidBody.Mass != 4.5 || cfg.RigidBody.Type != "ACTIVE" {
		t.Errorf("unexpected rigid body %+v", cfg.RigidBody)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.File.Path != "scatter.log" || cfg.Logging.File.MaxBackups != 5 {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scatter.toml")

	tomlContent := `
[processing]
apply_rigidbody_static = true
static_collection_name = "STATIC"

[sampling]
seed = 42

[accelerator]
native = true
search_roots = ["/opt/scatter", "."]
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if !cfg.Processing.ApplyRigidBodyStatic {
		t.Error("expected apply_rigidbody_static")
	}
	if cfg.Processing.StaticCollectionName != "STATIC" {
		t.Errorf("expected STATIC, got %s", cfg.Processing.StaticCollectionName)
	}
	if cfg.Sampling.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Sampling.Seed)
	}
	if !cfg.Accelerator.Native || len(cfg.Accelerator.SearchRoots) != 2 {
		t.Errorf("unexpected accelerator %+v", cfg.Accelerator)
	}
	if cfg.Accelerator.Module != "scatter_accel" {
		t.Errorf("expected default module kept, got %s", cfg.Accelerator.Module)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	for name, content := range map[string]string{
		"invalid.yaml": "marker:\n  segments: not a number\n  invalid syntax here\n",
		"invalid.toml": "[marker\nsegments = ",
	} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if err := loadFromFile(Default(), path); err == nil {
			t.Errorf("%s: expected error, got nil", name)
		}
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/scatter.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
	if _, err := LoadFrom("/nonexistent/path/scatter.yaml"); err == nil {
		t.Error("expected LoadFrom error for missing file, got nil")
	}
}

func TestLoadFromEmptyPath(t *testing.T) {
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Marker.Segments != 16 {
		t.Errorf("expected defaults, got %+v", cfg.Marker)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "scatter.toml"), []byte("[marker]\nsegments = 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./scatter.toml" {
		t.Errorf("expected ./scatter.toml, got %q", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "scatter.yaml"), []byte("marker:\n  segments: 8\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path != "./scatter.yaml" {
		t.Errorf("expected yaml to win over toml, got %q", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "native flag",
			setup: func() { *flagNative = true },
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Accelerator.Native {
					t.Error("expected native accelerator")
				}
			},
			teardown: func() { *flagNative = false },
		},
		{
			name:  "seed flag",
			setup: func() { *flagSeed = 1234 },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Sampling.Seed != 1234 {
					t.Errorf("expected seed 1234, got %d", cfg.Sampling.Seed)
				}
			},
			teardown: func() { *flagSeed = 0 },
		},
		{
			name: "mode flags",
			setup: func() {
				*flagInstancing = true
				*flagRigid = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Processing.ModeIsInstancing || !cfg.Processing.ApplyRigidBodyStatic {
					t.Errorf("unexpected processing %+v", cfg.Processing)
				}
			},
			teardown: func() {
				*flagInstancing = false
				*flagRigid = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "scatter.yaml")
	yamlContent := `
sampling:
  seed: 7
marker:
  segments: 24
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagSeed = 99
	defer func() {
		*flagConfig = ""
		*flagSeed = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Sampling.Seed != 99 {
		t.Errorf("expected seed 99 from flag, got %d", cfg.Sampling.Seed)
	}
	if cfg.Marker.Segments != 24 {
		t.Errorf("expected 24 segments from file, got %d", cfg.Marker.Segments)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scatter.yaml")
	cfg := Default()
	cfg.Processing.InstanceCollectionName = "Saved"
	cfg.Sampling.Seed = 5

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Processing.InstanceCollectionName != "Saved" || loaded.Sampling.Seed != 5 {
		t.Errorf("round trip lost values: %+v", loaded.Processing)
	}
}

func TestSamplingSeed(t *testing.T) {
	r := transform.Ranges{RotZMax: 360, ScaleMin: 1, ScaleMax: 2}
	a := SamplingConfig{Seed: 3}.Sampler().Sample(r)
	b := SamplingConfig{Seed: 3}.Sampler().Sample(r)
	if a != b {
		t.Errorf("seeded samplers diverged: %v vs %v", a, b)
	}
}
