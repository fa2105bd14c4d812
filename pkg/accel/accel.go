// Package accel is the capability boundary between the scatter host and its
// compute core. An Accelerator is picked once at composition time: Pure runs
// everything in Go, Native routes the hot geometry calls through a shared
// library exporting the scatter C ABI and shares the rest with Pure.
package accel

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/instancer"
	"github.com/Faultbox/physical-layout/pkg/scatter"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

var (
	// ErrModuleNotFound reports that no candidate library file exists.
	ErrModuleNotFound = errors.New("native module not found")
	// ErrUnsupportedPlatform reports an OS without a known library convention.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrInvalidHandle reports an instancer handle that was never issued or
	// was already released.
	ErrInvalidHandle = errors.New("invalid instancer handle")
)

// DefaultModule is the base name of the native library.
const DefaultModule = "scatter_accel"

// Accelerator is every inbound call the host makes into the core.
type Accelerator interface {
	// Name identifies the implementation in logs.
	Name() string

	PrepareMesh(flatPositions []float32, flatIndices []int32, numVertices, numTriangles int) (*geometry.MeshGpuData, error)
	CircleMarker(radius float32, segments int) (*geometry.MeshGpuData, error)
	RandomTransform(r transform.Ranges) transform.Sample

	AnalyzeSingle(c scatter.Candidate, cfg scatter.ProcessingConfig) scatter.Instruction
	AnalyzeBatch(cs []scatter.Candidate, cfg scatter.ProcessingConfig) []scatter.Instruction
	AnalyzeStaticBake(names []string, target string, db scatter.ObjectLookup) []scatter.Instruction

	// NewInstancer creates a manager over buf (nil selects a memory buffer)
	// and returns its handle.
	NewInstancer(shaderName string, buf instancer.Buffer) Handle
	Instancer(h Handle) (*instancer.Manager, error)
	ReleaseInstancer(h Handle) error

	Close() error
}

// Options selects and configures an Accelerator.
type Options struct {
	// Native asks for the shared library; Pure is used when it cannot load.
	Native bool
	Module string
	// Roots are searched in order, each as <root>/native then <root>.
	Roots []string
	// Sampler drives RandomTransform. Nil seeds one from the clock.
	Sampler *transform.Sampler
}

// Select builds the accelerator opts ask for. Failing to load the native
// library is not an error: it is logged and Pure is returned.
func Select(opts Options, log *zap.Logger) Accelerator {
	if log == nil {
		log = zap.NewNop()
	}
	pure := NewPure(opts.Sampler, log)
	if !opts.Native {
		return pure
	}

	module := opts.Module
	if module == "" {
		module = DefaultModule
	}
	path, err := Locate(module, opts.Roots)
	if err != nil {
		log.Warn("native accelerator unavailable, using pure Go", zap.String("module", module), zap.Error(err))
		return pure
	}
	native, err := OpenNative(path, pure)
	if err != nil {
		log.Warn("native accelerator failed to load, using pure Go", zap.String("path", path), zap.Error(err))
		return pure
	}
	log.Info("native accelerator loaded", zap.String("path", path))
	return native
}
