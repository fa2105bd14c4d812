package accel

import (
	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/instancer"
	"github.com/Faultbox/physical-layout/pkg/scatter"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

// Pure implements Accelerator in Go.
type Pure struct {
	sampler   *transform.Sampler
	instances *Registry
	log       *zap.Logger
}

// NewPure returns a Go accelerator. A nil sampler is seeded from the clock.
func NewPure(sampler *transform.Sampler, log *zap.Logger) *Pure {
	if sampler == nil {
		sampler = transform.NewRandomSampler()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pure{sampler: sampler, instances: NewRegistry(), log: log}
}

func (p *Pure) Name() string { return "pure" }

func (p *Pure) PrepareMesh(flatPositions []float32, flatIndices []int32, numVertices, numTriangles int) (*geometry.MeshGpuData, error) {
	return geometry.PrepareFromFlatArrays(flatPositions, flatIndices, numVertices, numTriangles)
}

func (p *Pure) CircleMarker(radius float32, segments int) (*geometry.MeshGpuData, error) {
	return geometry.GenerateCircleWireframe(radius, segments), nil
}

// Reseed replaces the sampler with one seeded by seed.
func (p *Pure) Reseed(seed uint64) {
	p.sampler = transform.NewSampler(seed)
}

func (p *Pure) RandomTransform(r transform.Ranges) transform.Sample {
	return p.sampler.Sample(r)
}

func (p *Pure) AnalyzeSingle(c scatter.Candidate, cfg scatter.ProcessingConfig) scatter.Instruction {
	return scatter.AnalyzeSingle(c, cfg)
}

func (p *Pure) AnalyzeBatch(cs []scatter.Candidate, cfg scatter.ProcessingConfig) []scatter.Instruction {
	return scatter.AnalyzeBatch(cs, cfg)
}

func (p *Pure) AnalyzeStaticBake(names []string, target string, db scatter.ObjectLookup) []scatter.Instruction {
	return scatter.AnalyzeStaticBake(names, target, db)
}

func (p *Pure) NewInstancer(shaderName string, buf instancer.Buffer) Handle {
	m := instancer.NewManager(shaderName, buf, p.log.Named("instancer"))
	return p.instances.Register(m)
}

func (p *Pure) Instancer(h Handle) (*instancer.Manager, error) {
	return p.instances.Get(h)
}

func (p *Pure) ReleaseInstancer(h Handle) error {
	return p.instances.Release(h)
}

// Close releases every instancer still registered.
func (p *Pure) Close() error {
	return p.instances.Close()
}
