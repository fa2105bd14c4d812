package main

import (
	"errors"
	"flag"
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/internal/scenefile"
	"github.com/Faultbox/physical-layout/pkg/accel"
	"github.com/Faultbox/physical-layout/pkg/geometry"
	"github.com/Faultbox/physical-layout/pkg/math"
	"github.com/Faultbox/physical-layout/pkg/record"
	"github.com/Faultbox/physical-layout/pkg/scatter"
	"github.com/Faultbox/physical-layout/pkg/transform"
)

func cmdAnalyze(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	common := addCommonFlags(fs)
	single := fs.Bool("single", false, "Analyze each candidate as an on-the-fly marker")
	instancing := fs.Bool("instancing", false, "Scatter as mesh instances")
	rigid := fs.Bool("rigid", false, "Add rigid bodies to static objects")
	apply := fs.String("apply", "", "Execute the instructions and write the resulting scene here")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scattertool analyze [options] <scene>")
	}
	e, err := common.setup("analyze")
	if err != nil {
		return err
	}
	defer e.close()

	f, err := scenefile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	cfg, err := f.ProcessingConfig(e.cfg.Processing)
	if err != nil {
		return err
	}
	if *instancing {
		cfg.ModeIsInstancing = true
	}
	if *rigid {
		cfg.ApplyRigidBodyStatic = true
	}

	scene := f.Scene()
	candidates, err := f.CandidateList(scene)
	if err != nil {
		return err
	}

	var out []scatter.Instruction
	if *single {
		for _, c := range candidates {
			out = append(out, e.acc.AnalyzeSingle(c, cfg))
		}
	} else {
		out = e.acc.AnalyzeBatch(candidates, cfg)
	}
	logSummary(e.log, out)

	if *apply != "" {
		if err := execute(e, scene, out, *apply); err != nil {
			return err
		}
	}
	return printYAML(map[string]any{"instructions": scatter.Records(out)})
}

func logSummary(log *zap.Logger, out []scatter.Instruction) {
	counts := make(map[scatter.Action]int)
	for _, in := range out {
		counts[in.Action]++
		if in.Reason != "" {
			log.Debug("candidate not converted", zap.String("name", in.OriginalName),
				zap.String("action", string(in.Action)), zap.String("reason", in.Reason))
		}
	}
	fields := make([]zap.Field, 0, len(counts))
	for a, n := range counts {
		fields = append(fields, zap.Int(string(a), n))
	}
	log.Info("analysis done", append(fields, zap.Int("total", len(out)))...)
}

// execute applies instructions to scene, removes retired markers and saves
// the scene. Per-object failures are logged and skipped.
func execute(e *env, scene *scatter.Scene, out []scatter.Instruction, path string) error {
	queue := scatter.NewDeletionQueue()
	for _, in := range out {
		name, err := scene.Execute(in, e.cfg.RigidBody, queue)
		if err != nil {
			e.log.Warn("instruction failed", zap.Stringer("instruction", in), zap.Error(err))
			continue
		}
		if name != "" {
			e.log.Debug("applied", zap.String("object", name), zap.String("action", string(in.Action)))
		}
	}

	removed, err := queue.Flush(scene)
	if err != nil {
		e.log.Warn("removing originals", zap.Error(err))
	}
	e.log.Info("scene updated", zap.Int("removed", removed), zap.String("path", path))
	return scenefile.Save(path, scenefile.FromScene(scene))
}

func cmdBake(args []string) error {
	fs := flag.NewFlagSet("bake", flag.ExitOnError)
	common := addCommonFlags(fs)
	target := fs.String("target", "", "Static collection to bake into (default: config static collection)")
	collection := fs.String("collection", "", "Bake every object in this collection")
	apply := fs.String("apply", "", "Execute the bake and write the resulting scene here")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scattertool bake [options] <scene> [names...]")
	}
	e, err := common.setup("bake")
	if err != nil {
		return err
	}
	defer e.close()

	f, err := scenefile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	scene := f.Scene()
	names := selectNames(scene, fs.Args()[1:], *collection)
	if *target == "" {
		*target = e.cfg.Processing.StaticCollectionName
	}

	out := e.acc.AnalyzeStaticBake(names, *target, scene)
	logSummary(e.log, out)
	if *apply != "" {
		if err := execute(e, scene, out, *apply); err != nil {
			return err
		}
	}
	return printYAML(map[string]any{"instructions": scatter.Records(out)})
}

func cmdRigid(args []string) error {
	fs := flag.NewFlagSet("rigid", flag.ExitOnError)
	common := addCommonFlags(fs)
	collection := fs.String("collection", "", "Use every object in this collection")
	configure := fs.String("configure", "", "Apply batch rigid-body settings and write the resulting scene here")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scattertool rigid [options] <scene> [names...]")
	}
	e, err := common.setup("rigid")
	if err != nil {
		return err
	}
	defer e.close()

	f, err := scenefile.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	scene := f.Scene()
	names := selectNames(scene, fs.Args()[1:], *collection)

	analysis := scatter.AnalyzeRigidBodySetup(names, scene)
	records := make([]record.Record, len(analysis))
	for i, a := range analysis {
		records[i] = a.Record()
	}

	if *configure != "" {
		if err := scatter.ConfigureRigidBodies(names, scatter.BatchRigidBodySettings(), scene, scene); err != nil {
			e.log.Warn("some rigid bodies were not configured", zap.Error(err))
		}
		if err := scenefile.Save(*configure, scenefile.FromScene(scene)); err != nil {
			return err
		}
	}
	return printYAML(map[string]any{"objects": records})
}

func selectNames(scene *scatter.Scene, names []string, collection string) []string {
	if collection != "" {
		return append(names, scene.InCollection(collection)...)
	}
	if len(names) > 0 {
		return names
	}
	var all []string
	for _, obj := range scene.Objects() {
		all = append(all, obj.Name)
	}
	return all
}

func meshRecord(m *geometry.MeshGpuData) record.Record {
	b := m.Bounds()
	return record.Record{
		"topology":  m.Topology.String(),
		"vertices":  m.VertexCount(),
		"rows":      m.RowCount(),
		"bounds":    record.Record{"min": b.Min, "max": b.Max},
		"positions": m.Positions,
		"indices":   m.Indices,
	}
}

func cmdMarker(args []string) error {
	fs := flag.NewFlagSet("marker", flag.ExitOnError)
	common := addCommonFlags(fs)
	radius := fs.Float64("radius", 0, "Marker radius (default: config)")
	segments := fs.Int("segments", 0, "Perimeter segments (default: config)")
	fs.Parse(args)

	e, err := common.setup("marker")
	if err != nil {
		return err
	}
	defer e.close()

	r, n := e.cfg.Marker.Radius, e.cfg.Marker.Segments
	if *radius > 0 {
		r = float32(*radius)
	}
	if *segments > 0 {
		n = *segments
	}
	mesh, err := e.acc.CircleMarker(r, n)
	if err != nil {
		return err
	}
	return printYAML(meshRecord(mesh))
}

func cmdSample(args []string) error {
	fs := flag.NewFlagSet("sample", flag.ExitOnError)
	common := addCommonFlags(fs)
	n := fs.Int("n", 1, "Number of samples")
	seed := fs.Uint64("seed", 0, "Random seed (0 = config, then time)")
	hit := fs.String("hit", "", "Surface point x,y,z; prints composed world matrices")
	normal := fs.String("normal", "0,0,1", "Surface normal x,y,z")
	fs.Parse(args)

	e, err := common.setup("sample")
	if err != nil {
		return err
	}
	defer e.close()

	if *seed != 0 {
		e.cfg.Sampling.Seed = *seed
	}
	sampler := e.cfg.Sampling.Sampler()
	ranges := e.cfg.Transform

	var h *transform.Hit
	if *hit != "" {
		loc, err := parseVec3(*hit)
		if err != nil {
			return fmt.Errorf("-hit: %w", err)
		}
		nrm, err := parseVec3(*normal)
		if err != nil {
			return fmt.Errorf("-normal: %w", err)
		}
		h = &transform.Hit{Location: loc, Normal: nrm}
	}

	out := make([]record.Record, 0, *n)
	for i := 0; i < *n; i++ {
		if h == nil {
			out = append(out, sampler.Sample(ranges).Record())
			continue
		}
		m := sampler.Place(*h, ranges, e.cfg.Placement)
		out = append(out, record.Record{"matrix_world": m.RowMajor()})
	}
	return printYAML(map[string]any{"samples": out})
}

func parseVec3(s string) (math.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var v [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return math.Vec3{}, err
		}
		v[i] = float32(f)
	}
	return math.Vec3From(v), nil
}

// meshFile is the input of the prepare command.
type meshFile struct {
	Positions []float32 `yaml:"positions" toml:"positions"`
	Indices   []int32   `yaml:"indices" toml:"indices"`
	UVs       []float32 `yaml:"uvs" toml:"uvs"`
}

func cmdPrepare(args []string) error {
	fs := flag.NewFlagSet("prepare", flag.ExitOnError)
	common := addCommonFlags(fs)
	master := fs.Bool("master", false, "Prepare instancer master mesh data with UVs")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: scattertool prepare [options] <mesh.yaml>")
	}
	e, err := common.setup("prepare")
	if err != nil {
		return err
	}
	defer e.close()

	var in meshFile
	if err := scenefile.LoadInto(fs.Arg(0), &in); err != nil {
		return err
	}

	if *master {
		mesh, err := geometry.PrepareMasterMeshData(in.Positions, in.UVs, in.Indices)
		if err != nil {
			return err
		}
		if mesh.UVsDefaulted {
			e.log.Warn("uvs missing or mis-sized, defaulted to (0,0)", zap.Int("uv_floats", len(in.UVs)))
		}
		r := meshRecord(&mesh.MeshGpuData)
		r["uvs"] = mesh.UVs
		return printYAML(r)
	}

	mesh, err := e.acc.PrepareMesh(in.Positions, in.Indices, len(in.Positions)/3, len(in.Indices)/3)
	if err != nil {
		return err
	}
	return printYAML(meshRecord(mesh))
}

func cmdLocate(args []string) error {
	fs := flag.NewFlagSet("locate", flag.ExitOnError)
	common := addCommonFlags(fs)
	module := fs.String("module", "", "Module base name (default: config)")
	fs.Parse(args)

	e, err := common.setup("locate")
	if err != nil {
		return err
	}
	defer e.close()

	name := *module
	if name == "" {
		name = e.cfg.Accelerator.Module
	}
	roots := fs.Args()
	if len(roots) == 0 {
		roots = e.cfg.Accelerator.SearchRoots
	}

	result := map[string]any{
		"module": name,
		"dirs":   accel.SearchDirs(roots),
	}
	if names, err := accel.Candidates(name, runtime.GOOS, runtime.GOARCH); err == nil {
		result["candidates"] = names
	}
	path, err := accel.Locate(name, roots)
	if err != nil {
		result["error"] = err.Error()
	} else {
		result["path"] = path
	}
	return printYAML(result)
}
