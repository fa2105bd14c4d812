package accel

import (
	"fmt"

	"github.com/ebitengine/purego"

	"github.com/Faultbox/physical-layout/pkg/geometry"
)

// C ABI symbol names exported by cmd/scatteraccel.
const (
	SymbolPrepareMesh  = "scatter_prepare_mesh"
	SymbolCircleMarker = "scatter_circle_marker"
)

// library is an opened shared object.
type library interface {
	symbol(name string) (uintptr, error)
	close() error
}

// Native implements Accelerator over a shared library exporting the scatter
// C ABI. Geometry calls go through the library; everything else is served by
// the embedded Pure.
type Native struct {
	*Pure
	path string
	lib  library

	prepareMesh  func(pos *float32, posLen int64, idx *int32, idxLen int64, numVertices, numTriangles int64, outPos *float32, outIdx *uint32) int32
	circleMarker func(radius float32, segments int32, outPos *float32, outIdx *uint32) int32
}

// OpenNative loads the library at path and binds its symbols.
func OpenNative(path string, pure *Pure) (*Native, error) {
	lib, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	n := &Native{Pure: pure, path: path, lib: lib}

	for _, s := range []struct {
		name string
		fptr any
	}{
		{SymbolPrepareMesh, &n.prepareMesh},
		{SymbolCircleMarker, &n.circleMarker},
	} {
		addr, err := lib.symbol(s.name)
		if err != nil {
			lib.close()
			return nil, fmt.Errorf("%s: symbol %s: %w", path, s.name, err)
		}
		purego.RegisterFunc(s.fptr, addr)
	}
	return n, nil
}

func (n *Native) Name() string { return "native" }

// Path returns the loaded library file.
func (n *Native) Path() string { return n.path }

func (n *Native) PrepareMesh(flatPositions []float32, flatIndices []int32, numVertices, numTriangles int) (*geometry.MeshGpuData, error) {
	outPos := make([]float32, len(flatPositions))
	outIdx := make([]uint32, len(flatIndices))

	status := Status(n.prepareMesh(
		first(flatPositions), int64(len(flatPositions)),
		first(flatIndices), int64(len(flatIndices)),
		int64(numVertices), int64(numTriangles),
		first(outPos), first(outIdx),
	))
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", SymbolPrepareMesh, err)
	}
	return fromFlat(outPos, outIdx, geometry.Triangles)
}

func (n *Native) CircleMarker(radius float32, segments int) (*geometry.MeshGpuData, error) {
	segments = max(segments, geometry.MinMarkerSegments)
	outPos := make([]float32, 3*(segments+1))
	outIdx := make([]uint32, 4*segments)

	status := Status(n.circleMarker(radius, int32(segments), first(outPos), first(outIdx)))
	if err := status.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", SymbolCircleMarker, err)
	}
	return fromFlat(outPos, outIdx, geometry.Lines)
}

// Close releases the instancers and unloads the library.
func (n *Native) Close() error {
	err := n.Pure.Close()
	if cerr := n.lib.close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// fromFlat shapes library output and checks it, so a faulty library cannot
// hand out indices past the vertex list.
func fromFlat(pos []float32, idx []uint32, t geometry.Topology) (*geometry.MeshGpuData, error) {
	mesh := geometry.Empty(t)
	for i := 0; i+2 < len(pos); i += 3 {
		mesh.Positions = append(mesh.Positions, [3]float32{pos[i], pos[i+1], pos[i+2]})
	}
	mesh.Indices = append(mesh.Indices, idx...)
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("native result: %w", err)
	}
	return mesh, nil
}

func first[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[0]
}
