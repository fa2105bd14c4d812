// Package geometry converts host mesh data into validated GPU-ready buffers
// and tessellates the procedural circle marker.
package geometry

import "fmt"

// Topology is the primitive type of a MeshGpuData index list.
type Topology uint8

const (
	// Triangles indexes rows of three vertices.
	Triangles Topology = iota
	// Lines indexes rows of two vertices.
	Lines
)

// Width returns the number of indices per primitive.
func (t Topology) Width() int {
	if t == Lines {
		return 2
	}
	return 3
}

// String returns the topology name.
func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	default:
		return fmt.Sprintf("Topology(%d)", uint8(t))
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Size returns the extent along each axis.
func (b Bounds) Size() [3]float32 {
	return [3]float32{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// MeshGpuData is vertex positions plus a flat index list whose rows are
// Topology.Width() wide. Accelerated and pure code paths both produce it.
type MeshGpuData struct {
	Positions [][3]float32
	Indices   []uint32
	Topology  Topology
}

// Empty returns mesh data with no vertices and no primitives.
func Empty(t Topology) *MeshGpuData {
	return &MeshGpuData{
		Positions: [][3]float32{},
		Indices:   []uint32{},
		Topology:  t,
	}
}

// VertexCount returns the number of vertices.
func (d *MeshGpuData) VertexCount() int {
	return len(d.Positions)
}

// RowCount returns the number of primitives.
func (d *MeshGpuData) RowCount() int {
	return len(d.Indices) / d.Topology.Width()
}

// Row returns the indices of primitive i.
func (d *MeshGpuData) Row(i int) []uint32 {
	w := d.Topology.Width()
	return d.Indices[i*w : (i+1)*w]
}

// FlatPositions returns positions as x,y,z,x,y,z,...
func (d *MeshGpuData) FlatPositions() []float32 {
	out := make([]float32, 0, len(d.Positions)*3)
	for _, p := range d.Positions {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

// Bounds returns the bounding box of all positions. An empty mesh yields a
// zero box.
func (d *MeshGpuData) Bounds() Bounds {
	if len(d.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: d.Positions[0], Max: d.Positions[0]}
	for _, p := range d.Positions[1:] {
		for axis := 0; axis < 3; axis++ {
			if p[axis] < b.Min[axis] {
				b.Min[axis] = p[axis]
			}
			if p[axis] > b.Max[axis] {
				b.Max[axis] = p[axis]
			}
		}
	}
	return b
}

// Validate checks the row width and that every index addresses a vertex.
// Data coming back from the native accelerator is validated with it before
// use.
func (d *MeshGpuData) Validate() error {
	w := d.Topology.Width()
	if len(d.Indices)%w != 0 {
		return fmt.Errorf("%w: %d indices not divisible by %d", ErrInvalidGeometry, len(d.Indices), w)
	}
	if len(d.Positions) == 0 && len(d.Indices) > 0 {
		return fmt.Errorf("%w: %d primitives reference a mesh without vertices", ErrInvalidGeometry, d.RowCount())
	}
	n := uint32(len(d.Positions))
	for i, idx := range d.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at position %d for %d vertices", ErrIndexOutOfBounds, idx, i, n)
		}
	}
	return nil
}
