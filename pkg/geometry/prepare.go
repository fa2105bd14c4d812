package geometry

import "fmt"

// PrepareMeshGpuData reshapes a flat position array (3 floats per vertex) and
// a flat triangle index array (3 indices per triangle) into MeshGpuData.
//
// Positions are copied in order; no reordering or deduplication happens.
// Every index must be non-negative and below the vertex count. Triangles over
// an empty vertex list are rejected; an empty vertex list with no triangles
// yields empty data.
func PrepareMeshGpuData(flatPositions []float32, flatIndices []int32) (*MeshGpuData, error) {
	if len(flatPositions)%3 != 0 {
		return nil, fmt.Errorf("%w: position array length %d not divisible by 3", ErrInvalidGeometry, len(flatPositions))
	}
	if len(flatIndices)%3 != 0 {
		return nil, fmt.Errorf("%w: index array length %d not divisible by 3", ErrInvalidGeometry, len(flatIndices))
	}

	numVertices := len(flatPositions) / 3
	if numVertices == 0 {
		if len(flatIndices) > 0 {
			return nil, fmt.Errorf("%w: %d triangles reference a mesh without vertices", ErrInvalidGeometry, len(flatIndices)/3)
		}
		return Empty(Triangles), nil
	}

	indices, err := convertIndices(flatIndices, numVertices)
	if err != nil {
		return nil, err
	}

	return &MeshGpuData{
		Positions: reshapePositions(flatPositions),
		Indices:   indices,
		Topology:  Triangles,
	}, nil
}

// PrepareFromFlatArrays is PrepareMeshGpuData with host-declared counts. The
// declared counts must match the array lengths exactly.
func PrepareFromFlatArrays(flatPositions []float32, flatIndices []int32, numVertices, numTriangles int) (*MeshGpuData, error) {
	if numVertices < 0 || numTriangles < 0 {
		return nil, fmt.Errorf("%w: negative count (vertices=%d, triangles=%d)", ErrCountMismatch, numVertices, numTriangles)
	}
	if len(flatPositions) != numVertices*3 {
		return nil, fmt.Errorf("%w: vertices*3 = %d, position array has %d", ErrCountMismatch, numVertices*3, len(flatPositions))
	}
	if len(flatIndices) != numTriangles*3 {
		return nil, fmt.Errorf("%w: triangles*3 = %d, index array has %d", ErrCountMismatch, numTriangles*3, len(flatIndices))
	}
	return PrepareMeshGpuData(flatPositions, flatIndices)
}

// MasterMeshData is triangle mesh data plus per-vertex UVs, the layout the
// instancer uploads once as the shared mesh of all instances.
type MasterMeshData struct {
	MeshGpuData
	UVs [][2]float32
	// UVsDefaulted is set when the supplied UVs were missing or mis-sized and
	// every vertex got (0, 0).
	UVsDefaulted bool
}

// PrepareMasterMeshData validates positions and indices like
// PrepareMeshGpuData and attaches UVs (2 floats per vertex).
func PrepareMasterMeshData(flatPositions, flatUVs []float32, flatIndices []int32) (*MasterMeshData, error) {
	mesh, err := PrepareMeshGpuData(flatPositions, flatIndices)
	if err != nil {
		return nil, err
	}

	n := mesh.VertexCount()
	out := &MasterMeshData{MeshGpuData: *mesh, UVs: make([][2]float32, n)}
	if n == 0 {
		return out, nil
	}

	if len(flatUVs) != n*2 {
		out.UVsDefaulted = true
		return out, nil
	}
	for i := range out.UVs {
		out.UVs[i] = [2]float32{flatUVs[i*2], flatUVs[i*2+1]}
	}
	return out, nil
}

func reshapePositions(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[i*3], flat[i*3+1], flat[i*3+2]}
	}
	return out
}

func convertIndices(flat []int32, numVertices int) ([]uint32, error) {
	out := make([]uint32, len(flat))
	for i, idx := range flat {
		if idx < 0 {
			return nil, fmt.Errorf("%w: negative vertex index %d at position %d", ErrInvalidGeometry, idx, i)
		}
		if int(idx) >= numVertices {
			return nil, fmt.Errorf("%w: index %d at position %d for %d vertices", ErrIndexOutOfBounds, idx, i, numVertices)
		}
		out[i] = uint32(idx)
	}
	return out, nil
}
