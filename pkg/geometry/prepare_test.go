package geometry

import (
	"errors"
	"testing"
)

func TestPrepareMeshGpuData(t *testing.T) {
	positions := []float32{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		1, 1, 0,
	}
	indices := []int32{0, 1, 2, 2, 1, 3}

	mesh, err := PrepareMeshGpuData(positions, indices)
	if err != nil {
		t.Fatalf("PrepareMeshGpuData failed: %v", err)
	}

	if mesh.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", mesh.VertexCount())
	}
	if mesh.RowCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", mesh.RowCount())
	}
	if mesh.Topology != Triangles {
		t.Errorf("expected triangles, got %s", mesh.Topology)
	}

	// Flattened output equals input, in order
	flat := mesh.FlatPositions()
	for i := range positions {
		if flat[i] != positions[i] {
			t.Fatalf("position %d: got %f, want %f", i, flat[i], positions[i])
		}
	}
	for i := range indices {
		if mesh.Indices[i] != uint32(indices[i]) {
			t.Fatalf("index %d: got %d, want %d", i, mesh.Indices[i], indices[i])
		}
	}
	if row := mesh.Row(1); row[0] != 2 || row[1] != 1 || row[2] != 3 {
		t.Errorf("row 1: got %v, want [2 1 3]", row)
	}
}

func TestPrepareMeshGpuDataDegenerate(t *testing.T) {
	t.Run("no vertices no indices", func(t *testing.T) {
		mesh, err := PrepareMeshGpuData(nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mesh.VertexCount() != 0 || mesh.RowCount() != 0 {
			t.Errorf("expected empty mesh, got %d vertices, %d rows", mesh.VertexCount(), mesh.RowCount())
		}
		if mesh.Positions == nil || mesh.Indices == nil {
			t.Error("empty mesh should have non-nil slices")
		}
	})

	t.Run("vertices without indices", func(t *testing.T) {
		mesh, err := PrepareMeshGpuData([]float32{1, 2, 3, 4, 5, 6}, []int32{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if mesh.VertexCount() != 2 {
			t.Errorf("expected 2 vertices, got %d", mesh.VertexCount())
		}
		if mesh.RowCount() != 0 {
			t.Errorf("expected no triangles, got %d", mesh.RowCount())
		}
	})

	t.Run("triangles over zero vertices", func(t *testing.T) {
		for _, idx := range [][]int32{{0, 0, 0}, {5, 6, 7}, {-1, 0, 1}} {
			_, err := PrepareMeshGpuData(nil, idx)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("indices %v: expected ErrInvalidGeometry, got %v", idx, err)
			}
		}
	})
}

func TestPrepareMeshGpuDataErrors(t *testing.T) {
	tests := []struct {
		name      string
		positions []float32
		indices   []int32
		want      error
	}{
		{"positions not divisible by 3", []float32{0, 0, 0, 1}, []int32{}, ErrInvalidGeometry},
		{"indices not divisible by 3", []float32{0, 0, 0}, []int32{0, 0}, ErrInvalidGeometry},
		{"negative index", []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, []int32{0, -1, 2}, ErrInvalidGeometry},
		{"index equals vertex count", []float32{0, 0, 0, 1, 1, 1, 2, 2, 2}, []int32{0, 1, 3}, ErrIndexOutOfBounds},
		{"index far out of range", []float32{0, 0, 0}, []int32{0, 0, 100}, ErrIndexOutOfBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := PrepareMeshGpuData(tt.positions, tt.indices)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if mesh != nil {
				t.Error("expected nil mesh on error")
			}
		})
	}
}

func TestPrepareFromFlatArrays(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	indices := []int32{0, 1, 2}

	mesh, err := PrepareFromFlatArrays(positions, indices, 3, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mesh.VertexCount() != 3 || mesh.RowCount() != 1 {
		t.Errorf("got %d vertices, %d triangles", mesh.VertexCount(), mesh.RowCount())
	}

	if _, err := PrepareFromFlatArrays(positions, indices, 4, 1); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("vertex count mismatch: expected ErrCountMismatch, got %v", err)
	}
	if _, err := PrepareFromFlatArrays(positions, indices, 3, 2); !errors.Is(err, ErrCountMismatch) {
		t.Errorf("triangle count mismatch: expected ErrCountMismatch, got %v", err)
	}
	if _, err := PrepareFromFlatArrays(positions, []int32{0, 1, 9}, 3, 1); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
}

func TestPrepareMasterMeshData(t *testing.T) {
	positions := []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}
	indices := []int32{0, 1, 2}

	t.Run("with uvs", func(t *testing.T) {
		data, err := PrepareMasterMeshData(positions, []float32{0, 0, 1, 0, 0, 1}, indices)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if data.UVsDefaulted {
			t.Error("UVs should not be defaulted")
		}
		if data.UVs[1] != [2]float32{1, 0} {
			t.Errorf("uv 1: got %v, want [1 0]", data.UVs[1])
		}
	})

	t.Run("missing uvs", func(t *testing.T) {
		data, err := PrepareMasterMeshData(positions, []float32{1, 1}, indices)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !data.UVsDefaulted {
			t.Error("mis-sized UVs should be defaulted")
		}
		for i, uv := range data.UVs {
			if uv != [2]float32{} {
				t.Errorf("uv %d: got %v, want zero", i, uv)
			}
		}
		if len(data.UVs) != 3 {
			t.Errorf("expected 3 uvs, got %d", len(data.UVs))
		}
	})

	t.Run("bad index", func(t *testing.T) {
		if _, err := PrepareMasterMeshData(positions, nil, []int32{0, 1, 3}); !errors.Is(err, ErrIndexOutOfBounds) {
			t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
		}
	})
}

func TestBoundsAndValidate(t *testing.T) {
	mesh := &MeshGpuData{
		Positions: [][3]float32{{-1, 2, 0}, {3, -4, 5}, {0, 0, -2}},
		Indices:   []uint32{0, 1, 2},
		Topology:  Triangles,
	}

	b := mesh.Bounds()
	if b.Min != [3]float32{-1, -4, -2} || b.Max != [3]float32{3, 2, 5} {
		t.Errorf("bounds: got %+v", b)
	}
	if b.Size() != [3]float32{4, 6, 7} {
		t.Errorf("size: got %v", b.Size())
	}
	if err := mesh.Validate(); err != nil {
		t.Errorf("valid mesh failed validation: %v", err)
	}

	mesh.Indices = []uint32{0, 1, 3}
	if err := mesh.Validate(); !errors.Is(err, ErrIndexOutOfBounds) {
		t.Errorf("expected ErrIndexOutOfBounds, got %v", err)
	}
	mesh.Indices = []uint32{0, 1}
	if err := mesh.Validate(); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
}
