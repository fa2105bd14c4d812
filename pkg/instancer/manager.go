// Package instancer keeps the transforms of instanced copies of one master
// mesh, a CPU-side list mirrored into a GPU-visible Buffer.
//
// Two update paths exist. The atomic calls (AddInstanceOnGPU,
// UpdateSingleInstanceOnGPU) write one instance through to the buffer and
// suit a preview ghost that moves every frame. The batch path (AddInstance or
// UpdateInstance followed by UploadTransforms) touches the buffer once for any
// number of changes and suits bulk scattering.
//
// A Manager is not safe for concurrent use.
package instancer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/physical-layout/pkg/geometry"
)

var (
	// ErrInvalidInstanceID reports an id outside [0, InstanceCount).
	ErrInvalidInstanceID = errors.New("invalid instance id")
	// ErrInvalidMatrix reports matrix data that is not a whole number of 4x4 matrices.
	ErrInvalidMatrix = errors.New("invalid matrix data")
	// ErrEmptyMasterMesh reports a master mesh without vertices or indices.
	ErrEmptyMasterMesh = errors.New("empty master mesh")
)

// NoGhost is the ghost id of a manager without a ghost instance.
const NoGhost = -1

// Matrix is a 4x4 instance transform, row-major.
type Matrix = [16]float32

// MatrixFromSlice copies 16 floats into a Matrix.
func MatrixFromSlice(flat []float32) (Matrix, error) {
	var m Matrix
	if len(flat) != len(m) {
		return m, fmt.Errorf("%w: matrix needs 16 floats, got %d", ErrInvalidMatrix, len(flat))
	}
	copy(m[:], flat)
	return m, nil
}

// Manager owns the instance list of one master mesh.
type Manager struct {
	shaderName string
	matrices   []Matrix
	buf        Buffer

	master       *geometry.MasterMeshData
	ghostEnabled bool
	ghostID      int

	log *zap.Logger
}

// NewManager returns an empty manager writing to buf. A nil buf selects a
// MemoryBuffer and a nil log discards diagnostics.
func NewManager(shaderName string, buf Buffer, log *zap.Logger) *Manager {
	if buf == nil {
		buf = NewMemoryBuffer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		shaderName: shaderName,
		buf:        buf,
		ghostID:    NoGhost,
		log:        log.With(zap.String("shader", shaderName)),
	}
}

// ShaderName returns the shader the instances are drawn with.
func (m *Manager) ShaderName() string {
	return m.shaderName
}

// Buffer returns the GPU-visible buffer.
func (m *Manager) Buffer() Buffer {
	return m.buf
}

// SetupMasterMesh sets the mesh every instance draws and reserves buffer room
// for initialMax instances.
func (m *Manager) SetupMasterMesh(mesh *geometry.MasterMeshData, initialMax int) error {
	if mesh == nil || mesh.VertexCount() == 0 || len(mesh.Indices) == 0 {
		return ErrEmptyMasterMesh
	}
	if err := mesh.Validate(); err != nil {
		return fmt.Errorf("master mesh: %w", err)
	}
	if err := m.buf.Reserve(max(initialMax, 0)); err != nil {
		return fmt.Errorf("reserve %d instances: %w", initialMax, err)
	}
	m.master = mesh
	m.log.Debug("master mesh set",
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("rows", mesh.RowCount()),
		zap.Int("initial_max", initialMax))
	return nil
}

// MasterMesh returns the mesh set by SetupMasterMesh, nil before.
func (m *Manager) MasterMesh() *geometry.MasterMeshData {
	return m.master
}

// AddInstance appends to the CPU-side list only and returns the new id.
// The buffer sees it after the next UploadTransforms.
func (m *Manager) AddInstance(mat Matrix) int {
	m.matrices = append(m.matrices, mat)
	return len(m.matrices) - 1
}

// AddInstanceOnGPU appends and writes the instance through to the buffer.
func (m *Manager) AddInstanceOnGPU(mat Matrix) (int, error) {
	id := m.AddInstance(mat)
	if err := m.writeThrough(id); err != nil {
		m.matrices = m.matrices[:id]
		return 0, err
	}
	return id, nil
}

// UpdateInstance overwrites the matrix at id in the CPU-side list only.
func (m *Manager) UpdateInstance(id int, mat Matrix) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	m.matrices[id] = mat
	return nil
}

// UpdateSingleInstanceOnGPU overwrites the matrix at id and writes it through
// to the buffer.
func (m *Manager) UpdateSingleInstanceOnGPU(id int, mat Matrix) error {
	if err := m.UpdateInstance(id, mat); err != nil {
		return err
	}
	return m.writeThrough(id)
}

// writeThrough pushes instance id. When batch additions have not been
// uploaded yet the buffer is behind the list and gets the whole list instead.
func (m *Manager) writeThrough(id int) error {
	if id > m.buf.Len() {
		return m.UploadTransforms()
	}
	if err := m.buf.Write(id, m.matrices[id]); err != nil {
		return fmt.Errorf("write instance %d: %w", id, err)
	}
	return nil
}

// UploadTransforms pushes the whole CPU-side list to the buffer in one call.
func (m *Manager) UploadTransforms() error {
	if err := m.buf.Upload(m.matrices); err != nil {
		return fmt.Errorf("upload %d instances: %w", len(m.matrices), err)
	}
	return nil
}

// ReplaceTransforms replaces the list with n matrices read from flat and
// uploads it. A negative n is ignored.
func (m *Manager) ReplaceTransforms(flat []float32, n int) error {
	if n < 0 {
		return nil
	}
	if len(flat) != n*16 {
		return fmt.Errorf("%w: %d floats for %d matrices", ErrInvalidMatrix, len(flat), n)
	}
	list := make([]Matrix, n)
	for i := range list {
		copy(list[i][:], flat[i*16:(i+1)*16])
	}
	m.matrices = list
	return m.UploadTransforms()
}

// InstanceCount returns the number of instances in the CPU-side list.
func (m *Manager) InstanceCount() int {
	return len(m.matrices)
}

// AllInstanceMatrices returns a copy of the CPU-side list, indexed by id.
func (m *Manager) AllInstanceMatrices() []Matrix {
	return append([]Matrix(nil), m.matrices...)
}

// SetGhostMode marks instance ghostID as an uncommitted preview. Disabling,
// or passing NoGhost, clears the marker.
func (m *Manager) SetGhostMode(enabled bool, ghostID int) {
	m.ghostEnabled = enabled
	m.ghostID = NoGhost
	if enabled && ghostID >= 0 {
		m.ghostID = ghostID
	}
}

// Ghost reports whether ghost mode is on and which instance is the ghost.
func (m *Manager) Ghost() (enabled bool, id int) {
	return m.ghostEnabled, m.ghostID
}

// ClearInstances empties the list and the buffer. Issued ids become invalid
// and numbering restarts at 0; the ghost marker is dropped with them.
func (m *Manager) ClearInstances() error {
	m.matrices = m.matrices[:0]
	m.ghostEnabled, m.ghostID = false, NoGhost
	if err := m.buf.Upload(nil); err != nil {
		return fmt.Errorf("clear instance buffer: %w", err)
	}
	return nil
}

// ValidateDraw checks the camera matrices of a draw of n instances and
// returns how many instances the draw covers.
func (m *Manager) ValidateDraw(n int, view, proj []float32) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if len(view) != 16 {
		return 0, fmt.Errorf("%w: view matrix needs 16 floats, got %d", ErrInvalidMatrix, len(view))
	}
	if len(proj) != 16 {
		return 0, fmt.Errorf("%w: projection matrix needs 16 floats, got %d", ErrInvalidMatrix, len(proj))
	}
	return min(n, m.buf.Len()), nil
}

// Close releases the buffer.
func (m *Manager) Close() error {
	m.matrices = nil
	m.master = nil
	return m.buf.Close()
}

func (m *Manager) checkID(id int) error {
	if id < 0 || id >= len(m.matrices) {
		return fmt.Errorf("%w: %d (count %d)", ErrInvalidInstanceID, id, len(m.matrices))
	}
	return nil
}
