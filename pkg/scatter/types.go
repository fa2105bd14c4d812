// Package scatter classifies placed scatter candidates into instructions the
// host executes against its object database: create a GPU-shareable instance
// of a source mesh, convert the marker into a static object (optionally with a
// rigid body), or skip it.
//
// Analysis is pure. Nothing survives between calls, so the same candidate and
// config always yield the same instruction; any name uniqueness is the host's
// job.
package scatter

import (
	"errors"
	"fmt"
	"slices"
)

// ErrObjectNotFound reports a name the host object database does not know.
var ErrObjectNotFound = errors.New("object not found")

// ErrNoRigidBody reports a rigid-body operation on an object without one.
var ErrNoRigidBody = errors.New("object has no rigid body")

// Action is the outcome of classifying one candidate.
type Action string

const (
	ActionCreateInstanceFromSource        Action = "CREATE_INSTANCE_FROM_SOURCE"
	ActionCreateInstanceAndDeleteOriginal Action = "CREATE_INSTANCE_AND_DELETE_ORIGINAL"
	ActionConvertToStatic                 Action = "CONVERT_MARKER_TO_STATIC"
	ActionConvertToStaticRigid            Action = "CONVERT_MARKER_TO_STATIC_RIGID"
	ActionSkip                            Action = "SKIP"
	ActionErrorObjectNotFound             Action = "ERROR_OBJECT_NOT_FOUND"
)

// CreatesInstance reports whether the action links a mesh instance.
func (a Action) CreatesInstance() bool {
	return a == ActionCreateInstanceFromSource || a == ActionCreateInstanceAndDeleteOriginal
}

// ConvertsToStatic reports whether the action converts to a static object.
func (a Action) ConvertsToStatic() bool {
	return a == ActionConvertToStatic || a == ActionConvertToStaticRigid
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionCreateInstanceFromSource, ActionCreateInstanceAndDeleteOriginal,
		ActionConvertToStatic, ActionConvertToStaticRigid,
		ActionSkip, ActionErrorObjectNotFound:
		return true
	}
	return false
}

// Matrix is a 4x4 transform in row-major order, as exchanged with the host.
type Matrix = [16]float32

// Candidate is one placed object under evaluation.
type Candidate struct {
	MarkerName   string
	SourceMeshID string
	// WorldMatrix is nil when the host could not supply one.
	WorldMatrix  *Matrix
	HasRigidBody bool
	// VertexCount is the source mesh vertex count when the host checked it,
	// nil otherwise.
	VertexCount *int
}

// Malformed reports whether the candidate lacks a mesh or a matrix.
func (c Candidate) Malformed() bool {
	return c.SourceMeshID == "" || c.WorldMatrix == nil
}

// ProcessingConfig holds the global settings of one classification pass.
type ProcessingConfig struct {
	ModeIsInstancing       bool   `yaml:"mode_is_instancing" toml:"mode_is_instancing"`
	ApplyRigidBodyStatic   bool   `yaml:"apply_rigidbody_static" toml:"apply_rigidbody_static"`
	InstanceCollectionName string `yaml:"instance_collection_name" toml:"instance_collection_name"`
	StaticCollectionName   string `yaml:"static_collection_name" toml:"static_collection_name"`
	InstanceNameBaseSuffix string `yaml:"instance_name_base_suffix" toml:"instance_name_base_suffix"`
	// AvailableMeshes, when non-empty, lists the source meshes instancing may
	// bind. Candidates referencing any other mesh are skipped.
	AvailableMeshes []string `yaml:"available_meshes,omitempty" toml:"available_meshes,omitempty"`
}

// DefaultProcessingConfig returns the settings used for absent record keys.
func DefaultProcessingConfig() ProcessingConfig {
	return ProcessingConfig{
		InstanceCollectionName: "UnknownInstanceCol",
		StaticCollectionName:   "UnknownStaticCol",
		InstanceNameBaseSuffix: "_inst",
	}
}

func (c ProcessingConfig) meshAvailable(id string) bool {
	return len(c.AvailableMeshes) == 0 || slices.Contains(c.AvailableMeshes, id)
}

// Instruction is the engine output for one candidate.
type Instruction struct {
	Action       Action
	OriginalName string

	MeshToInstance       string
	NewInstanceNameBase  string
	MatrixWorld          *Matrix
	TargetCollectionName string
	AddRigidBody         bool
	Reason               string

	// Bake marks a static-bake instruction; the fields below are set only then.
	Bake                bool
	NeedsMakeSingleUser bool
	HasRigidBody        bool
	CurrentCollections  []string
}

// String is a one-line summary for logs.
func (in Instruction) String() string {
	if in.Reason != "" {
		return fmt.Sprintf("%s %s (%s)", in.Action, in.OriginalName, in.Reason)
	}
	return fmt.Sprintf("%s %s -> %s", in.Action, in.OriginalName, in.TargetCollectionName)
}
