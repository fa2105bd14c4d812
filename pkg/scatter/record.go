package scatter

import (
	"fmt"

	"github.com/Faultbox/physical-layout/pkg/record"
)

// ErrInvalidRecord reports a record field of the wrong type or shape.
var ErrInvalidRecord = record.ErrInvalidRecord

// Record key aliases. The first key of each list is canonical.
var (
	keysMarkerName   = []string{"marker_name", "original_marker_name", "name"}
	keysSourceMesh   = []string{"source_mesh_id", "source_mesh_name", "mesh_name"}
	keysWorldMatrix  = []string{"world_matrix", "matrix_world"}
	keysHasRigidBody = []string{"has_rigid_body", "has_rigidbody"}
	keysVertexCount  = []string{"vertex_count"}
)

// DecodeCandidate reads a candidate record. Missing fields leave the candidate
// malformed, which analysis reports in-band; fields of the wrong type fail with
// ErrInvalidRecord.
func DecodeCandidate(r record.Record) (Candidate, error) {
	var c Candidate
	var err error

	if c.MarkerName, _, err = record.String(r, keysMarkerName...); err != nil {
		return Candidate{}, err
	}
	if c.SourceMeshID, _, err = record.String(r, keysSourceMesh...); err != nil {
		return Candidate{}, err
	}
	if c.WorldMatrix, err = record.Matrix(r, keysWorldMatrix...); err != nil {
		return Candidate{}, err
	}
	if c.HasRigidBody, _, err = record.Bool(r, keysHasRigidBody...); err != nil {
		return Candidate{}, err
	}
	n, ok, err := record.Int(r, keysVertexCount...)
	if err != nil {
		return Candidate{}, err
	}
	if ok {
		c.VertexCount = &n
	}
	return c, nil
}

// DecodeCandidates reads a list of candidate records.
func DecodeCandidates(rs []record.Record) ([]Candidate, error) {
	out := make([]Candidate, len(rs))
	for i, r := range rs {
		c, err := DecodeCandidate(r)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// DecodeConfig reads a processing config record over DefaultProcessingConfig.
func DecodeConfig(r record.Record) (ProcessingConfig, error) {
	cfg := DefaultProcessingConfig()

	bools := []struct {
		dst *bool
		key string
	}{
		{&cfg.ModeIsInstancing, "mode_is_instancing"},
		{&cfg.ApplyRigidBodyStatic, "apply_rigidbody_static"},
	}
	for _, f := range bools {
		v, ok, err := record.Bool(r, f.key)
		if err != nil {
			return ProcessingConfig{}, err
		}
		if ok {
			*f.dst = v
		}
	}

	strs := []struct {
		dst *string
		key string
	}{
		{&cfg.InstanceCollectionName, "instance_collection_name"},
		{&cfg.StaticCollectionName, "static_collection_name"},
		{&cfg.InstanceNameBaseSuffix, "instance_name_base_suffix"},
	}
	for _, f := range strs {
		v, ok, err := record.String(r, f.key)
		if err != nil {
			return ProcessingConfig{}, err
		}
		if ok {
			*f.dst = v
		}
	}

	meshes, _, err := record.Strings(r, "available_meshes")
	if err != nil {
		return ProcessingConfig{}, err
	}
	cfg.AvailableMeshes = meshes
	return cfg, nil
}

// Record returns the instruction as a boundary record. Only the fields that
// belong to the action are present.
func (in Instruction) Record() record.Record {
	r := record.Record{
		"action":               string(in.Action),
		"original_name":        in.OriginalName,
		"original_marker_name": in.OriginalName,
	}

	switch {
	case in.Action.CreatesInstance():
		r["mesh_to_instance"] = in.MeshToInstance
		r["new_instance_name_base"] = in.NewInstanceNameBase
		r["target_collection_name"] = in.TargetCollectionName
	case in.Action.ConvertsToStatic():
		r["target_collection_name"] = in.TargetCollectionName
		r["add_rigidbody"] = in.AddRigidBody
	}
	if in.MatrixWorld != nil {
		r["matrix_world"] = append([]float32(nil), in.MatrixWorld[:]...)
	}
	if in.Reason != "" {
		r["reason"] = in.Reason
	}
	if in.Bake {
		r["name"] = in.OriginalName
		r["target_collection"] = in.TargetCollectionName
		r["needs_make_single_user"] = in.NeedsMakeSingleUser
		r["has_rigidbody"] = in.HasRigidBody
		r["current_collections"] = append([]string{}, in.CurrentCollections...)
	}
	return r
}

// Records converts a slice of instructions.
func Records(ins []Instruction) []record.Record {
	out := make([]record.Record, len(ins))
	for i, in := range ins {
		out[i] = in.Record()
	}
	return out
}

// Record returns the config as a boundary record DecodeConfig reads back.
func (c ProcessingConfig) Record() record.Record {
	r := record.Record{
		"mode_is_instancing":        c.ModeIsInstancing,
		"apply_rigidbody_static":    c.ApplyRigidBodyStatic,
		"instance_collection_name":  c.InstanceCollectionName,
		"static_collection_name":    c.StaticCollectionName,
		"instance_name_base_suffix": c.InstanceNameBaseSuffix,
	}
	if len(c.AvailableMeshes) > 0 {
		r["available_meshes"] = append([]string(nil), c.AvailableMeshes...)
	}
	return r
}
