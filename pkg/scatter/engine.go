package scatter

import "fmt"

const (
	reasonMalformed        = "candidate has no source mesh or world matrix"
	reasonEmptyMesh        = "source mesh has no vertices"
	reasonAlreadyRigid     = "original already has a rigid body, skipping for instancing"
	reasonMeshNotAvailable = "source mesh %q is not available for instancing"
)

// AnalyzeSingle classifies one on-the-fly marker. Instancing creates an
// instance from the source mesh and never deletes an authored object; static
// mode converts the marker, requesting a rigid body when configured.
func AnalyzeSingle(c Candidate, cfg ProcessingConfig) Instruction {
	in := Instruction{OriginalName: c.MarkerName}

	if c.Malformed() {
		return notFound(in)
	}

	if cfg.ModeIsInstancing {
		if !cfg.meshAvailable(c.SourceMeshID) {
			return skip(in, fmt.Sprintf(reasonMeshNotAvailable, c.SourceMeshID))
		}
		return instance(in, ActionCreateInstanceFromSource, c, cfg)
	}
	return static(in, c, cfg, cfg.ApplyRigidBodyStatic)
}

// AnalyzeBatch classifies every candidate of a source collection, one
// instruction per candidate in input order. Instancing replaces the original
// object, so the host must delete it after linking the instance. A rigid body
// is requested at most once: never for an object that already has one.
func AnalyzeBatch(candidates []Candidate, cfg ProcessingConfig) []Instruction {
	out := make([]Instruction, len(candidates))
	for i, c := range candidates {
		out[i] = analyzeBatchOne(c, cfg)
	}
	return out
}

func analyzeBatchOne(c Candidate, cfg ProcessingConfig) Instruction {
	in := Instruction{OriginalName: c.MarkerName}

	switch {
	case c.Malformed():
		return notFound(in)
	case c.VertexCount != nil && *c.VertexCount <= 0:
		return skip(in, reasonEmptyMesh)
	}

	if cfg.ModeIsInstancing {
		if c.HasRigidBody {
			return skip(in, reasonAlreadyRigid)
		}
		if !cfg.meshAvailable(c.SourceMeshID) {
			return skip(in, fmt.Sprintf(reasonMeshNotAvailable, c.SourceMeshID))
		}
		return instance(in, ActionCreateInstanceAndDeleteOriginal, c, cfg)
	}
	return static(in, c, cfg, cfg.ApplyRigidBodyStatic && !c.HasRigidBody)
}

func instance(in Instruction, action Action, c Candidate, cfg ProcessingConfig) Instruction {
	m := *c.WorldMatrix
	in.Action = action
	in.MeshToInstance = c.SourceMeshID
	in.NewInstanceNameBase = c.MarkerName + cfg.InstanceNameBaseSuffix
	in.MatrixWorld = &m
	in.TargetCollectionName = cfg.InstanceCollectionName
	return in
}

func static(in Instruction, c Candidate, cfg ProcessingConfig, addRigidBody bool) Instruction {
	m := *c.WorldMatrix
	in.Action = ActionConvertToStatic
	if addRigidBody {
		in.Action = ActionConvertToStaticRigid
	}
	in.AddRigidBody = addRigidBody
	in.MatrixWorld = &m
	in.TargetCollectionName = cfg.StaticCollectionName
	return in
}

func skip(in Instruction, reason string) Instruction {
	in.Action = ActionSkip
	in.Reason = reason
	return in
}

func notFound(in Instruction) Instruction {
	in.Action = ActionErrorObjectNotFound
	in.Reason = reasonMalformed
	return in
}
