package scatter

import "fmt"

// AnalyzeStaticBake prepares named objects for baking into the static
// collection target. Each instruction converts the object to a plain static
// object and reports what the host must fix first: a shared mesh to make
// single-user and an existing rigid body to remove. Unknown names yield
// ERROR_OBJECT_NOT_FOUND, so every name gets exactly one instruction.
func AnalyzeStaticBake(names []string, target string, db ObjectLookup) []Instruction {
	out := make([]Instruction, 0, len(names))
	for _, name := range names {
		obj, ok := db.LookupObject(name)
		if !ok {
			out = append(out, Instruction{
				Action:       ActionErrorObjectNotFound,
				OriginalName: name,
				Reason:       fmt.Sprintf("object %q not found", name),
			})
			continue
		}
		out = append(out, Instruction{
			Action:               ActionConvertToStatic,
			OriginalName:         name,
			TargetCollectionName: target,
			Bake:                 true,
			NeedsMakeSingleUser:  obj.MeshUsers > 1,
			HasRigidBody:         obj.HasRigidBody(),
			CurrentCollections:   append([]string{}, obj.Collections...),
		})
	}
	return out
}
