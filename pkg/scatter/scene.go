package scatter

import (
	"fmt"
	"slices"
)

// SceneObject is one object of an in-memory Scene.
type SceneObject struct {
	Name        string             `yaml:"name" toml:"name"`
	MeshID      string             `yaml:"mesh" toml:"mesh"`
	Matrix      *Matrix            `yaml:"matrix_world,omitempty" toml:"matrix_world,omitempty"`
	RigidBody   *RigidBodySettings `yaml:"rigid_body,omitempty" toml:"rigid_body,omitempty"`
	Collections []string           `yaml:"collections" toml:"collections"`
}

// Scene is an in-memory object database implementing the host interfaces.
// The command line tools and tests execute instructions against it.
type Scene struct {
	objects map[string]*SceneObject
	order   []string
	// meshes maps mesh id to vertex count; absent meshes have unknown counts.
	meshes map[string]int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{
		objects: make(map[string]*SceneObject),
		meshes:  make(map[string]int),
	}
}

// AddMesh registers a mesh and its vertex count.
func (s *Scene) AddMesh(id string, vertexCount int) {
	s.meshes[id] = vertexCount
}

// Meshes returns a copy of the mesh table.
func (s *Scene) Meshes() map[string]int {
	out := make(map[string]int, len(s.meshes))
	for id, n := range s.meshes {
		out[id] = n
	}
	return out
}

// Add inserts or replaces an object.
func (s *Scene) Add(obj SceneObject) {
	if _, ok := s.objects[obj.Name]; !ok {
		s.order = append(s.order, obj.Name)
	}
	o := obj
	o.Collections = append([]string(nil), obj.Collections...)
	s.objects[obj.Name] = &o
}

// Object returns a copy of the named object.
func (s *Scene) Object(name string) (SceneObject, bool) {
	o, ok := s.objects[name]
	if !ok {
		return SceneObject{}, false
	}
	return *o, true
}

// Objects returns copies of all objects in insertion order.
func (s *Scene) Objects() []SceneObject {
	out := make([]SceneObject, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.objects[name])
	}
	return out
}

// InCollection returns the names of objects linked to collection, in order.
func (s *Scene) InCollection(collection string) []string {
	var out []string
	for _, name := range s.order {
		if slices.Contains(s.objects[name].Collections, collection) {
			out = append(out, name)
		}
	}
	return out
}

// Candidate builds the analysis candidate for an object. Unknown names give a
// malformed candidate.
func (s *Scene) Candidate(name string) Candidate {
	o, ok := s.objects[name]
	if !ok {
		return Candidate{MarkerName: name}
	}
	c := Candidate{
		MarkerName:   o.Name,
		SourceMeshID: o.MeshID,
		HasRigidBody: o.RigidBody != nil,
	}
	if o.Matrix != nil {
		m := *o.Matrix
		c.WorldMatrix = &m
	}
	if n, ok := s.meshes[o.MeshID]; ok {
		c.VertexCount = &n
	}
	return c
}

// LookupObject implements ObjectLookup.
func (s *Scene) LookupObject(name string) (ObjectInfo, bool) {
	o, ok := s.objects[name]
	if !ok {
		return ObjectInfo{}, false
	}
	info := ObjectInfo{
		Name:        o.Name,
		MeshID:      o.MeshID,
		MeshUsers:   s.meshUsers(o.MeshID),
		Collections: append([]string(nil), o.Collections...),
	}
	if o.RigidBody != nil {
		rb := *o.RigidBody
		info.RigidBody = &rb
	}
	return info, true
}

// AttachRigidBody implements PhysicsAttacher.
func (s *Scene) AttachRigidBody(name string, rb RigidBodySettings) error {
	o, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	o.RigidBody = &rb
	return nil
}

// DetachRigidBody implements PhysicsAttacher.
func (s *Scene) DetachRigidBody(name string) error {
	o, ok := s.objects[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	o.RigidBody = nil
	return nil
}

// RemoveObject implements ObjectRemover.
func (s *Scene) RemoveObject(name string) error {
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("%w: %q", ErrObjectNotFound, name)
	}
	delete(s.objects, name)
	s.order = slices.DeleteFunc(s.order, func(n string) bool { return n == name })
	return nil
}

// UniqueName returns base, or base with the lowest free .NNN suffix.
func (s *Scene) UniqueName(base string) string {
	if _, taken := s.objects[base]; !taken {
		return base
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s.%03d", base, i)
		if _, taken := s.objects[name]; !taken {
			return name
		}
	}
}

func (s *Scene) meshUsers(id string) int {
	n := 0
	for _, o := range s.objects {
		if o.MeshID == id {
			n++
		}
	}
	return n
}

func (s *Scene) uniqueMeshID(base string) string {
	taken := func(id string) bool {
		if _, ok := s.meshes[id]; ok {
			return true
		}
		return s.meshUsers(id) > 0
	}
	for i := 1; ; i++ {
		id := fmt.Sprintf("%s.%03d", base, i)
		if !taken(id) {
			return id
		}
	}
}

// Execute applies one instruction. Objects the instruction retires (markers
// and instanced originals) are queued on q rather than removed; a nil q keeps
// them. It returns
// the name of the object that carries the result, empty for SKIP.
func (s *Scene) Execute(in Instruction, rb RigidBodySettings, q *DeletionQueue) (string, error) {
	switch {
	case in.Action == ActionSkip:
		return "", nil
	case in.Action == ActionErrorObjectNotFound:
		return "", fmt.Errorf("%w: %q: %s", ErrObjectNotFound, in.OriginalName, in.Reason)
	case in.Bake:
		return s.executeBake(in)
	case in.Action.CreatesInstance():
		return s.executeInstance(in, q)
	case in.Action.ConvertsToStatic():
		return s.executeStatic(in, rb)
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidRecord, in.Action)
	}
}

func (s *Scene) executeInstance(in Instruction, q *DeletionQueue) (string, error) {
	if in.MatrixWorld == nil {
		return "", fmt.Errorf("%w: instance of %q without matrix", ErrInvalidRecord, in.OriginalName)
	}
	name := s.UniqueName(in.NewInstanceNameBase)
	m := *in.MatrixWorld
	s.Add(SceneObject{
		Name:        name,
		MeshID:      in.MeshToInstance,
		Matrix:      &m,
		Collections: []string{in.TargetCollectionName},
	})
	if _, ok := s.objects[in.OriginalName]; ok && q != nil {
		q.Mark(in.OriginalName)
	}
	return name, nil
}

func (s *Scene) executeStatic(in Instruction, rb RigidBodySettings) (string, error) {
	o, ok := s.objects[in.OriginalName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrObjectNotFound, in.OriginalName)
	}
	if in.MatrixWorld != nil {
		m := *in.MatrixWorld
		o.Matrix = &m
	}
	o.Collections = []string{in.TargetCollectionName}
	if in.AddRigidBody {
		o.RigidBody = &rb
	}
	return o.Name, nil
}

func (s *Scene) executeBake(in Instruction) (string, error) {
	o, ok := s.objects[in.OriginalName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrObjectNotFound, in.OriginalName)
	}
	if in.HasRigidBody {
		o.RigidBody = nil
	}
	if in.NeedsMakeSingleUser && s.meshUsers(o.MeshID) > 1 {
		id := s.uniqueMeshID(o.MeshID)
		if n, ok := s.meshes[o.MeshID]; ok {
			s.meshes[id] = n
		}
		o.MeshID = id
	}
	o.Collections = []string{in.TargetCollectionName}
	return o.Name, nil
}
