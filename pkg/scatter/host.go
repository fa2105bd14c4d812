package scatter

// ObjectInfo is what the host object database reports about one object.
type ObjectInfo struct {
	Name   string
	MeshID string
	// MeshUsers counts the objects sharing MeshID, this one included.
	MeshUsers   int
	RigidBody   *RigidBodySettings
	Collections []string
}

// HasRigidBody reports whether a rigid body is attached.
func (o ObjectInfo) HasRigidBody() bool {
	return o.RigidBody != nil
}

// ObjectLookup reads the host object database by name.
type ObjectLookup interface {
	LookupObject(name string) (ObjectInfo, bool)
}

// PhysicsAttacher attaches and detaches rigid bodies on named objects.
// Attaching to an object that already has a rigid body replaces its settings.
type PhysicsAttacher interface {
	AttachRigidBody(name string, s RigidBodySettings) error
	DetachRigidBody(name string) error
}

// ObjectRemover removes named objects from the host database. Removing an
// unknown name returns an error wrapping ErrObjectNotFound.
type ObjectRemover interface {
	RemoveObject(name string) error
}
