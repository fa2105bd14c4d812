package scatter

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/physical-layout/pkg/record"
)

// RigidBodySettings describes a physics rigid body.
type RigidBodySettings struct {
	Type             string  `yaml:"type" toml:"type"`
	Mass             float32 `yaml:"mass" toml:"mass"`
	CollisionShape   string  `yaml:"collision_shape" toml:"collision_shape"`
	CollisionMargin  float32 `yaml:"collision_margin" toml:"collision_margin"`
	LinearDamping    float32 `yaml:"linear_damping" toml:"linear_damping"`
	AngularDamping   float32 `yaml:"angular_damping" toml:"angular_damping"`
	Kinematic        bool    `yaml:"kinematic" toml:"kinematic"`
	Enabled          bool    `yaml:"enabled" toml:"enabled"`
	UseDeactivation  bool    `yaml:"use_deactivation" toml:"use_deactivation"`
	StartDeactivated bool    `yaml:"use_start_deactivated" toml:"use_start_deactivated"`
	Friction         float32 `yaml:"friction" toml:"friction"`
	Restitution      float32 `yaml:"restitution" toml:"restitution"`
}

// DefaultRigidBodySettings are the physics engine defaults for a new body.
func DefaultRigidBodySettings() RigidBodySettings {
	return RigidBodySettings{
		Type:            "ACTIVE",
		Mass:            1,
		CollisionShape:  "CONVEX_HULL",
		CollisionMargin: 0.04,
		LinearDamping:   0.1,
		AngularDamping:  0.1,
		Enabled:         true,
		UseDeactivation: true,
		Friction:        0.5,
		Restitution:     0.5,
	}
}

// BatchRigidBodySettings are the settings batch configuration applies to
// scattered objects: a tight margin and heavy damping so piles settle.
func BatchRigidBodySettings() RigidBodySettings {
	s := DefaultRigidBodySettings()
	s.CollisionMargin = 0.001
	s.LinearDamping = 0.6
	s.AngularDamping = 0.6
	return s
}

// DecodeRigidBodySettings reads a settings record over base.
func DecodeRigidBodySettings(r record.Record, base RigidBodySettings) (RigidBodySettings, error) {
	s := base
	for _, f := range []struct {
		dst *string
		key string
	}{
		{&s.Type, "type"},
		{&s.CollisionShape, "collision_shape"},
	} {
		v, ok, err := record.String(r, f.key)
		if err != nil {
			return RigidBodySettings{}, err
		}
		if ok {
			*f.dst = v
		}
	}
	for _, f := range []struct {
		dst *float32
		key string
	}{
		{&s.Mass, "mass"},
		{&s.CollisionMargin, "collision_margin"},
		{&s.LinearDamping, "linear_damping"},
		{&s.AngularDamping, "angular_damping"},
		{&s.Friction, "friction"},
		{&s.Restitution, "restitution"},
	} {
		v, ok, err := record.Float32(r, f.key)
		if err != nil {
			return RigidBodySettings{}, err
		}
		if ok {
			*f.dst = v
		}
	}
	for _, f := range []struct {
		dst *bool
		key string
	}{
		{&s.Kinematic, "kinematic"},
		{&s.Enabled, "enabled"},
		{&s.UseDeactivation, "use_deactivation"},
		{&s.StartDeactivated, "use_start_deactivated"},
	} {
		v, ok, err := record.Bool(r, f.key)
		if err != nil {
			return RigidBodySettings{}, err
		}
		if ok {
			*f.dst = v
		}
	}
	return s, nil
}

// Record returns the settings as a boundary record.
func (s RigidBodySettings) Record() record.Record {
	return record.Record{
		"type":                  s.Type,
		"mass":                  s.Mass,
		"collision_shape":       s.CollisionShape,
		"collision_margin":      s.CollisionMargin,
		"linear_damping":        s.LinearDamping,
		"angular_damping":       s.AngularDamping,
		"kinematic":             s.Kinematic,
		"enabled":               s.Enabled,
		"use_deactivation":      s.UseDeactivation,
		"use_start_deactivated": s.StartDeactivated,
		"friction":              s.Friction,
		"restitution":           s.Restitution,
	}
}

// RigidBodyAnalysis is the pre-bake state of one object.
type RigidBodyAnalysis struct {
	Name                string
	NeedsMakeSingleUser bool
	// Original is the attached rigid body, nil when there is none.
	Original *RigidBodySettings
}

// Record returns the analysis as a boundary record.
func (a RigidBodyAnalysis) Record() record.Record {
	r := record.Record{
		"name":                    a.Name,
		"needs_make_single_user":  a.NeedsMakeSingleUser,
		"has_rigidbody_component": a.Original != nil,
		"original_rb_settings":    nil,
	}
	if a.Original != nil {
		r["original_rb_settings"] = a.Original.Record()
	}
	return r
}

// AnalyzeRigidBodySetup snapshots the rigid-body state of the named objects
// so a physics bake can restore it afterwards. Unknown names are left out.
func AnalyzeRigidBodySetup(names []string, db ObjectLookup) []RigidBodyAnalysis {
	out := make([]RigidBodyAnalysis, 0, len(names))
	for _, name := range names {
		obj, ok := db.LookupObject(name)
		if !ok {
			continue
		}
		a := RigidBodyAnalysis{Name: name, NeedsMakeSingleUser: obj.MeshUsers > 1}
		if obj.RigidBody != nil {
			orig := *obj.RigidBody
			a.Original = &orig
		}
		out = append(out, a)
	}
	return out
}

// ConfigureRigidBodies applies settings to the existing rigid body of every
// named object. It keeps going past failures and returns all of them
// combined; nil means every object was configured.
func ConfigureRigidBodies(names []string, settings RigidBodySettings, db ObjectLookup, phys PhysicsAttacher) error {
	var errs error
	for _, name := range names {
		obj, ok := db.LookupObject(name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrObjectNotFound, name))
			continue
		}
		if !obj.HasRigidBody() {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q", ErrNoRigidBody, name))
			continue
		}
		if err := phys.AttachRigidBody(name, settings); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("configure %q: %w", name, err))
		}
	}
	return errs
}
