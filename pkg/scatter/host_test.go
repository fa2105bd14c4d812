package scatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func testScene() *Scene {
	rb := DefaultRigidBodySettings()
	rb.Mass = 3
	m := identity

	s := NewScene()
	s.AddMesh("Rock", 24)
	s.AddMesh("Empty", 0)
	s.Add(SceneObject{Name: "RockA", MeshID: "Rock", Matrix: &m, Collections: []string{"Scatter", "Props"}})
	s.Add(SceneObject{Name: "RockB", MeshID: "Rock", Matrix: &m, RigidBody: &rb, Collections: []string{"Scatter"}})
	s.Add(SceneObject{Name: "Lonely", MeshID: "Tree", Matrix: &m, Collections: []string{"Scatter"}})
	s.Add(SceneObject{Name: "Ghost", MeshID: "Empty", Matrix: &m, Collections: []string{"Scatter"}})
	return s
}

func TestAnalyzeStaticBake(t *testing.T) {
	s := testScene()
	out := AnalyzeStaticBake([]string{"RockA", "Missing", "RockB", "Lonely"}, "STATIC", s)

	require.Len(t, out, 4)

	assert.Equal(t, ActionConvertToStatic, out[0].Action)
	assert.True(t, out[0].Bake)
	assert.True(t, out[0].NeedsMakeSingleUser)
	assert.False(t, out[0].HasRigidBody)
	assert.Equal(t, []string{"Scatter", "Props"}, out[0].CurrentCollections)
	assert.Equal(t, "STATIC", out[0].TargetCollectionName)

	assert.Equal(t, ActionErrorObjectNotFound, out[1].Action)
	assert.Equal(t, "Missing", out[1].OriginalName)

	assert.True(t, out[2].HasRigidBody)
	assert.False(t, out[3].NeedsMakeSingleUser)

	r := out[3].Record()
	assert.Equal(t, "Lonely", r["name"])
	assert.Equal(t, "STATIC", r["target_collection"])
	assert.Equal(t, []string{"Scatter"}, r["current_collections"])
}

func TestAnalyzeRigidBodySetup(t *testing.T) {
	s := testScene()
	out := AnalyzeRigidBodySetup([]string{"RockA", "Nope", "RockB"}, s)

	require.Len(t, out, 2)
	assert.Nil(t, out[0].Original)
	assert.True(t, out[0].NeedsMakeSingleUser)
	require.NotNil(t, out[1].Original)
	assert.Equal(t, float32(3), out[1].Original.Mass)

	r := out[0].Record()
	assert.Equal(t, false, r["has_rigidbody_component"])
	assert.Nil(t, r["original_rb_settings"])
	assert.NotNil(t, out[1].Record()["original_rb_settings"])
}

type failingAttacher struct {
	*Scene
	fail string
}

func (f failingAttacher) AttachRigidBody(name string, s RigidBodySettings) error {
	if name == f.fail {
		return errors.New("physics world locked")
	}
	return f.Scene.AttachRigidBody(name, s)
}

func TestConfigureRigidBodies(t *testing.T) {
	s := testScene()
	settings := BatchRigidBodySettings()

	require.NoError(t, ConfigureRigidBodies([]string{"RockB"}, settings, s, s))
	obj, _ := s.Object("RockB")
	assert.Equal(t, float32(0.001), obj.RigidBody.CollisionMargin)
	assert.Equal(t, float32(0.6), obj.RigidBody.LinearDamping)

	s.AttachRigidBody("Lonely", DefaultRigidBodySettings())
	err := ConfigureRigidBodies([]string{"RockA", "Missing", "RockB", "Lonely"}, settings, s, failingAttacher{s, "RockB"})
	require.Error(t, err)

	errs := multierr.Errors(err)
	assert.Len(t, errs, 3)
	assert.ErrorIs(t, err, ErrNoRigidBody)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	obj, _ = s.Object("Lonely")
	assert.Equal(t, settings, *obj.RigidBody, "later objects still configured")
}

func TestDecodeRigidBodySettings(t *testing.T) {
	s, err := DecodeRigidBodySettings(map[string]any{"type": "PASSIVE", "mass": 2, "kinematic": true}, DefaultRigidBodySettings())
	require.NoError(t, err)
	assert.Equal(t, "PASSIVE", s.Type)
	assert.Equal(t, float32(2), s.Mass)
	assert.True(t, s.Kinematic)
	assert.Equal(t, "CONVEX_HULL", s.CollisionShape)

	_, err = DecodeRigidBodySettings(map[string]any{"mass": "heavy"}, DefaultRigidBodySettings())
	assert.ErrorIs(t, err, ErrInvalidRecord)
}

func TestDeletionQueue(t *testing.T) {
	q := NewDeletionQueue()

	assert.True(t, q.Mark("a"))
	assert.True(t, q.Mark("b"))
	assert.False(t, q.Mark("a"))
	assert.Equal(t, []string{"a", "b"}, q.Marked())

	q.Clear()
	assert.Zero(t, q.Len())
	assert.True(t, q.Mark("a"), "cleared names can be marked again")
}

func TestDeletionQueueFlush(t *testing.T) {
	s := testScene()
	q := NewDeletionQueue()
	q.Mark("RockA")
	q.Mark("Missing")
	q.Mark("Lonely")

	removed, err := q.Flush(s)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Zero(t, q.Len())

	_, ok := s.Object("RockA")
	assert.False(t, ok)
	assert.Equal(t, []string{"RockB", "Ghost"}, s.InCollection("Scatter"))
}

func TestSceneBatchRoundTrip(t *testing.T) {
	s := testScene()
	names := s.InCollection("Scatter")
	candidates := make([]Candidate, len(names))
	for i, n := range names {
		candidates[i] = s.Candidate(n)
	}

	cfg := DefaultProcessingConfig()
	cfg.ModeIsInstancing = true
	cfg.InstanceCollectionName = "INST"
	out := AnalyzeBatch(candidates, cfg)

	q := NewDeletionQueue()
	var created []string
	for _, in := range out {
		name, err := s.Execute(in, DefaultRigidBodySettings(), q)
		require.NoError(t, err)
		if name != "" {
			created = append(created, name)
		}
	}

	// RockB is rigid and Ghost has an empty mesh
	assert.Equal(t, []string{"RockA_inst", "Lonely_inst"}, created)
	assert.Equal(t, []string{"RockA", "Lonely"}, q.Marked())

	_, err := q.Flush(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"RockA_inst", "Lonely_inst"}, s.InCollection("INST"))

	inst, _ := s.Object("RockA_inst")
	assert.Equal(t, "Rock", inst.MeshID)
}

func TestSceneExecuteStaticAndBake(t *testing.T) {
	s := testScene()
	cfg := DefaultProcessingConfig()
	cfg.ApplyRigidBodyStatic = true

	in := AnalyzeSingle(s.Candidate("RockA"), cfg)
	_, err := s.Execute(in, BatchRigidBodySettings(), nil)
	require.NoError(t, err)

	obj, _ := s.Object("RockA")
	assert.Equal(t, []string{"UnknownStaticCol"}, obj.Collections)
	require.NotNil(t, obj.RigidBody)

	for _, in := range AnalyzeStaticBake([]string{"RockA"}, "BAKED", s) {
		_, err := s.Execute(in, RigidBodySettings{}, nil)
		require.NoError(t, err)
	}
	obj, _ = s.Object("RockA")
	assert.Nil(t, obj.RigidBody)
	assert.Equal(t, []string{"BAKED"}, obj.Collections)
	assert.Equal(t, "Rock.001", obj.MeshID)

	_, err = s.Execute(Instruction{Action: ActionErrorObjectNotFound, OriginalName: "x"}, RigidBodySettings{}, nil)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestSceneUniqueName(t *testing.T) {
	s := testScene()
	assert.Equal(t, "Fresh", s.UniqueName("Fresh"))
	assert.Equal(t, "RockA.001", s.UniqueName("RockA"))

	s.Add(SceneObject{Name: "RockA.001"})
	assert.Equal(t, "RockA.002", s.UniqueName("RockA"))
}
