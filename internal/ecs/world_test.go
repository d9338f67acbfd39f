package ecs

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

func TestNewWorld(t *testing.T) {
	w := NewWorld()

	assert.NotNil(t, w)
	assert.Equal(t, EntityID(1), w.nextID)
	assert.NotNil(t, w.Transform)
	assert.NotNil(t, w.Collider)
	assert.NotNil(t, w.Rigidbody)
	assert.Empty(t, w.Entities())
}

func TestNewEntity(t *testing.T) {
	w := NewWorld()

	id1 := w.NewEntity()
	id2 := w.NewEntity()
	id3 := w.NewEntity()

	assert.Equal(t, EntityID(1), id1)
	assert.Equal(t, EntityID(2), id2)
	assert.Equal(t, EntityID(3), id3)
	assert.Equal(t, EntityID(4), w.nextID)
	assert.Equal(t, []EntityID{1, 2, 3}, w.Entities())
}

func TestEntityIDNeverRecycled(t *testing.T) {
	w := NewWorld()

	id1 := w.CreateBox(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerDefault)
	w.DestroyEntity(id1)

	id2 := w.NewEntity()
	assert.NotEqual(t, id1, id2, "Entity IDs should never be recycled")
	assert.Equal(t, EntityID(2), id2)
}

func TestDestroyEntity(t *testing.T) {
	w := NewWorld()
	box := w.CreateBox(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerDefault)
	w.AttachRigidbody(box, 2, true)
	w.AttachSlider(box, Slider{To: mgl64.Vec3{0, 1, 0}, Duration: 1})
	agent := w.CreateAgent(mgl64.Vec3{0, 2, 0}, 0.5, 1)

	w.DestroyEntity(box)

	assert.False(t, w.Exists(box))
	assert.NotContains(t, w.Collider, box)
	assert.NotContains(t, w.Rigidbody, box)
	assert.NotContains(t, w.Slider, box)
	assert.Equal(t, []EntityID{agent}, w.Entities())

	w.DestroyEntity(agent)
	assert.Equal(t, EntityID(0), w.AgentID)
}

func TestCreateTriggerAndZone(t *testing.T) {
	w := NewWorld()

	water := w.CreateTrigger(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerWater)
	zone := w.CreateZone(mgl64.Vec3{5, 0, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, AccelerationZone{Speed: 12})

	assert.True(t, w.Collider[water].Trigger)
	assert.Equal(t, entity.LayerWater, w.Collider[water].Layer)
	assert.True(t, w.Collider[zone].Trigger)
	assert.Equal(t, entity.LayerZone, w.Collider[zone].Layer)
	assert.Equal(t, 12.0, w.Zone[zone].Speed)
}

func TestCreateBox_NormalizesRotation(t *testing.T) {
	w := NewWorld()

	id := w.CreateBox(mgl64.Vec3{}, mgl64.Quat{}, mgl64.Vec3{1, 1, 1}, entity.LayerDefault)
	assert.Equal(t, mgl64.QuatIdent(), w.Transform[id].Rotation)

	q := mgl64.Quat{W: 2}
	id = w.CreateBox(mgl64.Vec3{}, q, mgl64.Vec3{1, 1, 1}, entity.LayerDefault)
	assert.InDelta(t, 1.0, w.Transform[id].Rotation.Len(), 1e-12)
}

func TestBody(t *testing.T) {
	w := NewWorld()
	static := w.CreateBox(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerDefault)
	lift := w.CreateBox(mgl64.Vec3{0, 3, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 0.25, 1}, entity.LayerDefault)
	w.AttachRigidbody(lift, 10, true)

	assert.Nil(t, w.Body(static))

	b := w.Body(lift)
	require.NotNil(t, b)
	assert.Equal(t, b, w.Body(lift), "handles to the same body must compare equal")
	assert.True(t, b.IsKinematic())
	assert.Equal(t, 10.0, b.Mass())
	assert.Equal(t, mgl64.Vec3{1, 3, 0}, b.TransformPoint(mgl64.Vec3{1, 0, 0}))
	assert.Equal(t, mgl64.Vec3{1, -3, 0}, b.InverseTransformPoint(mgl64.Vec3{1, 0, 0}))
}

func TestAttachSlider_MovesToStart(t *testing.T) {
	w := NewWorld()
	id := w.CreateBox(mgl64.Vec3{9, 9, 9}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerDefault)

	w.AttachSlider(id, Slider{From: mgl64.Vec3{1, 2, 3}, To: mgl64.Vec3{1, 5, 3}, Duration: 1})

	assert.Equal(t, mgl64.Vec3{1, 2, 3}, w.Transform[id].Position)
}

func TestAgentRef(t *testing.T) {
	w := NewWorld()
	w.CreateAgent(mgl64.Vec3{0, 1, 0}, 0.5, 2)
	agent := w.Agent()

	assert.Equal(t, mgl64.Vec3{0, 1, 0}, agent.Position())
	assert.Equal(t, 0.5, agent.Radius())
	assert.Equal(t, 2.0, agent.Mass())

	agent.SetVelocity(mgl64.Vec3{3, 0, 0})
	assert.Equal(t, mgl64.Vec3{3, 0, 0}, agent.Velocity())

	agent.Teleport(mgl64.Vec3{5, 5, 5})
	assert.Equal(t, mgl64.Vec3{5, 5, 5}, agent.Position())
	assert.Equal(t, mgl64.Vec3{}, agent.Velocity())
}

func TestTransform(t *testing.T) {
	tr := Transform{
		Position: mgl64.Vec3{1, 2, 3},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}),
	}

	got := tr.TransformPoint(mgl64.Vec3{1, 0, 0})
	assert.True(t, mgl64.Vec3{1, 2, 2}.ApproxEqualThreshold(got, 1e-9), "got %v", got)

	p := mgl64.Vec3{0.3, -4, 7}
	back := tr.InverseTransformPoint(tr.TransformPoint(p))
	assert.True(t, p.ApproxEqualThreshold(back, 1e-9), "got %v", back)

	d := mgl64.Vec3{0, 0, 1}
	assert.True(t, d.ApproxEqualThreshold(tr.InverseTransformDirection(tr.TransformDirection(d)), 1e-9))
}
