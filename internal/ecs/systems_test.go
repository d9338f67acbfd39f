package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

const dt = 0.02

func assertVec(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-6), "want %v, got %v", want, got)
}

// createFloorWorld returns a world with a floor whose top face is at y=0.
func createFloorWorld() (*World, EntityID) {
	w := NewWorld()
	floor := w.CreateBox(mgl64.Vec3{0, -0.5, 0}, mgl64.QuatIdent(), mgl64.Vec3{10, 0.5, 10}, entity.LayerDefault)
	return w, floor
}

func TestStepSphere_LandsOnFloor(t *testing.T) {
	w, _ := createFloorWorld()
	id := w.CreateAgent(mgl64.Vec3{0, 0.5, 0}, 0.5, 1)
	w.Agent().SetVelocity(mgl64.Vec3{1, -0.2, 0})

	step := StepSphere(w, id, dt)

	require.Len(t, step.Contacts, 1)
	assertVec(t, mgl64.Vec3{0, 1, 0}, step.Contacts[0].Normal)
	assert.Nil(t, step.Contacts[0].Body)
	assert.Equal(t, entity.LayerDefault, step.Contacts[0].Layer)
	assert.InDelta(t, 0.5, w.Agent().Position().Y(), 1e-9)
	assert.InDelta(t, 0.02, w.Agent().Position().X(), 1e-9)
	assertVec(t, mgl64.Vec3{1, 0, 0}, w.Agent().Velocity())
	assert.Empty(t, step.Triggers)
}

func TestStepSphere_RestingKeepsContact(t *testing.T) {
	w, _ := createFloorWorld()
	id := w.CreateAgent(mgl64.Vec3{0, 0.5, 0}, 0.5, 1)

	for i := 0; i < 10; i++ {
		step := StepSphere(w, id, dt)
		require.Len(t, step.Contacts, 1, "step %d", i)
	}
	assert.InDelta(t, 0.5, w.Agent().Position().Y(), 1e-9)
}

func TestStepSphere_Airborne(t *testing.T) {
	w, _ := createFloorWorld()
	id := w.CreateAgent(mgl64.Vec3{0, 5, 0}, 0.5, 1)
	w.Agent().SetVelocity(mgl64.Vec3{1, 0, 0})

	step := StepSphere(w, id, dt)

	assert.Empty(t, step.Contacts)
	assertVec(t, mgl64.Vec3{0.02, 5, 0}, w.Agent().Position())
}

func TestStepSphere_Wall(t *testing.T) {
	w := NewWorld()
	w.CreateBox(mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent(), mgl64.Vec3{0.5, 5, 5}, entity.LayerClimb)
	id := w.CreateAgent(mgl64.Vec3{1.1, 0, 0}, 0.5, 1)
	w.Agent().SetVelocity(mgl64.Vec3{2, 1, 0})

	step := StepSphere(w, id, dt)

	require.Len(t, step.Contacts, 1)
	assertVec(t, mgl64.Vec3{-1, 0, 0}, step.Contacts[0].Normal)
	assert.Equal(t, entity.LayerClimb, step.Contacts[0].Layer)
	assert.InDelta(t, 1.0, w.Agent().Position().X(), 1e-9)
	assertVec(t, mgl64.Vec3{0, 1, 0}, w.Agent().Velocity())
}

func TestStepSphere_RotatedRamp(t *testing.T) {
	w := NewWorld()
	rot := mgl64.QuatRotate(mgl64.DegToRad(30), mgl64.Vec3{0, 0, 1})
	w.CreateBox(mgl64.Vec3{}, rot, mgl64.Vec3{5, 0.5, 5}, entity.LayerDefault)
	normal := rot.Rotate(mgl64.Vec3{0, 1, 0})
	id := w.CreateAgent(normal.Mul(1), 0.5, 1)
	w.Agent().SetVelocity(normal.Mul(-0.1))

	step := StepSphere(w, id, dt)

	require.Len(t, step.Contacts, 1)
	assertVec(t, normal, step.Contacts[0].Normal)
	assert.Greater(t, normal.Dot(mgl64.Vec3{0, 1, 0}), 0.8)
}

func TestStepSphere_MovingPlatform(t *testing.T) {
	w, _ := createFloorWorld()
	lift := w.CreateBox(mgl64.Vec3{0, 0.25, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 0.25, 1}, entity.LayerDefault)
	w.AttachRigidbody(lift, 10, true)
	rb := w.Rigidbody[lift]
	rb.Velocity = mgl64.Vec3{0, 1, 0}
	w.Rigidbody[lift] = rb
	id := w.CreateAgent(mgl64.Vec3{0, 1, 0}, 0.5, 1)

	step := StepSphere(w, id, dt)

	var onLift bool
	for _, c := range step.Contacts {
		if c.Body == w.Body(lift) {
			onLift = true
		}
	}
	assert.True(t, onLift)
	assertVec(t, mgl64.Vec3{0, 1, 0}, w.Agent().Velocity())
}

func TestStepSphere_Triggers(t *testing.T) {
	w, _ := createFloorWorld()
	water := w.CreateTrigger(mgl64.Vec3{0, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{2, 1, 2}, entity.LayerWater)
	w.CreateTrigger(mgl64.Vec3{20, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerWater)
	id := w.CreateAgent(mgl64.Vec3{0, 1, 0}, 0.5, 1)

	step := StepSphere(w, id, dt)

	assert.Equal(t, []EntityID{water}, step.Triggers)
	assert.InDelta(t, 1.0, w.Agent().Position().Y(), 1e-9, "triggers must not push")
}

func TestRaycast(t *testing.T) {
	w, _ := createFloorWorld()
	w.CreateBox(mgl64.Vec3{5, 2, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 0.5, 1}, entity.LayerStairs)
	w.CreateTrigger(mgl64.Vec3{-5, 1, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}, entity.LayerWater)
	all := entity.MaskOf(entity.LayerDefault, entity.LayerStairs, entity.LayerWater)
	down := mgl64.Vec3{0, -1, 0}

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		maxDist  float64
		mask     entity.LayerMask
		hit      bool
		layer    entity.Layer
		distance float64
		normal   mgl64.Vec3
	}{
		{"floor", mgl64.Vec3{0, 5, 0}, down, 10, all, true, entity.LayerDefault, 5, mgl64.Vec3{0, 1, 0}},
		{"direction is normalized", mgl64.Vec3{0, 5, 0}, down.Mul(3), 10, all, true, entity.LayerDefault, 5, mgl64.Vec3{0, 1, 0}},
		{"nearest box", mgl64.Vec3{5, 5, 0}, down, 10, all, true, entity.LayerStairs, 2.5, mgl64.Vec3{0, 1, 0}},
		{"masked out", mgl64.Vec3{5, 5, 0}, down, 10, entity.MaskOf(entity.LayerDefault), true, entity.LayerDefault, 5, mgl64.Vec3{0, 1, 0}},
		{"too far", mgl64.Vec3{0, 5, 0}, down, 4, all, false, 0, 0, mgl64.Vec3{}},
		{"trigger in mask", mgl64.Vec3{-5, 5, 0}, down, 10, entity.MaskOf(entity.LayerWater), true, entity.LayerWater, 3, mgl64.Vec3{0, 1, 0}},
		{"origin inside", mgl64.Vec3{-5, 1, 0}, down, 10, entity.MaskOf(entity.LayerWater), false, 0, 0, mgl64.Vec3{}},
		{"side face", mgl64.Vec3{0, 2, 0}, mgl64.Vec3{1, 0, 0}, 10, all, true, entity.LayerStairs, 4, mgl64.Vec3{-1, 0, 0}},
		{"zero direction", mgl64.Vec3{0, 5, 0}, mgl64.Vec3{}, 10, all, false, 0, 0, mgl64.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := w.Raycast(tt.origin, tt.dir, tt.maxDist, tt.mask)

			require.Equal(t, tt.hit, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.layer, hit.Layer)
			assert.InDelta(t, tt.distance, hit.Distance, 1e-9)
			assertVec(t, tt.normal, hit.Normal)
			assertVec(t, tt.origin.Add(tt.dir.Normalize().Mul(tt.distance)), hit.Point)
		})
	}
}

func TestSphereOverlap(t *testing.T) {
	w := NewWorld()
	w.CreateTrigger(mgl64.Vec3{0, -1, 0}, mgl64.QuatIdent(), mgl64.Vec3{5, 1, 5}, entity.LayerWater)
	water := entity.MaskOf(entity.LayerWater)

	assert.True(t, w.SphereOverlap(mgl64.Vec3{0, -1, 0}, 0.01, water))
	assert.True(t, w.SphereOverlap(mgl64.Vec3{0, 0.4, 0}, 0.5, water))
	assert.False(t, w.SphereOverlap(mgl64.Vec3{0, 1, 0}, 0.5, water))
	assert.False(t, w.SphereOverlap(mgl64.Vec3{0, -1, 0}, 0.01, entity.MaskOf(entity.LayerDefault)))
}

func TestUpdateSliders(t *testing.T) {
	t.Run("moves and sets velocity", func(t *testing.T) {
		w := NewWorld()
		id := w.CreateBox(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 0.25, 1}, entity.LayerDefault)
		w.AttachRigidbody(id, 10, true)
		w.AttachSlider(id, Slider{To: mgl64.Vec3{0, 4, 0}, Duration: 2, AutoReverse: true})

		UpdateSliders(w, 0.5)
		assertVec(t, mgl64.Vec3{0, 1, 0}, w.Transform[id].Position)
		assertVec(t, mgl64.Vec3{0, 2, 0}, w.Rigidbody[id].Velocity)

		for i := 0; i < 4; i++ {
			UpdateSliders(w, 0.5)
		}
		assertVec(t, mgl64.Vec3{0, 3, 0}, w.Transform[id].Position)
		assertVec(t, mgl64.Vec3{0, -2, 0}, w.Rigidbody[id].Velocity)
	})

	t.Run("stops without auto reverse", func(t *testing.T) {
		w := NewWorld()
		id := w.CreateBox(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 0.25, 1}, entity.LayerDefault)
		w.AttachRigidbody(id, 10, true)
		w.AttachSlider(id, Slider{To: mgl64.Vec3{0, 4, 0}, Duration: 2})

		for i := 0; i < 6; i++ {
			UpdateSliders(w, 0.5)
		}
		assertVec(t, mgl64.Vec3{0, 4, 0}, w.Transform[id].Position)
		assert.True(t, w.Slider[id].Stopped)
		assertVec(t, mgl64.Vec3{}, w.Rigidbody[id].Velocity)
	})
}

func TestSlider_Advance(t *testing.T) {
	tests := []struct {
		name   string
		slider Slider
		dt     float64
		want   float64
	}{
		{"linear", Slider{Duration: 2}, 0.5, 0.25},
		{"smooth step midpoint", Slider{Duration: 2, SmoothStep: true}, 1, 0.5},
		{"smooth step quarter", Slider{Duration: 2, SmoothStep: true}, 0.5, 0.15625},
		{"clamped end", Slider{Duration: 1, Value: 0.9}, 0.5, 1},
		{"reverses", Slider{Duration: 1, Value: 0.9, AutoReverse: true}, 0.5, 0.6},
		{"stopped", Slider{Duration: 1, Value: 0.3, Stopped: true}, 0.5, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.slider
			assert.InDelta(t, tt.want, s.advance(tt.dt), 1e-9)
		})
	}
}
