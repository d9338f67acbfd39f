package ecs

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// EntityID is a unique identifier for an entity (never recycled)
type EntityID uint64

// World holds all component maps and the next entity ID
type World struct {
	nextID   EntityID
	entities []EntityID // creation order, for deterministic iteration

	// Components
	Transform map[EntityID]Transform
	Collider  map[EntityID]Collider
	Rigidbody map[EntityID]Rigidbody
	Sphere    map[EntityID]Sphere
	Slider    map[EntityID]Slider
	Zone      map[EntityID]AccelerationZone

	// Singleton references
	AgentID EntityID
}

// NewWorld creates a new empty world
func NewWorld() *World {
	return &World{
		nextID:    1, // 0 is "nil"
		Transform: make(map[EntityID]Transform),
		Collider:  make(map[EntityID]Collider),
		Rigidbody: make(map[EntityID]Rigidbody),
		Sphere:    make(map[EntityID]Sphere),
		Slider:    make(map[EntityID]Slider),
		Zone:      make(map[EntityID]AccelerationZone),
	}
}

// NewEntity returns a new unique entity ID
func (w *World) NewEntity() EntityID {
	id := w.nextID
	w.nextID++
	w.entities = append(w.entities, id)
	return id
}

// DestroyEntity removes all components for an entity
func (w *World) DestroyEntity(id EntityID) {
	delete(w.Transform, id)
	delete(w.Collider, id)
	delete(w.Rigidbody, id)
	delete(w.Sphere, id)
	delete(w.Slider, id)
	delete(w.Zone, id)
	if i := slices.Index(w.entities, id); i >= 0 {
		w.entities = slices.Delete(w.entities, i, i+1)
	}
	if w.AgentID == id {
		w.AgentID = 0
	}
}

// Exists checks if an entity has Transform component
func (w *World) Exists(id EntityID) bool {
	_, ok := w.Transform[id]
	return ok
}

// Entities returns the live entity IDs in creation order
func (w *World) Entities() []EntityID {
	return w.entities
}

// CreateBox creates a solid oriented box
func (w *World) CreateBox(position mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, layer entity.Layer) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Position: position, Rotation: normalizeQuat(rotation)}
	w.Collider[id] = Collider{HalfExtents: halfExtents, Layer: layer}
	return id
}

// CreateTrigger creates a trigger box that reports overlaps
func (w *World) CreateTrigger(position mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, layer entity.Layer) EntityID {
	id := w.CreateBox(position, rotation, halfExtents, layer)
	c := w.Collider[id]
	c.Trigger = true
	w.Collider[id] = c
	return id
}

// CreateZone creates an acceleration zone trigger
func (w *World) CreateZone(position mgl64.Vec3, rotation mgl64.Quat, halfExtents mgl64.Vec3, zone AccelerationZone) EntityID {
	id := w.CreateTrigger(position, rotation, halfExtents, entity.LayerZone)
	w.Zone[id] = zone
	return id
}

// AttachRigidbody makes an entity a body the agent can connect to
func (w *World) AttachRigidbody(id EntityID, mass float64, kinematic bool) {
	w.Rigidbody[id] = Rigidbody{Mass: mass, Kinematic: kinematic}
}

// AttachSlider moves a kinematic body between from and to
func (w *World) AttachSlider(id EntityID, slider Slider) {
	w.Slider[id] = slider
	t := w.Transform[id]
	t.Position = slider.From
	w.Transform[id] = t
}

// CreateAgent creates the agent sphere
func (w *World) CreateAgent(position mgl64.Vec3, radius, mass float64) EntityID {
	id := w.NewEntity()
	w.Transform[id] = Transform{Position: position, Rotation: mgl64.QuatIdent()}
	w.Sphere[id] = Sphere{Radius: radius}
	w.Rigidbody[id] = Rigidbody{Mass: mass}
	w.AgentID = id
	return id
}

// Body returns a handle to the entity's rigidbody, or nil for static
// geometry.
func (w *World) Body(id EntityID) entity.Body {
	if _, ok := w.Rigidbody[id]; !ok {
		return nil
	}
	return BodyRef{w: w, id: id}
}

// Agent returns a handle to the agent sphere.
func (w *World) Agent() AgentRef {
	return AgentRef{w: w, id: w.AgentID}
}

// BodyRef is a comparable handle to a rigidbody entity
type BodyRef struct {
	w  *World
	id EntityID
}

// ID returns the entity ID
func (b BodyRef) ID() EntityID { return b.id }

// Mass implements entity.Body
func (b BodyRef) Mass() float64 { return b.w.Rigidbody[b.id].Mass }

// IsKinematic implements entity.Body
func (b BodyRef) IsKinematic() bool { return b.w.Rigidbody[b.id].Kinematic }

// TransformPoint implements entity.Body
func (b BodyRef) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return b.w.Transform[b.id].TransformPoint(local)
}

// InverseTransformPoint implements entity.Body
func (b BodyRef) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return b.w.Transform[b.id].InverseTransformPoint(world)
}

// AgentRef exposes the agent sphere to the locomotion system
type AgentRef struct {
	w  *World
	id EntityID
}

// Position returns the sphere center
func (a AgentRef) Position() mgl64.Vec3 { return a.w.Transform[a.id].Position }

// Velocity returns the sphere velocity
func (a AgentRef) Velocity() mgl64.Vec3 { return a.w.Rigidbody[a.id].Velocity }

// SetVelocity replaces the sphere velocity
func (a AgentRef) SetVelocity(v mgl64.Vec3) {
	rb := a.w.Rigidbody[a.id]
	rb.Velocity = v
	a.w.Rigidbody[a.id] = rb
}

// Mass returns the sphere mass
func (a AgentRef) Mass() float64 { return a.w.Rigidbody[a.id].Mass }

// Radius returns the sphere radius
func (a AgentRef) Radius() float64 { return a.w.Sphere[a.id].Radius }

// Teleport moves the sphere and stops it
func (a AgentRef) Teleport(position mgl64.Vec3) {
	t := a.w.Transform[a.id]
	t.Position = position
	a.w.Transform[a.id] = t
	a.SetVelocity(mgl64.Vec3{})
}

func normalizeQuat(q mgl64.Quat) mgl64.Quat {
	if q.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
