package ecs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

const (
	// contactSkin lets a sphere resting exactly on a surface keep reporting
	// the contact.
	contactSkin = 1e-3
	// solverIterations bounds the push-out passes per step.
	solverIterations = 4
	epsilon          = 1e-9
)

// SphereStep lists what the agent sphere touched during one step
type SphereStep struct {
	Contacts []entity.Contact
	Triggers []EntityID // overlapped trigger colliders, in creation order
}

// UpdateSliders advances every slider and moves its kinematic body.
// The body velocity is set to the displacement over dt.
func UpdateSliders(w *World, dt float64) {
	for _, id := range w.entities {
		slider, ok := w.Slider[id]
		if !ok {
			continue
		}
		t := slider.advance(dt)
		w.Slider[id] = slider

		tr := w.Transform[id]
		next := lerpVec(slider.From, slider.To, t)
		if rb, ok := w.Rigidbody[id]; ok && dt > 0 {
			rb.Velocity = next.Sub(tr.Position).Mul(1 / dt)
			w.Rigidbody[id] = rb
		}
		tr.Position = next
		w.Transform[id] = tr
	}
}

// StepSphere integrates the sphere by its velocity and resolves penetration
// against solid boxes. Velocity moving into a surface, relative to that
// surface's own velocity, is removed.
func StepSphere(w *World, id EntityID, dt float64) SphereStep {
	tr := w.Transform[id]
	rb := w.Rigidbody[id]
	radius := w.Sphere[id].Radius

	pos := tr.Position.Add(rb.Velocity.Mul(dt))
	vel := rb.Velocity

	var step SphereStep
	contactIndex := make(map[EntityID]int)
	for iter := 0; iter < solverIterations; iter++ {
		resolved := true
		for _, other := range w.entities {
			c, ok := w.Collider[other]
			if !ok || c.Trigger || other == id {
				continue
			}
			box := w.Transform[other]
			normal, depth, touching := sphereBoxContact(pos, radius+contactSkin, box, c.HalfExtents)
			if !touching {
				continue
			}
			depth -= contactSkin
			if depth > epsilon {
				pos = pos.Add(normal.Mul(depth))
				resolved = false
			}

			surfaceVel := w.Rigidbody[other].Velocity
			if relative := vel.Sub(surfaceVel).Dot(normal); relative < 0 {
				vel = vel.Sub(normal.Mul(relative))
			}

			contact := entity.Contact{Normal: normal, Body: w.Body(other), Layer: c.Layer}
			if i, seen := contactIndex[other]; seen {
				step.Contacts[i] = contact
			} else {
				contactIndex[other] = len(step.Contacts)
				step.Contacts = append(step.Contacts, contact)
			}
		}
		if resolved {
			break
		}
	}

	tr.Position = pos
	rb.Velocity = vel
	w.Transform[id] = tr
	w.Rigidbody[id] = rb

	for _, other := range w.entities {
		c, ok := w.Collider[other]
		if !ok || !c.Trigger {
			continue
		}
		if _, _, touching := sphereBoxContact(pos, radius, w.Transform[other], c.HalfExtents); touching {
			step.Triggers = append(step.Triggers, other)
		}
	}
	return step
}

// Raycast returns the nearest box in mask hit by the ray. Boxes containing
// the origin are not hit. Triggers are hit when their layer is in mask.
func (w *World) Raycast(origin, direction mgl64.Vec3, maxDistance float64, mask entity.LayerMask) (entity.RayHit, bool) {
	if direction.LenSqr() < epsilon {
		return entity.RayHit{}, false
	}
	direction = direction.Normalize()

	var best entity.RayHit
	found := false
	for _, id := range w.entities {
		c, ok := w.Collider[id]
		if !ok || !mask.Contains(c.Layer) {
			continue
		}
		tr := w.Transform[id]
		dist, normal, hit := rayBox(origin, direction, tr, c.HalfExtents)
		if !hit || dist > maxDistance || (found && dist >= best.Distance) {
			continue
		}
		best = entity.RayHit{
			Point:    origin.Add(direction.Mul(dist)),
			Normal:   normal,
			Distance: dist,
			Body:     w.Body(id),
			Layer:    c.Layer,
		}
		found = true
	}
	return best, found
}

// SphereOverlap reports whether a sphere overlaps any box in mask.
func (w *World) SphereOverlap(point mgl64.Vec3, radius float64, mask entity.LayerMask) bool {
	for _, id := range w.entities {
		c, ok := w.Collider[id]
		if !ok || !mask.Contains(c.Layer) {
			continue
		}
		if _, _, touching := sphereBoxContact(point, radius, w.Transform[id], c.HalfExtents); touching {
			return true
		}
	}
	return false
}

// sphereBoxContact returns the push-out normal and penetration depth of a
// sphere against an oriented box.
func sphereBoxContact(center mgl64.Vec3, radius float64, box Transform, half mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	local := box.InverseTransformPoint(center)

	var closest mgl64.Vec3
	inside := true
	for i := 0; i < 3; i++ {
		closest[i] = mgl64.Clamp(local[i], -half[i], half[i])
		if closest[i] != local[i] {
			inside = false
		}
	}

	if !inside {
		d := local.Sub(closest)
		dist := d.Len()
		if dist >= radius {
			return mgl64.Vec3{}, 0, false
		}
		if dist > epsilon {
			return box.TransformDirection(d.Mul(1 / dist)), radius - dist, true
		}
	}

	// Center inside the box: push out through the nearest face.
	axis, faceDist := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if fd := half[i] - math.Abs(local[i]); fd < faceDist {
			axis, faceDist = i, fd
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if local[axis] < 0 {
		n[axis] = -1
	}
	return box.TransformDirection(n), radius + faceDist, true
}

// rayBox intersects a ray with an oriented box using the slab method.
func rayBox(origin, direction mgl64.Vec3, box Transform, half mgl64.Vec3) (float64, mgl64.Vec3, bool) {
	o := box.InverseTransformPoint(origin)
	d := box.InverseTransformDirection(direction)

	tMin, tMax := math.Inf(-1), math.Inf(1)
	entryAxis := -1
	for i := 0; i < 3; i++ {
		if math.Abs(d[i]) < epsilon {
			if o[i] < -half[i] || o[i] > half[i] {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		t1 := (-half[i] - o[i]) / d[i]
		t2 := (half[i] - o[i]) / d[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin, entryAxis = t1, i
		}
		tMax = math.Min(tMax, t2)
	}
	if entryAxis < 0 || tMax < tMin || tMin < 0 {
		return 0, mgl64.Vec3{}, false
	}

	var n mgl64.Vec3
	n[entryAxis] = -math.Copysign(1, d[entryAxis])
	return tMin, box.TransformDirection(n), true
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
