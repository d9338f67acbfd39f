package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a handle to a rigid body the agent can stand on, climb or swim in.
// Implementations must be comparable: the controller detects "same platform
// as last step" with ==.
type Body interface {
	// Mass returns the body mass. Kinematic bodies may report any value.
	Mass() float64
	// IsKinematic reports whether the body is moved by script rather than
	// by the physics solver.
	IsKinematic() bool
	// TransformPoint converts a point from body-local to world space.
	TransformPoint(local mgl64.Vec3) mgl64.Vec3
	// InverseTransformPoint converts a point from world to body-local space.
	InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3
}

// Contact is a single collision contact reported by the physics engine.
type Contact struct {
	Normal mgl64.Vec3 // outward surface normal at the contact point
	Body   Body       // attached body, nil for static geometry
	Layer  Layer      // layer of the touched collider
}

// RayHit is the result of a successful raycast.
type RayHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Body     Body // nil for static geometry
	Layer    Layer
}

// Valid reports whether every component of the contact normal is a finite
// number. Physics engines occasionally report NaN normals for degenerate
// contacts.
func (c Contact) Valid() bool {
	return IsFinite(c.Normal)
}

// IsFinite reports whether all components of v are finite.
func IsFinite(v mgl64.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
