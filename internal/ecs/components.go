package ecs

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// Transform places an entity in the world
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// TransformPoint converts a point from local to world space
func (t Transform) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// InverseTransformPoint converts a point from world to local space
func (t Transform) InverseTransformPoint(world mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(world.Sub(t.Position))
}

// TransformDirection rotates a local direction into world space
func (t Transform) TransformDirection(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local)
}

// InverseTransformDirection rotates a world direction into local space
func (t Transform) InverseTransformDirection(world mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(world)
}

// Collider is an oriented box collider
type Collider struct {
	HalfExtents mgl64.Vec3
	Layer       entity.Layer
	Trigger     bool // reports overlaps instead of blocking
}

// Rigidbody marks an entity the agent can connect to
type Rigidbody struct {
	Mass      float64
	Kinematic bool
	Velocity  mgl64.Vec3 // set by the integrator or, for kinematic bodies, by sliders
}

// Sphere is the agent's collision shape
type Sphere struct {
	Radius float64
}

// Slider moves a kinematic body between two points
type Slider struct {
	From, To    mgl64.Vec3
	Duration    float64 // seconds per leg
	AutoReverse bool
	SmoothStep  bool

	// State
	Value    float64 // 0..1 along From -> To
	Reversed bool
	Stopped  bool
}

// advance moves the slider value by dt and returns the interpolation factor
func (s *Slider) advance(dt float64) float64 {
	if !s.Stopped && s.Duration > 0 {
		delta := dt / s.Duration
		if s.Reversed {
			s.Value -= delta
			if s.Value <= 0 {
				if s.AutoReverse {
					s.Value = min(1, -s.Value)
					s.Reversed = false
				} else {
					s.Value = 0
					s.Stopped = true
				}
			}
		} else {
			s.Value += delta
			if s.Value >= 1 {
				if s.AutoReverse {
					s.Value = max(0, 2-s.Value)
					s.Reversed = true
				} else {
					s.Value = 1
					s.Stopped = true
				}
			}
		}
	}
	if s.SmoothStep {
		return 3*s.Value*s.Value - 2*s.Value*s.Value*s.Value
	}
	return s.Value
}

// AccelerationZone pushes the agent along the zone's local up axis
type AccelerationZone struct {
	Acceleration float64 // <= 0 sets Speed instantly on entry
	Speed        float64
}
