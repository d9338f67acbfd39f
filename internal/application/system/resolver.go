package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/application/state"
	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// StepContext is the resolved view of one step. It is produced once by the
// resolver and read by the velocity integrator and observers.
type StepContext struct {
	State state.Locomotion
	Dt    float64

	Gravity              mgl64.Vec3
	Up, Right, Forward   mgl64.Vec3
	ContactNormal        mgl64.Vec3 // up when airborne or swimming
	SteepNormal          mgl64.Vec3
	GroundContacts       int // includes promoted climb, snap and steep contacts
	SteepContacts        int
	ClimbContacts        int
	Snapped              bool
	Submergence          float64
	Drifting, Diving     bool
	ConnectedBody        entity.Body
	ConnectionVelocity   mgl64.Vec3
	StepsSinceLastGround int

	// Filled after integration.
	Velocity   mgl64.Vec3
	Jumped     bool
	JumpPhase  int
	JumpRising bool
}

// OnGround reports whether any ground contact was counted this step.
func (c StepContext) OnGround() bool { return c.GroundContacts > 0 }

// OnSteep reports whether the agent touches a surface too steep to stand on.
func (c StepContext) OnSteep() bool { return c.SteepContacts > 0 }

// InWater reports whether any part of the agent is submerged.
func (c StepContext) InWater() bool { return c.Submergence > 0 }

// Swimming reports whether the agent is submerged deep enough to swim.
func (c StepContext) Swimming() bool { return c.Drifting || c.Diving }

// resolve turns the gathered contacts into the step context. Evaluation is
// ordered: climbing, ground contacts, ground snap, steep promotion, swimming,
// airborne. The first match wins.
func (s *LocomotionSystem) resolve(dt float64, g mgl64.Vec3) StepContext {
	s.stepsSinceLastGrounded++
	s.stepsSinceLastJump++

	a := &s.contacts
	swim := &s.config.Swim
	ctx := StepContext{
		Dt:          dt,
		Gravity:     g,
		Up:          s.upAxis,
		Right:       s.rightAxis,
		Forward:     s.forwardAxis,
		Velocity:    s.body.Velocity(),
		Submergence: s.submergence,
		Diving:      s.submergence >= swim.DiveThreshold,
	}
	ctx.Drifting = s.submergence >= swim.DriftThreshold && !ctx.Diving

	if a.steepCount > 1 {
		a.steepNormal = normalized(a.steepNormal)
		if a.steepNormal == (mgl64.Vec3{}) {
			a.steepNormal = s.upAxis
			a.steepCancelled = true
		}
	}

	switch {
	case s.checkClimbing():
		ctx.State = state.Climbing
	case a.groundCount > 0:
		ctx.State = state.Grounded
	case s.snapToGround(&ctx):
		ctx.State = state.Grounded
		ctx.Snapped = true
	case s.checkSteepContacts():
		ctx.State = state.Grounded
	case ctx.Swimming():
		a.contactNormal = s.upAxis
		if ctx.Diving {
			ctx.State = state.Diving
		} else {
			ctx.State = state.Drifting
		}
	default:
		ctx.State = state.Airborne
	}

	if ctx.State != state.Airborne {
		if !ctx.Swimming() {
			s.stepsSinceLastGrounded = 0
		}
		if s.stepsSinceLastJump > 1 {
			s.jumpPhase = 0
			if !ctx.Swimming() {
				s.jumpRising = false
			}
		}
		if a.groundCount > 1 {
			a.contactNormal = normalized(a.contactNormal)
		}
	} else {
		a.contactNormal = s.upAxis
		if s.jumpRising && ctx.Velocity.Dot(s.upAxis) <= 0 {
			s.jumpRising = false
		}
	}

	if b := a.connectedBody; b != nil && (b.IsKinematic() || b.Mass() >= s.body.Mass()) {
		s.connection.update(b, s.body.Position(), dt)
	}

	ctx.ContactNormal = a.contactNormal
	ctx.SteepNormal = a.steepNormal
	ctx.GroundContacts = a.groundCount
	ctx.SteepContacts = a.steepCount
	ctx.ClimbContacts = a.climbCount
	ctx.ConnectedBody = a.connectedBody
	ctx.ConnectionVelocity = s.connection.velocity
	ctx.StepsSinceLastGround = s.stepsSinceLastGrounded
	return ctx
}

// checkClimbing promotes climb contacts to ground contacts. Climbing is
// refused right after a jump so the agent can leave a wall.
func (s *LocomotionSystem) checkClimbing() bool {
	a := &s.contacts
	if a.climbCount == 0 || s.stepsSinceLastJump <= 2 {
		return false
	}
	if a.climbCount > 1 {
		a.climbNormal = normalized(a.climbNormal)
		if a.climbNormal == (mgl64.Vec3{}) || s.upAxis.Dot(a.climbNormal) >= s.config.Derived.MinGroundDot {
			a.climbNormal = a.expectClimbNormal
		}
	}
	a.groundCount = a.climbCount
	a.contactNormal = a.climbNormal
	return true
}

// snapToGround keeps the agent on the ground when it loses contact briefly,
// for example when running over a crest.
func (s *LocomotionSystem) snapToGround(ctx *StepContext) bool {
	if s.stepsSinceLastGrounded > 1 || s.stepsSinceLastJump <= 2 {
		return false
	}
	speed := ctx.Velocity.Len()
	if speed > s.config.Movement.MaxSnapSpeed {
		return false
	}
	hit, ok := s.scene.Raycast(s.body.Position(), s.upAxis.Mul(-1), s.config.Movement.ProbeDistance, s.config.Derived.ProbeMask)
	if !ok || !entity.IsFinite(hit.Normal) {
		return false
	}
	if s.upAxis.Dot(hit.Normal) < s.config.Derived.MinDot(hit.Layer) {
		return false
	}

	a := &s.contacts
	a.groundCount = 1
	a.contactNormal = hit.Normal
	if dot := ctx.Velocity.Dot(hit.Normal); dot > 0 {
		ctx.Velocity = projectDirectionOnPlane(ctx.Velocity, hit.Normal).Mul(speed)
	}
	a.connectedBody = hit.Body
	return true
}

// checkSteepContacts treats the agent as grounded when it is wedged between
// steep surfaces whose average is walkable.
func (s *LocomotionSystem) checkSteepContacts() bool {
	a := &s.contacts
	if a.steepCount <= 1 || a.steepCancelled {
		return false
	}
	if s.upAxis.Dot(a.steepNormal) >= s.config.Derived.MinGroundDot {
		a.groundCount = 1
		a.contactNormal = a.steepNormal
		return true
	}
	return false
}
