package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/application/state"
)

// groundedIdleSpeedSqr is the squared speed below which a grounded agent is
// held in place against gravity instead of sliding down slopes.
const groundedIdleSpeedSqr = 0.01

// adjustVelocity moves the velocity relative to the connected body toward
// the desired velocity, one axis at a time, by at most acceleration*dt.
func (s *LocomotionSystem) adjustVelocity(ctx StepContext, v mgl64.Vec3, in Intent, dt float64) mgl64.Vec3 {
	mv := &s.config.Movement
	freeDiving := s.config.Swim.FreeDiving && ctx.Swimming()

	var acceleration, speed float64
	var xAxis, zAxis mgl64.Vec3
	switch {
	case ctx.State == state.Climbing:
		acceleration = s.config.Climb.Acceleration
		speed = s.config.Climb.MaxSpeed
		xAxis = ctx.ContactNormal.Cross(ctx.Up)
		zAxis = ctx.Up
	case ctx.Swimming():
		acceleration, speed = s.swimLimits(ctx)
		xAxis, zAxis = ctx.Right, ctx.Forward
	default:
		acceleration = mv.MaxAirAcceleration
		if ctx.OnGround() {
			acceleration = mv.MaxAcceleration
		}
		speed = mv.MaxSpeed
		if ctx.OnGround() && s.desiresClimbing {
			speed = s.config.Climb.MaxSpeed
		}
		xAxis, zAxis = ctx.Right, ctx.Forward
	}
	xAxis = projectDirectionOnPlane(xAxis, ctx.ContactNormal)
	zAxis = projectDirectionOnPlane(zAxis, ctx.ContactNormal)

	input := in.Move
	if ctx.OnSteep() {
		direction := xAxis.Mul(input.X()).Add(zAxis.Mul(input.Z()))
		if freeDiving {
			direction = normalized(direction.Add(ctx.Up.Mul(input.Y())))
		}
		if direction.Dot(ctx.SteepNormal.Mul(-1)) > s.config.Derived.MaxDetourDot {
			input = mgl64.Vec3{}
		}
	}

	relative := v.Sub(ctx.ConnectionVelocity)
	maxDelta := acceleration * dt
	v = v.Add(axisAdjustment(relative, xAxis, input.X()*speed, maxDelta))
	v = v.Add(axisAdjustment(relative, zAxis, input.Z()*speed, maxDelta))
	if freeDiving {
		v = v.Add(axisAdjustment(relative, ctx.Up, input.Y()*speed, maxDelta))
	}
	return v
}

// axisAdjustment returns the velocity change along axis that brings the
// relative velocity toward desired without overshooting.
func axisAdjustment(relative, axis mgl64.Vec3, desired, maxDelta float64) mgl64.Vec3 {
	current := relative.Dot(axis)
	return axis.Mul(moveTowards(current, desired, maxDelta) - current)
}

// swimLimits blends the ground or air limits into the swim limits by how
// deep the agent is submerged.
func (s *LocomotionSystem) swimLimits(ctx StepContext) (acceleration, speed float64) {
	mv := &s.config.Movement
	swim := &s.config.Swim
	f := math.Min(1, ctx.Submergence/swim.DiveThreshold)
	base := mv.MaxAirAcceleration
	if ctx.OnGround() {
		base = mv.MaxAcceleration
	}
	return lerp(base, swim.Acceleration, f), lerp(mv.MaxSpeed, swim.MaxSpeed, f)
}

// jump applies a jump impulse if the current state allows one. It reports
// whether the jump happened; a refused jump leaves v untouched.
func (s *LocomotionSystem) jump(ctx StepContext, v mgl64.Vec3, in Intent) (mgl64.Vec3, bool) {
	jc := &s.config.Jump
	swim := &s.config.Swim

	var direction mgl64.Vec3
	switch {
	case ctx.OnGround() || ctx.Swimming():
		direction = ctx.ContactNormal
	case ctx.OnSteep():
		direction = ctx.SteepNormal
		s.jumpPhase = 0
	case jc.MaxAirJumps > 0 && s.jumpPhase <= jc.MaxAirJumps:
		if s.jumpPhase == 0 {
			s.jumpPhase = 1
		}
		direction = ctx.ContactNormal
	default:
		return v, false
	}

	s.stepsSinceLastJump = 0
	s.jumpPhase++
	if down := v.Dot(ctx.Up); down < 0 {
		v = v.Sub(ctx.Up.Mul(down))
	}

	g := ctx.Gravity.Len()
	var speed float64
	if ctx.Diving {
		speed = math.Sqrt(2 * g * math.Max(0, 1-swim.Buoyancy) * swim.DivingJumpHeight)
	} else {
		height := jc.Height
		if s.jumpPhase > 1 {
			height = jc.AirHeight
		}
		speed = math.Sqrt(2 * g * height)
	}
	if ctx.InWater() {
		speed *= math.Max(0, 1-clamp01(ctx.Submergence/swim.DiveThreshold)*swim.WaterJumpDrag)
	}

	if ctx.OnSteep() {
		assist := ctx.Right.Mul(in.Move.X()).Add(ctx.Forward.Mul(in.Move.Z()))
		direction = direction.Add(direction.Mul(assist.Dot(direction) * jc.SteepInputModifier))
		direction = normalized(direction.Add(ctx.Up))
	}

	if aligned := v.Dot(direction); aligned > 0 {
		speed = math.Max(speed-aligned, 0)
	}
	s.jumpRising = true
	return v.Add(direction.Mul(speed)), true
}

// applyGravity applies gravity and the state-specific secondary forces.
func (s *LocomotionSystem) applyGravity(ctx StepContext, v mgl64.Vec3, in Intent, jumped bool, dt float64) mgl64.Vec3 {
	g := ctx.Gravity
	n := ctx.ContactNormal
	swim := &s.config.Swim
	climb := &s.config.Climb

	switch {
	case ctx.State == state.Climbing && !jumped:
		return v.Sub(n.Mul(climb.Acceleration * climb.Adhesion * dt))

	case ctx.InWater():
		steering := in.HasMove()
		if swim.FreeDiving {
			steering = in.Move.Y() >= 0
		}
		if ctx.Drifting && steering {
			return v.Add(ctx.Up.Mul(s.driftAlignment(ctx, v, dt)))
		}
		return v.Add(g.Mul((1 - swim.Buoyancy*ctx.Submergence) * dt))

	case ctx.OnGround() && v.LenSqr() < groundedIdleSpeedSqr:
		return v.Add(n.Mul(g.Dot(n) * dt))

	case s.desiresClimbing && ctx.OnGround():
		return v.Add(g.Sub(n.Mul(climb.Acceleration * climb.Adhesion)).Mul(dt))
	}

	scale := 1.0
	if s.jumpRising && !in.JumpHeld {
		scale = s.config.Jump.AirJumpEarlyEndGravityScale
		if s.jumpPhase == 1 {
			scale = s.config.Jump.EarlyEndGravityScale
		}
	}
	v = v.Add(g.Mul(dt * scale))

	maxDrop := s.config.Movement.MaxDropSpeed
	if ctx.OnSteep() {
		maxDrop = s.config.Movement.MaxSteepDropSpeed
	}
	if up := ctx.Up.Dot(v); up < -maxDrop {
		v = v.Add(ctx.Up.Mul(-maxDrop - up))
	}
	return v
}

// driftAlignment returns the change of upward speed that steers a drifting
// agent toward the middle of the drift band.
func (s *LocomotionSystem) driftAlignment(ctx StepContext, v mgl64.Vec3, dt float64) float64 {
	swim := &s.config.Swim
	band := swim.DiveThreshold - swim.DriftThreshold
	percent := -1.0
	if band > 0 {
		percent = (ctx.Submergence-swim.DriftThreshold)/band*2 - 1
	}
	desired := percent * dt * swim.DriftAlignMaxSpeed
	return moveTowards(0, desired-v.Dot(ctx.Up), swim.DriftAlignAcceleration*dt)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
