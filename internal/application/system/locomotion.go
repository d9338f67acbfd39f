package system

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/movingsphere/internal/application/state"
	"github.com/younwookim/movingsphere/internal/domain/entity"
	"github.com/younwookim/movingsphere/internal/domain/gravity"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// AgentBody is the physics body driven by the locomotion system.
type AgentBody interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	Mass() float64
}

// Scene answers physics queries against the world.
type Scene interface {
	Raycast(origin, direction mgl64.Vec3, maxDistance float64, mask entity.LayerMask) (entity.RayHit, bool)
	SphereOverlap(point mgl64.Vec3, radius float64, mask entity.LayerMask) bool
}

// InputSpace orients movement intent, typically a camera.
type InputSpace interface {
	Right() mgl64.Vec3
	Forward() mgl64.Vec3
}

// LocomotionSystem moves a sphere agent over ground, walls and water.
//
// The physics engine reports contacts through OnContact and water overlaps
// through OnWater at any time between steps. Step then resolves the
// locomotion state from what was gathered, integrates the agent velocity,
// writes it back to the body and clears the step-scoped data.
type LocomotionSystem struct {
	config  *config.PhysicsConfig
	body    AgentBody
	scene   Scene
	gravity gravity.Provider
	space   InputSpace
	log     *logrus.Entry

	// Basis and climb desire of the last step, used to classify contacts
	// arriving before the next one.
	upAxis, rightAxis, forwardAxis mgl64.Vec3
	desiresClimbing                bool

	contacts    contactAccumulator
	submergence float64

	jumpPhase              int
	jumpRising             bool
	stepsSinceLastGrounded int
	stepsSinceLastJump     int

	connection connection
	lastState  state.Locomotion
}

// NewLocomotionSystem creates a locomotion system for body. cfg is
// validated, which clamps its tunables in place.
func NewLocomotionSystem(cfg *config.PhysicsConfig, body AgentBody, scene Scene, g gravity.Provider) (*LocomotionSystem, error) {
	if cfg == nil {
		return nil, fmt.Errorf("locomotion: %w: nil config", config.ErrInvalidConfig)
	}
	if body == nil || scene == nil || g == nil {
		return nil, fmt.Errorf("locomotion: body, scene and gravity provider are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("locomotion: %w", err)
	}

	s := &LocomotionSystem{
		config:  cfg,
		body:    body,
		scene:   scene,
		gravity: g,
		log:     logrus.NewEntry(logrus.StandardLogger()).WithField("component", "locomotion"),
	}
	_, up := g.GravityAt(body.Position())
	s.updateAxes(up)
	s.contacts.reset()
	return s, nil
}

// SetLogger replaces the logger.
func (s *LocomotionSystem) SetLogger(log *logrus.Entry) {
	s.log = log.WithField("component", "locomotion")
}

// SetInputSpace orients movement intent relative to space. nil restores the
// world X/Z axes.
func (s *LocomotionSystem) SetInputSpace(space InputSpace) {
	s.space = space
}

// OnContact records one collision contact. The normal points away from the
// touched surface.
func (s *LocomotionSystem) OnContact(normal mgl64.Vec3, body entity.Body, layer entity.Layer) {
	c := entity.Contact{Normal: normal, Body: body, Layer: layer}
	if !c.Valid() {
		s.log.WithField("normal", normal).Debug("dropping degenerate contact")
		return
	}
	s.contacts.add(c, s.upAxis, s.rightAxis, s.desiresClimbing, &s.config.Derived)
}

// OnWater records an overlap with a water volume.
func (s *LocomotionSystem) OnWater(volume entity.Body) {
	s.evaluateSubmergence(volume)
}

// ForceSetVelocity overrides the body velocity from outside, e.g. from an
// acceleration zone. The agent no longer counts as rising from a jump and
// ground snapping is suppressed for the next steps.
func (s *LocomotionSystem) ForceSetVelocity(v mgl64.Vec3) {
	s.jumpRising = false
	s.stepsSinceLastJump = -1
	s.body.SetVelocity(v)
}

// PreventSnapToGround keeps the agent from snapping to the ground for the
// next steps.
func (s *LocomotionSystem) PreventSnapToGround() {
	s.stepsSinceLastJump = -1
}

// Step advances the agent by dt seconds and returns the resolved step.
func (s *LocomotionSystem) Step(dt float64, intent Intent) StepContext {
	g, up := s.gravity.GravityAt(s.body.Position())
	s.updateAxes(up)

	ctx := s.resolve(dt, g)
	intent = s.filterIntent(ctx, intent)
	s.desiresClimbing = intent.ClimbHeld

	v := ctx.Velocity
	if ctx.InWater() {
		v = v.Mul(max(1-s.config.Swim.WaterDrag*ctx.Submergence*dt, 0))
	}
	v = s.adjustVelocity(ctx, v, intent, dt)
	jumped := false
	if intent.JumpPressed {
		v, jumped = s.jump(ctx, v, intent)
	}
	v = s.applyGravity(ctx, v, intent, jumped, dt)
	s.body.SetVelocity(v)

	ctx.Velocity = v
	ctx.Jumped = jumped
	ctx.JumpPhase = s.jumpPhase
	ctx.JumpRising = s.jumpRising

	if ctx.State != s.lastState {
		s.log.WithFields(logrus.Fields{
			"from":        s.lastState,
			"to":          ctx.State,
			"submergence": ctx.Submergence,
		}).Debug("locomotion state changed")
		s.lastState = ctx.State
	}

	s.clearState()
	return ctx
}

// State returns the locomotion state resolved by the last step.
func (s *LocomotionSystem) State() state.Locomotion {
	return s.lastState
}

// JumpPhase returns the number of jumps used since the agent last stood on
// the ground.
func (s *LocomotionSystem) JumpPhase() int {
	return s.jumpPhase
}

// UpAxis returns the up axis of the last step.
func (s *LocomotionSystem) UpAxis() mgl64.Vec3 {
	return s.upAxis
}

// filterIntent applies the swimming restrictions to the raw intent.
func (s *LocomotionSystem) filterIntent(ctx StepContext, in Intent) Intent {
	in = in.clamped()
	swim := &s.config.Swim
	if !(swim.FreeDiving && ctx.Swimming()) {
		in.Move[1] = 0
	}
	if swim.FreeDiving && ctx.Diving {
		in.JumpPressed = false
		in.JumpHeld = false
	}
	if !swim.DivingClimbable && ctx.Diving {
		in.ClimbHeld = false
	}
	return in
}

func (s *LocomotionSystem) updateAxes(up mgl64.Vec3) {
	if up.LenSqr() < minAxisLenSqr || !entity.IsFinite(up) {
		up = gravity.WorldUp
	}
	s.upAxis = up.Normalize()

	right, forward := mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1}
	if s.space != nil {
		right, forward = s.space.Right(), s.space.Forward()
	}
	s.rightAxis = projectDirectionOnPlane(right, s.upAxis)
	if s.rightAxis == (mgl64.Vec3{}) {
		s.rightAxis = perpendicular(s.upAxis)
	}
	s.forwardAxis = projectDirectionOnPlane(forward, s.upAxis)
	if s.forwardAxis == (mgl64.Vec3{}) {
		s.forwardAxis = s.rightAxis.Cross(s.upAxis)
	}
}

func (s *LocomotionSystem) clearState() {
	s.connection.endStep(s.contacts.connectedBody)
	s.contacts.reset()
	s.submergence = 0
}

// minAxisLenSqr is the squared length below which a direction is treated as
// degenerate.
const minAxisLenSqr = 1e-12

// projectDirectionOnPlane removes the normal component from direction and
// normalizes the rest. A direction parallel to the normal yields zero.
func projectDirectionOnPlane(direction, normal mgl64.Vec3) mgl64.Vec3 {
	p := direction.Sub(normal.Mul(direction.Dot(normal)))
	if p.LenSqr() < minAxisLenSqr {
		return mgl64.Vec3{}
	}
	return p.Normalize()
}

// normalized returns v scaled to unit length, or zero when v is degenerate.
func normalized(v mgl64.Vec3) mgl64.Vec3 {
	if v.LenSqr() < minAxisLenSqr {
		return mgl64.Vec3{}
	}
	return v.Normalize()
}

// perpendicular returns a unit vector perpendicular to the unit vector v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	p := v.Cross(mgl64.Vec3{0, 0, 1})
	if p.LenSqr() < 1e-6 {
		p = v.Cross(mgl64.Vec3{1, 0, 0})
	}
	return p.Normalize()
}

func moveTowards(current, target, maxDelta float64) float64 {
	if d := target - current; d > maxDelta {
		return current + maxDelta
	} else if d < -maxDelta {
		return current - maxDelta
	}
	return target
}
