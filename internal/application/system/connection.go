package system

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// connection tracks the body the agent stands on, climbs or swims in, so the
// agent can move along with it.
type connection struct {
	previous entity.Body

	// Agent position when the connection was last updated, in world space
	// and in the body's local space.
	worldAnchor, localAnchor mgl64.Vec3

	velocity mgl64.Vec3
}

// update measures how far the body carried the agent's anchor since the last
// step. The first step on a new body only records the anchor.
func (c *connection) update(body entity.Body, position mgl64.Vec3, dt float64) {
	if body == c.previous && dt > 0 {
		movement := body.TransformPoint(c.localAnchor).Sub(c.worldAnchor)
		c.velocity = movement.Mul(1 / dt)
	}
	c.worldAnchor = position
	c.localAnchor = body.InverseTransformPoint(position)
}

// endStep remembers the body connected this step and clears the
// step-scoped velocity.
func (c *connection) endStep(connected entity.Body) {
	c.previous = connected
	c.velocity = mgl64.Vec3{}
}
