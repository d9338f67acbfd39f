package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/domain/entity"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// minSteepUpDot separates steep surfaces from ceilings. Slightly below zero
// so that exactly vertical walls count as steep despite rounding.
const minSteepUpDot = -0.01

// contactAccumulator sums the contacts reported between two steps.
// Accumulation is commutative, so contacts may arrive in any order.
type contactAccumulator struct {
	groundCount, steepCount, climbCount int
	contactNormal, steepNormal          mgl64.Vec3
	climbNormal                         mgl64.Vec3

	// expectClimbNormal is the climb contact whose horizontal tangent
	// points most along the right axis. It replaces the averaged climb
	// normal when the average degenerates toward the floor.
	expectClimbNormal mgl64.Vec3
	expectClimbDot    float64

	// steepCancelled is set when opposing steep normals sum to zero and the
	// steep normal fell back to the up axis.
	steepCancelled bool

	connectedBody entity.Body
}

func (a *contactAccumulator) reset() {
	*a = contactAccumulator{expectClimbDot: math.Inf(-1)}
}

// add classifies one contact into the ground, steep and climb buckets.
func (a *contactAccumulator) add(c entity.Contact, up, right mgl64.Vec3, desiresClimbing bool, d *config.DerivedConfig) {
	upDot := up.Dot(c.Normal)
	if upDot >= d.MinDot(c.Layer) {
		a.groundCount++
		a.contactNormal = a.contactNormal.Add(c.Normal)
		a.connectedBody = c.Body
		return
	}

	if upDot > minSteepUpDot {
		a.steepCount++
		a.steepNormal = a.steepNormal.Add(c.Normal)
		if a.groundCount == 0 {
			a.connectedBody = c.Body
		}
	}
	if desiresClimbing && upDot >= d.MinClimbDot && d.ClimbMask.Contains(c.Layer) {
		a.climbCount++
		a.climbNormal = a.climbNormal.Add(c.Normal)
		if rightDot := c.Normal.Cross(up).Dot(right); rightDot > a.expectClimbDot {
			a.expectClimbDot = rightDot
			a.expectClimbNormal = c.Normal
		}
		a.connectedBody = c.Body
	}
}

// setWaterBody connects the agent to a water volume it swims in.
func (a *contactAccumulator) setWaterBody(b entity.Body) {
	a.connectedBody = b
}
