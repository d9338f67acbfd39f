package system

import (
	"github.com/younwookim/movingsphere/internal/domain/entity"
)

// safeFloatingRadius is the radius of the overlap check confirming the probe
// origin sits inside water when the submergence ray misses.
const safeFloatingRadius = 0.01

// evaluateSubmergence measures how deep the agent is in water by casting a
// ray down from above its center against the water layers.
func (s *LocomotionSystem) evaluateSubmergence(volume entity.Body) {
	swim := &s.config.Swim
	mask := s.config.Derived.WaterMask
	origin := s.body.Position().Add(s.upAxis.Mul(swim.SubmergenceOffset))

	if hit, ok := s.scene.Raycast(origin, s.upAxis.Mul(-1), swim.SubmergenceRange+1, mask); ok {
		s.submergence = clamp01(1 - hit.Distance/swim.SubmergenceRange)
	} else if !swim.SafeFloating || s.scene.SphereOverlap(origin, safeFloatingRadius, mask) {
		s.submergence = 1
	}

	if s.swimming(s.submergence) {
		s.contacts.setWaterBody(volume)
	}
}

// swimming reports whether a submergence is deep enough to swim.
func (s *LocomotionSystem) swimming(submergence float64) bool {
	return submergence >= s.config.Swim.DriftThreshold
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
