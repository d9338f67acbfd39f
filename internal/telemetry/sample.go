// Package telemetry records per-step traces of the locomotion system and
// summarizes them.
package telemetry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/younwookim/movingsphere/internal/application/system"
)

// Sample is one row of a step trace.
type Sample struct {
	Step int     `csv:"step"`
	Time float64 `csv:"time"`

	State    string `csv:"state"`
	Grounded bool   `csv:"grounded"`
	Snapped  bool   `csv:"snapped"`

	// Position after the physics step
	X float64 `csv:"x"`
	Y float64 `csv:"y"`
	Z float64 `csv:"z"`

	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	VZ    float64 `csv:"vz"`
	Speed float64 `csv:"speed"`

	Submergence float64 `csv:"submergence"`
	JumpPhase   int     `csv:"jump_phase"`
	Jumped      bool    `csv:"jumped"`

	// Velocity of the connected body, zero when unconnected
	PlatformVY float64 `csv:"platform_vy"`
}

// NewSample builds a sample from a resolved step and the agent position
// after the physics step. time is the simulated time at the end of the step.
func NewSample(step int, time float64, ctx system.StepContext, position mgl64.Vec3) Sample {
	return Sample{
		Step:        step,
		Time:        time,
		State:       ctx.State.String(),
		Grounded:    ctx.OnGround(),
		Snapped:     ctx.Snapped,
		X:           position.X(),
		Y:           position.Y(),
		Z:           position.Z(),
		VX:          ctx.Velocity.X(),
		VY:          ctx.Velocity.Y(),
		VZ:          ctx.Velocity.Z(),
		Speed:       ctx.Velocity.Len(),
		Submergence: ctx.Submergence,
		JumpPhase:   ctx.JumpPhase,
		Jumped:      ctx.Jumped,
		PlatformVY:  ctx.ConnectionVelocity.Y(),
	}
}
