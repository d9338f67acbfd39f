package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Intent is what the player wants the agent to do during one step
type Intent struct {
	// Move is the movement intent: X along the right axis, Y along the up
	// axis (free diving only) and Z along the forward axis.
	Move        mgl64.Vec3
	JumpPressed bool // jump requested this step
	JumpHeld    bool // jump button still held
	ClimbHeld   bool
}

// HasMove reports whether any movement axis is non-zero.
func (i Intent) HasMove() bool {
	return i.Move != mgl64.Vec3{}
}

// clamped returns the intent with non-finite axes zeroed and the movement
// magnitude limited to 1.
func (i Intent) clamped() Intent {
	for k, f := range i.Move {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			i.Move[k] = 0
		}
	}
	if l := i.Move.Len(); l > 1 {
		i.Move = i.Move.Mul(1 / l)
	}
	return i
}
