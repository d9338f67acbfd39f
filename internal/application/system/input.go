package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

// InputSystem handles player input
type InputSystem struct {
	config *config.PhysicsConfig
}

// NewInputSystem creates a new input system
func NewInputSystem(cfg *config.PhysicsConfig) *InputSystem {
	return &InputSystem{config: cfg}
}

// InputState holds the current input state
type InputState struct {
	Left        bool
	Right       bool
	Forward     bool
	Back        bool
	Rise        bool // free diving only
	Sink        bool // free diving only
	Jump        bool
	JumpPressed bool
	Climb       bool
}

// GetInput reads the current input state
func (s *InputSystem) GetInput() InputState {
	return InputState{
		Left:        ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:       ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Forward:     ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Back:        ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Rise:        ebiten.IsKeyPressed(ebiten.KeyE),
		Sink:        ebiten.IsKeyPressed(ebiten.KeyQ),
		Jump:        ebiten.IsKeyPressed(ebiten.KeySpace),
		JumpPressed: inpututil.IsKeyJustPressed(ebiten.KeySpace),
		Climb:       ebiten.IsKeyPressed(ebiten.KeyShift),
	}
}

// Intent converts the input state into a movement intent. Opposite keys
// cancel out; diagonal movement is normalized by the locomotion system.
func (s *InputSystem) Intent(input InputState) Intent {
	move := mgl64.Vec3{
		axis(input.Left, input.Right),
		0,
		axis(input.Back, input.Forward),
	}
	if s.config.Swim.FreeDiving {
		move[1] = axis(input.Sink, input.Rise)
	}
	return Intent{
		Move:        move,
		JumpPressed: input.JumpPressed,
		JumpHeld:    input.Jump,
		ClimbHeld:   input.Climb,
	}
}

func axis(negative, positive bool) float64 {
	v := 0.0
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}
