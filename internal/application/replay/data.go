package replay

import "github.com/younwookim/movingsphere/internal/application/system"

// Version is the replay format written by this build.
const Version = "2.0"

// FrameInput records input state for a single fixed step
type FrameInput struct {
	F  int  `json:"f"`            // Step number
	L  bool `json:"l,omitempty"`  // Left
	R  bool `json:"r,omitempty"`  // Right
	Fw bool `json:"fw,omitempty"` // Forward
	B  bool `json:"b,omitempty"`  // Back
	U  bool `json:"u,omitempty"`  // Rise
	D  bool `json:"d,omitempty"`  // Sink
	J  bool `json:"j,omitempty"`  // Jump held
	JP bool `json:"jp,omitempty"` // JumpPressed
	C  bool `json:"c,omitempty"`  // Climb
}

// ReplayData contains all data needed to replay a session
type ReplayData struct {
	Version   string       `json:"version"`
	Stage     string       `json:"stage"`
	StartTime string       `json:"startTime"`
	FixedStep float64      `json:"fixedStep"`
	Frames    []FrameInput `json:"frames"`
}

// NewFrameInput records an input state as frame f.
func NewFrameInput(f int, in system.InputState) FrameInput {
	return FrameInput{
		F:  f,
		L:  in.Left,
		R:  in.Right,
		Fw: in.Forward,
		B:  in.Back,
		U:  in.Rise,
		D:  in.Sink,
		J:  in.Jump,
		JP: in.JumpPressed,
		C:  in.Climb,
	}
}

// InputState restores the recorded input state.
func (fi FrameInput) InputState() system.InputState {
	return system.InputState{
		Left:        fi.L,
		Right:       fi.R,
		Forward:     fi.Fw,
		Back:        fi.B,
		Rise:        fi.U,
		Sink:        fi.D,
		Jump:        fi.J,
		JumpPressed: fi.JP,
		Climb:       fi.C,
	}
}
