package state

// Locomotion is the resolved locomotion state of the agent for one step
type Locomotion int

const (
	Airborne Locomotion = iota
	Grounded
	Climbing
	Drifting
	Diving
)

// String returns the string representation of the locomotion state
func (l Locomotion) String() string {
	switch l {
	case Airborne:
		return "Airborne"
	case Grounded:
		return "Grounded"
	case Climbing:
		return "Climbing"
	case Drifting:
		return "Drifting"
	case Diving:
		return "Diving"
	default:
		return "Unknown"
	}
}

// Swimming reports whether the state is one of the water states.
func (l Locomotion) Swimming() bool {
	return l == Drifting || l == Diving
}

// Supported reports whether the agent stands on or clings to a surface.
func (l Locomotion) Supported() bool {
	return l == Grounded || l == Climbing
}
