// Package locomotion is the frame-step core of the first-person controller.
// Everything the host engine owns (frame time, the capsule mover, the ground
// probe) comes in as an explicit parameter, so the whole step runs without an
// engine present.
package locomotion

// Mode is the movement tier selected from the sprint and crouch buttons.
type Mode uint8

const (
	Walking Mode = iota
	Sprinting
	Crouching
)

func (m Mode) String() string {
	switch m {
	case Sprinting:
		return "sprinting"
	case Crouching:
		return "crouching"
	default:
		return "walking"
	}
}

// SelectMode applies the priority Sprint > Crouch > Walk.
func SelectMode(sprint, crouch bool) Mode {
	switch {
	case sprint:
		return Sprinting
	case crouch:
		return Crouching
	default:
		return Walking
	}
}

// Flags expands m into the three mutually exclusive bools the animator reads.
func (m Mode) Flags() (walking, sprinting, crouching bool) {
	return m == Walking, m == Sprinting, m == Crouching
}
