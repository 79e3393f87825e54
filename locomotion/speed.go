package locomotion

// SpeedTable holds the forward and backward speed for each movement mode.
type SpeedTable struct {
	Walk       float64 `yaml:"walk"`
	WalkBack   float64 `yaml:"walk_back"`
	Run        float64 `yaml:"run"`
	RunBack    float64 `yaml:"run_back"`
	Crouch     float64 `yaml:"crouch"`
	CrouchBack float64 `yaml:"crouch_back"`
}

// For returns the forward and backward speed of mode.
func (t SpeedTable) For(mode Mode) (forward, back float64) {
	switch mode {
	case Sprinting:
		return t.Run, t.RunBack
	case Crouching:
		return t.Crouch, t.CrouchBack
	default:
		return t.Walk, t.WalkBack
	}
}

// SelectSpeed picks the speed for mode from the sign of the forward axis.
// Zero forward input leaves current untouched.
func SelectSpeed(table SpeedTable, mode Mode, forward, current float64) float64 {
	fwd, back := table.For(mode)
	switch {
	case forward > 0:
		return fwd
	case forward < 0:
		return back
	default:
		return current
	}
}
