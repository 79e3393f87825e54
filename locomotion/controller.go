package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Animation parameter names written by the controller.
const (
	ParamIsWalking   = "isWalking"
	ParamIsSprinting = "isSprinting"
	ParamIsCrouching = "isCrouching"
	ParamIsGrounded  = "isGrounded"
	ParamIsJumping   = "isJumping"
	ParamVelocityZ   = "VelocityZ"
	ParamVelocityY   = "VelocityY"
)

const pulseEpsilon = 1e-9

// Input is one frame of sampled actions.
type Input struct {
	Move   mgl64.Vec2 // X right axis, Y forward axis
	Look   mgl64.Vec2 // X yaw axis, Y pitch axis
	Sprint bool
	Crouch bool
	Jump   bool
}

// Mover sweeps the character capsule through the world.
type Mover interface {
	Move(motion mgl64.Vec3)
	IsGrounded() bool
}

// Animator receives named animation parameters.
type Animator interface {
	SetBool(name string, v bool)
	SetFloat(name string, v float64)
}

// GroundProbe reports whether a sphere of radius at the character's feet
// overlaps geometry on any layer in mask.
type GroundProbe func(radius float64, mask uint) bool

// Frame carries everything the host owns for one step.
type Frame struct {
	DT       float64
	Mover    Mover
	Animator Animator
	Probe    GroundProbe
}

// State is the controller memory carried between frames.
type State struct {
	Look
	CurrentSpeed float64
	VelocityY    float64
	Mode         Mode
	Grounded     bool
	SmoothedMove mgl64.Vec2
	JumpPulse    float64
	Enabled      bool

	smoothVelocity mgl64.Vec2
}

// Output is what a step asked the host to do.
type Output struct {
	BodyRotation  mgl64.Quat
	PivotRotation mgl64.Quat
	Horizontal    mgl64.Vec3
	Vertical      mgl64.Vec3
	Jumped        bool
	ModeChanged   bool
}

type Controller struct {
	Config Config
	State  State
}

// New returns an enabled controller.
func New(cfg Config) *Controller {
	return &Controller{
		Config: cfg,
		State:  State{Enabled: true},
	}
}

// Reconfigure swaps the tuning and keeps the runtime state.
func (c *Controller) Reconfigure(cfg Config) {
	if !cfg.Smoothing {
		c.State.smoothVelocity = mgl64.Vec2{}
	}
	c.Config = cfg
}

func (c *Controller) Enable() {
	c.State.Enabled = true
}

// Disable stops stepping and cancels a running jump pulse.
func (c *Controller) Disable(anim Animator) {
	c.State.Enabled = false
	if c.State.JumpPulse > 0 {
		c.State.JumpPulse = 0
		if c.Config.Animation && anim != nil {
			anim.SetBool(ParamIsJumping, false)
		}
	}
}

// Step runs one frame: ground probe, move, look, gravity, jump, speed
// selection, jump pulse and animation output, in that order. The move uses
// the speed and vertical velocity left by the previous frame.
func (c *Controller) Step(in Input, f Frame) Output {
	cfg := &c.Config
	s := &c.State
	if !s.Enabled {
		return Output{BodyRotation: s.BodyRotation(), PivotRotation: s.PivotRotation()}
	}
	dt := f.DT
	var out Output

	switch {
	case cfg.GroundCheck && f.Probe != nil:
		s.Grounded = f.Probe(cfg.GroundRadius, cfg.GroundMask)
	case f.Mover != nil:
		s.Grounded = f.Mover.IsGrounded()
	}

	if cfg.Smoothing {
		s.SmoothedMove = SmoothDamp(s.SmoothedMove, in.Move, &s.smoothVelocity, cfg.SmoothTime, 0, dt)
	} else {
		s.SmoothedMove = in.Move
	}

	forward, right, up := Basis(s.BodyRotation())
	dir := forward.Mul(in.Move.Y()).Add(right.Mul(in.Move.X()))
	out.Horizontal = dir.Mul(s.CurrentSpeed * dt)
	out.Vertical = up.Mul(s.VelocityY * dt)
	if f.Mover != nil {
		f.Mover.Move(out.Horizontal)
		f.Mover.Move(out.Vertical)
	}

	s.Look.Apply(in.Look, cfg.LookSensitivity, dt, cfg.MinPitch, cfg.MaxPitch)
	out.BodyRotation = s.BodyRotation()
	out.PivotRotation = s.PivotRotation()

	grounded := f.Mover != nil && f.Mover.IsGrounded()
	s.VelocityY = IntegrateVertical(s.VelocityY, grounded, Gravity, cfg.GravityMultiplier, dt)
	s.VelocityY, out.Jumped = ApplyJump(s.VelocityY, in.Jump, grounded, cfg.JumpForce)

	mode := SelectMode(in.Sprint, in.Crouch)
	out.ModeChanged = mode != s.Mode
	s.Mode = mode
	if cfg.IdleResetsSpeed && in.Move.Y() == 0 {
		s.CurrentSpeed = 0
	} else {
		s.CurrentSpeed = SelectSpeed(cfg.Speeds, mode, in.Move.Y(), s.CurrentSpeed)
	}

	anim := f.Animator
	if !cfg.Animation {
		anim = nil
	}
	c.stepPulse(out.Jumped, dt, anim)

	if anim != nil {
		walking, sprinting, crouching := s.Mode.Flags()
		anim.SetBool(ParamIsSprinting, sprinting)
		anim.SetBool(ParamIsWalking, walking)
		anim.SetBool(ParamIsCrouching, crouching)
		anim.SetBool(ParamIsGrounded, s.Grounded)
		anim.SetFloat(ParamVelocityZ, s.SmoothedMove.X())
		anim.SetFloat(ParamVelocityY, s.SmoothedMove.Y())
	}
	return out
}

func (c *Controller) stepPulse(jumped bool, dt float64, anim Animator) {
	s := &c.State
	if jumped {
		s.JumpPulse = JumpPulseDuration
		if anim != nil {
			anim.SetBool(ParamIsJumping, true)
		}
		return
	}
	if s.JumpPulse <= 0 {
		return
	}
	s.JumpPulse -= dt
	if s.JumpPulse <= pulseEpsilon {
		s.JumpPulse = 0
		if anim != nil {
			anim.SetBool(ParamIsJumping, false)
		}
	}
}
