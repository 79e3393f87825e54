package locomotion

// Config is the tuning surface of a Controller. The zero value of every
// capability flag reproduces the plain controller: raw input, no animation
// output, grounded state taken from the mover.
type Config struct {
	Speeds            SpeedTable
	GravityMultiplier float64
	JumpForce         float64
	LookSensitivity   float64
	MinPitch          float64
	MaxPitch          float64

	// Smoothing eases the move vector fed to the animator toward raw input.
	Smoothing  bool
	SmoothTime float64

	// Animation enables writes to the animation parameter table.
	Animation bool

	// GroundCheck replaces the mover's grounded flag with a sphere probe for
	// the isGrounded animation parameter.
	GroundCheck  bool
	GroundRadius float64
	GroundMask   uint

	// IdleResetsSpeed drops the current speed to zero when there is no
	// forward input instead of keeping the last selected tier.
	IdleResetsSpeed bool
}

type Option func(*Config)

// NewConfig returns a Config with the fixed pitch limits and opts applied.
func NewConfig(opts ...Option) Config {
	cfg := Config{
		GravityMultiplier: 1,
		MinPitch:          MinPitch,
		MaxPitch:          MaxPitch,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

func WithSpeeds(t SpeedTable) Option {
	return func(c *Config) { c.Speeds = t }
}

func WithGravityMultiplier(m float64) Option {
	return func(c *Config) { c.GravityMultiplier = m }
}

func WithJumpForce(f float64) Option {
	return func(c *Config) { c.JumpForce = f }
}

func WithLookSensitivity(s float64) Option {
	return func(c *Config) { c.LookSensitivity = s }
}

func WithSmoothing(smoothTime float64) Option {
	return func(c *Config) {
		c.Smoothing = true
		c.SmoothTime = smoothTime
	}
}

func WithAnimation() Option {
	return func(c *Config) { c.Animation = true }
}

func WithGroundCheck(radius float64, mask uint) Option {
	return func(c *Config) {
		c.GroundCheck = true
		c.GroundRadius = radius
		c.GroundMask = mask
	}
}

func WithIdleSpeedReset() Option {
	return func(c *Config) { c.IdleResetsSpeed = true }
}
