package prefabs

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

// DecodeComponentSpec re-decodes one raw component map into T. Unknown keys
// are rejected so typos in a prefab surface at build time.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Z     float64 `yaml:"z"`
	Yaw   float64 `yaml:"yaw"`
	Pitch float64 `yaml:"pitch"`
}

type SpeedsComponentSpec struct {
	Walk       float64 `yaml:"walk"`
	WalkBack   float64 `yaml:"walk_back"`
	Run        float64 `yaml:"run"`
	RunBack    float64 `yaml:"run_back"`
	Crouch     float64 `yaml:"crouch"`
	CrouchBack float64 `yaml:"crouch_back"`
}

type GroundCheckComponentSpec struct {
	Radius float64  `yaml:"radius"`
	Layers []string `yaml:"layers"`
}

type PlayerControllerComponentSpec struct {
	Speeds            SpeedsComponentSpec       `yaml:"speeds"`
	GravityMultiplier float64                   `yaml:"gravity_multiplier"`
	JumpForce         float64                   `yaml:"jump_force"`
	LookSensitivity   float64                   `yaml:"look_sensitivity"`
	SmoothTime        float64                   `yaml:"smooth_time"`
	Smoothing         bool                      `yaml:"smoothing"`
	Animation         bool                      `yaml:"animation"`
	GroundCheck       *GroundCheckComponentSpec `yaml:"ground_check"`
	IdleResetsSpeed   bool                      `yaml:"idle_resets_speed"`
	Pivot             string                    `yaml:"pivot"`
}

type CharacterControllerComponentSpec struct {
	Radius     float64 `yaml:"radius"`
	Height     float64 `yaml:"height"`
	StepOffset float64 `yaml:"step_offset"`
	Layer      string  `yaml:"layer"`
}

type InputComponentSpec struct {
	Enabled bool   `yaml:"enabled"`
	Script  string `yaml:"script"`
}

type FollowComponentSpec struct {
	Target string `yaml:"target"`
}

type CameraComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
}
