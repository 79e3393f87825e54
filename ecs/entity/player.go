package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/levels"
	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/prefabs"
)

const allLayers = ^uint(0)

// PlayerConfig maps a player_controller prefab block onto a controller
// config. Values are taken as written; nothing is validated.
func PlayerConfig(spec prefabs.PlayerControllerComponentSpec, lvl *levels.Level) locomotion.Config {
	opts := []locomotion.Option{
		locomotion.WithSpeeds(locomotion.SpeedTable{
			Walk:       spec.Speeds.Walk,
			WalkBack:   spec.Speeds.WalkBack,
			Run:        spec.Speeds.Run,
			RunBack:    spec.Speeds.RunBack,
			Crouch:     spec.Speeds.Crouch,
			CrouchBack: spec.Speeds.CrouchBack,
		}),
		locomotion.WithGravityMultiplier(spec.GravityMultiplier),
		locomotion.WithJumpForce(spec.JumpForce),
		locomotion.WithLookSensitivity(spec.LookSensitivity),
	}
	if spec.Smoothing {
		opts = append(opts, locomotion.WithSmoothing(spec.SmoothTime))
	}
	if spec.Animation {
		opts = append(opts, locomotion.WithAnimation())
	}
	if gc := spec.GroundCheck; gc != nil {
		mask := allLayers
		if lvl != nil && len(gc.Layers) > 0 {
			mask = lvl.Mask(gc.Layers...)
		}
		opts = append(opts, locomotion.WithGroundCheck(gc.Radius, mask))
	}
	if spec.IdleResetsSpeed {
		opts = append(opts, locomotion.WithIdleSpeedReset())
	}
	return locomotion.NewConfig(opts...)
}

func NewPlayerAt(w *ecs.World, prefab string, lvl *levels.Level, pos mgl64.Vec3) (ecs.Entity, error) {
	e, err := BuildEntity(w, prefab, lvl)
	if err != nil {
		return 0, err
	}
	if err := SetEntityPosition(w, e, pos); err != nil {
		return 0, fmt.Errorf("player: override position: %w", err)
	}
	return e, nil
}

// ReconfigurePlayers re-reads the prefab of every player controller built
// from prefab and swaps in the new tuning without touching runtime state.
// It returns how many controllers changed.
func ReconfigurePlayers(w *ecs.World, prefab string, lvl *levels.Level) (int, error) {
	var (
		count   int
		lastErr error
	)
	ecs.ForEach(w, component.PlayerControllerComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController) {
		if pc.Controller == nil || prefabs.Name(pc.Prefab) != prefabs.Name(prefab) {
			return
		}
		spec, err := prefabs.LoadEntityBuildSpec(pc.Prefab)
		if err != nil {
			lastErr = err
			return
		}
		raw, ok := spec.Components["player_controller"]
		if !ok {
			lastErr = fmt.Errorf("reconfigure %s: no player_controller component", pc.Prefab)
			return
		}
		pcSpec, err := prefabs.DecodeComponentSpec[prefabs.PlayerControllerComponentSpec](raw)
		if err != nil {
			lastErr = fmt.Errorf("reconfigure %s: %w", pc.Prefab, err)
			return
		}
		pc.Controller.Reconfigure(PlayerConfig(pcSpec, lvl))
		count++
	})
	return count, lastErr
}
