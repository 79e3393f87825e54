package entity

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/levels"
	"github.com/milk9111/fpscontroller/locomotion"
	"github.com/milk9111/fpscontroller/prefabs"
)

type buildContext struct {
	PrefabPath string
	Level      *levels.Level
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":           addPlayerTag,
	"look_pivot_tag":       addLookPivotTag,
	"camera_tag":           addCameraTag,
	"transform":            addTransform,
	"input":                addInput,
	"character_controller": addCharacterController,
	"player_controller":    addPlayerController,
	"animator":             addAnimator,
	"follow_position":      addFollowPosition,
	"follow_rotation":      addFollowRotation,
	"camera":               addCamera,
}

var componentBuildOrder = []string{
	"player_tag",
	"look_pivot_tag",
	"camera_tag",
	"transform",
	"input",
	"character_controller",
	"player_controller",
	"animator",
	"follow_position",
	"follow_rotation",
	"camera",
}

// BuildEntity creates an entity from a prefab. Unknown component keys fail
// the build and leave no entity behind.
func BuildEntity(w *ecs.World, prefabPath string, lvl *levels.Level) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	for name := range spec.Components {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Level: lvl}

	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add name: %w", prefabPath, err)
		}
	}

	for _, name := range orderedComponents(spec.Components) {
		if err := componentRegistry[name](w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// orderedComponents lists the prefab's components in build order, then any
// remaining ones alphabetically.
func orderedComponents(components map[string]any) []string {
	seen := make(map[string]bool, len(components))
	names := make([]string, 0, len(components))
	for _, name := range componentBuildOrder {
		if _, ok := components[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range components {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

func SetEntityPosition(w *ecs.World, e ecs.Entity, pos mgl64.Vec3) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = component.NewTransform(pos)
	}
	t.Position = pos
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addLookPivotTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.LookPivotTagComponent.Kind(), &component.LookPivotTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	look := locomotion.Look{Yaw: spec.Yaw, Pitch: spec.Pitch}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: mgl64.Vec3{spec.X, spec.Y, spec.Z},
		Rotation: look.PivotRotation(),
	})
}

func addInput(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.InputComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode input spec: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.InputBindingComponent.Kind(), &component.InputBinding{Enabled: spec.Enabled}); err != nil {
		return err
	}
	if spec.Script != "" {
		return ecs.Add(w, e, component.InputScriptComponent.Kind(), &component.InputScript{Path: spec.Script})
	}
	return nil
}

func addCharacterController(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CharacterControllerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode character_controller spec: %w", err)
	}
	return ecs.Add(w, e, component.CharacterControllerComponent.Kind(), &component.CharacterController{
		Radius:     spec.Radius,
		Height:     spec.Height,
		StepOffset: spec.StepOffset,
		Layer:      ctx.Level.LayerBit(spec.Layer),
	})
}

func addPlayerController(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerControllerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player_controller spec: %w", err)
	}
	ctrl := locomotion.New(PlayerConfig(spec, ctx.Level))
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		// the prefab's facing seeds the look state
		ctrl.State.Look = locomotion.LookFromRotation(t.Rotation)
		t.Rotation = ctrl.State.BodyRotation()
	}
	return ecs.Add(w, e, component.PlayerControllerComponent.Kind(), &component.PlayerController{
		Controller: ctrl,
		PivotName:  spec.Pivot,
		Prefab:     ctx.PrefabPath,
	})
}

func addAnimator(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), component.NewAnimator()); err != nil {
		return err
	}
	return ecs.Add(w, e, component.AnimationStateComponent.Kind(), &component.AnimationState{})
}

func addFollowPosition(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FollowComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode follow_position spec: %w", err)
	}
	return ecs.Add(w, e, component.FollowPositionComponent.Kind(), &component.FollowPosition{TargetName: spec.Target})
}

func addFollowRotation(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FollowComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode follow_rotation spec: %w", err)
	}
	return ecs.Add(w, e, component.FollowRotationComponent.Kind(), &component.FollowRotation{TargetName: spec.Target})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}
	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		TargetName: spec.TargetName,
		Zoom:       spec.Zoom,
		Smoothness: spec.Smoothness,
	})
}
