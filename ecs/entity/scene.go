package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/levels"
	"github.com/milk9111/fpscontroller/prefabs"
)

// BuildScene spawns every prefab a scene lists, moves the player to the
// level spawn, then resolves name references between the new entities.
func BuildScene(w *ecs.World, scenePath string, lvl *levels.Level) ([]ecs.Entity, error) {
	scene, err := prefabs.LoadSceneSpec(scenePath)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	built := make([]ecs.Entity, 0, len(scene.Entities))
	for _, prefab := range scene.Entities {
		e, err := BuildEntity(w, prefab, lvl)
		if err != nil {
			for _, b := range built {
				ecs.DestroyEntity(w, b)
			}
			return nil, fmt.Errorf("build scene %q: %w", scenePath, err)
		}
		built = append(built, e)
	}

	if lvl != nil {
		var players []ecs.Entity
		for _, e := range built {
			if ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
				players = append(players, e)
			}
		}
		spawn := mgl64.Vec3{lvl.Spawn[0], lvl.Spawn[1], lvl.Spawn[2]}
		if err := placeAtSpawn(w, players, spawn); err != nil {
			for _, b := range built {
				ecs.DestroyEntity(w, b)
			}
			return nil, fmt.Errorf("build scene %q: %w", scenePath, err)
		}
	}

	ResolveReferences(w)
	return built, nil
}

func placeAtSpawn(w *ecs.World, players []ecs.Entity, spawn mgl64.Vec3) error {
	for _, e := range players {
		if err := SetEntityPosition(w, e, spawn); err != nil {
			return fmt.Errorf("place %s at spawn: %w", e, err)
		}
	}
	return nil
}

// ResolveReferences binds pivot and follower target names to entities. Names
// that match nothing are left unset.
func ResolveReferences(w *ecs.World) {
	names := map[string]ecs.Entity{}
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if _, dup := names[n.Value]; !dup {
			names[n.Value] = e
		}
	})

	ecs.ForEach(w, component.PlayerControllerComponent.Kind(), func(e ecs.Entity, pc *component.PlayerController) {
		pivot, ok := names[pc.PivotName]
		if !ok || pc.Pivot != 0 || pc.Controller == nil {
			return
		}
		pc.Pivot = uint64(pivot)
		body, okBody := ecs.Get(w, e, component.TransformComponent.Kind())
		pt, okPivot := ecs.Get(w, pivot, component.TransformComponent.Kind())
		if okBody && okPivot {
			// pivot prefabs place the pivot relative to the feet
			pc.PivotOffset = pt.Position
			pt.Position = body.Position.Add(pc.PivotOffset)
			pt.Rotation = pc.Controller.State.PivotRotation()
		}
	})

	ecs.ForEach(w, component.FollowPositionComponent.Kind(), func(e ecs.Entity, f *component.FollowPosition) {
		if target, ok := names[f.TargetName]; ok {
			f.Target = uint64(target)
		}
	})
	ecs.ForEach(w, component.FollowRotationComponent.Kind(), func(e ecs.Entity, f *component.FollowRotation) {
		if target, ok := names[f.TargetName]; ok {
			f.Target = uint64(target)
		}
	})
}
