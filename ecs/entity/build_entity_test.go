package entity

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/levels"
)

func loadArena(t *testing.T) *levels.Level {
	t.Helper()
	lvl, err := levels.LoadLevelFromFS("arena")
	if err != nil {
		t.Fatalf("load arena: %v", err)
	}
	return lvl
}

// writePrefab places a prefab on disk under a fresh working directory so it
// shadows the embedded copy.
func writePrefab(t *testing.T, name, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefabs", name), []byte(body), 0o644); err != nil {
		t.Fatalf("write prefab: %v", err)
	}
	t.Chdir(dir)
}

func TestBuildScene(t *testing.T) {
	lvl := loadArena(t)
	w := ecs.NewWorld()

	built, err := BuildScene(w, "scene.yaml", lvl)
	if err != nil {
		t.Fatalf("build scene: %v", err)
	}
	if len(built) != 4 {
		t.Fatalf("expected 4 entities, got %d", len(built))
	}

	player, pc, ok := ecs.First(w, component.PlayerControllerComponent.Kind())
	if !ok {
		t.Fatalf("expected a player controller")
	}
	if !ecs.Has(w, player, component.PlayerTagComponent.Kind()) {
		t.Fatalf("expected player tag on controller entity")
	}

	cfg := pc.Controller.Config
	if cfg.Speeds.Walk != 2 || cfg.Speeds.Run != 5 || cfg.Speeds.CrouchBack != 0.9 {
		t.Fatalf("unexpected speeds %+v", cfg.Speeds)
	}
	if !cfg.Smoothing || !cfg.Animation || !cfg.GroundCheck {
		t.Fatalf("expected all capabilities on, got %+v", cfg)
	}
	if cfg.GroundMask != lvl.Mask("ground") || cfg.GroundRadius != 0.3 {
		t.Fatalf("unexpected ground check mask=%b radius=%v", cfg.GroundMask, cfg.GroundRadius)
	}
	if cfg.MinPitch != -60 || cfg.MaxPitch != 60 {
		t.Fatalf("expected fixed pitch limits, got %v..%v", cfg.MinPitch, cfg.MaxPitch)
	}

	pivot := ecs.Entity(pc.Pivot)
	if !ecs.Has(w, pivot, component.LookPivotTagComponent.Kind()) {
		t.Fatalf("expected pivot resolved to the look pivot entity")
	}
	if !pc.PivotOffset.ApproxEqual(mgl64.Vec3{0, 1.6, 0}) {
		t.Fatalf("unexpected pivot offset %v", pc.PivotOffset)
	}

	cc, ok := ecs.Get(w, player, component.CharacterControllerComponent.Kind())
	if !ok || cc.Radius != 0.4 || cc.Height != 1.8 || cc.Layer != lvl.LayerBit("default") {
		t.Fatalf("unexpected character controller %+v", cc)
	}

	ecs.ForEach(w, component.FollowPositionComponent.Kind(), func(e ecs.Entity, f *component.FollowPosition) {
		if ecs.Entity(f.Target) != pivot {
			t.Fatalf("expected follow_position bound to pivot, got %v", ecs.Entity(f.Target))
		}
	})
	ecs.ForEach(w, component.FollowRotationComponent.Kind(), func(e ecs.Entity, f *component.FollowRotation) {
		if ecs.Entity(f.Target) != pivot {
			t.Fatalf("expected follow_rotation bound to pivot, got %v", ecs.Entity(f.Target))
		}
	})
}

func TestBuildEntityBasicPlayer(t *testing.T) {
	w := ecs.NewWorld()
	e, err := BuildEntity(w, "player_basic.yaml", loadArena(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	pc, ok := ecs.Get(w, e, component.PlayerControllerComponent.Kind())
	if !ok {
		t.Fatalf("expected player controller")
	}
	cfg := pc.Controller.Config
	if cfg.Smoothing || cfg.Animation || cfg.GroundCheck || cfg.IdleResetsSpeed {
		t.Fatalf("expected plain controller, got %+v", cfg)
	}
	if ecs.Has(w, e, component.AnimatorComponent.Kind()) {
		t.Fatalf("expected no animator on basic player")
	}
	name, ok := ecs.Get(w, e, component.NameComponent.Kind())
	if !ok || name.Value != "player" {
		t.Fatalf("expected name component, got %+v", name)
	}
}

func TestBuildEntityErrors(t *testing.T) {
	tests := []struct {
		name   string
		prefab string
		want   string
	}{
		{
			name:   "unknown component",
			prefab: "name: bad\ncomponents:\n  jetpack: {}\n",
			want:   `no builder for component "jetpack"`,
		},
		{
			name:   "unknown field",
			prefab: "name: bad\ncomponents:\n  camera:\n    zooom: 3\n",
			want:   "decode camera spec",
		},
		{
			name:   "no components",
			prefab: "name: bad\n",
			want:   "does not define components",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writePrefab(t, "bad.yaml", tt.prefab)
			w := ecs.NewWorld()
			_, err := BuildEntity(w, "bad.yaml", nil)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
			if n := len(ecs.Entities(w)); n != 0 {
				t.Fatalf("expected failed build to leave no entities, got %d", n)
			}
		})
	}
}

func TestReconfigurePlayersKeepsState(t *testing.T) {
	lvl := loadArena(t)
	w := ecs.NewWorld()
	if _, err := BuildScene(w, "scene.yaml", lvl); err != nil {
		t.Fatalf("build scene: %v", err)
	}
	_, pc, _ := ecs.First(w, component.PlayerControllerComponent.Kind())
	pc.Controller.State.Yaw = 45
	pc.Controller.State.CurrentSpeed = 2

	writePrefab(t, "player.yaml", `name: player
components:
  player_controller:
    pivot: look_pivot
    speeds:
      walk: 9
    gravity_multiplier: 3
    idle_resets_speed: true
`)

	n, err := ReconfigurePlayers(w, "prefabs/player.yaml", lvl)
	if err != nil || n != 1 {
		t.Fatalf("expected one controller reconfigured, got %d, %v", n, err)
	}
	cfg := pc.Controller.Config
	if cfg.Speeds.Walk != 9 || cfg.GravityMultiplier != 3 || !cfg.IdleResetsSpeed {
		t.Fatalf("expected new tuning, got %+v", cfg)
	}
	if cfg.Animation || cfg.Smoothing {
		t.Fatalf("expected capabilities taken from the new prefab, got %+v", cfg)
	}
	if pc.Controller.State.Yaw != 45 || pc.Controller.State.CurrentSpeed != 2 {
		t.Fatalf("expected runtime state kept, got %+v", pc.Controller.State)
	}

	if n, _ := ReconfigurePlayers(w, "camera.yaml", lvl); n != 0 {
		t.Fatalf("expected unrelated prefab to touch nothing, got %d", n)
	}
}

func TestPlaceAtSpawn(t *testing.T) {
	w := ecs.NewWorld()
	spawn := mgl64.Vec3{1, 2, 3}

	alive := ecs.CreateEntity(w)
	if err := placeAtSpawn(w, []ecs.Entity{alive}, spawn); err != nil {
		t.Fatalf("place alive entity: %v", err)
	}
	tr, ok := ecs.Get(w, alive, component.TransformComponent.Kind())
	if !ok || !tr.Position.ApproxEqual(spawn) {
		t.Fatalf("expected entity at spawn, got %+v", tr)
	}

	dead := ecs.CreateEntity(w)
	ecs.DestroyEntity(w, dead)
	err := placeAtSpawn(w, []ecs.Entity{alive, dead}, spawn)
	if !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestBuildSceneOnlyMovesItsOwnPlayers(t *testing.T) {
	lvl := loadArena(t)
	w := ecs.NewWorld()

	earlier := ecs.CreateEntity(w)
	if err := ecs.Add(w, earlier, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if err := SetEntityPosition(w, earlier, mgl64.Vec3{5, 0, 5}); err != nil {
		t.Fatalf("position: %v", err)
	}

	if _, err := BuildScene(w, "scene.yaml", lvl); err != nil {
		t.Fatalf("build scene: %v", err)
	}
	tr, _ := ecs.Get(w, earlier, component.TransformComponent.Kind())
	if !tr.Position.ApproxEqual(mgl64.Vec3{5, 0, 5}) {
		t.Fatalf("expected earlier player untouched, got %v", tr.Position)
	}
}
