package main

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"

	"github.com/milk9111/fpscontroller/common"
	"github.com/milk9111/fpscontroller/ecs"
	"github.com/milk9111/fpscontroller/ecs/component"
	"github.com/milk9111/fpscontroller/ecs/entity"
	"github.com/milk9111/fpscontroller/ecs/system"
	"github.com/milk9111/fpscontroller/levels"
	"github.com/milk9111/fpscontroller/physics"
	"github.com/milk9111/fpscontroller/prefabs"
)

type GameConfig struct {
	Level  string
	Scene  string
	Script string
	Debug  bool
	Watch  bool
}

type Game struct {
	world   *ecs.World
	level   *levels.Level
	input   *system.InputSystem
	render  *system.RenderSystem
	watcher *prefabs.Watcher
	pauseUI *ebitenui.UI

	paused    bool
	quit      bool
	debug     bool
	clipboard bool
}

func NewGame(cfg GameConfig) (*Game, error) {
	if cfg.Level == "" {
		cfg.Level = "arena"
	}
	if cfg.Scene == "" {
		cfg.Scene = "scene.yaml"
	}

	lvl, err := levels.LoadLevelFromFS(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("game: load level %s: %w", cfg.Level, err)
	}
	cw := physics.NewCollisionWorldFromLevel(lvl)

	g := &Game{level: lvl, debug: cfg.Debug}
	g.input = system.NewInputSystem(system.NewDeviceSource())
	g.render = system.NewRenderSystem(cw)

	w := ecs.NewWorld()
	w.AddSystem(g.input)
	w.AddSystem(system.NewPlayerControllerSystem(cw))
	w.AddSystem(system.NewFollowSystem())
	w.AddSystem(system.NewAnimationSystem())
	w.AddSystem(system.NewCameraSystem())
	w.AddSystem(g.render)
	g.world = w

	if _, err := entity.BuildScene(w, cfg.Scene, lvl); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	if cfg.Script != "" {
		ecs.ForEach(w, component.PlayerControllerComponent.Kind(), func(e ecs.Entity, _ *component.PlayerController) {
			if err := ecs.Add(w, e, component.InputScriptComponent.Kind(), &component.InputScript{Path: cfg.Script}); err != nil {
				logrus.WithError(err).Warn("game: attach input script")
			}
		})
	}

	if cfg.Watch {
		watcher, err := prefabs.NewWatcher("prefabs", "prefabs/scripts")
		if err != nil {
			logrus.WithError(err).Warn("game: prefab hot reload disabled")
		} else {
			g.watcher = watcher
		}
	}

	if err := clipboard.Init(); err != nil {
		logrus.WithError(err).Debug("game: clipboard unavailable")
	} else {
		g.clipboard = true
	}

	g.pauseUI = NewPauseUI(g)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		g.Close()
		return ebiten.Termination
	}

	g.applyPrefabChanges()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		g.render.HUD = !g.render.HUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copyState()
	}

	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	g.world.Update(1 / float64(ebiten.TPS()))
	for _, ev := range g.world.Events().Peek() {
		logrus.WithField("event", ev.Type).WithField("data", ev.Data).Debug("game: event")
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen)

	if g.paused {
		g.pauseUI.Draw(screen)
	}
	if g.debug {
		b := screen.Bounds()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.1f  FPS: %.1f", ebiten.ActualTPS(), ebiten.ActualFPS()), b.Dx()-160, 10)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// setPaused releases or re-captures the cursor and unbinds or re-binds
// every controller.
func (g *Game) setPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if paused {
		ecs.Disable(g.world)
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	ecs.Enable(g.world)
	ebiten.SetCursorMode(ebiten.CursorModeCaptured)
}

func (g *Game) applyPrefabChanges() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log := logrus.WithField("file", change.Name)
			switch change.Kind {
			case prefabs.ChangeScript:
				g.input.Reload()
				log.Info("game: reloaded input scripts")
			case prefabs.ChangePrefab:
				n, err := entity.ReconfigurePlayers(g.world, change.Name, g.level)
				if err != nil {
					log.WithError(err).Warn("game: reconfigure failed")
					continue
				}
				if n > 0 {
					g.world.Events().Push(ecs.Event{Type: ecs.EventPrefabChanged, Data: change.Name})
					log.WithField("controllers", n).Info("game: reconfigured")
				}
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			logrus.WithError(err).Warn("game: prefab watcher")
		default:
			return
		}
	}
}

func (g *Game) copyState() {
	if !g.clipboard {
		return
	}
	e, pc, ok := ecs.First(g.world, component.PlayerControllerComponent.Kind())
	if !ok || pc.Controller == nil {
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(strings.Join(system.HUDLines(g.world, e, pc), "\n")))
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
}
