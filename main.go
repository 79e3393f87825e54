package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "arena", "level name in levels/ (basename, .json optional)")
	sceneName := flag.String("scene", "scene.yaml", "scene prefab listing the entities to spawn")
	script := flag.String("script", "", "drive the player from prefabs/scripts/<name>.tengo instead of devices")
	watch := flag.Bool("watch", false, "reload prefabs and scripts from disk when they change")
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 720)
	ebiten.SetWindowTitle("fpscontroller")

	game, err := NewGame(GameConfig{
		Level:  *levelName,
		Scene:  *sceneName,
		Script: *script,
		Debug:  *debug,
		Watch:  *watch,
	})
	if err != nil {
		logrus.WithError(err).Fatal("start game")
	}
	defer game.Close()

	ebiten.SetCursorMode(ebiten.CursorModeCaptured)

	if err := ebiten.RunGame(game); err != nil {
		logrus.WithError(err).Fatal("run game")
	}
}
