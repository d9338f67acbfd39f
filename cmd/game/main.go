package main

import (
	"embed"
	"flag"
	"fmt"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/movingsphere/internal/application/game"
	"github.com/younwookim/movingsphere/internal/application/scene/playing"
	"github.com/younwookim/movingsphere/internal/infrastructure/config"
)

//go:embed configs
var configFS embed.FS

const defaultStage = "demo"

// loadConfig loads the physics file and the entity templates
func loadConfig(loader *config.Loader, physicsFile string) (*config.GameConfig, error) {
	physics, err := loader.LoadPhysicsFile(physicsFile)
	if err != nil {
		return nil, err
	}
	entities, err := loader.LoadEntities()
	if err != nil {
		return nil, err
	}
	return &config.GameConfig{Physics: physics, Entities: entities}, nil
}

// newLoader reads configs from dir, or from the embedded copy when dir is empty
func newLoader(dir string) (*config.Loader, error) {
	if dir != "" {
		return config.NewLoader(dir), nil
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("failed to get config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs"), nil
}

func main() {
	// Parse command line flags
	recordFlag := flag.String("record", "", "Record input to file (e.g., -record replay.json)")
	stageFlag := flag.String("stage", defaultStage, "Stage to load from configs/stages")
	physicsFlag := flag.String("physics", "physics.json", "Physics config file (json or yaml)")
	configDir := flag.String("config", "", "Read configs from this directory instead of the embedded ones")
	replayFlag := flag.String("replay", "", "Replay a recording headless and exit")
	traceFlag := flag.String("trace", "", "Write a CSV step trace of the replay")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	loader, err := newLoader(*configDir)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open configs")
	}
	cfg, err := loadConfig(loader, *physicsFlag)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	if *replayFlag != "" {
		if _, err := replayFile(cfg, loader, *replayFlag, *traceFlag); err != nil {
			logrus.WithError(err).Fatal("replay failed")
		}
		return
	}

	stageCfg, err := loader.LoadStage(*stageFlag)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load stage")
	}

	scene, err := playing.New(cfg, stageCfg, *recordFlag)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create scene")
	}

	display := cfg.Physics.Display
	g := game.New(scene, display.ScreenWidth, display.ScreenHeight, cfg.Physics.Physics.FixedStep)
	defer g.Close()

	// Set up ebiten
	ebiten.SetWindowSize(display.ScreenWidth*display.Scale, display.ScreenHeight*display.Scale)
	ebiten.SetWindowTitle("Moving Sphere")
	ebiten.SetTPS(g.TPS())

	logrus.WithFields(logrus.Fields{
		"stage":   stageCfg.ID,
		"physics": *physicsFlag,
		"tps":     g.TPS(),
	}).Info("starting")

	if err := ebiten.RunGame(g); err != nil {
		logrus.WithError(err).Error("game loop stopped")
	}
}
