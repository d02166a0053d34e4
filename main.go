package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/knightrun/assets"
	"github.com/milk9111/knightrun/logging"
	"github.com/milk9111/knightrun/prefabs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "tuning yaml applied over the built-in defaults")
	seed := flag.String("seed", "", "track seed (overrides sim.seed)")
	debug := flag.Bool("debug", false, "enable debug mode")
	mute := flag.Bool("mute", false, "disable audio")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	spec, err := prefabs.LoadTuningSpec(*configPath)
	if err != nil {
		logger.Fatal("load tuning", zap.Error(err))
	}

	mixer, err := assets.NewMixer(assets.MixerConfig{
		Background: spec.Audio.Background,
		Volume:     spec.Audio.Volume,
		Muted:      *mute,
	}, logger)
	if err != nil {
		logger.Fatal("load audio", zap.Error(err))
	}
	defer func() { _ = mixer.Close() }()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("knightrun")
	ebiten.SetTPS(spec.Sim.TickRate)

	game, err := NewGame(Config{ConfigPath: *configPath, Seed: *seed, Debug: *debug}, spec, mixer, logger)
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, ctx := errgroup.WithContext(ctx)

	dirs := []string{prefabs.DiskDir, filepath.Join(prefabs.DiskDir, "scripts")}
	if *configPath != "" {
		dirs = append(dirs, filepath.Dir(*configPath))
	}
	watcher, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		logger.Warn("config watcher disabled", zap.Error(err))
	} else {
		g.Go(func() error {
			return watcher.Watch(ctx, game.MarkConfigChanged, func(err error) {
				logger.Warn("config watcher", zap.Error(err))
			})
		})
	}

	runErr := ebiten.RunGame(game)
	cancel()
	if err := g.Wait(); err != nil {
		logger.Warn("config watcher stopped", zap.Error(err))
	}
	if runErr != nil && !errors.Is(runErr, ebiten.Termination) {
		logger.Fatal("run game", zap.Error(runErr))
	}
	logger.Info("bye")
}
