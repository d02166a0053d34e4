package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"sync/atomic"

	"github.com/ebitenui/ebitenui"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/knightrun/assets"
	"github.com/milk9111/knightrun/common"
	"github.com/milk9111/knightrun/logging"
	"github.com/milk9111/knightrun/prefabs"
	"github.com/milk9111/knightrun/system"
	"github.com/milk9111/knightrun/world"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// statusDuration is how many ticks a HUD status message stays up.
const statusDuration = 120

// Config carries the command line settings of a session.
type Config struct {
	ConfigPath string
	Seed       string
	Debug      bool
}

type Game struct {
	logger *zap.Logger
	cfg    Config
	spec   *prefabs.TuningSpec
	mixer  *assets.Mixer

	world    *world.World
	physics  *system.PhysicsSystem
	camera   *Camera
	renderer *Renderer

	pauseUI *ebitenui.UI
	hudFace ebtext.Face

	session     uuid.UUID
	seed        string
	paused      bool
	quit        bool
	clipboardOK bool
	status      string
	statusTicks int

	configChanged atomic.Bool
}

func NewGame(cfg Config, spec *prefabs.TuningSpec, mixer *assets.Mixer, logger *zap.Logger) (*Game, error) {
	g := &Game{
		logger:  logging.OrNop(logger),
		cfg:     cfg,
		spec:    spec,
		mixer:   mixer,
		hudFace: ebtext.NewGoXFace(basicfont.Face7x13),
		session: uuid.New(),
	}

	if err := clipboard.Init(); err != nil {
		g.logger.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboardOK = true
	}

	if err := g.newRun(); err != nil {
		return nil, err
	}
	g.mixer.Start()

	g.logger.Info("session started",
		zap.String("session", g.session.String()),
		zap.String("seed", g.seed))
	return g, nil
}

// newRun builds a fresh world from the current spec. The previous run is
// kept when anything fails.
func (g *Game) newRun() error {
	tuning := g.spec.Tuning()
	seed := runSeed(g.cfg.Seed, g.spec.Sim.Seed)

	gen, err := newGenerator(g.spec, seed, g.logger)
	if err != nil {
		return err
	}
	physics := system.NewPhysicsSystem(tuning, g.logger)
	w, err := world.New(tuning,
		world.WithGenerator(gen),
		world.WithMotionController(physics),
		world.WithLogger(g.logger),
	)
	if err != nil {
		return err
	}
	w.Spawn()

	camera := NewCamera(common.BaseWidth, common.BaseHeight)
	if k, err := w.Knight(); err == nil {
		camera.Snap(k)
	}

	g.world = w
	g.physics = physics
	g.camera = camera
	g.renderer = NewRenderer(tuning, camera)
	g.seed = seed
	return nil
}

// runSeed prefers the command line seed, then the configured one. With
// neither set every run gets a fresh seed.
func runSeed(flagSeed, specSeed string) string {
	switch {
	case flagSeed != "":
		return flagSeed
	case specSeed != "":
		return specSeed
	default:
		return uuid.NewString()
	}
}

func newGenerator(spec *prefabs.TuningSpec, seed string, logger *zap.Logger) (system.SegmentGenerator, error) {
	cfg := system.GeneratorConfigFromTuning(spec.Tuning(), system.SeedFromString(seed))
	switch spec.Track.Generator {
	case prefabs.GeneratorScript:
		name := spec.Track.Script
		if name == "" {
			name = prefabs.DefaultTrackScript
		}
		gen, err := system.LoadScriptGenerator(name, cfg, logger)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case prefabs.GeneratorRandom, "":
		return system.NewRandomGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("game: unknown generator %q", spec.Track.Generator)
	}
}

// cueFor maps a gameplay event to the sound it plays.
func cueFor(evt world.Event) (string, bool) {
	switch evt.Kind {
	case world.EventJump:
		return assets.CueJump, true
	case world.EventLaneChange:
		return assets.CueShift, true
	case world.EventCrash:
		return assets.CueCrash, true
	default:
		return "", false
	}
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		if g.pauseUI != nil {
			g.pauseUI.Update()
		}
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.restart()
		return nil
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.copySeed()
	}

	g.world.Tick(sampleInput())
	for _, evt := range g.world.Events() {
		if cue, ok := cueFor(evt); ok {
			g.mixer.Cue(cue)
		}
	}

	if g.statusTicks > 0 {
		g.statusTicks--
	}
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		g.pauseUI = NewPauseUI(g)
		g.mixer.Pause()
		return
	}
	g.pauseUI = nil
	g.world.ResetInput(sampleInput())
	g.mixer.Start()
}

// restart begins a new run, picking up config edits seen by the watcher.
func (g *Game) restart() {
	if g.configChanged.Swap(false) {
		spec, err := prefabs.LoadTuningSpec(g.cfg.ConfigPath)
		if err != nil {
			g.logger.Warn("config reload failed, keeping previous", zap.Error(err))
			g.setStatus("config error, see log")
		} else {
			g.spec = spec
			ebiten.SetTPS(spec.Sim.TickRate)
			g.logger.Info("config reloaded", zap.String("name", spec.Name))
		}
	}

	if err := g.newRun(); err != nil {
		g.logger.Error("restart failed", zap.Error(err))
		g.setStatus("restart failed, see log")
		return
	}
	g.setPaused(false)
	g.mixer.Restart()
	g.logger.Info("run restarted", zap.String("seed", g.seed))
}

func (g *Game) copySeed() {
	if !g.clipboardOK {
		g.setStatus("clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(g.seedLine()))
	g.setStatus("seed copied")
}

func (g *Game) seedLine() string {
	return fmt.Sprintf("seed=%s session=%s", g.seed, g.session)
}

func (g *Game) setStatus(msg string) {
	g.status = msg
	g.statusTicks = statusDuration
}

// MarkConfigChanged is called from the watcher goroutine. The new config is
// applied on the next restart.
func (g *Game) MarkConfigChanged(path string) {
	g.configChanged.Store(true)
	fields := []zap.Field{zap.String("path", path)}
	if mod, ok := prefabs.ModTime(filepath.Base(path)); ok {
		fields = append(fields, zap.Time("modified", mod))
	}
	g.logger.Info("config changed, press R to apply", fields...)
}

func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.world.Snapshot()
	g.renderer.Draw(screen, snap)
	g.drawHUD(screen, snap)

	if g.cfg.Debug {
		debugDrawPhysics(screen, g.physics, snap.Knight.Progress())
	}
	if g.paused && g.pauseUI != nil {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image, snap world.Snapshot) {
	lines := []string{
		fmt.Sprintf("Distance: %.1f", snap.Stats.Distance),
		fmt.Sprintf("Lane: %d", snap.Knight.Lane),
		fmt.Sprintf("Seed: %s", g.seed),
	}
	if g.cfg.Debug {
		lines = append(lines,
			fmt.Sprintf("FPS: %.2f  TPS: %.2f", ebiten.ActualFPS(), ebiten.ActualTPS()),
			fmt.Sprintf("Jumps: %d  Lane changes: %d  Recycled: %d", snap.Stats.Jumps, snap.Stats.LaneChanges, snap.Stats.Recycled),
		)
	}
	for i, line := range lines {
		g.drawText(screen, line, 12, 12+float64(i)*16, colornames.White)
	}

	if snap.Over {
		msg := fmt.Sprintf("Crashed (%s) after %.1f. Press R to run again.", snap.Reason, snap.Stats.Distance)
		w, _ := ebtext.Measure(msg, g.hudFace, 0)
		g.drawText(screen, msg, (common.BaseWidth-w)/2, common.BaseHeight/2, colornames.Gold)
	}
	if g.statusTicks > 0 && g.status != "" {
		g.drawText(screen, g.status, 12, common.BaseHeight-28, colornames.Lightgreen)
	}
}

func (g *Game) drawText(screen *ebiten.Image, msg string, x, y float64, c color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	ebtext.Draw(screen, msg, g.hudFace, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
