package system

import (
	"fmt"
	"math/rand/v2"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/logging"
	"github.com/milk9111/knightrun/prefabs"
	"go.uber.org/zap"
)

// ScriptGenerator rolls rows with a tengo script. The script sees row,
// lanes, obstacle_probability, height_jitter and a seeded rand() and must
// set segments to one {height, obstacle} map per lane. Rows the script
// fails on are rolled by a RandomGenerator instead.
type ScriptGenerator struct {
	compiled *tengo.Compiled
	rng      *rand.Rand
	fallback *RandomGenerator
	logger   *zap.Logger
}

// LoadScriptGenerator compiles the named script from prefabs.
func LoadScriptGenerator(name string, cfg GeneratorConfig, logger *zap.Logger) (*ScriptGenerator, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("system: load script %q: %w", name, err)
	}
	gen, err := NewScriptGenerator(src, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("system: script %q: %w", name, err)
	}
	return gen, nil
}

func NewScriptGenerator(src []byte, cfg GeneratorConfig, logger *zap.Logger) (*ScriptGenerator, error) {
	g := &ScriptGenerator{
		rng:      rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d)),
		fallback: NewRandomGenerator(cfg),
		logger:   logging.OrNop(logger),
	}

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap("math"))
	_ = script.Add("row", int64(0))
	_ = script.Add("lanes", 0)
	_ = script.Add("obstacle_probability", cfg.ObstacleProbability)
	_ = script.Add("height_jitter", cfg.HeightJitter)
	_ = script.Add("rand", &tengo.UserFunction{Name: "rand", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: g.rng.Float64()}, nil
	}})

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}
	g.compiled = compiled
	return g, nil
}

func (g *ScriptGenerator) Generate(row int64, lanes int) []component.SegmentStyle {
	if lanes <= 0 {
		return nil
	}
	styles, err := g.run(row, lanes)
	if err != nil {
		g.logger.Warn("segment script failed, using random row",
			zap.Int64("row", row),
			zap.Error(err))
		return g.fallback.Generate(row, lanes)
	}
	return styles
}

// run executes the script once. Faults raised inside the VM (integer
// division by zero, for one) surface as panics and are returned as errors.
func (g *ScriptGenerator) run(row int64, lanes int) (styles []component.SegmentStyle, err error) {
	defer func() {
		if r := recover(); r != nil {
			styles = nil
			err = fmt.Errorf("system: script panic: %v", r)
		}
	}()

	if err := g.compiled.Set("row", row); err != nil {
		return nil, err
	}
	if err := g.compiled.Set("lanes", lanes); err != nil {
		return nil, err
	}
	if err := g.compiled.Run(); err != nil {
		return nil, err
	}
	if !g.compiled.IsDefined("segments") {
		return nil, fmt.Errorf("segments not defined")
	}

	items := g.compiled.Get("segments").Array()
	if len(items) != lanes {
		return nil, fmt.Errorf("segments has %d entries, want %d", len(items), lanes)
	}

	styles = make([]component.SegmentStyle, lanes)
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("segment %d: not a map", i)
		}
		height, err := scriptFloat(m["height"])
		if err != nil {
			return nil, fmt.Errorf("segment %d height: %w", i, err)
		}
		if height > 0 {
			height = 0
		}
		obstacle, _ := m["obstacle"].(bool)
		styles[i] = component.SegmentStyle{HeightOffset: height, HasObstacle: obstacle}
	}
	return styles, nil
}

func scriptFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}
