package system

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
	"github.com/milk9111/knightrun/component"
)

// SegmentGenerator rolls the style of every lane of a row. It returns one
// style per lane, ordered from the leftmost lane.
type SegmentGenerator interface {
	Generate(row int64, lanes int) []component.SegmentStyle
}

type GeneratorConfig struct {
	Seed                uint64
	ObstacleProbability float64
	HeightJitter        float64
}

// GeneratorConfigFromTuning takes the obstacle and height settings from t.
func GeneratorConfigFromTuning(t component.Tuning, seed uint64) GeneratorConfig {
	return GeneratorConfig{
		Seed:                seed,
		ObstacleProbability: t.ObstacleProbability,
		HeightJitter:        t.HeightJitter,
	}
}

// SeedFromString hashes a session seed string into a generator seed.
func SeedFromString(s string) uint64 {
	return xxhash.Sum64String(s)
}

// RandomGenerator draws every lane independently: an obstacle with the
// configured probability and a height offset uniform in [-2*jitter, 0).
type RandomGenerator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

func NewRandomGenerator(cfg GeneratorConfig) *RandomGenerator {
	return &RandomGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
	}
}

func (g *RandomGenerator) Generate(row int64, lanes int) []component.SegmentStyle {
	if lanes <= 0 {
		return nil
	}
	styles := make([]component.SegmentStyle, lanes)
	for i := range styles {
		styles[i] = component.SegmentStyle{
			HeightOffset: g.height(),
			HasObstacle:  g.rng.Float64() < g.cfg.ObstacleProbability,
		}
	}
	return styles
}

func (g *RandomGenerator) height() float64 {
	if g.cfg.HeightJitter <= 0 {
		return 0
	}
	return -2 * g.cfg.HeightJitter * (1 - g.rng.Float64())
}
