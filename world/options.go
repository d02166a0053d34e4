package world

import (
	"github.com/milk9111/knightrun/system"
	"go.uber.org/zap"
)

type Option func(*World)

func WithLogger(logger *zap.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithGenerator replaces the seeded random segment generator.
func WithGenerator(gen system.SegmentGenerator) Option {
	return func(w *World) {
		w.generator = gen
	}
}

// WithMotionController replaces the Chipmunk physics adapter.
func WithMotionController(mc MotionController) Option {
	return func(w *World) {
		w.motion = mc
	}
}

// WithSeed seeds the default generator. It has no effect with WithGenerator.
func WithSeed(seed uint64) Option {
	return func(w *World) {
		w.seed = seed
	}
}
