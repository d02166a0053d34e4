package system

import (
	"testing"

	"github.com/milk9111/knightrun/component"
	"github.com/milk9111/knightrun/prefabs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedFromString(t *testing.T) {
	assert.Equal(t, SeedFromString("knight"), SeedFromString("knight"))
	assert.NotEqual(t, SeedFromString("knight"), SeedFromString("knights"))
}

func TestRandomGeneratorDeterministic(t *testing.T) {
	cfg := GeneratorConfig{Seed: 42, ObstacleProbability: 0.3, HeightJitter: 0.1}
	a := NewRandomGenerator(cfg)
	b := NewRandomGenerator(cfg)
	for row := int64(0); row < 50; row++ {
		assert.Equal(t, a.Generate(row, 3), b.Generate(row, 3))
	}
}

func TestRandomGeneratorRanges(t *testing.T) {
	cfg := GeneratorConfig{Seed: 3, ObstacleProbability: 0.25, HeightJitter: 0.2}
	gen := NewRandomGenerator(cfg)

	obstacles, total := 0, 0
	for row := int64(0); row < 2000; row++ {
		styles := gen.Generate(row, 5)
		require.Len(t, styles, 5)
		for _, s := range styles {
			total++
			if s.HasObstacle {
				obstacles++
			}
			require.GreaterOrEqual(t, s.HeightOffset, -0.4)
			require.Less(t, s.HeightOffset, 0.0)
		}
	}
	assert.InDelta(t, 0.25, float64(obstacles)/float64(total), 0.03)
}

func TestRandomGeneratorZeroSettings(t *testing.T) {
	gen := NewRandomGenerator(GeneratorConfig{Seed: 9})
	for row := int64(0); row < 100; row++ {
		for _, s := range gen.Generate(row, 3) {
			assert.False(t, s.HasObstacle)
			assert.Equal(t, 0.0, s.HeightOffset)
		}
	}
	assert.Nil(t, gen.Generate(0, 0))
}

func TestScriptGeneratorBundledScript(t *testing.T) {
	cfg := GeneratorConfig{Seed: 11, ObstacleProbability: 0.5, HeightJitter: 0.1}
	a, err := LoadScriptGenerator(prefabs.DefaultTrackScript, cfg, nil)
	require.NoError(t, err)
	b, err := LoadScriptGenerator(prefabs.DefaultTrackScript, cfg, nil)
	require.NoError(t, err)

	sawObstacle := false
	for row := int64(1); row < 200; row++ {
		styles := a.Generate(row, 3)
		require.Len(t, styles, 3)
		assert.Equal(t, styles, b.Generate(row, 3))
		for _, s := range styles {
			assert.LessOrEqual(t, s.HeightOffset, 0.0)
			assert.GreaterOrEqual(t, s.HeightOffset, -0.2)
			if row%4 == 0 {
				assert.False(t, s.HasObstacle)
				assert.Equal(t, 0.0, s.HeightOffset)
			}
			sawObstacle = sawObstacle || s.HasObstacle
		}
	}
	assert.True(t, sawObstacle)
}

func TestScriptGeneratorCompileError(t *testing.T) {
	_, err := NewScriptGenerator([]byte("segments := ["), GeneratorConfig{}, nil)
	require.Error(t, err)

	_, err = LoadScriptGenerator("does_not_exist.tengo", GeneratorConfig{}, nil)
	require.Error(t, err)
}

func TestScriptGeneratorFallsBackOnRuntimeError(t *testing.T) {
	src := []byte(`
segments := []
if row == 3 {
	segments = 1 / (row - 3)
}
for i := 0; i < lanes; i++ {
	segments = append(segments, {height: -0.05, obstacle: true})
}
`)
	cfg := GeneratorConfig{Seed: 5, ObstacleProbability: 0, HeightJitter: 0}
	gen, err := NewScriptGenerator(src, cfg, nil)
	require.NoError(t, err)

	styles := gen.Generate(1, 3)
	for _, s := range styles {
		assert.True(t, s.HasObstacle)
		assert.InDelta(t, -0.05, s.HeightOffset, 1e-12)
	}

	_, err = gen.run(3, 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero")

	styles = gen.Generate(3, 3)
	require.Len(t, styles, 3)
	assert.Equal(t, []component.SegmentStyle{{}, {}, {}}, styles)

	// The script keeps working for later rows.
	styles = gen.Generate(4, 3)
	require.Len(t, styles, 3)
	assert.True(t, styles[0].HasObstacle)
}

func TestScriptGeneratorWrongLength(t *testing.T) {
	gen, err := NewScriptGenerator([]byte(`segments := [{height: 0.0, obstacle: true}]`), GeneratorConfig{Seed: 1}, nil)
	require.NoError(t, err)

	styles := gen.Generate(0, 3)
	require.Len(t, styles, 3)
	for _, s := range styles {
		assert.False(t, s.HasObstacle)
	}
}
