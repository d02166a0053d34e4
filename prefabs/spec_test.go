package prefabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTuningSpecDefaults(t *testing.T) {
	spec, err := LoadTuningSpec("")
	require.NoError(t, err)

	assert.Equal(t, 1, spec.Lanes.HalfCount)
	assert.Equal(t, 2.0, spec.Lanes.Width)
	assert.Equal(t, 48, spec.Track.Rows)
	assert.Equal(t, 8, spec.Track.BackRows)
	assert.Equal(t, GeneratorRandom, spec.Track.Generator)
	assert.InDelta(t, 0.1, spec.Track.ObstacleProbability, 1e-9)

	tuning := spec.Tuning()
	assert.Equal(t, 3, tuning.LaneCount())
	assert.Equal(t, 144, tuning.PoolSize())
	assert.InDelta(t, 96.0, tuning.Period(), 1e-9)
	assert.InDelta(t, 1.0/60.0, tuning.StepDuration(), 1e-12)
}

func TestLoadTuningSpecOverrideKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(path, []byte("lanes:\n  half_count: 2\ntrack:\n  obstacle_probability: 0\n"), 0o644))

	spec, err := LoadTuningSpec(path)
	require.NoError(t, err)

	assert.Equal(t, 2, spec.Lanes.HalfCount)
	assert.Equal(t, 2.0, spec.Lanes.Width, "width comes from the embedded defaults")
	assert.Equal(t, 0.0, spec.Track.ObstacleProbability)
	assert.Equal(t, 60, spec.Sim.TickRate)
}

func TestLoadTuningSpecMissingOverride(t *testing.T) {
	_, err := LoadTuningSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTuningSpecValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *TuningSpec)
	}{
		{"zero_lane_width", func(s *TuningSpec) { s.Lanes.Width = 0 }},
		{"negative_half_count", func(s *TuningSpec) { s.Lanes.HalfCount = -1 }},
		{"too_many_lanes", func(s *TuningSpec) { s.Lanes.HalfCount = 40 }},
		{"upward_gravity", func(s *TuningSpec) { s.Knight.Gravity = 9.81 }},
		{"probability_above_one", func(s *TuningSpec) { s.Track.ObstacleProbability = 1.5 }},
		{"back_rows_cover_pool", func(s *TuningSpec) { s.Track.BackRows = s.Track.Rows }},
		{"lateral_step_wider_than_lane", func(s *TuningSpec) { s.Knight.LateralSpeed = 1000 }},
		{"knight_wider_than_lane", func(s *TuningSpec) { s.Knight.Width = 3 }},
		{"unknown_generator", func(s *TuningSpec) { s.Track.Generator = "perlin" }},
		{"zero_tick_rate", func(s *TuningSpec) { s.Sim.TickRate = 0 }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			spec, err := LoadTuningSpec("")
			require.NoError(t, err)
			c.mutate(spec)
			err = spec.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTuning)
		})
	}
}

func TestLoadScriptEmbedded(t *testing.T) {
	for _, name := range []string{"track.tengo", "scripts/track.tengo", "prefabs/scripts/track.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "segments")
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	old := DiskDir
	DiskDir = dir
	t.Cleanup(func() { DiskDir = old })

	require.NoError(t, os.WriteFile(filepath.Join(dir, TuningFile), []byte("name: from-disk\n"), 0o644))

	data, err := Load("prefabs/" + TuningFile)
	require.NoError(t, err)
	assert.Equal(t, "name: from-disk\n", string(data))

	_, ok := ModTime(TuningFile)
	assert.True(t, ok)
}
