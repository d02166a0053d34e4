package prefabs

import (
	"errors"
	"fmt"
	"os"

	"github.com/milk9111/knightrun/component"
	"gopkg.in/yaml.v3"
)

const (
	TuningFile         = "tuning.yaml"
	DefaultTrackScript = "track.tengo"
)

// ErrInvalidTuning is wrapped by every TuningSpec validation failure.
var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

// LoadSpec decodes a YAML prefab, preferring the copy on disk.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TuningSpec struct {
	Name   string     `yaml:"name"`
	Lanes  LanesSpec  `yaml:"lanes"`
	Knight KnightSpec `yaml:"knight"`
	Track  TrackSpec  `yaml:"track"`
	Sim    SimSpec    `yaml:"sim"`
	Audio  AudioSpec  `yaml:"audio"`
}

type LanesSpec struct {
	HalfCount int     `yaml:"half_count"`
	Width     float64 `yaml:"width"`
}

type KnightSpec struct {
	RunningSpeed  float64 `yaml:"running_speed"`
	LateralSpeed  float64 `yaml:"lateral_speed"`
	JumpSpeed     float64 `yaml:"jump_speed"`
	Gravity       float64 `yaml:"gravity"`
	Mass          float64 `yaml:"mass"`
	GraceDuration float64 `yaml:"grace_duration"`
	SpawnHeight   float64 `yaml:"spawn_height"`
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
}

type TrackSpec struct {
	Rows                int     `yaml:"rows"`
	BackRows            int     `yaml:"back_rows"`
	SafeRows            int     `yaml:"safe_rows"`
	SegmentSize         float64 `yaml:"segment_size"`
	BrickThickness      float64 `yaml:"brick_thickness"`
	ObstacleProbability float64 `yaml:"obstacle_probability"`
	ObstacleHeight      float64 `yaml:"obstacle_height"`
	HeightJitter        float64 `yaml:"height_jitter"`
	Generator           string  `yaml:"generator"`
	Script              string  `yaml:"script"`
}

type SimSpec struct {
	TickRate  int     `yaml:"tick_rate"`
	Seed      string  `yaml:"seed"`
	FallLimit float64 `yaml:"fall_limit"`
}

type AudioSpec struct {
	Background string  `yaml:"background"`
	Volume     float64 `yaml:"volume"`
}

const (
	GeneratorRandom = "random"
	GeneratorScript = "script"
)

// LoadTuningSpec decodes the embedded defaults and then, when override is
// set, decodes that file on top so partial overrides keep the defaults.
func LoadTuningSpec(override string) (*TuningSpec, error) {
	spec, err := LoadSpec[TuningSpec](TuningFile)
	if err != nil {
		return nil, err
	}

	if override != "" {
		data, err := os.ReadFile(override)
		if err != nil {
			return nil, fmt.Errorf("prefabs: load %s: %w", override, err)
		}
		if err := yaml.Unmarshal(data, &spec); err != nil {
			return nil, fmt.Errorf("prefabs: unmarshal %s: %w", override, err)
		}
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

func (s *TuningSpec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil spec", ErrInvalidTuning)
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"lanes.width", s.Lanes.Width},
		{"knight.running_speed", s.Knight.RunningSpeed},
		{"knight.lateral_speed", s.Knight.LateralSpeed},
		{"knight.jump_speed", s.Knight.JumpSpeed},
		{"knight.mass", s.Knight.Mass},
		{"knight.width", s.Knight.Width},
		{"knight.height", s.Knight.Height},
		{"track.segment_size", s.Track.SegmentSize},
		{"track.brick_thickness", s.Track.BrickThickness},
		{"track.obstacle_height", s.Track.ObstacleHeight},
		{"sim.tick_rate", float64(s.Sim.TickRate)},
		{"track.rows", float64(s.Track.Rows)},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidTuning, p.name, p.value)
		}
	}

	if s.Lanes.HalfCount < 0 || s.Lanes.HalfCount > 31 {
		return fmt.Errorf("%w: lanes.half_count must be in [0, 31], got %d", ErrInvalidTuning, s.Lanes.HalfCount)
	}
	if s.Knight.Gravity >= 0 {
		return fmt.Errorf("%w: knight.gravity must be negative, got %v", ErrInvalidTuning, s.Knight.Gravity)
	}
	if s.Knight.GraceDuration < 0 {
		return fmt.Errorf("%w: knight.grace_duration must not be negative", ErrInvalidTuning)
	}
	if s.Knight.Width >= s.Lanes.Width {
		return fmt.Errorf("%w: knight.width %v must be narrower than lanes.width %v", ErrInvalidTuning, s.Knight.Width, s.Lanes.Width)
	}
	if s.Track.ObstacleProbability < 0 || s.Track.ObstacleProbability > 1 {
		return fmt.Errorf("%w: track.obstacle_probability must be in [0, 1], got %v", ErrInvalidTuning, s.Track.ObstacleProbability)
	}
	if s.Track.HeightJitter < 0 {
		return fmt.Errorf("%w: track.height_jitter must not be negative", ErrInvalidTuning)
	}
	if s.Track.BackRows < 0 || s.Track.BackRows >= s.Track.Rows {
		return fmt.Errorf("%w: track.back_rows must be in [0, rows), got %d", ErrInvalidTuning, s.Track.BackRows)
	}
	if s.Track.SafeRows < 0 {
		return fmt.Errorf("%w: track.safe_rows must not be negative", ErrInvalidTuning)
	}
	if step := s.Knight.LateralSpeed / float64(s.Sim.TickRate); step > s.Lanes.Width {
		return fmt.Errorf("%w: knight.lateral_speed moves %v per tick, more than one lane", ErrInvalidTuning, step)
	}
	if s.Track.Generator != GeneratorRandom && s.Track.Generator != GeneratorScript {
		return fmt.Errorf("%w: track.generator must be %q or %q, got %q", ErrInvalidTuning, GeneratorRandom, GeneratorScript, s.Track.Generator)
	}
	if s.Audio.Volume < 0 || s.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio.volume must be in [0, 1], got %v", ErrInvalidTuning, s.Audio.Volume)
	}
	return nil
}

// Tuning converts the spec into the runtime constants of a session.
func (s *TuningSpec) Tuning() component.Tuning {
	return component.Tuning{
		HalfLanes: s.Lanes.HalfCount,
		LaneWidth: s.Lanes.Width,

		RunningSpeed:  s.Knight.RunningSpeed,
		LateralSpeed:  s.Knight.LateralSpeed,
		JumpSpeed:     s.Knight.JumpSpeed,
		Gravity:       s.Knight.Gravity,
		Mass:          s.Knight.Mass,
		GraceDuration: s.Knight.GraceDuration,
		SpawnHeight:   s.Knight.SpawnHeight,
		KnightWidth:   s.Knight.Width,
		KnightHeight:  s.Knight.Height,

		Rows:                s.Track.Rows,
		BackRows:            s.Track.BackRows,
		SafeRows:            s.Track.SafeRows,
		SegmentSize:         s.Track.SegmentSize,
		BrickThickness:      s.Track.BrickThickness,
		ObstacleProbability: s.Track.ObstacleProbability,
		ObstacleHeight:      s.Track.ObstacleHeight,
		HeightJitter:        s.Track.HeightJitter,

		TickRate:  s.Sim.TickRate,
		FallLimit: s.Sim.FallLimit,
	}
}
