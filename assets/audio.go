package assets

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/knightrun/logging"
	"go.uber.org/zap"
)

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

func audioCtx() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

// Sound cue names.
const (
	CueJump  = "jump"
	CueShift = "shift"
	CueCrash = "crash"
)

var cueFiles = map[string]string{
	CueJump:  "sounds/jump.wav",
	CueShift: "sounds/shift.wav",
	CueCrash: "sounds/crash.wav",
}

type MixerConfig struct {
	// Background is a wav or raw PCM file; empty plays a synthesised loop.
	Background string
	Volume     float64
	Muted      bool
}

// Mixer plays the looping background track and one-shot cues.
type Mixer struct {
	logger *zap.Logger
	volume float64
	muted  bool

	music *audio.Player
	cues  map[string][]byte
}

// NewMixer decodes every sound up front so a malformed file fails at
// startup instead of mid-run.
func NewMixer(cfg MixerConfig, logger *zap.Logger) (*Mixer, error) {
	m := &Mixer{
		logger: logging.OrNop(logger),
		volume: cfg.Volume,
		muted:  cfg.Muted,
		cues:   make(map[string][]byte, len(cueFiles)),
	}

	var background Stream
	if cfg.Background != "" {
		data, err := ReadAudioFile(cfg.Background)
		if err != nil {
			return nil, err
		}
		background, err = DecodeStream(cfg.Background, data)
		if err != nil {
			return nil, err
		}
	} else {
		background = ToneLoop(backgroundNotes, 0.5)
	}

	for name, path := range cueFiles {
		data, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("assets: load cue %s: %w", name, err)
		}
		pcm, err := DecodePCM(path, data)
		if err != nil {
			return nil, err
		}
		m.cues[name] = pcm
	}

	if m.muted {
		m.logger.Info("audio muted")
		return m, nil
	}

	player, err := audioCtx().NewPlayer(audio.NewInfiniteLoop(background, background.Length()))
	if err != nil {
		return nil, fmt.Errorf("assets: background player: %w", err)
	}
	player.SetVolume(m.volume)
	m.music = player

	m.logger.Info("audio ready",
		zap.String("background", cfg.Background),
		zap.Float64("volume", m.volume))
	return m, nil
}

// Start begins or resumes the background loop.
func (m *Mixer) Start() {
	if m == nil || m.music == nil {
		return
	}
	if !m.music.IsPlaying() {
		m.music.Play()
	}
}

func (m *Mixer) Pause() {
	if m == nil || m.music == nil {
		return
	}
	m.music.Pause()
}

// Restart rewinds the background loop to the beginning.
func (m *Mixer) Restart() {
	if m == nil || m.music == nil {
		return
	}
	if err := m.music.Rewind(); err != nil {
		m.logger.Warn("rewind background", zap.Error(err))
	}
	m.music.Play()
}

// Cue plays a one-shot sound. Unknown names are ignored.
func (m *Mixer) Cue(name string) {
	if m == nil || m.muted {
		return
	}
	pcm, ok := m.cues[name]
	if !ok {
		return
	}
	player := audioCtx().NewPlayerFromBytes(pcm)
	player.SetVolume(m.volume)
	player.Play()
}

func (m *Mixer) Muted() bool {
	return m == nil || m.muted
}

func (m *Mixer) Close() error {
	if m == nil || m.music == nil {
		return nil
	}
	m.music.Pause()
	return m.music.Close()
}
