package assets

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEmbeddedCues(t *testing.T) {
	for name, path := range cueFiles {
		t.Run(name, func(t *testing.T) {
			data, err := LoadFile(path)
			require.NoError(t, err)
			stream, err := DecodeStream(path, data)
			require.NoError(t, err)
			assert.Greater(t, stream.Length(), int64(0))
			assert.Zero(t, stream.Length()%4)
		})
	}
}

func TestDecodeStreamErrors(t *testing.T) {
	_, err := DecodeStream("broken.wav", []byte("definitely not RIFF"))
	assert.Error(t, err)

	_, err = DecodeStream("song.ogg", []byte{1, 2, 3, 4})
	assert.ErrorIs(t, err, ErrUnsupportedAudio)

	_, err = DecodeStream("odd.pcm", []byte{1, 2, 3})
	assert.Error(t, err)

	stream, err := DecodeStream("even.raw", []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	assert.Equal(t, int64(8), stream.Length())
}

func TestToneLoop(t *testing.T) {
	stream := ToneLoop([]float64{220, 330}, 0.25)
	want := int64(2 * int(0.25*SampleRate) * 4)
	assert.Equal(t, want, stream.Length())

	pcm, err := io.ReadAll(stream)
	require.NoError(t, err)
	silent := true
	for _, b := range pcm {
		if b != 0 {
			silent = false
			break
		}
	}
	assert.False(t, silent)

	assert.Zero(t, ToneLoop(nil, 1).Length())
}

func TestNewMixerRejectsMalformedBackground(t *testing.T) {
	path := filepath.Join(t.TempDir(), "music.wav")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o644))

	_, err := NewMixer(MixerConfig{Background: path, Volume: 0.5}, nil)
	assert.Error(t, err)

	_, err = NewMixer(MixerConfig{Background: filepath.Join(t.TempDir(), "missing.wav")}, nil)
	assert.Error(t, err)
}

func TestMutedMixer(t *testing.T) {
	m, err := NewMixer(MixerConfig{Muted: true, Volume: 0.5}, nil)
	require.NoError(t, err)
	assert.True(t, m.Muted())
	assert.Len(t, m.cues, len(cueFiles))

	// No audio device is touched while muted.
	m.Start()
	m.Cue(CueJump)
	m.Pause()
	assert.NoError(t, m.Close())
}

func TestCleanAssetPath(t *testing.T) {
	assert.Equal(t, "sounds/jump.wav", cleanAssetPath("assets/sounds/jump.wav"))
	assert.Equal(t, "sounds/jump.wav", cleanAssetPath("/home/me/game/assets/sounds/jump.wav"))
	assert.Equal(t, "", cleanAssetPath(""))
}
