package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed sounds/*.wav
var assetsFS embed.FS

// SampleRate is the rate every stream is decoded to.
const SampleRate = 44100

var ErrUnsupportedAudio = errors.New("assets: unsupported audio format")

// Stream is a decoded 16-bit stereo PCM stream of known length.
type Stream interface {
	io.ReadSeeker
	Length() int64
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	clean := cleanAssetPath(path)
	return assetsFS.ReadFile(clean)
}

// ReadAudioFile reads path from disk, falling back to the embedded assets.
func ReadAudioFile(path string) ([]byte, error) {
	if data, err := os.ReadFile(path); err == nil {
		return data, nil
	}
	data, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", path, err)
	}
	return data, nil
}

// DecodeStream decodes a wav file, or wraps already-decoded PCM (.pcm, .raw)
// in Ebiten's native format.
func DecodeStream(name string, data []byte) (Stream, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".wav":
		stream, err := wav.DecodeWithSampleRate(SampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: decode wav %q: %w", name, err)
		}
		return stream, nil
	case ".pcm", ".raw":
		if len(data)%4 != 0 {
			return nil, fmt.Errorf("assets: pcm %q: %d bytes is not whole stereo frames", name, len(data))
		}
		return newPCMStream(data), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAudio, name)
	}
}

// DecodePCM decodes name fully into memory.
func DecodePCM(name string, data []byte) ([]byte, error) {
	stream, err := DecodeStream(name, data)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("assets: read %q: %w", name, err)
	}
	return pcm, nil
}

type pcmStream struct {
	*bytes.Reader
}

func newPCMStream(pcm []byte) *pcmStream {
	return &pcmStream{Reader: bytes.NewReader(pcm)}
}

func (s *pcmStream) Length() int64 {
	return s.Size()
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "assets/") {
		return strings.TrimPrefix(s, "assets/")
	}
	return s
}
