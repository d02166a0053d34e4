package assets

import (
	"encoding/binary"
	"math"
)

// backgroundNotes is a slow minor arpeggio used when no track is configured.
var backgroundNotes = []float64{110.00, 130.81, 164.81, 196.00, 164.81, 130.81}

// ToneLoop synthesises one bar of the fallback background as PCM.
func ToneLoop(notes []float64, noteSeconds float64) Stream {
	if len(notes) == 0 || noteSeconds <= 0 {
		return newPCMStream(nil)
	}
	perNote := int(noteSeconds * SampleRate)
	pcm := make([]byte, 0, perNote*len(notes)*4)
	frame := make([]byte, 4)

	for _, freq := range notes {
		for i := 0; i < perNote; i++ {
			t := float64(i) / SampleRate
			env := math.Min(1, float64(i)/400) * math.Exp(-3*t)
			s := 0.6*math.Sin(2*math.Pi*freq*t) + 0.25*math.Sin(4*math.Pi*freq*t)
			v := int16(s * env * 0.3 * math.MaxInt16)
			binary.LittleEndian.PutUint16(frame[0:], uint16(v))
			binary.LittleEndian.PutUint16(frame[2:], uint16(v))
			pcm = append(pcm, frame...)
		}
	}
	return newPCMStream(pcm)
}
