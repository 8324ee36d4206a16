package notify

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
)

const (
	chimeSampleRate = 8000
	chimeToneLen    = 0.15 // seconds per tone
)

// chimeWAV renders the terminal-fallback alert: a short two-tone chime
// (A5 then E5) as 16-bit mono PCM. It needs no sound assets, so this
// rung of the ladder is always available.
func chimeWAV() []byte {
	tones := []float64{880, 659.25}
	perTone := int(chimeSampleRate * chimeToneLen)

	var pcm bytes.Buffer
	for _, freq := range tones {
		for i := 0; i < perTone; i++ {
			t := float64(i) / chimeSampleRate
			// Linear fade-out per tone avoids clicks at the boundary.
			env := 1 - float64(i)/float64(perTone)
			sample := math.Sin(2*math.Pi*freq*t) * env * 0.6
			binary.Write(&pcm, binary.LittleEndian, int16(sample*math.MaxInt16))
		}
	}

	data := pcm.Bytes()
	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(36+len(data)))
	out.WriteString("WAVE")
	out.WriteString("fmt ")
	binary.Write(&out, binary.LittleEndian, uint32(16))
	binary.Write(&out, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&out, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&out, binary.LittleEndian, uint32(chimeSampleRate))
	binary.Write(&out, binary.LittleEndian, uint32(chimeSampleRate*2)) // byte rate
	binary.Write(&out, binary.LittleEndian, uint16(2))                 // block align
	binary.Write(&out, binary.LittleEndian, uint16(16))                // bits per sample
	out.WriteString("data")
	binary.Write(&out, binary.LittleEndian, uint32(len(data)))
	out.Write(data)
	return out.Bytes()
}

// writeChimeFile writes the chime to a temp file and returns its path.
// The caller removes the file after playback.
func writeChimeFile() (string, error) {
	f, err := os.CreateTemp("", "aitodo-chime-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(chimeWAV()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
