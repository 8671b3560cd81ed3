package audio

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV wraps samples in a minimal PCM16 WAV container. Used when a
// flagged call's audio is handed off for dispatcher review.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	pcm := EncodeLinear16(samples)

	var buf bytes.Buffer
	buf.Grow(44 + len(pcm))

	byteRate := sampleRate * 2 // mono, 16-bit

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}
