package audio

import (
	"encoding/binary"
	"math"
)

// The live boundary carries raw little-endian float32 mono PCM, the framing
// the Web Audio API produces. The same codec backs the batch endpoint so both
// paths decode identically.

// DecodeFloat32 converts little-endian float32 PCM bytes to samples. Trailing
// bytes that do not complete a sample are dropped.
func DecodeFloat32(data []byte) []float32 {
	n := len(data) / 4
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out
}

// EncodeLinear16 converts float32 samples in [-1, 1] to 16-bit little-endian
// PCM, the encoding Cloud Speech expects for LINEAR16.
func EncodeLinear16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := float64(s)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(v*32767)))
	}
	return out
}
