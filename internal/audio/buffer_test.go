package audio

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(rate int, seconds float64, amplitude float32) []float32 {
	n := int(float64(rate) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = amplitude
	}
	return out
}

func TestBufferEmptyNeverTriggers(t *testing.T) {
	b := NewBuffer(BufferConfig{})

	assert.False(t, b.ShouldProcess())
	assert.Equal(t, 0.0, b.Duration())
}

func TestBufferZeroLengthChunkIgnored(t *testing.T) {
	b := NewBuffer(BufferConfig{})

	b.AddChunk(nil)
	b.AddChunk([]float32{})

	assert.Equal(t, 0.0, b.Duration())
	assert.False(t, b.ShouldProcess())
}

func TestBufferDurationTracksSamples(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000})

	b.AddChunk(block(16000, 1.0, 0.1))
	assert.InDelta(t, 1.0, b.Duration(), 1e-9)

	b.AddChunk(block(16000, 0.5, 0.1))
	assert.InDelta(t, 1.5, b.Duration(), 1e-9)
}

func TestBufferSilenceAfterVoiceTriggers(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000, SilenceDuration: 1.5})

	// Voiced second, then quiet audio below the energy threshold.
	b.AddChunk(block(16000, 1.0, 0.2))
	assert.False(t, b.ShouldProcess())

	b.AddChunk(block(16000, 1.0, 0.001))
	assert.False(t, b.ShouldProcess())

	b.AddChunk(block(16000, 0.5, 0.001))
	assert.True(t, b.ShouldProcess())
}

func TestBufferSilenceOnlyNeverTriggersBeforeOverflow(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000, SilenceDuration: 1.5, OverflowCap: 10})

	// No voice at all: silence trigger must stay off until the cap.
	for i := 0; i < 9; i++ {
		b.AddChunk(block(16000, 1.0, 0.0))
		assert.False(t, b.ShouldProcess(), "after %ds of pure silence", i+1)
	}
	b.AddChunk(block(16000, 1.0, 0.0))
	assert.True(t, b.ShouldProcess(), "overflow cap reached")
}

func TestBufferOverflowTriggersOnContinuousSpeech(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000, OverflowCap: 5})

	for i := 0; i < 4; i++ {
		b.AddChunk(block(16000, 1.0, 0.3))
		assert.False(t, b.ShouldProcess())
	}
	b.AddChunk(block(16000, 1.0, 0.3))
	assert.True(t, b.ShouldProcess())
}

func TestBufferSnapshotIsIndependentCopy(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000})
	b.AddChunk([]float32{0.1, 0.2, 0.3})

	snap := b.Snapshot()
	require.Len(t, snap, 3)

	snap[0] = 9
	again := b.Snapshot()
	assert.Equal(t, float32(0.1), again[0])
}

func TestBufferClearResetsEverything(t *testing.T) {
	b := NewBuffer(BufferConfig{SampleRate: 16000, SilenceDuration: 1.0})

	b.AddChunk(block(16000, 1.0, 0.3))
	b.AddChunk(block(16000, 1.5, 0.0))
	require.True(t, b.ShouldProcess())

	b.Clear()

	assert.Equal(t, 0.0, b.Duration())
	assert.Empty(t, b.Snapshot())
	assert.False(t, b.ShouldProcess())

	// A quiet chunk after clear must not inherit the old voice timestamp.
	b.AddChunk(block(16000, 2.0, 0.0))
	assert.False(t, b.ShouldProcess())
}

func TestRMS(t *testing.T) {
	assert.Equal(t, 0.0, RMS(nil))
	assert.InDelta(t, 0.5, RMS([]float32{0.5, -0.5, 0.5, -0.5}), 1e-9)
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	in := []float32{0, 0.25, -0.25, 1, -1}
	raw := make([]byte, 0, len(in)*4)
	for _, s := range in {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(s))
		raw = append(raw, b[:]...)
	}

	out := DecodeFloat32(raw)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Equal(t, in[i], out[i])
	}

	// Trailing partial sample is dropped.
	assert.Len(t, DecodeFloat32(append(raw, 0x01, 0x02)), len(in))
}

func TestEncodeWAVHeader(t *testing.T) {
	wav := EncodeWAV(block(16000, 0.1, 0.5), 16000)

	require.Greater(t, len(wav), 44)
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, 44+1600*2, len(wav))
}
