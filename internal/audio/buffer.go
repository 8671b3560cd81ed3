package audio

import (
	"math"
	"sync"
)

// Buffer accumulates mono PCM samples for one call and decides when an
// utterance boundary has been reached. Two independent triggers end an
// utterance: accumulated silence after voice activity, or the overflow cap
// (so a caller who never pauses still produces updates).
type Buffer struct {
	mu sync.Mutex

	samples []float32

	sampleRate      int
	energyThreshold float64
	silenceDuration float64
	overflowCap     float64

	lastVoiceTime float64
}

// BufferConfig carries the VAD tuning for a Buffer. Zero values fall back to
// the hand-tuned production defaults.
type BufferConfig struct {
	SampleRate      int
	EnergyThreshold float64 // RMS above this counts as voice
	SilenceDuration float64 // seconds of silence after voice to trigger
	OverflowCap     float64 // seconds; hard trigger on continuous speech
}

const (
	DefaultSampleRate      = 16000
	DefaultEnergyThreshold = 0.01
	DefaultSilenceDuration = 1.5
	DefaultOverflowCap     = 30.0
)

func NewBuffer(cfg BufferConfig) *Buffer {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.EnergyThreshold <= 0 {
		cfg.EnergyThreshold = DefaultEnergyThreshold
	}
	if cfg.SilenceDuration <= 0 {
		cfg.SilenceDuration = DefaultSilenceDuration
	}
	if cfg.OverflowCap <= 0 {
		cfg.OverflowCap = DefaultOverflowCap
	}
	return &Buffer{
		sampleRate:      cfg.SampleRate,
		energyThreshold: cfg.EnergyThreshold,
		silenceDuration: cfg.SilenceDuration,
		overflowCap:     cfg.OverflowCap,
	}
}

// AddChunk appends a block of samples. Zero-length input is ignored. The RMS
// energy of the incoming block alone decides whether the voice-activity
// timestamp advances.
func (b *Buffer) AddChunk(samples []float32) {
	if len(samples) == 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = append(b.samples, samples...)

	if RMS(samples) > b.energyThreshold {
		b.lastVoiceTime = b.durationLocked()
	}
}

// ShouldProcess reports whether the buffer holds a complete utterance:
// voice was heard and silence since then reached the silence trigger, or the
// buffer hit the overflow cap. An empty buffer never triggers.
func (b *Buffer) ShouldProcess() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) == 0 {
		return false
	}

	total := b.durationLocked()
	if b.lastVoiceTime > 0 && total-b.lastVoiceTime >= b.silenceDuration {
		return true
	}
	return total >= b.overflowCap
}

// Snapshot returns an independent copy of the buffered samples; it never
// aliases internal state.
func (b *Buffer) Snapshot() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float32, len(b.samples))
	copy(out, b.samples)
	return out
}

// Clear resets the buffer to empty. Callers run this exactly once per
// successful processing cycle.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.samples = nil
	b.lastVoiceTime = 0
}

// Duration is len(samples)/sample_rate in seconds.
func (b *Buffer) Duration() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.durationLocked()
}

func (b *Buffer) SampleRate() int { return b.sampleRate }

func (b *Buffer) durationLocked() float64 {
	return float64(len(b.samples)) / float64(b.sampleRate)
}

// RMS computes the root-mean-square energy of a sample block.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
