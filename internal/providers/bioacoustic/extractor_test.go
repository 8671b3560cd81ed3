package bioacoustic

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(rate int, freq float64, seconds float64, amplitude float64) []float32 {
	n := int(float64(rate) * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestExtractSilenceScoresZero(t *testing.T) {
	e := NewExtractor(16000)

	f, err := e.Extract(context.Background(), make([]float32, 16000))
	require.NoError(t, err)

	assert.Equal(t, 0.0, f.DistressScore)
	assert.Equal(t, 0.0, f.F0Mean)
}

func TestExtractShortInputScoresZero(t *testing.T) {
	e := NewExtractor(16000)

	f, err := e.Extract(context.Background(), make([]float32, 100))
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.DistressScore)
}

func TestExtractSteadyToneFindsPitch(t *testing.T) {
	e := NewExtractor(16000)

	f, err := e.Extract(context.Background(), sine(16000, 200, 1.0, 0.5))
	require.NoError(t, err)

	// A pure tone is perfectly periodic: pitch near 200 Hz, near-zero
	// instability and jitter.
	assert.InDelta(t, 200, f.F0Mean, 10)
	assert.Less(t, f.Instability, 0.1)
	assert.Less(t, f.Jitter, 0.2)
}

func TestExtractHighPitchScoresMoreElevationThanLow(t *testing.T) {
	e := NewExtractor(16000)

	low, err := e.Extract(context.Background(), sine(16000, 120, 1.0, 0.3))
	require.NoError(t, err)
	high, err := e.Extract(context.Background(), sine(16000, 300, 1.0, 0.3))
	require.NoError(t, err)

	assert.Greater(t, high.PitchElevation, low.PitchElevation)
}

func TestExtractScoreStaysInUnitRange(t *testing.T) {
	e := NewExtractor(16000)

	// Loud, high, unstable signal: every component saturates but the
	// composite stays in [0,1].
	samples := sine(16000, 390, 2.0, 1.0)
	for i := range samples {
		if i%3 == 0 {
			samples[i] *= 0.2
		}
	}

	f, err := e.Extract(context.Background(), samples)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, f.DistressScore, 0.0)
	assert.LessOrEqual(t, f.DistressScore, 1.0)
	assert.LessOrEqual(t, f.Energy, 1.0)
}
