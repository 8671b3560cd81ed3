package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedEmptyAveragesToZero(t *testing.T) {
	var w Weighted
	assert.Equal(t, 0.0, w.Average())
	assert.Equal(t, 0, w.Count())
}

func TestWeightedTwoSamples(t *testing.T) {
	var w Weighted
	w.Record(0.2, 1.0)
	w.Record(0.9, 9.0)

	// (0.2*1 + 0.9*9) / 10 — not the unweighted mean 0.55.
	assert.InDelta(t, 0.83, w.Average(), 1e-9)
}

func TestWeightedSingleSample(t *testing.T) {
	var w Weighted
	w.Record(0.42, 3.7)
	assert.InDelta(t, 0.42, w.Average(), 1e-9)
}

func TestWeightedZeroWeightDoesNotMoveAverage(t *testing.T) {
	var w Weighted
	w.Record(0.5, 2.0)
	before := w.Average()

	w.Record(1.0, 0.0)

	assert.Equal(t, before, w.Average())
	assert.Equal(t, 2, w.Count())
}

func TestWeightedOnlyZeroWeights(t *testing.T) {
	var w Weighted
	w.Record(0.9, 0)
	assert.Equal(t, 0.0, w.Average())
}

func TestWeightedNegativeWeightClamped(t *testing.T) {
	var w Weighted
	w.Record(0.5, 4.0)
	w.Record(0.1, -2.0)
	assert.InDelta(t, 0.5, w.Average(), 1e-9)
}
