// Package bioacoustic scores vocal distress from pitch, energy, and
// perturbation features. The composite score weighs pitch elevation,
// pitch instability, energy, and jitter:
//
//	D = 0.30*P + 0.35*V + 0.20*E + 0.15*J
package bioacoustic

import "context"

// Features is the per-utterance output of the extractor. All normalized
// scores are clamped to [0,1].
type Features struct {
	F0Mean         float64 `json:"f0_mean"` // Hz
	F0CV           float64 `json:"f0_cv"`
	PitchElevation float64 `json:"pitch_elevation"`
	Instability    float64 `json:"instability"`
	Energy         float64 `json:"energy"`
	Jitter         float64 `json:"jitter"`
	DistressScore  float64 `json:"distress_score"`
}

// Provider extracts distress features from mono PCM samples. Implementations
// are stateless and shared across sessions.
type Provider interface {
	Extract(ctx context.Context, samples []float32) (*Features, error)
}
