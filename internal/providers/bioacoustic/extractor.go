package bioacoustic

import (
	"context"
	"math"

	"github.com/trident-ems/trident/internal/audio"
)

// Extractor is the in-process feature extractor. F0 is estimated per frame by
// normalized autocorrelation restricted to the human vocal band.
type Extractor struct {
	SampleRate int

	// Vocal band searched for a fundamental.
	F0Min float64
	F0Max float64

	frameLen int
	hop      int
}

const (
	defaultF0Min = 50.0
	defaultF0Max = 400.0

	// Normalization ceilings for the composite score components.
	maxCV     = 0.5  // coefficient of variation at extreme instability
	maxRMS    = 0.1  // very loud speech
	maxJitter = 0.02 // high cycle-to-cycle perturbation

	// Minimum normalized autocorrelation to call a frame voiced.
	voicedThreshold = 0.6
)

func NewExtractor(sampleRate int) *Extractor {
	if sampleRate <= 0 {
		sampleRate = audio.DefaultSampleRate
	}
	return &Extractor{
		SampleRate: sampleRate,
		F0Min:      defaultF0Min,
		F0Max:      defaultF0Max,
		frameLen:   2048 * sampleRate / 16000,
		hop:        512 * sampleRate / 16000,
	}
}

// Extract computes pitch, energy, and perturbation features for one
// utterance. Audio with no voiced frames scores zero distress.
func (e *Extractor) Extract(_ context.Context, samples []float32) (*Features, error) {
	if len(samples) < e.frameLen {
		return &Features{}, nil
	}

	var f0s []float64
	var rmsSum float64
	var frames int

	for start := 0; start+e.frameLen <= len(samples); start += e.hop {
		frame := samples[start : start+e.frameLen]
		frames++
		rmsSum += audio.RMS(frame)

		if f0, ok := e.frameF0(frame); ok {
			f0s = append(f0s, f0)
		}
	}

	if len(f0s) == 0 {
		return &Features{}, nil
	}

	f0Mean := mean(f0s)
	f0CV := 0.0
	if f0Mean > 0 {
		f0CV = stddev(f0s, f0Mean) / f0Mean
	}

	// Sex-adaptive pitch baseline: estimated male below 165 Hz.
	var elevation float64
	if f0Mean < 165 {
		elevation = (f0Mean - 120) / 80
	} else {
		elevation = (f0Mean - 200) / 100
	}
	elevation = clamp01(elevation)

	instability := clamp01(f0CV / maxCV)
	energy := clamp01((rmsSum / float64(frames)) / maxRMS)

	jitter := 0.0
	if len(f0s) > 1 && f0Mean > 0 {
		var diffSum float64
		for i := 1; i < len(f0s); i++ {
			diffSum += math.Abs(f0s[i] - f0s[i-1])
		}
		jitter = clamp01((diffSum / float64(len(f0s)-1) / f0Mean) / maxJitter)
	}

	return &Features{
		F0Mean:         f0Mean,
		F0CV:           f0CV,
		PitchElevation: elevation,
		Instability:    instability,
		Energy:         energy,
		Jitter:         jitter,
		DistressScore:  0.30*elevation + 0.35*instability + 0.20*energy + 0.15*jitter,
	}, nil
}

// frameF0 estimates the fundamental of one frame by picking the lag with the
// highest normalized autocorrelation in the vocal band.
func (e *Extractor) frameF0(frame []float32) (float64, bool) {
	minLag := int(float64(e.SampleRate) / e.F0Max)
	maxLag := int(float64(e.SampleRate) / e.F0Min)
	if maxLag >= len(frame) {
		maxLag = len(frame) - 1
	}
	if minLag < 1 || minLag >= maxLag {
		return 0, false
	}

	var energy float64
	for _, s := range frame {
		energy += float64(s) * float64(s)
	}
	if energy == 0 {
		return 0, false
	}

	bestLag, bestCorr := 0, 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var corr float64
		for i := 0; i+lag < len(frame); i++ {
			corr += float64(frame[i]) * float64(frame[i+lag])
		}
		corr /= energy
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 || bestCorr < voicedThreshold {
		return 0, false
	}
	return float64(e.SampleRate) / float64(bestLag), true
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
