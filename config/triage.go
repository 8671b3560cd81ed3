package config

import (
	"os"
	"strconv"
	"time"
)

// Tuning collects the audio pipeline knobs. Every field has a production
// default; env vars exist for tests and field calibration.
type Tuning struct {
	SampleRate        int
	EnergyThreshold   float64
	SilenceDuration   float64
	OverflowCap       float64
	MinFinalizeBuffer float64
	UtteranceTTL      time.Duration
}

func LoadTuning() Tuning {
	return Tuning{
		SampleRate:        envInt("TRIAGE_SAMPLE_RATE", 16000),
		EnergyThreshold:   envFloat("TRIAGE_ENERGY_THRESHOLD", 0.01),
		SilenceDuration:   envFloat("TRIAGE_SILENCE_DURATION", 1.5),
		OverflowCap:       envFloat("TRIAGE_OVERFLOW_CAP", 30.0),
		MinFinalizeBuffer: envFloat("TRIAGE_MIN_FINALIZE_BUFFER", 2.0),
		UtteranceTTL:      envDuration("TRIAGE_UTTERANCE_TTL", 24*time.Hour),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
