// Package asr defines the transcription boundary. Implementations are
// long-lived, stateless, and safe for concurrent use across call sessions.
package asr

import "context"

type Provider interface {
	// Transcribe converts mono PCM samples into text with an utterance-level
	// confidence in [0,1].
	Transcribe(ctx context.Context, samples []float32) (text string, confidence float64, err error)
	Close() error
}
