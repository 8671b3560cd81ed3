package session

import (
	"github.com/trident-ems/trident/internal/providers/bioacoustic"
	"github.com/trident-ems/trident/internal/triage"
)

// Emitter delivers update messages to whoever is listening on a call's
// transport. Delivery is best-effort: implementations swallow writes to a
// closed transport. Updates for one session are emitted in order.
type Emitter interface {
	Emit(update any)
}

type Connected struct {
	Type    string `json:"type"`
	CallID  string `json:"call_id"`
	Message string `json:"message"`
}

type BufferUpdate struct {
	Type           string  `json:"type"`
	Duration       float64 `json:"duration"`
	ChunksReceived int     `json:"chunks_received"`
}

type ProcessingStarted struct {
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
}

type ProcessingComplete struct {
	Type            string               `json:"type"`
	Transcript      string               `json:"transcript"`
	TranscriptChunk string               `json:"transcript_chunk"`
	Confidence      float64              `json:"confidence"`
	ContentScore    float64              `json:"content_score"`
	BioAcoustic     *bioacoustic.Features `json:"bio_acoustic"`
	DistressScore   float64              `json:"distress_score"`
	Triage          triage.Decision      `json:"triage"`
	CallDuration    float64              `json:"call_duration"`
}

type ErrorUpdate struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type CallEnded struct {
	Type     string        `json:"type"`
	Analysis *FinalAnalysis `json:"analysis"`
}

// FinalAnalysis is the snapshot returned exactly once by Finalize.
type FinalAnalysis struct {
	CallID          string           `json:"call_id"`
	Duration        float64          `json:"duration"`
	Transcript      string           `json:"transcript"`
	Confidence      float64          `json:"confidence"`
	ContentScore    float64          `json:"content_score"`
	DistressScore   float64          `json:"distress_score"`
	Triage          *triage.Decision `json:"triage"`
	ChunksProcessed int              `json:"chunks_processed"`
}

func connected(callID string) Connected {
	return Connected{Type: "connected", CallID: callID, Message: "Live processing ready. Start speaking..."}
}

func errorUpdate(msg string) ErrorUpdate {
	return ErrorUpdate{Type: "error", Message: msg}
}
