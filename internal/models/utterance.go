package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UtteranceLog is the per-utterance processing trace for one call, written
// best-effort after each completed cycle. Docs expire via TTL index; the
// durable record of a call is the LiveCall row.
type UtteranceLog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CallID         string             `bson:"call_id" json:"call_id"`
	UtteranceIndex int                `bson:"utterance_index" json:"utterance_index"`

	TranscriptChunk string  `bson:"transcript_chunk,omitempty" json:"transcript_chunk,omitempty"`
	ChunkDuration   float64 `bson:"chunk_duration" json:"chunk_duration"`

	Confidence    float64 `bson:"confidence" json:"confidence"`
	DistressScore float64 `bson:"distress_score" json:"distress_score"`
	ContentScore  float64 `bson:"content_score" json:"content_score"`
	TriageQueue   string  `bson:"triage_queue" json:"triage_queue"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
