package models

import (
	"time"

	"gorm.io/datatypes"
)

// Region centroid used when a call carries no usable location.
const (
	DefaultLocationLabel = "Unknown - Kingston, Jamaica"
	DefaultLat           = 18.1096
	DefaultLng           = -77.2975
)

// LiveCall is the write-once row persisted when a call session finalizes.
// Rows are never updated afterward; the table is an append-only log keyed by
// call_id.
type LiveCall struct {
	ID     uint   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CallID string `gorm:"column:call_id;type:text;uniqueIndex;not null" json:"call_id"`

	StartTime       time.Time `gorm:"column:start_time;type:timestamptz;not null" json:"start_time"`
	EndTime         time.Time `gorm:"column:end_time;type:timestamptz" json:"end_time"`
	DurationSeconds float64   `gorm:"column:duration_seconds" json:"duration_seconds"`

	ChunksProcessed    int     `gorm:"column:chunks_processed" json:"chunks_processed"`
	TotalAudioDuration float64 `gorm:"column:total_audio_duration" json:"total_audio_duration"`

	Transcript      string  `gorm:"column:transcript;type:text" json:"transcript"`
	ConfidenceScore float64 `gorm:"column:confidence_score" json:"confidence_score"`
	ContentScore    float64 `gorm:"column:content_score" json:"content_score"`
	DistressScore   float64 `gorm:"column:distress_score" json:"distress_score"`

	PitchMeanHz *float64 `gorm:"column:pitch_mean_hz" json:"pitch_mean_hz,omitempty"`
	PitchCV     *float64 `gorm:"column:pitch_cv" json:"pitch_cv,omitempty"`
	EnergyRMS   *float64 `gorm:"column:energy_rms" json:"energy_rms,omitempty"`
	Jitter      *float64 `gorm:"column:jitter" json:"jitter,omitempty"`

	TriageQueue        string `gorm:"column:triage_queue;type:text;index" json:"triage_queue"`
	PriorityLevel      int    `gorm:"column:priority_level" json:"priority_level"`
	FlagAudioReview    bool   `gorm:"column:flag_audio_review" json:"flag_audio_review"`
	EscalationRequired bool   `gorm:"column:escalation_required" json:"escalation_required"`
	DispatcherAction   string `gorm:"column:dispatcher_action;type:text" json:"dispatcher_action"`
	TriageReasoning    string `gorm:"column:triage_reasoning;type:text" json:"triage_reasoning"`

	// Full decision payload for extensibility.
	TriageData datatypes.JSON `gorm:"column:triage_data;type:jsonb" json:"triage_data"`

	Location string  `gorm:"column:location;type:text" json:"location"`
	Lat      float64 `gorm:"column:lat" json:"lat"`
	Lng      float64 `gorm:"column:lng" json:"lng"`
	Category string  `gorm:"column:category;type:text" json:"category"`

	Status       string `gorm:"column:status;type:text" json:"status"` // completed|error|interrupted
	ErrorMessage string `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (LiveCall) TableName() string { return "live_calls" }
