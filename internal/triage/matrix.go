// Package triage routes a call to a priority queue from three weak signals:
// transcription confidence, semantic content urgency, and bio-acoustic
// concern. Low confidence co-occurring with high concern is treated as
// diagnostic of a genuine emergency, not as unreliable input.
package triage

// Queue is the discrete priority bucket a call is routed to.
type Queue string

const (
	QueueImmediate Queue = "Q1-IMMEDIATE"
	QueueElevated  Queue = "Q2-ELEVATED"
	QueueMonitor   Queue = "Q3-MONITOR"
	QueueReview    Queue = "Q5-REVIEW"
	QueueRoutine   Queue = "Q5-ROUTINE"
)

// Classification thresholds. Confidence at the boundary counts as high; the
// other two comparisons are strict.
const (
	ConfidenceThreshold = 0.70
	ContentThreshold    = 0.40
	ConcernThreshold    = 0.50
)

// Decision is the immutable outcome of one evaluation of the matrix. A new
// decision replaces the session's current one; it is never mutated.
type Decision struct {
	Queue              Queue  `json:"queue"`
	PriorityLevel      int    `json:"priority_level"`
	FlagAudioReview    bool   `json:"flag_audio_review"`
	EscalationRequired bool   `json:"escalation_required"`
	Reasoning          string `json:"reasoning"`
	DispatcherAction   string `json:"dispatcher_action"`
}

// Decide maps (confidence, content, concern), each in [0,1], onto a queue
// assignment. The eight combinations are mutually exclusive and exhaustive:
//
//	conf  content concern -> queue
//	low   low     high    -> Q1-IMMEDIATE
//	low   high    low     -> Q2-ELEVATED
//	low   high    high    -> Q1-IMMEDIATE
//	high  low     high    -> Q3-MONITOR
//	high  high    low     -> Q2-ELEVATED
//	high  high    high    -> Q1-IMMEDIATE
//	low   low     low     -> Q5-REVIEW
//	high  low     low     -> Q5-ROUTINE
func Decide(confidence, content, concern float64) Decision {
	highConfidence := confidence >= ConfidenceThreshold
	highContent := content > ContentThreshold
	highConcern := concern > ConcernThreshold

	switch {
	case highConcern && !highConfidence:
		// Hero case: vocal panic the recognizer cannot transcribe.
		return immediate(true, "High bio-acoustic distress with unreliable transcription indicates "+
			"a potential life-threatening situation with communication barriers. "+
			"Immediate dispatcher review required.")

	case highConcern && highConfidence && highContent:
		return immediate(false, "All three indicators elevated: urgent content, vocal distress, "+
			"and a reliable transcript confirming both.")

	case highConcern && highConfidence:
		return Decision{
			Queue:           QueueMonitor,
			PriorityLevel:   3,
			FlagAudioReview: false,
			Reasoning: "Clear transcription with elevated vocal distress but low content urgency. " +
				"Communication is functional; situation requires monitoring.",
			DispatcherAction: "ELEVATED PRIORITY: Review transcript for dispatch requirements. " +
				"Caller shows stress indicators but communication is clear. " +
				"Assess situation urgency from content.",
		}

	case highContent:
		return Decision{
			Queue:           QueueElevated,
			PriorityLevel:   2,
			FlagAudioReview: !highConfidence,
			Reasoning: "Urgent content reported with calm delivery. " +
				"Serious incident likely; distress indicators absent.",
			DispatcherAction: "HIGH PRIORITY: Serious incident reported calmly. " +
				"Verify details from transcript and create dispatch order promptly.",
		}

	case !highConfidence:
		return Decision{
			Queue:           QueueReview,
			PriorityLevel:   5,
			FlagAudioReview: true,
			Reasoning: "Low transcription confidence requires verification. " +
				"No urgency or distress indicators present.",
			DispatcherAction: "REVIEW WHEN AVAILABLE: Audio review recommended due to low " +
				"transcription confidence. Verify content when time permits.",
		}

	default:
		return Decision{
			Queue:           QueueRoutine,
			PriorityLevel:   5,
			FlagAudioReview: false,
			Reasoning: "Clear communication, calm delivery, no urgent content. " +
				"Standard report for logging.",
			DispatcherAction: "ROUTINE LOGGING: Log details and create a dispatch order " +
				"according to standard procedures.",
		}
	}
}

// Only unreliable transcripts put a human on the raw audio.
func immediate(flagAudio bool, reasoning string) Decision {
	return Decision{
		Queue:              QueueImmediate,
		PriorityLevel:      1,
		FlagAudioReview:    flagAudio,
		EscalationRequired: true,
		Reasoning:          reasoning,
		DispatcherAction: "IMMEDIATE ATTENTION REQUIRED: Listen to audio now. " +
			"Prepare for potential evacuation or emergency response.",
	}
}
