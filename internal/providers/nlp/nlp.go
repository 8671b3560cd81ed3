// Package nlp extracts structured emergency entities from call transcripts
// and folds them into a semantic urgency score.
package nlp

import "context"

// Entities is the structured extraction schema for one transcript.
type Entities struct {
	Location           Location           `json:"location"`
	MechanismHazard    string             `json:"mechanism_hazard"` // fire|flood|medical|violence|traffic|infrastructure|other
	ClinicalIndicators ClinicalIndicators `json:"clinical_indicators"`
	Scale              Scale              `json:"scale"`
	UrgencyKeywords    []string           `json:"urgency_keywords"`
}

type Location struct {
	Address       *string `json:"address"`
	Landmark      *string `json:"landmark"`
	GeographicRef *string `json:"geographic_ref"`
}

type ClinicalIndicators struct {
	Breathing     string `json:"breathing"`     // normal|impaired|not_breathing|unknown
	Consciousness string `json:"consciousness"` // alert|altered|unresponsive|unknown
	Bleeding      string `json:"bleeding"`      // none|minor|heavy|unknown
	Mobility      string `json:"mobility"`      // walking|impaired|immobile|unknown
}

type Scale struct {
	PersonsAffected      int  `json:"persons_affected"`
	VulnerablePopulation bool `json:"vulnerable_population"`
	Escalating           bool `json:"escalating"`
}

// Analysis bundles the extraction with its derived content score in [0,1].
type Analysis struct {
	Entities     Entities `json:"entities"`
	ContentScore float64  `json:"content_score"`
}

// Provider extracts entities from a transcript. The transcription confidence
// steers prompt wording for low-quality transcripts; it never alters scoring.
// Implementations are stateless and shared across sessions.
type Provider interface {
	ExtractEntities(ctx context.Context, transcript string, confidence float64) (*Analysis, error)
	Close() error
}

// EmptyEntities is the fallback extraction for failed or trivial transcripts.
func EmptyEntities() Entities {
	return Entities{
		MechanismHazard: "other",
		ClinicalIndicators: ClinicalIndicators{
			Breathing:     "unknown",
			Consciousness: "unknown",
			Bleeding:      "unknown",
			Mobility:      "unknown",
		},
		UrgencyKeywords: []string{},
	}
}
