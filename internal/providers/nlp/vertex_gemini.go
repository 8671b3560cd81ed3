package nlp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

type VertexGemini struct {
	client *vertexgenai.Client
	model  *vertexgenai.GenerativeModel
}

func NewVertexGemini(ctx context.Context, projectID, location, modelName string, opts ...option.ClientOption) (*VertexGemini, error) {
	c, err := vertexgenai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, err
	}

	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	m := c.GenerativeModel(modelName)
	m.ResponseMIMEType = "application/json"
	temp := float32(0.1)
	m.Temperature = &temp

	return &VertexGemini{client: c, model: m}, nil
}

func (v *VertexGemini) Close() error { return v.client.Close() }

func (v *VertexGemini) ExtractEntities(ctx context.Context, transcript string, confidence float64) (*Analysis, error) {
	resp, err := v.model.GenerateContent(ctx, vertexgenai.Text(buildPrompt(transcript, confidence)))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}

	entities := parseEntities(sb.String())
	return &Analysis{
		Entities:     entities,
		ContentScore: ContentScore(entities),
	}, nil
}

// Low-confidence transcripts get keyword-focused instructions so dialect
// interference does not suppress extraction.
func buildPrompt(transcript string, confidence float64) string {
	confidenceNote := ""
	if confidence < 0.7 {
		confidenceNote = "\nIMPORTANT: This transcript has low confidence (possible accent/dialect interference).\n" +
			"Focus on extracting clear entities even if grammar is imperfect.\n" +
			"Look for keywords rather than perfect sentence structure.\n"
	}

	return fmt.Sprintf(`You are an emergency call analysis assistant for Caribbean emergency services.

Extract structured information from the following emergency call transcript.
%s
TRANSCRIPT:
%q

Extract the following entities in JSON format:

{
  "location": {
    "address": "street address if mentioned, otherwise null",
    "landmark": "recognizable landmark if mentioned, otherwise null",
    "geographic_ref": "area/district/parish if mentioned, otherwise null"
  },
  "mechanism_hazard": "fire | flood | medical | violence | traffic | infrastructure | other",
  "clinical_indicators": {
    "breathing": "normal | impaired | not_breathing | unknown",
    "consciousness": "alert | altered | unresponsive | unknown",
    "bleeding": "none | minor | heavy | unknown",
    "mobility": "walking | impaired | immobile | unknown"
  },
  "scale": {
    "persons_affected": <integer or 0 if unknown>,
    "vulnerable_population": <true if children/elderly/disabled mentioned, false otherwise>,
    "escalating": <true if situation described as worsening, false otherwise>
  },
  "urgency_keywords": [<list of urgent words like "help", "emergency", "dying", etc.>]
}

Return ONLY the JSON object, no additional text.
`, confidenceNote, transcript)
}

// parseEntities tolerates markdown fences and missing fields; anything
// unparseable degrades to the empty extraction.
func parseEntities(raw string) Entities {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	e := EmptyEntities()
	if err := json.Unmarshal([]byte(cleaned), &e); err != nil {
		return EmptyEntities()
	}
	if e.MechanismHazard == "" {
		e.MechanismHazard = "other"
	}
	if e.UrgencyKeywords == nil {
		e.UrgencyKeywords = []string{}
	}
	return e
}
