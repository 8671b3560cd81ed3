package nlp

// ContentScore folds extracted entities into a semantic urgency score in
// [0,1]: hazard type, life-threat indicators, vulnerable populations, scale,
// and an actionable-location bonus, capped at 100 points then normalized.
func ContentScore(e Entities) float64 {
	score := 0.0

	switch e.MechanismHazard {
	case "violence":
		score += 30
	case "fire":
		score += 25
	case "medical", "flood":
		score += 20
	case "traffic":
		score += 15
	case "infrastructure":
		score += 10
	default:
		score += 5
	}

	switch e.ClinicalIndicators.Breathing {
	case "not_breathing":
		score += 30
	case "impaired":
		score += 15
	}

	switch e.ClinicalIndicators.Consciousness {
	case "unresponsive":
		score += 30
	case "altered":
		score += 15
	}

	switch e.ClinicalIndicators.Bleeding {
	case "heavy":
		score += 30
	case "minor":
		score += 5
	}

	if e.Scale.VulnerablePopulation {
		score += 15
	}

	if n := e.Scale.PersonsAffected; n > 0 {
		pts := float64(n) * 5
		if pts > 20 {
			pts = 20
		}
		score += pts
	}

	if e.Scale.Escalating {
		score += 10
	}

	if e.Location.Address != nil || e.Location.Landmark != nil {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score / 100.0
}
