// Package metrics holds the running estimates a live call accumulates across
// utterances. Averages are duration-weighted so a short noisy fragment cannot
// swing the estimate as far as a long clear one.
package metrics

// Weighted is a running duration-weighted average. The zero value is ready to
// use and averages to 0 until a sample is recorded.
type Weighted struct {
	weightedSum float64
	totalWeight float64
	count       int
}

// Record appends a (value, weight) sample. Weight is the duration in seconds
// of the audio that produced the value; zero-weight samples never move the
// average.
func (w *Weighted) Record(value, weight float64) {
	if weight < 0 {
		weight = 0
	}
	w.weightedSum += value * weight
	w.totalWeight += weight
	w.count++
}

// Average returns sum(value*weight)/sum(weight), or 0 with no samples or all
// zero weights.
func (w *Weighted) Average() float64 {
	if w.totalWeight == 0 {
		return 0
	}
	return w.weightedSum / w.totalWeight
}

// Count reports how many samples were recorded, including zero-weight ones.
func (w *Weighted) Count() int { return w.count }
