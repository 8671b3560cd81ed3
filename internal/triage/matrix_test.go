package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideAllEightCombinations(t *testing.T) {
	cases := []struct {
		name                       string
		confidence, content, concern float64
		queue                      Queue
		priority                   int
		flagAudio                  bool
	}{
		{"low conf, low content, high concern", 0.4, 0.3, 0.8, QueueImmediate, 1, true},
		{"low conf, high content, low concern", 0.5, 0.7, 0.3, QueueElevated, 2, true},
		{"low conf, high content, high concern", 0.4, 0.8, 0.9, QueueImmediate, 1, true},
		{"high conf, low content, high concern", 0.9, 0.2, 0.7, QueueMonitor, 3, false},
		{"high conf, high content, low concern", 0.85, 0.75, 0.25, QueueElevated, 2, false},
		{"high conf, high content, high concern", 0.92, 0.85, 0.88, QueueImmediate, 1, false},
		{"low conf, low content, low concern", 0.45, 0.15, 0.22, QueueReview, 5, true},
		{"high conf, low content, low concern", 0.93, 0.18, 0.12, QueueRoutine, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Decide(tc.confidence, tc.content, tc.concern)

			assert.Equal(t, tc.queue, d.Queue)
			assert.Equal(t, tc.priority, d.PriorityLevel)
			assert.Equal(t, tc.flagAudio, d.FlagAudioReview)
			assert.Equal(t, tc.queue == QueueImmediate, d.EscalationRequired)
			assert.NotEmpty(t, d.Reasoning)
			assert.NotEmpty(t, d.DispatcherAction)
		})
	}
}

func TestDecideThresholdBoundaries(t *testing.T) {
	// Confidence 0.70 is high (closed boundary), 0.6999 is low.
	assert.Equal(t, QueueRoutine, Decide(0.70, 0.0, 0.0).Queue)
	assert.Equal(t, QueueReview, Decide(0.6999, 0.0, 0.0).Queue)

	// Content 0.40 is low (strict comparison).
	assert.Equal(t, QueueRoutine, Decide(0.9, 0.40, 0.0).Queue)
	assert.Equal(t, QueueElevated, Decide(0.9, 0.41, 0.0).Queue)

	// Concern 0.50 is low (strict comparison).
	assert.Equal(t, QueueRoutine, Decide(0.9, 0.0, 0.50).Queue)
	assert.Equal(t, QueueMonitor, Decide(0.9, 0.0, 0.51).Queue)
}

func TestDecideScenarios(t *testing.T) {
	routine := Decide(0.92, 0.18, 0.12)
	assert.Equal(t, QueueRoutine, routine.Queue)
	assert.Equal(t, 5, routine.PriorityLevel)
	assert.False(t, routine.FlagAudioReview)

	hero := Decide(0.31, 0.0, 0.94)
	assert.Equal(t, QueueImmediate, hero.Queue)
	assert.Equal(t, 1, hero.PriorityLevel)
	assert.True(t, hero.FlagAudioReview)
	assert.True(t, hero.EscalationRequired)

	calmSerious := Decide(0.85, 0.75, 0.25)
	assert.Equal(t, QueueElevated, calmSerious.Queue)
	assert.Equal(t, 2, calmSerious.PriorityLevel)
	assert.False(t, calmSerious.FlagAudioReview)

	monitor := Decide(0.9, 0.2, 0.7)
	assert.Equal(t, QueueMonitor, monitor.Queue)
	assert.Equal(t, 3, monitor.PriorityLevel)
	assert.False(t, monitor.FlagAudioReview)
}
