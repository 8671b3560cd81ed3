package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trident-ems/trident/internal/providers/bioacoustic"
	"github.com/trident-ems/trident/internal/providers/nlp"
	"github.com/trident-ems/trident/internal/triage"
	"github.com/trident-ems/trident/internal/utils"
)

type stubASR struct {
	text string
	conf float64
	err  error
}

func (s *stubASR) Transcribe(ctx context.Context, samples []float32) (string, float64, error) {
	return s.text, s.conf, s.err
}
func (s *stubASR) Close() error { return nil }

type stubBio struct {
	features bioacoustic.Features
	err      error
}

func (s *stubBio) Extract(ctx context.Context, samples []float32) (*bioacoustic.Features, error) {
	if s.err != nil {
		return nil, s.err
	}
	f := s.features
	return &f, nil
}

type stubNLP struct {
	score  float64
	err    error
	called int
}

func (s *stubNLP) ExtractEntities(ctx context.Context, transcript string, confidence float64) (*nlp.Analysis, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	return &nlp.Analysis{Entities: nlp.EmptyEntities(), ContentScore: s.score}, nil
}
func (s *stubNLP) Close() error { return nil }

func TestAnalyzeFullPipeline(t *testing.T) {
	n := &stubNLP{score: 0.55}
	svc := NewAnalyzeService(
		&stubASR{text: "there is a fire and my father is not breathing", conf: 0.85},
		&stubBio{features: bioacoustic.Features{DistressScore: 0.72}},
		n,
	)

	out, err := svc.Analyze(context.Background(), make([]float32, 16000))
	require.NoError(t, err)

	assert.Equal(t, 1, n.called)
	assert.Equal(t, 0.85, out.Confidence)
	assert.Equal(t, 0.55, out.NLP.ContentScore)
	// high concern, high confidence, high content
	assert.Equal(t, triage.QueueImmediate, out.Triage.Queue)
	assert.False(t, out.Triage.FlagAudioReview)
	assert.True(t, out.Triage.EscalationRequired)
}

func TestAnalyzeShortTranscriptSkipsExtraction(t *testing.T) {
	n := &stubNLP{score: 0.9}
	svc := NewAnalyzeService(
		&stubASR{text: "uh", conf: 0.3},
		&stubBio{},
		n,
	)

	out, err := svc.Analyze(context.Background(), make([]float32, 16000))
	require.NoError(t, err)

	assert.Equal(t, 0, n.called)
	assert.Equal(t, 0.0, out.NLP.ContentScore)
}

func TestAnalyzeEmptyAudioRejected(t *testing.T) {
	svc := NewAnalyzeService(&stubASR{}, &stubBio{}, &stubNLP{})

	_, err := svc.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestAnalyzeProviderFailureSurfaces(t *testing.T) {
	svc := NewAnalyzeService(
		&stubASR{err: errors.New("speech quota")},
		&stubBio{},
		&stubNLP{},
	)

	_, err := svc.Analyze(context.Background(), make([]float32, 100))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestAnalyzeNLPFailureSurfaces(t *testing.T) {
	svc := NewAnalyzeService(
		&stubASR{text: "help me there is flooding", conf: 0.8},
		&stubBio{},
		&stubNLP{err: errors.New("vertex timeout")},
	)

	_, err := svc.Analyze(context.Background(), make([]float32, 100))
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}
