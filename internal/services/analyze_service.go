package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/trident-ems/trident/internal/providers/asr"
	"github.com/trident-ems/trident/internal/providers/bioacoustic"
	"github.com/trident-ems/trident/internal/providers/nlp"
	"github.com/trident-ems/trident/internal/triage"
	"github.com/trident-ems/trident/internal/utils"
)

// AnalysisResult is the synchronous counterpart of a live session's final
// analysis: one pass over one complete recording, no aggregation.
type AnalysisResult struct {
	Transcript  string                `json:"transcript"`
	Confidence  float64               `json:"confidence"`
	NLP         *nlp.Analysis         `json:"nlp"`
	BioAcoustic *bioacoustic.Features `json:"bio_acoustic"`
	Triage      triage.Decision       `json:"triage"`
}

type AnalyzeService interface {
	Analyze(ctx context.Context, samples []float32) (*AnalysisResult, error)
}

type analyzeService struct {
	asr asr.Provider
	bio bioacoustic.Provider
	nlp nlp.Provider
}

func NewAnalyzeService(a asr.Provider, b bioacoustic.Provider, n nlp.Provider) AnalyzeService {
	return &analyzeService{asr: a, bio: b, nlp: n}
}

func (s *analyzeService) Analyze(ctx context.Context, samples []float32) (*AnalysisResult, error) {
	const op = "AnalyzeService.Analyze"

	if len(samples) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "empty audio", nil)
	}

	var (
		text     string
		conf     float64
		features *bioacoustic.Features
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		text, conf, err = s.asr.Transcribe(gctx, samples)
		return err
	})
	g.Go(func() error {
		var err error
		features, err = s.bio.Extract(gctx, samples)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "analysis pipeline failed", err)
	}

	transcript := strings.TrimSpace(text)

	analysis := &nlp.Analysis{Entities: nlp.EmptyEntities()}
	if len(transcript) >= 5 {
		out, err := s.nlp.ExtractEntities(ctx, transcript, conf)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "entity extraction failed", err)
		}
		analysis = out
	}

	return &AnalysisResult{
		Transcript:  transcript,
		Confidence:  conf,
		NLP:         analysis,
		BioAcoustic: features,
		Triage:      triage.Decide(conf, analysis.ContentScore, features.DistressScore),
	}, nil
}
