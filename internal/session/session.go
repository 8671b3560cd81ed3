// Package session orchestrates one live emergency call: it owns the audio
// buffer and the running weighted estimates, drives the per-utterance
// pipeline (transcribe -> bio-acoustic -> entity extraction -> triage), and
// finalizes exactly once.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/trident-ems/trident/internal/audio"
	"github.com/trident-ems/trident/internal/metrics"
	"github.com/trident-ems/trident/internal/models"
	"github.com/trident-ems/trident/internal/providers/asr"
	"github.com/trident-ems/trident/internal/providers/bioacoustic"
	"github.com/trident-ems/trident/internal/providers/nlp"
	"github.com/trident-ems/trident/internal/triage"
)

// State is the session lifecycle. No transition skips Finalizing and
// Finalized is terminal.
type State int

const (
	StateCreated State = iota
	StateActive
	StateFinalizing
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateActive:
		return "ACTIVE"
	case StateFinalizing:
		return "FINALIZING"
	case StateFinalized:
		return "FINALIZED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// CallStore persists the one final record per call.
type CallStore interface {
	Insert(ctx context.Context, call *models.LiveCall) error
}

// UtteranceStore records the per-utterance trace, best-effort.
type UtteranceStore interface {
	Insert(ctx context.Context, u *models.UtteranceLog) error
}

// AudioUploader hands flagged call audio off for dispatcher review.
type AudioUploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error)
}

// Deps are the shared, process-lifetime collaborators injected at
// construction. Providers are stateless singletons reused across sessions.
type Deps struct {
	ASR asr.Provider
	Bio bioacoustic.Provider
	NLP nlp.Provider

	Calls      CallStore      // optional
	Utterances UtteranceStore // optional
	Uploader   AudioUploader  // optional

	Emitter Emitter
	Logger  *logrus.Logger
}

// Config carries per-session tuning.
type Config struct {
	CallID string
	Buffer audio.BufferConfig

	// Minimum trailing buffer (seconds) worth rescuing at finalize when no
	// utterance was ever processed.
	MinFinalizeBuffer float64

	UtteranceTTL time.Duration
}

const (
	defaultMinFinalizeBuffer = 2.0
	defaultUtteranceTTL      = 24 * time.Hour

	// Transcripts shorter than this carry no extractable content.
	minTranscriptLen = 5
)

// Session processes one live call. All mutation happens on a single logical
// chunk stream; ProcessChunk must not be called concurrently with itself.
// Finalize may race with an in-flight cycle and waits for it to settle.
type Session struct {
	callID    string
	startTime time.Time

	buf *audio.Buffer

	deps Deps
	cfg  Config
	log  *logrus.Entry

	// cycleMu guarantees at most one processing cycle is ever active and
	// that finalize cannot overlap one.
	cycleMu sync.Mutex

	mu             sync.Mutex
	state          State
	chunksReceived int
	processed      int
	transcript     string
	confidence     metrics.Weighted
	distress       metrics.Weighted
	contentScore   float64
	latestFeatures *bioacoustic.Features
	current        *triage.Decision
	recording      []float32

	finalizeOnce sync.Once
	final        *FinalAnalysis
}

func New(cfg Config, deps Deps) *Session {
	if cfg.MinFinalizeBuffer <= 0 {
		cfg.MinFinalizeBuffer = defaultMinFinalizeBuffer
	}
	if cfg.UtteranceTTL <= 0 {
		cfg.UtteranceTTL = defaultUtteranceTTL
	}
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}

	s := &Session{
		callID:    cfg.CallID,
		startTime: time.Now().UTC(),
		buf:       audio.NewBuffer(cfg.Buffer),
		deps:      deps,
		cfg:       cfg,
		log:       deps.Logger.WithField("call_id", cfg.CallID),
		state:     StateActive,
	}

	s.log.Info("live call session started")
	s.emit(connected(cfg.CallID))
	return s
}

func (s *Session) CallID() string { return s.callID }

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ProcessChunk ingests one inbound audio chunk and runs the processing cycle
// when an utterance boundary is reached. Cycle errors are non-fatal: an error
// update is emitted and the buffer is kept for the next trigger.
func (s *Session) ProcessChunk(ctx context.Context, samples []float32) {
	if len(samples) == 0 {
		return
	}

	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.chunksReceived++
	received := s.chunksReceived
	s.mu.Unlock()

	s.buf.AddChunk(samples)

	s.emit(BufferUpdate{
		Type:           "buffer_update",
		Duration:       s.buf.Duration(),
		ChunksReceived: received,
	})

	if s.buf.ShouldProcess() {
		if err := s.processBuffer(ctx); err != nil {
			s.log.WithError(err).Error("processing cycle failed")
			s.emit(errorUpdate("Processing error: " + err.Error()))
		}
	}
}

// processBuffer runs one full cycle over the buffered utterance. On success
// the buffer is cleared; on failure it is left intact so no audio is lost.
func (s *Session) processBuffer(ctx context.Context) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()

	snapshot := s.buf.Snapshot()
	if len(snapshot) == 0 {
		return nil
	}

	bufferDuration := s.buf.Duration()
	chunkDuration := float64(len(snapshot)) / float64(s.buf.SampleRate())

	s.log.WithField("duration", bufferDuration).Info("processing buffer")
	s.emit(ProcessingStarted{Type: "processing_started", Duration: chunkDuration})

	// Transcription and bio-acoustic analysis are independent of each
	// other; run both before touching session state so a failed cycle
	// records nothing.
	var (
		text     string
		conf     float64
		features *bioacoustic.Features
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		text, conf, err = s.deps.ASR.Transcribe(gctx, snapshot)
		return err
	})
	g.Go(func() error {
		var err error
		features, err = s.deps.Bio.Extract(gctx, snapshot)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	fragment := strings.TrimSpace(text)
	if fragment != "" {
		if s.transcript != "" {
			s.transcript += " " + fragment
		} else {
			s.transcript = fragment
		}
		s.confidence.Record(conf, chunkDuration)
	}
	s.distress.Record(features.DistressScore, chunkDuration)
	s.latestFeatures = features

	transcript := s.transcript
	confAvg := s.confidence.Average()
	distAvg := s.distress.Average()
	s.mu.Unlock()

	contentScore := 0.0
	if len(strings.TrimSpace(transcript)) >= minTranscriptLen {
		analysis, err := s.deps.NLP.ExtractEntities(ctx, transcript, confAvg)
		if err != nil {
			// Extraction failure degrades to zero content rather than
			// failing the cycle; the audio is already aggregated.
			s.log.WithError(err).Warn("entity extraction failed")
		} else {
			contentScore = analysis.ContentScore
		}
	}

	decision := triage.Decide(confAvg, contentScore, distAvg)

	s.mu.Lock()
	s.contentScore = contentScore
	s.current = &decision
	s.processed++
	utteranceIndex := s.processed
	if s.deps.Uploader != nil {
		s.recording = append(s.recording, snapshot...)
	}
	s.mu.Unlock()

	s.emit(ProcessingComplete{
		Type:            "processing_complete",
		Transcript:      transcript,
		TranscriptChunk: fragment,
		Confidence:      confAvg,
		ContentScore:    contentScore,
		BioAcoustic:     features,
		DistressScore:   distAvg,
		Triage:          decision,
		CallDuration:    bufferDuration,
	})

	s.log.WithFields(logrus.Fields{
		"queue":      decision.Queue,
		"confidence": confAvg,
		"content":    contentScore,
		"distress":   distAvg,
	}).Info("processing complete")

	if s.deps.Utterances != nil {
		now := time.Now().UTC()
		err := s.deps.Utterances.Insert(ctx, &models.UtteranceLog{
			CallID:          s.callID,
			UtteranceIndex:  utteranceIndex,
			TranscriptChunk: fragment,
			ChunkDuration:   chunkDuration,
			Confidence:      confAvg,
			DistressScore:   distAvg,
			ContentScore:    contentScore,
			TriageQueue:     string(decision.Queue),
			Timestamp:       now,
			ExpiresAt:       now.Add(s.cfg.UtteranceTTL),
		})
		if err != nil {
			s.log.WithError(err).Warn("utterance log insert failed")
		}
	}

	s.buf.Clear()
	return nil
}

// Finalize ends the session exactly once and returns the final analysis.
// A second call is a no-op returning the same snapshot. A finalize arriving
// while a cycle is in flight waits for the cycle to settle.
func (s *Session) Finalize(ctx context.Context) *FinalAnalysis {
	s.finalizeOnce.Do(func() { s.doFinalize(ctx) })
	return s.final
}

func (s *Session) doFinalize(ctx context.Context) {
	s.log.Info("finalizing call")

	s.mu.Lock()
	s.state = StateFinalizing
	processed := s.processed
	s.mu.Unlock()

	// Rescue short calls: if nothing was ever processed and more than a
	// trivial tail is buffered, run one last cycle. When at least one
	// utterance was processed the tail is dropped instead, so it cannot be
	// double-counted into the weighted averages.
	if processed == 0 && s.buf.Duration() > s.cfg.MinFinalizeBuffer {
		if err := s.processBuffer(ctx); err != nil {
			s.log.WithError(err).Warn("final buffer processing failed")
		}
	} else {
		// Drain any in-flight cycle before reading final aggregates.
		s.cycleMu.Lock()
		s.cycleMu.Unlock()
	}

	endTime := time.Now().UTC()
	callDuration := endTime.Sub(s.startTime).Seconds()

	s.mu.Lock()
	analysis := &FinalAnalysis{
		CallID:          s.callID,
		Duration:        callDuration,
		Transcript:      s.transcript,
		Confidence:      s.confidence.Average(),
		ContentScore:    s.contentScore,
		DistressScore:   s.distress.Average(),
		Triage:          s.current,
		ChunksProcessed: s.processed,
	}
	features := s.latestFeatures
	recording := s.recording
	s.mu.Unlock()

	s.persist(ctx, analysis, features, endTime)
	s.uploadForReview(ctx, analysis, recording)

	s.mu.Lock()
	s.state = StateFinalized
	s.final = analysis
	s.mu.Unlock()

	s.log.WithField("duration", callDuration).Info("call session ended")
}

// persist writes the one durable row for this call. Failure is logged and
// never blocks teardown.
func (s *Session) persist(ctx context.Context, a *FinalAnalysis, features *bioacoustic.Features, endTime time.Time) {
	if s.deps.Calls == nil {
		return
	}

	row := &models.LiveCall{
		CallID:             a.CallID,
		StartTime:          s.startTime,
		EndTime:            endTime,
		DurationSeconds:    a.Duration,
		ChunksProcessed:    a.ChunksProcessed,
		TotalAudioDuration: s.buf.Duration(),
		Transcript:         a.Transcript,
		ConfidenceScore:    a.Confidence,
		ContentScore:       a.ContentScore,
		DistressScore:      a.DistressScore,
		Location:           models.DefaultLocationLabel,
		Lat:                models.DefaultLat,
		Lng:                models.DefaultLng,
		Status:             "completed",
		CreatedAt:          endTime,
	}

	if features != nil {
		row.PitchMeanHz = &features.F0Mean
		row.PitchCV = &features.F0CV
		row.EnergyRMS = &features.Energy
		row.Jitter = &features.Jitter
	}

	if a.Triage != nil {
		row.TriageQueue = string(a.Triage.Queue)
		row.PriorityLevel = a.Triage.PriorityLevel
		row.FlagAudioReview = a.Triage.FlagAudioReview
		row.EscalationRequired = a.Triage.EscalationRequired
		row.DispatcherAction = a.Triage.DispatcherAction
		row.TriageReasoning = a.Triage.Reasoning
		if payload, err := json.Marshal(a.Triage); err == nil {
			row.TriageData = payload
		}
		if a.Triage.Queue == triage.QueueImmediate {
			row.Category = "LIFE SAFETY"
		}
	}

	if err := s.deps.Calls.Insert(ctx, row); err != nil {
		s.log.WithError(err).Error("failed to persist call record")
	}
}

// uploadForReview ships the retained audio when the final decision flags it.
// Best-effort only.
func (s *Session) uploadForReview(ctx context.Context, a *FinalAnalysis, recording []float32) {
	if s.deps.Uploader == nil || a.Triage == nil || !a.Triage.FlagAudioReview || len(recording) == 0 {
		return
	}

	wav := audio.EncodeWAV(recording, s.buf.SampleRate())
	url, err := s.deps.Uploader.Upload(ctx, "calls/"+s.callID+".wav", "audio/wav", bytes.NewReader(wav))
	if err != nil {
		s.log.WithError(err).Warn("audio review upload failed")
		return
	}
	s.log.WithField("url", url).Info("audio uploaded for review")
}

func (s *Session) emit(update any) {
	if s.deps.Emitter != nil {
		s.deps.Emitter.Emit(update)
	}
}
