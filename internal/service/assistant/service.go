package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type Config struct {
	// SynthesisTimeout bounds a single synthesis call. Zero means no extra bound.
	SynthesisTimeout time.Duration
}

// QueryEvent is published on queue.SubjectAssistantQueries for every handled query.
type QueryEvent struct {
	Query     string            `json:"query"`
	Action    domain.ActionKind `json:"action"`
	Rule      string            `json:"rule"`
	Spoken    bool              `json:"spoken"`
	Timestamp time.Time         `json:"timestamp"`
}

type Service struct {
	tts ports.SpeechSynthesizer
	stt ports.SpeechTranscriber
	mq  queue.MessageQueue
	cfg Config
	log *zap.Logger
}

// NewService wires the assistant pipeline. tts, stt and mq may be nil:
// a nil synthesizer yields silent results, a nil transcriber disables
// the voice path, and a nil queue skips query events.
func NewService(tts ports.SpeechSynthesizer, stt ports.SpeechTranscriber, mq queue.MessageQueue, cfg Config, log *zap.Logger) ports.AssistantService {
	return &Service{
		tts: tts,
		stt: stt,
		mq:  mq,
		cfg: cfg,
		log: log,
	}
}

// HandleQuery classifies query, describes the action and synthesizes the
// description. It never fails; synthesis problems leave Audio empty.
func (s *Service) HandleQuery(ctx context.Context, query string) domain.AssistantResult {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "assistant.HandleQuery")
	defer span.End()

	action, rule := classify(query)
	text := Describe(action)
	result := domain.AssistantResult{
		Action:       action,
		ResponseText: text,
		Audio:        s.speak(ctx, text),
	}

	span.SetAttributes(
		attribute.String("assistant.action", string(action.Kind)),
		attribute.String("assistant.rule", rule),
		attribute.Bool("assistant.spoken", result.HasAudio()),
	)
	telemetry.AssistantQueriesTotal.WithLabelValues(string(action.Kind), rule).Inc()
	telemetry.AssistantLatency.Observe(time.Since(start).Seconds())

	s.log.Info("Assistant query handled",
		zap.String("query", query),
		zap.String("action", string(action.Kind)),
		zap.String("rule", rule),
		zap.Bool("spoken", result.HasAudio()),
		zap.Duration("elapsed", time.Since(start)),
	)

	s.publish(QueryEvent{
		Query:     query,
		Action:    action.Kind,
		Rule:      rule,
		Spoken:    result.HasAudio(),
		Timestamp: start,
	})

	return result
}

// speak returns the synthesized sentence as a data URI, or "" when the
// synthesizer is missing, fails, panics or returns nothing.
func (s *Service) speak(ctx context.Context, text string) (uri string) {
	if s.tts == nil {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Speech synthesis panicked", zap.Any("panic", r), zap.String("text", text))
			telemetry.SpeechSynthesisFailures.Inc()
			uri = ""
		}
	}()

	if s.cfg.SynthesisTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SynthesisTimeout)
		defer cancel()
	}

	audio, err := s.tts.Synthesize(ctx, text)
	if err != nil {
		s.log.Warn("Speech synthesis failed, responding without audio", zap.Error(err), zap.String("text", text))
		telemetry.SpeechSynthesisFailures.Inc()
		return ""
	}
	if len(audio.Data) == 0 {
		s.log.Warn("Speech synthesis returned no audio", zap.String("text", text))
		telemetry.SpeechSynthesisFailures.Inc()
		return ""
	}
	return audio.DataURI()
}

func (s *Service) Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error) {
	if s.stt == nil {
		return domain.Transcription{}, domain.ErrSpeechUnavailable
	}
	if len(audio) == 0 {
		return domain.Transcription{}, fmt.Errorf("%w: empty recording", domain.ErrUnsupportedAudio)
	}

	ctx, span := telemetry.StartSpan(ctx, "assistant.Transcribe")
	defer span.End()

	t, err := s.stt.Transcribe(ctx, audio, mimeType)
	if err != nil {
		telemetry.SpeechTranscriptionsTotal.WithLabelValues("failed").Inc()
		span.RecordError(err)
		return domain.Transcription{}, fmt.Errorf("transcribe %s: %w", mimeType, err)
	}

	t.Text = strings.TrimSpace(t.Text)
	if t.Text == "" {
		telemetry.SpeechTranscriptionsTotal.WithLabelValues("empty").Inc()
	} else {
		telemetry.SpeechTranscriptionsTotal.WithLabelValues("recognized").Inc()
	}
	return t, nil
}

// HandleSpeech transcribes a recording and handles the recognised text.
// The query pipeline is skipped when nothing usable was recognised.
func (s *Service) HandleSpeech(ctx context.Context, audio []byte, mimeType string) domain.SpeechResult {
	t, err := s.Transcribe(ctx, audio, mimeType)
	if err != nil {
		s.log.Warn("Speech recognition failed", zap.Error(err), zap.Int("bytes", len(audio)))
		return domain.SpeechResult{Error: domain.NoSpeechMessage}
	}
	if t.Text == "" {
		return domain.SpeechResult{Confidence: t.Confidence, Error: domain.NoSpeechMessage}
	}

	result := s.HandleQuery(ctx, t.Text)
	return domain.SpeechResult{
		Text:       t.Text,
		Confidence: t.Confidence,
		Response:   &result,
	}
}

func (s *Service) Commands() []domain.AssistantCommand {
	out := make([]domain.AssistantCommand, len(commands))
	copy(out, commands)
	return out
}

func (s *Service) publish(evt QueryEvent) {
	if s.mq == nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		s.log.Error("Failed to encode assistant query event", zap.Error(err))
		return
	}
	if err := s.mq.Publish(queue.SubjectAssistantQueries, data); err != nil {
		s.log.Warn("Failed to publish assistant query event", zap.Error(err))
	}
}
