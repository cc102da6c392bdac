// Package speech holds decorators shared by the synthesizer and
// transcriber adapters.
package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/ports"
)

type BreakerSettings struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// MinRequests and FailureRatio decide when the breaker opens.
	MinRequests  uint32
	FailureRatio float64
}

func newBreaker(s BreakerSettings, log *zap.Logger) *gobreaker.CircuitBreaker {
	if s.MaxRequests == 0 {
		s.MaxRequests = 1
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}
	if s.MinRequests == 0 {
		s.MinRequests = 3
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = 0.6
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.MinRequests && ratio >= s.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Speech circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Caller mistakes and cancellations say nothing about the backend.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, domain.ErrUnsupportedAudio)
		},
	})
}

func breakerError(name string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: %v", name, domain.ErrSpeechUnavailable, err)
	}
	return err
}

type BreakingSynthesizer struct {
	next ports.SpeechSynthesizer
	cb   *gobreaker.CircuitBreaker
}

func NewBreakingSynthesizer(next ports.SpeechSynthesizer, s BreakerSettings, log *zap.Logger) *BreakingSynthesizer {
	if s.Name == "" {
		s.Name = "speech-synthesis"
	}
	return &BreakingSynthesizer{next: next, cb: newBreaker(s, log)}
}

func (b *BreakingSynthesizer) Synthesize(ctx context.Context, text string) (domain.Audio, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Synthesize(ctx, text)
	})
	if err != nil {
		return domain.Audio{}, breakerError(b.cb.Name(), err)
	}
	return res.(domain.Audio), nil
}

func (b *BreakingSynthesizer) State() gobreaker.State {
	return b.cb.State()
}

type BreakingTranscriber struct {
	next ports.SpeechTranscriber
	cb   *gobreaker.CircuitBreaker
}

func NewBreakingTranscriber(next ports.SpeechTranscriber, s BreakerSettings, log *zap.Logger) *BreakingTranscriber {
	if s.Name == "" {
		s.Name = "speech-transcription"
	}
	return &BreakingTranscriber{next: next, cb: newBreaker(s, log)}
}

func (b *BreakingTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Transcribe(ctx, audio, mimeType)
	})
	if err != nil {
		return domain.Transcription{}, breakerError(b.cb.Name(), err)
	}
	return res.(domain.Transcription), nil
}

func (b *BreakingTranscriber) State() gobreaker.State {
	return b.cb.State()
}
