package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// MockSynthesizer is a mock implementation of SpeechSynthesizer.
// It records every sentence it was asked to speak.
type MockSynthesizer struct {
	SynthesizeFunc func(ctx context.Context, text string) (domain.Audio, error)

	mu    sync.Mutex
	Texts []string
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string) (domain.Audio, error) {
	m.mu.Lock()
	m.Texts = append(m.Texts, text)
	m.mu.Unlock()
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return domain.Audio{Data: []byte(text), MimeType: "audio/mpeg"}, nil
}

func (m *MockSynthesizer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Texts)
}

// MockTranscriber is a mock implementation of SpeechTranscriber
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, mimeType)
	}
	return domain.Transcription{}, nil
}
