package ports

import (
	"context"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// SpeechSynthesizer turns a response sentence into encoded audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) (domain.Audio, error)
}

// SpeechTranscriber recognises the text spoken in a recording.
// mimeType describes the container of audio, e.g. "audio/webm".
type SpeechTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error)
}
