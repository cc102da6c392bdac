// Package vosk transcribes recordings with a Vosk speech recognition server
// over its websocket protocol.
package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/seu-repo/appliance-store/internal/domain"
)

type Config struct {
	URL        string
	SampleRate int
	// ChunkSize is the number of PCM bytes sent per frame.
	ChunkSize int
	Timeout   time.Duration
}

type Transcriber struct {
	cfg     Config
	decoder Decoder
	log     *zap.Logger
}

func NewTranscriber(cfg Config, decoder Decoder, log *zap.Logger) *Transcriber {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 8000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if decoder == nil {
		decoder = FFmpegDecoder{}
	}
	return &Transcriber{cfg: cfg, decoder: decoder, log: log}
}

type word struct {
	Word  string  `json:"word"`
	Conf  float64 `json:"conf"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// message is any reply of the server: a partial hypothesis or a final
// result for one utterance.
type message struct {
	Partial *string `json:"partial,omitempty"`
	Text    string  `json:"text"`
	Result  []word  `json:"result,omitempty"`
}

type recognition struct {
	texts []string
	words []word
}

func (r *recognition) add(m message) {
	if m.Partial != nil {
		return
	}
	if t := strings.TrimSpace(m.Text); t != "" {
		r.texts = append(r.texts, t)
	}
	r.words = append(r.words, m.Result...)
}

func (r *recognition) transcription() domain.Transcription {
	t := domain.Transcription{Text: strings.Join(r.texts, " ")}
	if len(r.words) > 0 {
		var sum float64
		for _, w := range r.words {
			sum += w.Conf
		}
		conf := sum / float64(len(r.words))
		t.Confidence = &conf
	}
	return t
}

func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (domain.Transcription, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	pcm, err := t.decoder.Decode(ctx, audio, mimeType, t.cfg.SampleRate)
	if err != nil {
		return domain.Transcription{}, fmt.Errorf("vosk: decode %s: %w", mimeType, err)
	}
	if len(pcm) == 0 {
		return domain.Transcription{}, fmt.Errorf("vosk: %w: no samples decoded", domain.ErrUnsupportedAudio)
	}

	conn, _, err := websocket.Dial(ctx, t.cfg.URL, nil)
	if err != nil {
		return domain.Transcription{}, fmt.Errorf("vosk: dial %s: %w", t.cfg.URL, err)
	}
	defer conn.Close(websocket.StatusInternalError, "transcription aborted")
	conn.SetReadLimit(1 << 20)

	config := map[string]any{"config": map[string]any{"sample_rate": t.cfg.SampleRate}}
	if err := wsjson.Write(ctx, conn, config); err != nil {
		return domain.Transcription{}, fmt.Errorf("vosk: send config: %w", err)
	}

	var rec recognition
	for off := 0; off < len(pcm); off += t.cfg.ChunkSize {
		end := min(off+t.cfg.ChunkSize, len(pcm))
		if err := conn.Write(ctx, websocket.MessageBinary, pcm[off:end]); err != nil {
			return domain.Transcription{}, fmt.Errorf("vosk: send audio: %w", err)
		}
		msg, err := readMessage(ctx, conn)
		if err != nil {
			return domain.Transcription{}, err
		}
		rec.add(msg)
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"eof" : 1}`)); err != nil {
		return domain.Transcription{}, fmt.Errorf("vosk: send eof: %w", err)
	}
	final, err := readMessage(ctx, conn)
	if err != nil {
		return domain.Transcription{}, err
	}
	rec.add(final)
	conn.Close(websocket.StatusNormalClosure, "")

	result := rec.transcription()
	t.log.Debug("Vosk transcription",
		zap.String("text", result.Text),
		zap.Int("pcm_bytes", len(pcm)),
		zap.Int("words", len(rec.words)),
	)
	return result, nil
}

func readMessage(ctx context.Context, conn *websocket.Conn) (message, error) {
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return message{}, fmt.Errorf("vosk: read result: %w", err)
	}
	if typ != websocket.MessageText {
		return message{}, fmt.Errorf("vosk: unexpected %v frame", typ)
	}
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return message{}, fmt.Errorf("vosk: decode result: %w", err)
	}
	return msg, nil
}
