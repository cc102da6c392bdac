package vosk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/seu-repo/appliance-store/internal/domain"
)

// fakeVosk mimics the Vosk server: a partial reply per audio frame and the
// final result after eof.
type fakeVosk struct {
	final string

	mu         sync.Mutex
	sampleRate float64
	audioBytes int
	frames     int
}

func (f *fakeVosk) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")
	ctx := r.Context()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ == websocket.MessageBinary {
			f.mu.Lock()
			f.audioBytes += len(data)
			f.frames++
			f.mu.Unlock()
			reply := `{"partial" : ""}`
			if f.frames == 2 {
				reply = `{"text" : "show me", "result" : [{"word":"show","conf":1.0},{"word":"me","conf":0.5}]}`
			}
			conn.Write(ctx, websocket.MessageText, []byte(reply)) //nolint:errcheck
			continue
		}

		var ctl map[string]json.RawMessage
		if err := json.Unmarshal(data, &ctl); err != nil {
			return
		}
		if cfg, ok := ctl["config"]; ok {
			var c struct {
				SampleRate float64 `json:"sample_rate"`
			}
			json.Unmarshal(cfg, &c) //nolint:errcheck
			f.mu.Lock()
			f.sampleRate = c.SampleRate
			f.mu.Unlock()
			continue
		}
		if _, ok := ctl["eof"]; ok {
			conn.Write(ctx, websocket.MessageText, []byte(f.final)) //nolint:errcheck
			return
		}
	}
}

type passthrough struct{ calls int }

func (p *passthrough) Decode(ctx context.Context, audio []byte, mimeType string, sampleRate int) ([]byte, error) {
	p.calls++
	return audio, nil
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestTranscribe(t *testing.T) {
	vosk := &fakeVosk{final: `{"text" : "the cart", "result" : [{"word":"the","conf":0.75},{"word":"cart","conf":0.75}]}`}
	srv := httptest.NewServer(vosk)
	defer srv.Close()

	dec := &passthrough{}
	tr := NewTranscriber(Config{URL: wsURL(srv), ChunkSize: 4, Timeout: 5 * time.Second}, dec, zap.NewNop())

	got, err := tr.Transcribe(context.Background(), []byte("0123456789"), "audio/webm")

	require.NoError(t, err)
	assert.Equal(t, "show me the cart", got.Text)
	require.NotNil(t, got.Confidence)
	assert.InDelta(t, 0.75, *got.Confidence, 1e-9)
	assert.Equal(t, 1, dec.calls)

	vosk.mu.Lock()
	defer vosk.mu.Unlock()
	assert.Equal(t, 16000.0, vosk.sampleRate)
	assert.Equal(t, 10, vosk.audioBytes)
	assert.Equal(t, 3, vosk.frames)
}

func TestTranscribe_NothingRecognised(t *testing.T) {
	srv := httptest.NewServer(&fakeVosk{final: `{"text" : ""}`})
	defer srv.Close()

	tr := NewTranscriber(Config{URL: wsURL(srv), ChunkSize: 64}, &passthrough{}, zap.NewNop())

	got, err := tr.Transcribe(context.Background(), []byte("pcm"), "audio/l16")

	require.NoError(t, err)
	assert.Empty(t, got.Text)
	assert.Nil(t, got.Confidence)
}

type failingDecoder struct{}

func (failingDecoder) Decode(context.Context, []byte, string, int) ([]byte, error) {
	return nil, errors.New("invalid data found when processing input")
}

type emptyDecoder struct{}

func (emptyDecoder) Decode(context.Context, []byte, string, int) ([]byte, error) {
	return nil, nil
}

func TestTranscribe_Errors(t *testing.T) {
	_, err := NewTranscriber(Config{URL: "ws://127.0.0.1:1"}, failingDecoder{}, zap.NewNop()).
		Transcribe(context.Background(), []byte("x"), "audio/webm")
	assert.ErrorContains(t, err, "decode audio/webm")

	_, err = NewTranscriber(Config{URL: "ws://127.0.0.1:1"}, emptyDecoder{}, zap.NewNop()).
		Transcribe(context.Background(), []byte("x"), "audio/webm")
	assert.ErrorIs(t, err, domain.ErrUnsupportedAudio)

	_, err = NewTranscriber(Config{URL: "ws://127.0.0.1:1", Timeout: time.Second}, &passthrough{}, zap.NewNop()).
		Transcribe(context.Background(), []byte("x"), "audio/l16")
	assert.ErrorContains(t, err, "vosk: dial")
}

func TestIsRawPCM(t *testing.T) {
	assert.True(t, IsRawPCM("audio/L16; rate=16000"))
	assert.True(t, IsRawPCM("audio/pcm"))
	assert.False(t, IsRawPCM("audio/webm;codecs=opus"))
	assert.False(t, IsRawPCM(""))
}

func TestFFmpegDecoder_PassesRawPCMThrough(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	out, err := FFmpegDecoder{Path: "/nonexistent/ffmpeg"}.Decode(context.Background(), pcm, "audio/pcm", 16000)

	require.NoError(t, err)
	assert.Equal(t, pcm, out)

	_, err = FFmpegDecoder{Path: "/nonexistent/ffmpeg"}.Decode(context.Background(), pcm, "audio/webm", 16000)
	assert.Error(t, err)
}
