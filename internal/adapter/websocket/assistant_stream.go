package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
	"github.com/seu-repo/appliance-store/internal/ports"
	"github.com/seu-repo/appliance-store/internal/reaction"
)

var (
	errSessionClosed = errors.New("session closed")
	errEmptyAudio    = errors.New("empty audio payload")
)

// Frame types of the assistant session protocol.
const (
	frameQuery         = "query"
	frameRecording     = "recording"
	framePlaybackEnded = "playback_ended"
	framePlaybackError = "playback_error"

	frameResult        = "result"
	frameTranscription = "transcription"
	frameState         = "state"
	framePlay          = "play"
	frameStop          = "stop"
	frameError         = "error"
)

// inbound is any JSON frame a client may send.
type inbound struct {
	Type   string `json:"type"`
	Query  string `json:"query,omitempty"`
	Active bool   `json:"active,omitempty"`
	Token  uint64 `json:"token,omitempty"`
	Error  string `json:"error,omitempty"`
}

type resultFrame struct {
	Type string `json:"type"`
	domain.AssistantResult
}

type transcriptionFrame struct {
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	Confidence *float64 `json:"confidence,omitempty"`
	Error      string   `json:"error,omitempty"`
}

type stateFrame struct {
	Type     string `json:"type"`
	State    string `json:"state"`
	Reaction string `json:"reaction,omitempty"`
}

type playFrame struct {
	Type  string `json:"type"`
	Token uint64 `json:"token"`
	Audio string `json:"audio,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type StreamOption func(*AssistantStream)

// WithStreamClock drives every session's reaction timers from c.
func WithStreamClock(c reaction.Clock) StreamOption {
	return func(s *AssistantStream) { s.clock = c }
}

// AssistantStream hosts one reaction sequencer per connection. The browser
// plays audio and reports back; the server decides what the character shows.
type AssistantStream struct {
	service ports.AssistantService
	clock   reaction.Clock
	log     *zap.Logger
}

func NewAssistantStream(service ports.AssistantService, log *zap.Logger, opts ...StreamOption) *AssistantStream {
	s := &AssistantStream{service: service, clock: reaction.SystemClock{}, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// job is a query or a recording waiting for the session worker.
type job struct {
	query string
	audio []byte
}

type session struct {
	id      string
	service ports.AssistantService
	log     *zap.Logger
	out     *outbox
	player  *wsPlayer
	seq     *reaction.Sequencer
	jobs    chan job
}

// Serve runs the session protocol on conn until the client disconnects.
func (s *AssistantStream) Serve(conn Conn) {
	telemetry.AssistantSessions.Inc()
	defer telemetry.AssistantSessions.Dec()

	sess := &session{
		id:      uuid.NewString(),
		service: s.service,
		log:     s.log,
		out:     newOutbox(),
		jobs:    make(chan job, 8),
	}
	sess.log = s.log.With(zap.String("session_id", sess.id))
	sess.player = &wsPlayer{out: sess.out, pending: make(map[uint64]func(error))}
	sess.seq = reaction.New(sess.player,
		reaction.WithClock(s.clock),
		reaction.WithLogger(sess.log),
		reaction.WithObserver(sess.showState),
	)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sess.out.writeTo(conn)
	}()
	go func() {
		defer wg.Done()
		sess.work(ctx)
	}()

	sess.log.Info("Assistant session opened")
	sess.read(conn)

	cancel()
	close(sess.jobs)
	sess.seq.Close()
	sess.out.close()
	wg.Wait()
	sess.log.Info("Assistant session closed")
}

func (s *session) read(conn Conn) {
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		if typ == websocket.BinaryMessage {
			if len(data) == 0 {
				s.out.sendJSON(errorFrame{Type: frameError, Error: "empty recording"})
				continue
			}
			s.enqueue(job{audio: data})
			continue
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			s.out.sendJSON(errorFrame{Type: frameError, Error: "invalid frame"})
			continue
		}

		switch msg.Type {
		case frameQuery:
			if strings.TrimSpace(msg.Query) == "" {
				s.out.sendJSON(errorFrame{Type: frameError, Error: "query is required"})
				continue
			}
			s.enqueue(job{query: msg.Query})
		case frameRecording:
			s.seq.SetRecording(msg.Active)
		case framePlaybackEnded:
			s.player.finish(msg.Token, nil)
		case framePlaybackError:
			reason := msg.Error
			if reason == "" {
				reason = "playback failed"
			}
			s.player.finish(msg.Token, errors.New(reason))
		default:
			s.out.sendJSON(errorFrame{Type: frameError, Error: "unknown frame type " + msg.Type})
		}
	}
}

func (s *session) enqueue(j job) {
	select {
	case s.jobs <- j:
	default:
		s.out.sendJSON(errorFrame{Type: frameError, Error: "too many pending requests"})
	}
}

// work answers jobs in arrival order so the newest result reaches the
// sequencer last.
func (s *session) work(ctx context.Context) {
	for j := range s.jobs {
		if ctx.Err() != nil {
			continue
		}
		if j.audio != nil {
			s.speech(ctx, j.audio)
			continue
		}
		s.submit(s.service.HandleQuery(ctx, j.query))
	}
}

func (s *session) speech(ctx context.Context, audio []byte) {
	res := s.service.HandleSpeech(ctx, audio, "audio/webm")
	s.out.sendJSON(transcriptionFrame{
		Type:       frameTranscription,
		Text:       res.Text,
		Confidence: res.Confidence,
		Error:      res.Error,
	})
	if res.Response != nil {
		s.submit(*res.Response)
	}
}

func (s *session) submit(result domain.AssistantResult) {
	s.out.sendJSON(resultFrame{Type: frameResult, AssistantResult: result})
	s.seq.Submit(result)
}

func (s *session) showState(st reaction.State) {
	s.out.sendJSON(stateFrame{
		Type:     frameState,
		State:    st.Mode.String(),
		Reaction: string(st.Reaction),
	})
}

// wsPlayer asks the browser to play audio. Every request gets a token the
// client echoes back when playback ends.
type wsPlayer struct {
	out *outbox

	mu      sync.Mutex
	next    uint64
	pending map[uint64]func(error)
}

func (p *wsPlayer) Play(audio string, done func(error)) (reaction.Playback, error) {
	if audio == "" {
		return nil, errEmptyAudio
	}

	p.mu.Lock()
	p.next++
	token := p.next
	p.pending[token] = done
	p.mu.Unlock()

	if !p.out.sendJSON(playFrame{Type: framePlay, Token: token, Audio: audio}) {
		p.take(token)
		return nil, errSessionClosed
	}
	return &wsPlayback{player: p, token: token}, nil
}

func (p *wsPlayer) take(token uint64) func(error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	done := p.pending[token]
	delete(p.pending, token)
	return done
}

// finish reports the end of playback token. Unknown or stopped tokens are ignored.
func (p *wsPlayer) finish(token uint64, err error) {
	if done := p.take(token); done != nil {
		done(err)
	}
}

type wsPlayback struct {
	player *wsPlayer
	token  uint64
}

func (pb *wsPlayback) Stop() {
	if pb.player.take(pb.token) != nil {
		pb.player.out.sendJSON(playFrame{Type: frameStop, Token: pb.token})
	}
}

// outbox is an unbounded frame queue drained by a single writer, so the
// sequencer's observer never blocks on the network.
type outbox struct {
	mu     sync.Mutex
	queue  [][]byte
	closed bool
	notify chan struct{}
}

func newOutbox() *outbox {
	return &outbox{notify: make(chan struct{}, 1)}
}

func (o *outbox) sendJSON(v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return false
	}
	o.queue = append(o.queue, data)
	o.mu.Unlock()

	select {
	case o.notify <- struct{}{}:
	default:
	}
	return true
}

func (o *outbox) close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()
	select {
	case o.notify <- struct{}{}:
	default:
	}
}

func (o *outbox) writeTo(conn Conn) {
	defer conn.Close()
	failed := false
	for range o.notify {
		o.mu.Lock()
		batch := o.queue
		o.queue = nil
		closed := o.closed
		o.mu.Unlock()

		for _, frame := range batch {
			if failed {
				break
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				failed = true
				conn.Close()
			}
		}
		if closed {
			if !failed {
				conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			}
			return
		}
	}
}
