package reaction

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/domain"
)

var errNoPlayer = errors.New("no audio player")

// phase is the step of the running sequence.
type phase int

const (
	phaseIdle phase = iota
	phaseShoulders
	phaseConfused
	phaseApproval
	phaseTalking
)

// Messages handled by the sequencer goroutine.
type (
	submitMsg    struct{ result domain.AssistantResult }
	recordingMsg struct{ active bool }
	stateMsg     struct{ reply chan State }

	// stepDue and playbackFinished carry the generation that scheduled
	// them; anything from an older generation is dropped.
	stepDue struct {
		gen  uint64
		next phase
	}
	playbackFinished struct {
		gen uint64
		err error
	}
)

type Option func(*Sequencer)

func WithClock(c Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

func WithObserver(o Observer) Option {
	return func(s *Sequencer) { s.observer = o }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) { s.log = l }
}

// Sequencer turns assistant results into a timed, cancelable sequence of
// character states and audio playback. A single goroutine owns all of its
// state; the exported methods only send messages to it.
type Sequencer struct {
	player   Player
	clock    Clock
	observer Observer
	log      *zap.Logger

	inbox     chan any
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// Owned by the run goroutine.
	gen       uint64
	phase     phase
	audio     string
	recording bool
	timer     Timer
	playback  Playback
	state     State
	rendered  bool
}

// New starts a sequencer. The observer, if any, immediately receives Waiting.
func New(player Player, opts ...Option) *Sequencer {
	s := &Sequencer{
		player: player,
		clock:  SystemClock{},
		log:    zap.NewNop(),
		inbox:  make(chan any, 16),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.run()
	return s
}

// Submit preempts whatever is running and starts the sequence for result.
func (s *Sequencer) Submit(result domain.AssistantResult) {
	s.send(submitMsg{result: result})
}

// SetRecording toggles the listening flag owned by the audio capture control.
func (s *Sequencer) SetRecording(active bool) {
	s.send(recordingMsg{active: active})
}

// State returns the state last shown. Every message sent before the call
// has been processed when it returns.
func (s *Sequencer) State() State {
	reply := make(chan State, 1)
	if !s.send(stateMsg{reply: reply}) {
		<-s.done
		return s.state
	}
	select {
	case st := <-reply:
		return st
	case <-s.done:
		return s.state
	}
}

// Close stops the pending timer and any playback, then waits for the
// sequencer goroutine to exit. It is safe to call more than once.
func (s *Sequencer) Close() {
	s.closeOnce.Do(func() { close(s.quit) })
	<-s.done
}

func (s *Sequencer) send(msg any) bool {
	select {
	case <-s.quit:
		return false
	default:
	}
	select {
	case s.inbox <- msg:
		return true
	case <-s.quit:
		return false
	}
}

func (s *Sequencer) run() {
	defer close(s.done)
	s.render()

	for {
		select {
		case <-s.quit:
			s.cancelInFlight()
			return
		case msg := <-s.inbox:
			s.handle(msg)
		}
	}
}

func (s *Sequencer) handle(msg any) {
	switch m := msg.(type) {
	case submitMsg:
		s.begin(m.result)
	case recordingMsg:
		s.recording = m.active
		s.render()
	case stateMsg:
		m.reply <- s.state
	case stepDue:
		if m.gen != s.gen {
			return
		}
		s.timer = nil
		s.step(m.next)
	case playbackFinished:
		if m.gen != s.gen || s.phase != phaseTalking {
			return
		}
		if m.err != nil {
			s.log.Debug("Assistant audio playback failed", zap.Error(m.err))
		}
		s.playback = nil
		s.enter(phaseIdle)
	}
}

func (s *Sequencer) begin(result domain.AssistantResult) {
	s.cancelInFlight()
	s.gen++
	s.phase = phaseIdle
	s.audio = ""

	switch {
	case result.Kind == domain.ActionUnknown:
		s.enter(phaseShoulders)
		s.schedule(ReactionWindow, phaseConfused)
	case result.HasAudio():
		s.audio = result.Audio
		s.enter(phaseApproval)
		s.schedule(ReactionWindow, phaseTalking)
	default:
		s.render()
	}
}

func (s *Sequencer) step(next phase) {
	switch next {
	case phaseConfused:
		s.enter(phaseConfused)
		s.schedule(ConfusedWindow, phaseIdle)
	case phaseTalking:
		s.talk()
	default:
		s.enter(phaseIdle)
	}
}

func (s *Sequencer) talk() {
	gen := s.gen
	done := func(err error) {
		go s.send(playbackFinished{gen: gen, err: err})
	}

	var (
		pb  Playback
		err = errNoPlayer
	)
	if s.player != nil {
		pb, err = s.player.Play(s.audio, done)
	}
	if err != nil {
		s.log.Debug("Assistant audio playback did not start", zap.Error(err))
		s.enter(phaseIdle)
		return
	}
	s.playback = pb
	s.enter(phaseTalking)
}

func (s *Sequencer) schedule(d time.Duration, next phase) {
	gen := s.gen
	s.timer = s.clock.AfterFunc(d, func() {
		s.send(stepDue{gen: gen, next: next})
	})
}

// cancelInFlight invalidates the running sequence's timer and playback.
func (s *Sequencer) cancelInFlight() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.playback != nil {
		s.playback.Stop()
		s.playback = nil
	}
}

func (s *Sequencer) enter(p phase) {
	s.phase = p
	s.render()
}

// visual derives the single state to show from the phase and the
// recording flag: confused > reacting > talking > listening > waiting.
func (s *Sequencer) visual() State {
	switch s.phase {
	case phaseConfused:
		return Confused
	case phaseShoulders:
		return Shoulders
	case phaseApproval:
		return Approval
	case phaseTalking:
		return Talking
	}
	if s.recording {
		return Listening
	}
	return Waiting
}

func (s *Sequencer) render() {
	st := s.visual()
	if s.rendered && st == s.state {
		return
	}
	s.state = st
	s.rendered = true
	if s.observer != nil {
		s.observer(st)
	}
}
