// Package reaction sequences the assistant character's animation and speech
// for each assistant result.
package reaction

import "time"

// Mode is the visual state of the character, ordered by rendering priority.
type Mode int

const (
	ModeWaiting Mode = iota
	ModeListening
	ModeTalking
	ModeReacting
	ModeConfused
)

func (m Mode) String() string {
	switch m {
	case ModeListening:
		return "listening"
	case ModeTalking:
		return "talking"
	case ModeReacting:
		return "reacting"
	case ModeConfused:
		return "confused"
	default:
		return "waiting"
	}
}

type Reaction string

const (
	ReactionNone      Reaction = ""
	ReactionApproval  Reaction = "approval"
	ReactionShoulders Reaction = "shoulders"
)

// State is what the character shows. Reaction is set only in ModeReacting.
type State struct {
	Mode     Mode
	Reaction Reaction
}

func (s State) String() string {
	if s.Reaction != ReactionNone {
		return s.Mode.String() + "(" + string(s.Reaction) + ")"
	}
	return s.Mode.String()
}

var (
	Waiting   = State{Mode: ModeWaiting}
	Listening = State{Mode: ModeListening}
	Talking   = State{Mode: ModeTalking}
	Approval  = State{Mode: ModeReacting, Reaction: ReactionApproval}
	Shoulders = State{Mode: ModeReacting, Reaction: ReactionShoulders}
	Confused  = State{Mode: ModeConfused}
)

const (
	ReactionWindow = 1000 * time.Millisecond
	ConfusedWindow = 3000 * time.Millisecond
)

// Observer receives every state change, on the sequencer goroutine.
// It must not block or call back into the Sequencer synchronously.
type Observer func(State)
