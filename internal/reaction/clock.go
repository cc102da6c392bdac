package reaction

import "time"

type Timer interface {
	Stop() bool
}

// Clock schedules callbacks. f runs on its own goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Playback is an in-flight audio playback.
type Playback interface {
	// Stop halts playback. done must not be called afterwards; the
	// sequencer ignores it regardless.
	Stop()
}

// Player plays a data-URI audio payload and calls done exactly once when
// playback ends or fails. done may be called from any goroutine, including
// synchronously from Play.
type Player interface {
	Play(audio string, done func(error)) (Playback, error)
}
