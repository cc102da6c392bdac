package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/seu-repo/appliance-store/internal/domain"
	"github.com/seu-repo/appliance-store/internal/reaction"
)

var errMuted = errors.New("playback muted")

// audioPlayer plays data URIs with ffplay.
type audioPlayer struct {
	binary string
	mute   bool
}

// start begins playback in the background. done runs once when it ends,
// fails or is stopped.
func (p *audioPlayer) start(uri string, done func(error)) (stop func(), err error) {
	if p.mute {
		return nil, errMuted
	}
	audio, err := domain.ParseDataURI(uri)
	if err != nil {
		return nil, err
	}

	f, err := os.CreateTemp("", "assistant-*.audio")
	if err != nil {
		return nil, err
	}
	if _, err := f.Write(audio.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, err
	}
	f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, p.binary, "-nodisp", "-autoexit", "-loglevel", "error", f.Name())
	if err := cmd.Start(); err != nil {
		cancel()
		os.Remove(f.Name())
		return nil, fmt.Errorf("start %s: %w", p.binary, err)
	}

	go func() {
		err := cmd.Wait()
		os.Remove(f.Name())
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		cancel()
		done(err)
	}()
	return cancel, nil
}

// Play makes audioPlayer a reaction.Player for in-process sequencing.
func (p *audioPlayer) Play(audio string, done func(error)) (reaction.Playback, error) {
	stop, err := p.start(audio, done)
	if err != nil {
		return nil, err
	}
	return playback(stop), nil
}

type playback func()

func (pb playback) Stop() { pb() }

// tokenPlayer tracks the playbacks a chat server asked for.
type tokenPlayer struct {
	player *audioPlayer

	mu      sync.Mutex
	running map[uint64]func()
}

func newTokenPlayer(p *audioPlayer) *tokenPlayer {
	return &tokenPlayer{player: p, running: make(map[uint64]func())}
}

// play starts token and reports its end through report, unless it was
// stopped first.
func (t *tokenPlayer) play(token uint64, audio string, report func(token uint64, err error)) {
	t.mu.Lock()
	t.running[token] = nil
	t.mu.Unlock()

	stop, err := t.player.start(audio, func(err error) {
		if t.forget(token) {
			report(token, err)
		}
	})
	if err != nil {
		t.forget(token)
		if errors.Is(err, errMuted) {
			err = nil
		}
		report(token, err)
		return
	}

	t.mu.Lock()
	_, live := t.running[token]
	if live {
		t.running[token] = stop
	}
	t.mu.Unlock()
	if !live {
		// Stopped while starting.
		stop()
	}
}

// forget drops token and tells whether it was still tracked.
func (t *tokenPlayer) forget(token uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.running[token]
	delete(t.running, token)
	return ok
}

func (t *tokenPlayer) stop(token uint64) {
	t.mu.Lock()
	stop, ok := t.running[token]
	delete(t.running, token)
	t.mu.Unlock()
	if ok && stop != nil {
		stop()
	}
}

func (t *tokenPlayer) stopAll() {
	t.mu.Lock()
	running := t.running
	t.running = make(map[uint64]func())
	t.mu.Unlock()
	for _, stop := range running {
		if stop != nil {
			stop()
		}
	}
}
