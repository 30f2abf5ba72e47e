// Package playback sequences affirmation clips: one clip or the whole list,
// looping under a repeat policy. Audio output and time are injected so the
// controller runs the same against real processes and test fakes.
package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNoAudio is returned when there is nothing playable.
var ErrNoAudio = errors.New("no audio to play")

type State int

const (
	Idle State = iota
	PlayingOne
	PlayingAll
)

func (s State) String() string {
	switch s {
	case PlayingOne:
		return "playing-one"
	case PlayingAll:
		return "playing-all"
	}
	return "idle"
}

// Clip is one playable affirmation. Path is the local audio file; a clip
// without one has no audio.
type Clip struct {
	ID    string
	Label string
	Path  string
}

func (c Clip) HasAudio() bool { return c.Path != "" }

// Player outputs audio. Play starts clip and returns; done is called once the
// clip ends, from another goroutine, never from inside Play. Stop halts
// whatever is playing.
type Player interface {
	Play(ctx context.Context, clip Clip, done func()) error
	Stop()
}

type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock is backed by time.AfterFunc.
func RealClock() Clock { return realClock{} }

// Status is a snapshot of the controller.
type Status struct {
	State  State
	Repeat Repeat
	Clip   Clip
}

type Options struct {
	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(Status)
	// OnError receives failures to start the next clip of a running playback.
	OnError func(error)
}

// Controller allows at most one active stream and one pending timer.
// Callbacks from superseded playbacks are recognised by generation and
// ignored.
type Controller struct {
	player Player
	clock  Clock
	opts   Options

	mu      sync.Mutex
	state   State
	repeat  Repeat
	gen     uint64
	timer   Timer
	cancel  context.CancelFunc
	ctx     context.Context
	clips   []Clip
	index   int
	current Clip
}

func NewController(player Player, clock Clock, opts Options) *Controller {
	if clock == nil {
		clock = RealClock()
	}
	return &Controller{player: player, clock: clock, opts: opts}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{State: c.state, Repeat: c.repeat, Clip: c.current}
}

// PlayOne plays clip, looping it under any repeat other than none.
func (c *Controller) PlayOne(ctx context.Context, clip Clip, repeat Repeat) error {
	if !clip.HasAudio() {
		return ErrNoAudio
	}

	return c.start(ctx, PlayingOne, repeat, []Clip{clip}, 0)
}

// PlayAll plays clips in order, skipping those without audio. At the end of
// the list it stops under RepeatNone and starts over otherwise.
func (c *Controller) PlayAll(ctx context.Context, clips []Clip, repeat Repeat) error {
	list := append([]Clip(nil), clips...)
	first := nextWithAudio(list, 0)
	if first < 0 {
		return ErrNoAudio
	}

	return c.start(ctx, PlayingAll, repeat, list, first)
}

// Stop ends playback and cancels the repeat timer. Stopping while idle is a
// no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	wasPlaying := c.state != Idle
	c.stopLocked()
	st := c.statusLocked()
	c.mu.Unlock()

	if wasPlaying {
		c.emit(st)
	}
}

// start replaces any current playback. Listeners hear about it only when the
// state changed, so a failed start from idle stays silent.
func (c *Controller) start(ctx context.Context, state State, repeat Repeat, clips []Clip, index int) error {
	c.mu.Lock()
	wasPlaying := c.state != Idle
	c.stopLocked()
	err := c.startLocked(ctx, state, repeat, clips, index)
	st := c.statusLocked()
	c.mu.Unlock()

	if err == nil || wasPlaying {
		c.emit(st)
	}
	return err
}

func (c *Controller) startLocked(ctx context.Context, state State, repeat Repeat, clips []Clip, index int) error {
	c.ctx, c.cancel = context.WithCancel(ctx)
	c.state, c.repeat, c.clips = state, repeat, clips

	if err := c.playLocked(index); err != nil {
		c.resetLocked()
		return err
	}

	if d := repeat.Duration(); d > 0 {
		gen := c.gen
		c.timer = c.clock.AfterFunc(d, func() { c.expire(gen) })
	}
	return nil
}

func (c *Controller) playLocked(index int) error {
	c.index = index
	c.current = c.clips[index]
	gen := c.gen
	return c.player.Play(c.ctx, c.current, func() { c.finished(gen) })
}

// stopLocked silences the player if a stream is active and invalidates every
// outstanding callback.
func (c *Controller) stopLocked() {
	if c.state != Idle {
		c.player.Stop()
	}
	c.resetLocked()
}

// resetLocked returns to idle without touching the player.
func (c *Controller) resetLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.state = Idle
	c.repeat = RepeatNone
	c.clips = nil
	c.index = 0
	c.current = Clip{}
	c.ctx = nil
}

// finished advances after a clip ends on its own.
func (c *Controller) finished(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state == Idle {
		c.mu.Unlock()
		return
	}

	next := c.index
	switch c.state {
	case PlayingAll:
		next = nextWithAudio(c.clips, c.index+1)
		if next < 0 && c.repeat.Loops() {
			next = nextWithAudio(c.clips, 0)
		}
	case PlayingOne:
		if !c.repeat.Loops() {
			next = -1
		}
	}

	var err error
	if next < 0 {
		c.resetLocked()
	} else if err = c.playLocked(next); err != nil {
		c.resetLocked()
	}
	st := c.statusLocked()
	c.mu.Unlock()

	if err != nil && c.opts.OnError != nil {
		c.opts.OnError(err)
	}
	c.emit(st)
}

// expire stops playback when the repeat bound elapses.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state == Idle {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.stopLocked()
	st := c.statusLocked()
	c.mu.Unlock()

	c.emit(st)
}

func (c *Controller) emit(st Status) {
	if c.opts.OnStateChange != nil {
		c.opts.OnStateChange(st)
	}
}

func nextWithAudio(clips []Clip, from int) int {
	for i := from; i < len(clips); i++ {
		if clips[i].HasAudio() {
			return i
		}
	}
	return -1
}
