// Package session drives one theme instance from a queue of bridge ticks and
// publishes the frames it produces.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
	emuerrors "github.com/alexisbeaulieu97/emuhud/pkg/errors"
)

// DefaultQueueSize bounds the number of pending ticks per session.
const DefaultQueueSize = 16

// ErrStopped is returned when work is submitted after Run has returned.
var ErrStopped = errors.New("session stopped")

type jobKind int

const (
	jobTick jobKind = iota
	jobClosed
	jobAction
	jobSync
)

type job struct {
	kind    jobKind
	data    string
	initial bool
	action  theme.Action
	reply   chan error
}

// Stats are the counters reported by the status endpoint.
type Stats struct {
	Theme     string    `json:"theme"`
	Ticks     uint64    `json:"ticks"`
	Errors    uint64    `json:"errors"`
	Published uint64    `json:"published"`
	LastTick  time.Time `json:"lastTick,omitempty"`
}

// Options configures a session.
type Options struct {
	QueueSize int
	Publisher Publisher
	Logger    *logger.Logger
}

// Session owns a theme. Run is the only goroutine that touches it; every
// other method is safe for concurrent use.
type Session struct {
	theme theme.Theme
	name  string
	pub   Publisher
	log   *logger.Logger

	queue   chan job
	stopped chan struct{}
	once    sync.Once

	mu       sync.RWMutex
	frame    theme.Frame
	lastTick time.Time

	ticks     atomic.Uint64
	errors    atomic.Uint64
	published atomic.Uint64
}

// New wraps t in a session. The initial frame is taken from the theme.
func New(t theme.Theme, opts Options) *Session {
	size := opts.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	name := t.Metadata().Name
	return &Session{
		theme:   t,
		name:    name,
		pub:     opts.Publisher,
		log:     log.WithTheme(name),
		queue:   make(chan job, size),
		stopped: make(chan struct{}),
		frame:   t.Frame(),
	}
}

// Theme returns the name of the wrapped theme.
func (s *Session) Theme() string { return s.name }

// Submit queues one base64 bridge payload. It blocks until the tick is queued
// or ctx ends; decode failures are reported in the frame, not here.
func (s *Session) Submit(ctx context.Context, data string, initial bool) error {
	return s.enqueue(ctx, job{kind: jobTick, data: data, initial: initial})
}

// Close queues the game-closed event.
func (s *Session) Close(ctx context.Context) error {
	return s.enqueue(ctx, job{kind: jobClosed})
}

// Act routes a viewer action to the theme and waits for its result.
func (s *Session) Act(ctx context.Context, action theme.Action) error {
	reply := make(chan error, 1)
	if err := s.enqueue(ctx, job{kind: jobAction, action: action, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// Sync waits until every job queued before it has been processed.
func (s *Session) Sync(ctx context.Context) error {
	reply := make(chan error, 1)
	if err := s.enqueue(ctx, job{kind: jobSync, reply: reply}); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

func (s *Session) enqueue(ctx context.Context, j job) error {
	select {
	case <-s.stopped:
		return ErrStopped
	default:
	}
	select {
	case s.queue <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}
}

// Run processes queued work until ctx is cancelled. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	defer s.once.Do(func() { close(s.stopped) })

	s.log.Debug("session started")
	for {
		select {
		case <-ctx.Done():
			s.log.Debug("session stopped")
			return nil
		case j := <-s.queue:
			s.process(ctx, j)
		}
	}
}

func (s *Session) process(ctx context.Context, j job) {
	switch j.kind {
	case jobTick:
		s.ticks.Add(1)
		s.mu.Lock()
		s.lastTick = time.Now()
		s.mu.Unlock()
		if err := theme.Tick(ctx, s.theme, j.data, j.initial); err != nil {
			s.errors.Add(1)
			s.log.Error(err, "tick rejected")
		}
	case jobClosed:
		s.log.Info("game closed")
		s.theme.Close(ctx)
	case jobAction:
		err := s.act(ctx, j.action)
		s.publish(ctx)
		j.reply <- err
		return
	case jobSync:
		j.reply <- nil
		return
	}
	s.publish(ctx)
}

func (s *Session) act(ctx context.Context, action theme.Action) error {
	actor, ok := s.theme.(theme.Actor)
	if !ok {
		return emuerrors.NewValidationError("action", "theme "+s.name+" does not accept actions", nil)
	}
	return actor.Act(ctx, action)
}

func (s *Session) publish(ctx context.Context) {
	next := s.theme.Frame()

	s.mu.Lock()
	changed := !next.Equal(s.frame)
	if changed {
		s.frame = next
	}
	s.mu.Unlock()

	if !changed || s.pub == nil {
		return
	}
	s.published.Add(1)
	if err := s.pub.Publish(ctx, next); err != nil {
		s.log.Error(err, "publish frame")
	}
}

// Frame returns the last frame produced by the theme.
func (s *Session) Frame() theme.Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	s.mu.RLock()
	last := s.lastTick
	s.mu.RUnlock()
	return Stats{
		Theme:     s.name,
		Ticks:     s.ticks.Load(),
		Errors:    s.errors.Load(),
		Published: s.published.Load(),
		LastTick:  last,
	}
}
