package session

//go:generate mockgen -destination=mock/mock_publisher.go -package=mocksession -source=publisher.go

import (
	"context"
	"errors"
	"sync"

	"github.com/alexisbeaulieu97/emuhud/internal/logger"
	"github.com/alexisbeaulieu97/emuhud/internal/theme"
)

// Publisher receives every frame that differs from the one before it.
type Publisher interface {
	Publish(ctx context.Context, frame theme.Frame) error
}

// Multi publishes to every non-nil publisher in order. All of them are
// tried; their errors are joined.
func Multi(pubs ...Publisher) Publisher {
	out := make(multiPublisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

type multiPublisher []Publisher

func (m multiPublisher) Publish(ctx context.Context, frame theme.Frame) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, frame); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FrameHandler is called for each frame published on a subscribed theme.
type FrameHandler func(ctx context.Context, frame theme.Frame) error

// Subscription cancels a Subscribe registration.
type Subscription interface {
	Unsubscribe()
}

// Broadcaster fans published frames out to per-theme subscribers and logs
// each one at debug level.
type Broadcaster struct {
	log    *logger.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log *logger.Logger) *Broadcaster {
	if log == nil {
		log = logger.Nop()
	}
	return &Broadcaster{
		log:  log,
		subs: make(map[string][]subscriptionEntry),
	}
}

// Publish delivers frame to the subscribers of frame.Theme. A failing
// handler is logged and does not stop delivery to the others.
func (b *Broadcaster) Publish(ctx context.Context, frame theme.Frame) error {
	if b == nil {
		return nil
	}

	b.mu.RLock()
	handlers := append([]subscriptionEntry(nil), b.subs[frame.Theme]...)
	b.mu.RUnlock()

	b.log.WithFields(map[string]any{
		"theme":       frame.Theme,
		"status":      frame.Status,
		"subscribers": len(handlers),
	}).Debug("frame published")

	for _, entry := range handlers {
		if err := entry.handler(ctx, frame); err != nil {
			b.log.WithFields(map[string]any{"theme": frame.Theme, "subscriber": entry.id}).Error(err, "frame handler failed")
		}
	}
	return nil
}

// Subscribe registers handler for frames of the named theme.
func (b *Broadcaster) Subscribe(themeName string, handler FrameHandler) Subscription {
	if b == nil || handler == nil {
		return noopSubscription{}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[themeName] = append(b.subs[themeName], subscriptionEntry{id: id, handler: handler})
	b.mu.Unlock()

	return subscription{
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			handlers := b.subs[themeName]
			for i, entry := range handlers {
				if entry.id == id {
					b.subs[themeName] = append(handlers[:i], handlers[i+1:]...)
					break
				}
			}
		},
	}
}

// Subscribers returns the number of handlers registered for a theme.
func (b *Broadcaster) Subscribers(themeName string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[themeName])
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler FrameHandler
}
