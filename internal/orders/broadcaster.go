package orders

import (
	"context"
	"errors"
	"sync"
)

// Publisher fans an order change out to every subscriber of the feed.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type subscriber struct {
	ch   chan Event
	done chan struct{}
}

// Broadcaster is the in-process change feed used when no broker is
// configured. Subscriptions end when their context is cancelled.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[int]*subscriber
	next int
	buf  int
}

func NewBroadcaster(buf int) *Broadcaster {
	if buf <= 0 {
		buf = 1
	}
	return &Broadcaster{subs: make(map[int]*subscriber), buf: buf}
}

func (b *Broadcaster) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.subs {
		select {
		case s.ch <- ev:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (b *Broadcaster) Subscribe(ctx context.Context) <-chan Event {
	s := &subscriber{ch: make(chan Event, b.buf), done: make(chan struct{})}

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = s
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		close(s.done)
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(s.ch)
	}()
	return s.ch
}

func (b *Broadcaster) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// MultiPublisher publishes to every publisher, even after one fails, and
// joins the errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
