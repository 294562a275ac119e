package notify

import (
	"context"
	"errors"
	"sync"
)

// Notifier receives the single "catalog ready" signal. The signal carries no
// payload: it only says the published catalog may now be read.
type Notifier interface {
	CatalogReady(ctx context.Context) error
}

// Broadcaster is the in-process notifier. Subscribers get a channel that is
// closed by the first CatalogReady call; later calls are no-ops.
type Broadcaster struct {
	done chan struct{}
	once sync.Once
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{done: make(chan struct{})}
}

func (b *Broadcaster) CatalogReady(context.Context) error {
	b.once.Do(func() { close(b.done) })
	return nil
}

// Subscribe returns a channel closed on the broadcast. Subscribing after the
// broadcast yields an already-closed channel.
func (b *Broadcaster) Subscribe() <-chan struct{} {
	return b.done
}

func (b *Broadcaster) Fired() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// Fanout delivers the signal to every notifier, even if some fail.
type Fanout []Notifier

func (f Fanout) CatalogReady(ctx context.Context) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.CatalogReady(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
