package live

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Feed delivers full snapshots of a topic: one right away, then one per change.
// Only the latest undelivered snapshot is kept.
type Feed[T any] struct {
	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// Watch subscribes to topic and loads a snapshot with load for every change
// until ctx is cancelled or Close is called.
func Watch[T any](ctx context.Context, hub *Hub, topic string, load func() (T, error)) *Feed[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Feed[T]{
		updates: make(chan T, 1),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// Subscribe before the first load so no change between the two is missed.
	sub := hub.Subscribe(topic)
	go f.run(ctx, sub, topic, load)
	return f
}

func (f *Feed[T]) run(ctx context.Context, sub *Subscription, topic string, load func() (T, error)) {
	defer close(f.done)
	defer close(f.updates)
	defer sub.Unsubscribe()

	for {
		snapshot, err := load()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("live feed failed to load snapshot")
			f.setErr(err)
			return
		}
		f.push(snapshot)

		select {
		case <-ctx.Done():
			return
		case <-sub.C:
		}
	}
}

// push replaces an undelivered snapshot with the newer one.
func (f *Feed[T]) push(snapshot T) {
	select {
	case <-f.updates:
	default:
	}
	f.updates <- snapshot
}

func (f *Feed[T]) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// Updates is closed once the feed stops.
func (f *Feed[T]) Updates() <-chan T {
	return f.updates
}

// Err returns the load error that stopped the feed, if any.
func (f *Feed[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Close unsubscribes and waits for the feed to stop.
func (f *Feed[T]) Close() {
	f.cancel()
	<-f.done
}
