package tracker

import "sync"

// Subscription delivers the current result of a query on C, then a fresh
// result after every mutation. Delivery keeps only the latest value: a
// reader that falls behind skips straight to the newest result. Results
// are shared between subscribers of the same query; treat them as read-only.
type Subscription[T any] struct {
	C <-chan T

	ch     chan T
	once   sync.Once
	detach func()
}

func newSubscription[T any](detach func()) *Subscription[T] {
	ch := make(chan T, 1)
	return &Subscription[T]{C: ch, ch: ch, detach: detach}
}

// push is called with the tracker lock held, so sends never race with close.
func (s *Subscription[T]) push(v T) {
	select {
	case s.ch <- v:
		return
	default:
	}
	// Drop the stale value and replace it.
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- v:
	default:
	}
}

// Close detaches the subscription and closes C. Safe to call twice.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		if s.detach != nil {
			s.detach()
		}
	})
}

func (s *Subscription[T]) closeChan() { close(s.ch) }
