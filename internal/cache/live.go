// Package cache provides a generic last-known-value broadcaster.
//
// A Live cell holds the most recently published value of a single shared
// resource and fans updates out to any number of subscribers. Subscribers
// joining after a publish immediately receive the latest value
// (replay-latest multicast). Each resource has a single writer; everything
// else only reads or subscribes.
package cache

import "sync"

// subscriber channels keep only the most recent value; a slow reader sees
// the latest state, not every intermediate one.
const subscriberBuffer = 1

// Live holds the last published value of a shared resource.
// The zero value is not usable; create with NewLive.
type Live[T any] struct {
	mu        sync.Mutex
	value     T
	published bool
	subs      map[int]chan T
	nextID    int
}

// NewLive creates an empty cell. Current returns the zero value of T until
// the first Set.
func NewLive[T any]() *Live[T] {
	return &Live[T]{subs: make(map[int]chan T)}
}

// Current returns the last published value as a synchronous snapshot read.
func (l *Live[T]) Current() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Set publishes v to all subscribers and records it as the latest value.
// Set performs no I/O.
func (l *Live[T]) Set(v T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.value = v
	l.published = true
	for _, ch := range l.subs {
		deliver(ch, v)
	}
}

// Subscribe registers a new observer. If a value has already been published,
// it is delivered immediately. The cancel func unregisters the observer and
// closes its channel; it is safe to call more than once.
func (l *Live[T]) Subscribe() (<-chan T, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++

	ch := make(chan T, subscriberBuffer)
	l.subs[id] = ch
	if l.published {
		ch <- l.value
	}

	cancel := func() {
		l.mu.Lock()
		defer l.mu.Unlock()

		if sub, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// deliver sends v without blocking. If the subscriber has not drained the
// previous value, it is replaced by the new one.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
