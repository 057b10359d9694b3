// Package batch provides an all-settled fan-out/fan-in helper.
//
// A batch issues one fetch per key concurrently and resolves exactly once
// every fetch has settled, success or failure. Per-key failures are recorded
// in the combined result and never abort the batch; retries, if any, are the
// caller's decision.
package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency bounds in-flight fetches when the caller does not
// specify a limit.
const DefaultConcurrency = 8

// FetchFunc fetches the value for a single key.
type FetchFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

// Outcome is the settled result of one key's fetch.
type Outcome[V any] struct {
	Value V
	Err   error
}

// Result maps every unique input key to its settled outcome.
type Result[K comparable, V any] map[K]Outcome[V]

// Failed returns the keys whose fetch settled with an error.
func (r Result[K, V]) Failed() []K {
	var keys []K
	for k, o := range r {
		if o.Err != nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// All runs fetch for every key with DefaultConcurrency.
func All[K comparable, V any](ctx context.Context, keys []K, fetch FetchFunc[K, V]) Result[K, V] {
	return AllN(ctx, keys, DefaultConcurrency, fetch)
}

// AllN runs fetch for every key, at most concurrency at a time, and returns
// once all fetches have settled. Duplicate keys are fetched once. An empty
// key set resolves immediately with an empty result.
func AllN[K comparable, V any](ctx context.Context, keys []K, concurrency int64, fetch FetchFunc[K, V]) Result[K, V] {
	result := make(Result[K, V], len(keys))
	if len(keys) == 0 {
		return result
	}
	if concurrency < 1 {
		concurrency = 1
	}

	sem := semaphore.NewWeighted(concurrency)

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	seen := make(map[K]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		wg.Add(1)
		go func(key K) {
			defer wg.Done()

			// A cancelled context settles the key as failed rather than
			// leaving it out of the result.
			if err := sem.Acquire(ctx, 1); err != nil {
				mu.Lock()
				result[key] = Outcome[V]{Err: err}
				mu.Unlock()
				return
			}
			defer sem.Release(1)

			v, err := fetch(ctx, key)
			mu.Lock()
			result[key] = Outcome[V]{Value: v, Err: err}
			mu.Unlock()
		}(key)
	}

	wg.Wait()
	return result
}
