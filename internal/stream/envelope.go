package stream

import (
	"context"
	"time"
)

// Result pairs an upstream value with a terminal error. A Result with a
// non-nil Err ends that subscription; no further items follow it.
type Result[T any] struct {
	Value T
	Err   error
}

// Envelope tags one emission of an async stream so consumers can branch
// on load state without exception machinery. Exactly one of Suspense
// and Err is meaningful at a time: the first emission of an activation
// carries Suspense=true with the initial value, success emissions carry
// the value alone, and a terminal failure carries Err with the initial
// value restored.
type Envelope[T any] struct {
	Suspense bool
	Err      error
	Data     T
}

// RetryPolicy controls how many times [Suspensify] re-subscribes a
// failed upstream before surfacing the error.
type RetryPolicy struct {
	Count int
	Delay time.Duration
}

// DefaultRetryPolicy returns the standard policy of two retries spaced
// one second apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Count: 2, Delay: time.Second}
}

// Subscribe opens a fresh upstream subscription. Each call is one
// activation of the underlying source; [Suspensify] calls it again for
// every retry attempt.
type Subscribe[T any] func(ctx context.Context) <-chan Result[T]

// Suspensify wraps subscribe in suspense/error envelopes for a single
// activation.
//
// Emission order: first {Suspense: true, Data: initial}, then one
// {Data: v} per upstream success. When the upstream fails, subscribe is
// re-invoked up to policy.Count times with policy.Delay between
// attempts; retries emit no additional suspense markers. Once retries
// are exhausted a terminal {Err: err, Data: initial} is emitted and the
// output closes. The output also closes on clean upstream completion or
// when ctx is cancelled.
func Suspensify[T any](ctx context.Context, initial T, policy RetryPolicy, subscribe Subscribe[T]) <-chan Envelope[T] {
	out := make(chan Envelope[T])

	go func() {
		defer close(out)

		if !emit(ctx, out, Envelope[T]{Suspense: true, Data: initial}) {
			return
		}

		attempts := 0
		for {
			err := forward(ctx, out, subscribe)
			if err == nil || ctx.Err() != nil {
				return
			}

			if attempts >= policy.Count {
				emit(ctx, out, Envelope[T]{Err: err, Data: initial})
				return
			}
			attempts++

			select {
			case <-ctx.Done():
				return
			case <-time.After(policy.Delay):
			}
		}
	}()

	return out
}

// forward relays one subscription's successes to out. It returns nil on
// clean completion and the upstream error on terminal failure.
func forward[T any](ctx context.Context, out chan<- Envelope[T], subscribe Subscribe[T]) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	upstream := subscribe(subCtx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case res, ok := <-upstream:
			if !ok {
				return nil
			}
			if res.Err != nil {
				return res.Err
			}
			if !emit(ctx, out, Envelope[T]{Data: res.Value}) {
				return nil
			}
		}
	}
}

// emit sends an envelope unless the activation context ends first.
func emit[T any](ctx context.Context, out chan<- Envelope[T], env Envelope[T]) bool {
	select {
	case out <- env:
		return true
	case <-ctx.Done():
		return false
	}
}
