package stream

import "context"

// FetchPage retrieves one page of items. Pages are one-based. An empty
// page marks the end of the collection.
type FetchPage[T any] func(ctx context.Context, page int) ([]T, error)

type fetchResult[T any] struct {
	items []T
	err   error
}

// Paginate accumulates pages into a growing collection driven by
// advance triggers.
//
// Page 1 is fetched immediately on activation; each received advance
// trigger fetches the next page. Triggers that arrive while a fetch is
// in flight are dropped, so at most one request is ever outstanding and
// results accumulate in request order. After every successful fetch the
// full accumulated collection is emitted as a fresh copy.
//
// A fetch error emits one terminal Result carrying the error and ends
// the activation; retry is the caller's concern (see [Suspensify]).
// An empty page, a closed advance channel, or ctx cancellation each end
// the activation cleanly.
func Paginate[T any](ctx context.Context, fetch FetchPage[T], advance <-chan struct{}) <-chan Result[[]T] {
	out := make(chan Result[[]T])

	go func() {
		defer close(out)

		var all []T
		page := 1

		for {
			resc := make(chan fetchResult[T], 1)
			go func(p int) {
				items, err := fetch(ctx, p)
				resc <- fetchResult[T]{items: items, err: err}
			}(page)

			// Drop advance triggers until the in-flight fetch resolves.
			var res fetchResult[T]
			pending := advance
			for resc != nil {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-pending:
					if !ok {
						pending = nil
					}
				case res = <-resc:
					resc = nil
				}
			}

			if res.err != nil {
				if ctx.Err() != nil {
					return
				}
				select {
				case out <- Result[[]T]{Err: res.err}:
				case <-ctx.Done():
				}
				return
			}
			if len(res.items) == 0 {
				return
			}

			all = append(all, res.items...)
			snapshot := make([]T, len(all))
			copy(snapshot, all)

			select {
			case out <- Result[[]T]{Value: snapshot}:
			case <-ctx.Done():
				return
			}
			page++

			select {
			case <-ctx.Done():
				return
			case _, ok := <-advance:
				if !ok {
					return
				}
			}
		}
	}()

	return out
}
