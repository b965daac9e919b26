package stream

import "context"

// ToggleFunc submits one toggle request for an item. The returned bool
// is the authoritative state after the call: true means the item is now
// favorite.
type ToggleFunc[T any] func(ctx context.Context, item T) (bool, error)

// ToggleOpts configures [ReduceToggles].
type ToggleOpts[T any] struct {
	Key    func(T) string      // stable identity for per-key exhaust
	Toggle ToggleFunc[T]       // the async toggle call
	Seed   map[string]struct{} // initial favorite ids, may be nil
}

// FavoriteState is one snapshot of the reducer's output. The maps are
// fresh copies on every emission and safe to retain.
//
// An id is in Loading from the moment its toggle is accepted until the
// call resolves, success or failure. LastErr carries the error of the
// completion that produced this snapshot, nil otherwise; a failed
// toggle leaves FavoriteIDs untouched.
type FavoriteState struct {
	FavoriteIDs map[string]struct{}
	Loading     map[string]struct{}
	LastErr     error
}

// IsFavorite reports whether id is currently marked favorite.
func (s FavoriteState) IsFavorite(id string) bool {
	_, ok := s.FavoriteIDs[id]
	return ok
}

// IsLoading reports whether a toggle for id is in flight.
func (s FavoriteState) IsLoading(id string) bool {
	_, ok := s.Loading[id]
	return ok
}

type toggleOutcome struct {
	key      string
	favorite bool
	err      error
}

// ReduceToggles folds toggle triggers into a FavoriteState stream.
//
// Triggers are keyed by opts.Key. Each key is an independent state
// machine: Idle until a trigger is accepted, Requesting while its
// toggle call is in flight, Idle again on completion. A trigger for a
// Requesting key is dropped; triggers for distinct keys run
// concurrently and may complete in any order.
//
// An accepted trigger emits a partial snapshot (key added to Loading)
// before the call is made. Completion emits a full snapshot: the key
// leaves Loading and, on success, enters or leaves FavoriteIDs per the
// call's result. On failure FavoriteIDs is left as it was and the error
// is surfaced in LastErr; the reducer itself never fails.
//
// The output closes once triggers is closed and all in-flight calls
// have resolved, or when ctx is cancelled.
func ReduceToggles[T any](ctx context.Context, opts ToggleOpts[T], triggers <-chan T) <-chan FavoriteState {
	out := make(chan FavoriteState)

	go func() {
		defer close(out)

		favorites := make(map[string]struct{}, len(opts.Seed))
		for id := range opts.Seed {
			favorites[id] = struct{}{}
		}
		// Loading doubles as the in-flight table: membership and an
		// outstanding request are the same fact.
		loading := make(map[string]struct{})

		outcomes := make(chan toggleOutcome)
		emit := func(lastErr error) bool {
			snap := FavoriteState{
				FavoriteIDs: cloneSet(favorites),
				Loading:     cloneSet(loading),
				LastErr:     lastErr,
			}
			select {
			case out <- snap:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for triggers != nil || len(loading) > 0 {
			select {
			case <-ctx.Done():
				return

			case item, ok := <-triggers:
				if !ok {
					triggers = nil
					continue
				}
				key := opts.Key(item)
				if _, busy := loading[key]; busy {
					continue // exhaust: request already in flight for this key
				}
				loading[key] = struct{}{}
				if !emit(nil) {
					return
				}
				go func(item T, key string) {
					favorite, err := opts.Toggle(ctx, item)
					select {
					case outcomes <- toggleOutcome{key: key, favorite: favorite, err: err}:
					case <-ctx.Done():
					}
				}(item, key)

			case oc := <-outcomes:
				delete(loading, oc.key)
				if oc.err == nil {
					if oc.favorite {
						favorites[oc.key] = struct{}{}
					} else {
						delete(favorites, oc.key)
					}
				}
				if !emit(oc.err) {
					return
				}
			}
		}
	}()

	return out
}

func cloneSet(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for k := range src {
		dst[k] = struct{}{}
	}
	return dst
}
