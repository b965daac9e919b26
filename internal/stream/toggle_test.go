package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type toggleItem struct {
	id string
}

// toggleRecorder scripts per-item toggle outcomes and records call
// counts. A per-item gate, when present, blocks the call until closed.
type toggleRecorder struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]bool
	errs    map[string]error
	gates   map[string]chan struct{}
}

func newToggleRecorder() *toggleRecorder {
	return &toggleRecorder{
		calls:   make(map[string]int),
		results: make(map[string]bool),
		errs:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (r *toggleRecorder) toggle(ctx context.Context, item toggleItem) (bool, error) {
	r.mu.Lock()
	r.calls[item.id]++
	gate := r.gates[item.id]
	result := r.results[item.id]
	err := r.errs[item.id]
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return result, err
}

func (r *toggleRecorder) callCount(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

func (r *toggleRecorder) opts(seed ...string) ToggleOpts[toggleItem] {
	seedSet := make(map[string]struct{}, len(seed))
	for _, id := range seed {
		seedSet[id] = struct{}{}
	}
	return ToggleOpts[toggleItem]{
		Key:    func(i toggleItem) string { return i.id },
		Toggle: r.toggle,
		Seed:   seedSet,
	}
}

func recvState(t *testing.T, ch <-chan FavoriteState) FavoriteState {
	t.Helper()
	select {
	case state, ok := <-ch:
		if !ok {
			t.Fatalf("state channel closed early")
		}
		return state
	case <-time.After(recvTimeout):
		t.Fatalf("timed out waiting for state")
	}
	return FavoriteState{}
}

func assertStatesClosed(t *testing.T, ch <-chan FavoriteState) {
	t.Helper()
	select {
	case state, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got emission %+v", state)
		}
	case <-time.After(recvTimeout):
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestReduceTogglesPerKeyExhaust(t *testing.T) {
	rec := newToggleRecorder()
	rec.results["x"] = true
	rec.results["y"] = true
	rec.gates["x"] = make(chan struct{})
	rec.gates["y"] = make(chan struct{})

	triggers := make(chan toggleItem)
	out := ReduceToggles(context.Background(), rec.opts(), triggers)

	triggers <- toggleItem{id: "x"}
	first := recvState(t, out)
	if !first.IsLoading("x") || first.IsFavorite("x") {
		t.Errorf("after accepting x: %+v, want x loading only", first)
	}

	// Second toggle for x while its request is in flight: dropped with
	// no emission. The unbuffered send returning proves the dispatcher
	// processed it.
	triggers <- toggleItem{id: "x"}

	// A different key proceeds concurrently.
	triggers <- toggleItem{id: "y"}
	second := recvState(t, out)
	if !second.IsLoading("x") || !second.IsLoading("y") {
		t.Errorf("after accepting y: %+v, want x and y loading", second)
	}

	// y resolves independently of x, out of trigger order.
	close(rec.gates["y"])
	third := recvState(t, out)
	if !third.IsFavorite("y") || third.IsLoading("y") {
		t.Errorf("after y resolves: %+v, want y favorite and not loading", third)
	}
	if !third.IsLoading("x") {
		t.Errorf("after y resolves: %+v, x must still be loading", third)
	}

	close(rec.gates["x"])
	fourth := recvState(t, out)
	if !fourth.IsFavorite("x") || fourth.IsLoading("x") {
		t.Errorf("after x resolves: %+v, want x favorite and not loading", fourth)
	}
	if len(fourth.Loading) != 0 {
		t.Errorf("loading set = %v, want empty", fourth.Loading)
	}

	if got := rec.callCount("x"); got != 1 {
		t.Errorf("toggle calls for x = %d, want 1 (second trigger dropped)", got)
	}
	if got := rec.callCount("y"); got != 1 {
		t.Errorf("toggle calls for y = %d, want 1", got)
	}

	close(triggers)
	assertStatesClosed(t, out)
}

func TestReduceTogglesUnfavorite(t *testing.T) {
	rec := newToggleRecorder()
	rec.results["m1"] = false

	triggers := make(chan toggleItem)
	out := ReduceToggles(context.Background(), rec.opts("m1"), triggers)

	triggers <- toggleItem{id: "m1"}
	partial := recvState(t, out)
	if !partial.IsFavorite("m1") {
		t.Errorf("partial emission must keep prior favorite state: %+v", partial)
	}
	if !partial.IsLoading("m1") {
		t.Errorf("partial emission missing loading marker: %+v", partial)
	}

	full := recvState(t, out)
	if full.IsFavorite("m1") || full.IsLoading("m1") {
		t.Errorf("after unfavorite resolves: %+v, want m1 absent from both sets", full)
	}

	close(triggers)
	assertStatesClosed(t, out)
}

func TestReduceTogglesFailureClearsLoading(t *testing.T) {
	rec := newToggleRecorder()
	rec.errs["m1"] = errors.New("toggle failed")

	triggers := make(chan toggleItem)
	out := ReduceToggles(context.Background(), rec.opts("m1"), triggers)

	triggers <- toggleItem{id: "m1"}
	recvState(t, out)

	full := recvState(t, out)
	if full.LastErr == nil {
		t.Errorf("failed toggle must surface LastErr: %+v", full)
	}
	if full.IsLoading("m1") {
		t.Errorf("loading marker stuck after failure: %+v", full)
	}
	if !full.IsFavorite("m1") {
		t.Errorf("failure must leave favorite set untouched: %+v", full)
	}

	// The key returns to Idle: a new toggle is accepted again.
	triggers <- toggleItem{id: "m1"}
	retry := recvState(t, out)
	if !retry.IsLoading("m1") {
		t.Errorf("key not idle after failure: %+v", retry)
	}
	if got := rec.callCount("m1"); got != 2 {
		t.Errorf("toggle calls = %d, want 2", got)
	}

	recvState(t, out)
	close(triggers)
	assertStatesClosed(t, out)
}

func TestReduceTogglesDrainsInFlightAfterClose(t *testing.T) {
	rec := newToggleRecorder()
	rec.results["x"] = true
	rec.gates["x"] = make(chan struct{})

	triggers := make(chan toggleItem)
	out := ReduceToggles(context.Background(), rec.opts(), triggers)

	triggers <- toggleItem{id: "x"}
	recvState(t, out)

	close(triggers)
	close(rec.gates["x"])

	final := recvState(t, out)
	if !final.IsFavorite("x") || len(final.Loading) != 0 {
		t.Errorf("final emission = %+v, want x favorite with nothing loading", final)
	}
	assertStatesClosed(t, out)
}

func TestReduceTogglesSnapshotsAreCopies(t *testing.T) {
	rec := newToggleRecorder()
	rec.results["x"] = true

	triggers := make(chan toggleItem)
	out := ReduceToggles(context.Background(), rec.opts(), triggers)

	triggers <- toggleItem{id: "x"}
	partial := recvState(t, out)

	// Tampering with a received snapshot must not leak into the
	// reducer's state.
	partial.Loading["intruder"] = struct{}{}
	partial.FavoriteIDs["intruder"] = struct{}{}

	full := recvState(t, out)
	if full.IsFavorite("intruder") || full.IsLoading("intruder") {
		t.Errorf("snapshot mutation leaked into reducer state: %+v", full)
	}

	close(triggers)
	assertStatesClosed(t, out)
}

func TestReduceTogglesCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := newToggleRecorder()
	rec.gates["x"] = make(chan struct{})

	triggers := make(chan toggleItem)
	out := ReduceToggles(ctx, rec.opts(), triggers)

	triggers <- toggleItem{id: "x"}
	recvState(t, out)

	cancel()
	close(rec.gates["x"])
	assertStatesClosed(t, out)
}
