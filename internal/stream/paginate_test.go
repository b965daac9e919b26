package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// pageFetcher serves scripted pages and records every requested page
// number. An optional gate blocks the page 1 fetch until released.
type pageFetcher struct {
	mu    sync.Mutex
	calls []int
	pages map[int][]string
	errAt int           // page number that fails, 0 for none
	gate  chan struct{} // blocks page 1 when non-nil
}

func (f *pageFetcher) fetch(ctx context.Context, page int) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, page)
	f.mu.Unlock()

	if page == 1 && f.gate != nil {
		<-f.gate
	}
	if f.errAt != 0 && page == f.errAt {
		return nil, errors.New("page fetch failed")
	}
	return f.pages[page], nil
}

func (f *pageFetcher) recorded() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

func recvResult[T any](t *testing.T, ch <-chan Result[T]) Result[T] {
	t.Helper()
	select {
	case res, ok := <-ch:
		if !ok {
			t.Fatalf("result channel closed early")
		}
		return res
	case <-time.After(recvTimeout):
		t.Fatalf("timed out waiting for result")
	}
	return Result[T]{}
}

func assertResultsClosed[T any](t *testing.T, ch <-chan Result[T]) {
	t.Helper()
	select {
	case res, ok := <-ch:
		if ok {
			t.Fatalf("expected closed channel, got emission %+v", res)
		}
	case <-time.After(recvTimeout):
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestPaginateAccumulates(t *testing.T) {
	fetcher := &pageFetcher{pages: map[int][]string{
		1: {"a", "b"},
		2: {"c", "d"},
	}}
	advance := make(chan struct{})
	out := Paginate(context.Background(), fetcher.fetch, advance)

	first := recvResult(t, out)
	if len(first.Value) != 2 || first.Value[0] != "a" || first.Value[1] != "b" {
		t.Errorf("first accumulation = %v, want [a b]", first.Value)
	}

	advance <- struct{}{}
	second := recvResult(t, out)
	want := []string{"a", "b", "c", "d"}
	if len(second.Value) != len(want) {
		t.Fatalf("second accumulation = %v, want %v", second.Value, want)
	}
	for i, v := range want {
		if second.Value[i] != v {
			t.Errorf("second accumulation[%d] = %s, want %s", i, second.Value[i], v)
		}
	}

	// Page 3 is empty: the collection is exhausted.
	advance <- struct{}{}
	assertResultsClosed(t, out)

	if calls := fetcher.recorded(); len(calls) != 3 {
		t.Errorf("fetch calls = %v, want pages 1 2 3", calls)
	}
}

func TestPaginateDropsTriggersWhileInFlight(t *testing.T) {
	fetcher := &pageFetcher{
		pages: map[int][]string{1: {"a", "b"}, 2: {"c"}},
		gate:  make(chan struct{}),
	}
	advance := make(chan struct{})
	out := Paginate(context.Background(), fetcher.fetch, advance)

	// Unbuffered sends: each returns only once the dispatcher has
	// consumed (and dropped) the trigger while page 1 is in flight.
	for i := 0; i < 3; i++ {
		select {
		case advance <- struct{}{}:
		case <-time.After(recvTimeout):
			t.Fatalf("dispatcher did not consume trigger %d", i)
		}
	}

	close(fetcher.gate)
	first := recvResult(t, out)
	if len(first.Value) != 2 {
		t.Fatalf("first accumulation = %v, want [a b]", first.Value)
	}

	// The dropped triggers must not have scheduled another fetch.
	if calls := fetcher.recorded(); len(calls) != 1 || calls[0] != 1 {
		t.Fatalf("fetch calls after dropped triggers = %v, want [1]", calls)
	}

	// A trigger after resolution advances normally.
	advance <- struct{}{}
	second := recvResult(t, out)
	if len(second.Value) != 3 {
		t.Errorf("second accumulation = %v, want three items", second.Value)
	}
	if calls := fetcher.recorded(); len(calls) != 2 || calls[1] != 2 {
		t.Errorf("fetch calls = %v, want [1 2]", calls)
	}
}

func TestPaginateFetchError(t *testing.T) {
	fetcher := &pageFetcher{
		pages: map[int][]string{1: {"a"}},
		errAt: 2,
	}
	advance := make(chan struct{})
	out := Paginate(context.Background(), fetcher.fetch, advance)

	if first := recvResult(t, out); first.Err != nil {
		t.Fatalf("first result errored early: %v", first.Err)
	}

	advance <- struct{}{}
	terminal := recvResult(t, out)
	if terminal.Err == nil {
		t.Fatalf("expected terminal error result, got %+v", terminal)
	}
	assertResultsClosed(t, out)
}

func TestPaginateEmptyFirstPage(t *testing.T) {
	fetcher := &pageFetcher{pages: map[int][]string{}}
	out := Paginate(context.Background(), fetcher.fetch, make(chan struct{}))
	assertResultsClosed(t, out)
}

func TestPaginateStopsOnClosedAdvance(t *testing.T) {
	fetcher := &pageFetcher{pages: map[int][]string{1: {"a"}, 2: {"b"}}}
	advance := make(chan struct{})
	out := Paginate(context.Background(), fetcher.fetch, advance)

	recvResult(t, out)
	close(advance)
	assertResultsClosed(t, out)
}

func TestPaginateCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetcher := &pageFetcher{
		pages: map[int][]string{1: {"a"}},
		gate:  make(chan struct{}),
	}
	out := Paginate(ctx, fetcher.fetch, make(chan struct{}))

	cancel()
	close(fetcher.gate)
	assertResultsClosed(t, out)
}
