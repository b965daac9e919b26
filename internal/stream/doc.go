// Package stream implements the reactive core of marquee: small generic
// combinators that turn discrete triggers and async calls into ordered
// snapshot streams.
//
// # Combinators
//
//  1. [Suspensify] : wraps one subscription of an async value stream in
//     [Envelope] markers: an immediate suspense emission, then values,
//     then either clean completion or a single terminal error emission
//     after the [RetryPolicy] is exhausted.
//
//  2. [Paginate] : turns "advance" triggers into a growing accumulated
//     collection, fetching one page at a time. Page 1 is fetched on
//     activation without a trigger. Triggers arriving while a fetch is
//     in flight are dropped, never queued, so requests are issued and
//     accumulated strictly in order.
//
//  3. [ReduceToggles] : turns per-item toggle triggers into a
//     [FavoriteState] stream. Triggers are partitioned by item key; a
//     trigger for a key with a request already in flight is dropped,
//     while distinct keys proceed fully concurrently. Every accepted
//     trigger emits a partial snapshot (loading marker) immediately and
//     a full snapshot when its call resolves.
//
// # Concurrency
//
// Each combinator runs a single dispatcher goroutine that owns all of
// its state. Async work happens in child goroutines whose results
// funnel back to the dispatcher over a channel, so emitted snapshots
// are always fully formed copies and never shared mutable state.
// Cancellation is via context: cancelling the activation context closes
// the output channel after in-flight work is abandoned. No combinator
// outlives its caller.
package stream
