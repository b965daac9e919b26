// Package catalog defines the [Service] interface for movie catalog
// providers and implements it for the marquee mock backend.
//
// # Service Interface
//
// The stream engine and session layer only see [Service]; swapping the
// backend for a real movie API means implementing three methods.
//
// # HTTP Implementation
//
// [HTTPService] talks JSON to the mock backend. All requests carry the
// caller's context and pass through a token-bucket rate limiter
// (golang.org/x/time/rate) so that rapid scroll-driven pagination
// cannot exceed the configured request budget.
//
// # Error Handling
//
// Transport and decoding failures wrap [shared.ErrAPIRequest]; a 404
// wraps [shared.ErrMovieNotFound]. Callers branch with errors.Is.
package catalog
