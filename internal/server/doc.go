// Package server implements the mock movie-catalog backend.
//
// The backend exists so the stream engine has something real to talk
// to: a seeded in-memory [Catalog] behind a small [Router] with a
// middleware stack. [Logging] records every request; [Latency] and
// [Flaky] inject delay and failures on demand so the suspense, retry,
// and error paths can be exercised from the TUI.
//
// Endpoints:
//
//	GET  /health                    → liveness probe
//	GET  /genres                    → browsable genres
//	GET  /movies?category=…&page=N  → paged listing (also genre=…, q=…)
//	POST /movies/{id}/favorite      → toggle, returns {"favorite": bool}
package server
