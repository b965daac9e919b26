package server

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs method, path, status, and duration for every request.
func Logging(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, req)

			logger.Info("request",
				"method", req.Method,
				"path", req.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// Latency delays every request by d. Useful for watching suspense
// states in the TUI; a non-positive d is a no-op.
func Latency(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			select {
			case <-time.After(d):
			case <-req.Context().Done():
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// Flaky fails requests with HTTP 500 at the given probability, for
// exercising the retry and error paths end to end. A rate outside
// (0, 1] is a no-op.
func Flaky(failureRate float64, rng *rand.Rand) Middleware {
	return func(next http.Handler) http.Handler {
		if failureRate <= 0 || failureRate > 1 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if rng.Float64() < failureRate {
				http.Error(w, "injected failure", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
