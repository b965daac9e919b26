package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/desertthunder/marquee/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the mock catalog backend until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.reloadConfig(cmd.String("config"))

	cfg := r.config.Server
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}
	if latency := cmd.Int("latency"); latency >= 0 {
		cfg.LatencyMs = int(latency)
	}
	if rate := cmd.Float("failure-rate"); rate >= 0 {
		cfg.FailureRate = rate
	}

	router := server.NewRouter()
	router.Use(server.Logging(r.logger))
	if cfg.LatencyMs > 0 {
		router.Use(server.Latency(time.Duration(cfg.LatencyMs) * time.Millisecond))
	}
	if cfg.FailureRate > 0 {
		router.Use(server.Flaky(cfg.FailureRate, rand.New(rand.NewSource(time.Now().UnixNano()))))
	}

	catalog := server.NewCatalog(cfg.PageSize, r.logger)
	catalog.Register(router)

	srv := &http.Server{Addr: cfg.Addr(), Handler: router}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	r.logger.Info("catalog server listening", "addr", cfg.Addr(), "latency_ms", cfg.LatencyMs, "failure_rate", cfg.FailureRate)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	}
}
