// Command portfolio-mockapi serves an in-memory portfolio API for local
// development of portfolio-admin.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-admin/internal/mockapi"
	"portfolio-admin/internal/resource"
	"portfolio-admin/internal/telemetry"
)

func main() {
	addr := flag.String("addr", ":3001", "Listen address")
	seed := flag.Bool("seed", true, "Start with the sample products and reviews")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	api := mockapi.New()
	if *seed {
		api.SeedProducts(resource.ProductSeed()...)
		api.SeedReviews(resource.ReviewSeed()...)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", telemetry.Handler())
	mux.Handle("/", api)

	srv := &http.Server{Addr: *addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Mock API listening", "addr", *addr, "api", mockapi.APIPrefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
}
