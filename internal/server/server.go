// Package server binds the HTTP port and runs it until SIGINT or SIGTERM.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/cafefront/config"
	"github.com/shashiranjanraj/cafefront/internal/kernel"
	"github.com/shashiranjanraj/cafefront/pkg/cache"
	"github.com/shashiranjanraj/cafefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Start loads config, connects the cache and serves until a signal arrives.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	handler, err := kernel.Handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, ":"+config.AppPort(), handler)
}

// Serve runs handler on addr until ctx is done, then drains in-flight
// requests for up to shutdownTimeout.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Pages wait on the cafe API, so allow for API_TIMEOUT.
		WriteTimeout: config.APITimeout() + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("cafefront listening", "addr", addr, "api", config.APIURL(), "cache", cache.Current().Name())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("cafefront shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
