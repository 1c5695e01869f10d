package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	web "aula/internal/adapters/http"
	"aula/internal/adapters/http/perf"
	"aula/internal/adapters/storage"
)

// serveCmd starts the site server
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Long: `Serve the site directory over HTTP.

Configuration comes from defaults, the optional --config file and
AULA_* environment variables, in that order. Production requires
AULA_SECRET (64 hex characters).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx)
		},
	}
}

// runServer serves until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context) error {
	secret, err := cfg.SecretBytes()
	if err != nil {
		return err
	}

	collector := perf.NewCollector(cfg.Perf.RingSize)
	b, err := openBackend(ctx, cfg, storage.TimingOptions{Collector: collector})
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			slog.Error("storage_close_failed", "error", err.Error())
		}
	}()

	mux, err := web.NewMux(ctx, web.Options{
		Site:               os.DirFS(cfg.Site.Dir),
		Store:              b.store,
		Collector:          collector,
		Secret:             secret,
		SecureCookies:      cfg.Security.SecureCookies,
		TrustedOrigins:     cfg.Security.TrustedOrigins,
		RateLimitPerSecond: cfg.RateLimit.PerSecond,
		SlowRequest:        cfg.Perf.SlowRequest,
		Locale:             cfg.Speech.Locale,
		WelcomeDelay:       cfg.Welcome.Delay,
		ExposePerf:         cfg.Perf.Expose,
		Health:             b.health,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Server.Addr,
			"env", cfg.App.Environment, "site", cfg.Site.Dir, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
