package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/formflow/internal/logging"
	"github.com/aretw0/formflow/internal/presentation/tui"
	"github.com/aretw0/formflow/internal/settings"
	formhttp "github.com/aretw0/formflow/pkg/adapters/http"
	"github.com/aretw0/formflow/pkg/flowconfig"
	"github.com/aretw0/formflow/pkg/observability"
)

// ShutdownTimeout bounds how long in-flight requests may finish after a stop signal.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures Serve.
type ServeOptions struct {
	Flow     string
	Addr     string
	Settings *settings.Settings
	Logger   *slog.Logger
	Stdout   io.Writer
	Version  string
}

func (o ServeOptions) withDefaults() ServeOptions {
	if o.Settings == nil {
		o.Settings = settings.NewDefault()
	}
	if o.Logger == nil {
		o.Logger = logging.NewNop()
	}
	if o.Flow == "" {
		o.Flow = flowconfig.DefaultLocation
	}
	return o
}

// NewServerHandler builds the stateless HTTP handler with metrics mounted.
func NewServerHandler(opts ServeOptions) (http.Handler, error) {
	opts = opts.withDefaults()

	hook, err := newWebhook(opts.Settings, opts.Logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	return formhttp.NewHandler(flowconfig.Open(opts.Flow), hook,
		formhttp.WithHooks(observability.Combine(metrics.Hooks(), observability.LoggingHooks(opts.Logger))),
		formhttp.WithLogger(opts.Logger),
		formhttp.WithStorageKey(opts.Settings.StorageKey),
		formhttp.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	), nil
}

// Serve runs the stateless HTTP server until ctx is cancelled.
func Serve(ctx context.Context, opts ServeOptions) error {
	opts = opts.withDefaults()
	handler, err := NewServerHandler(opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if opts.Stdout != nil && tui.IsTerminal(opts.Stdout) {
		tui.PrintBanner(opts.Stdout, opts.Version)
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		opts.Logger.Info("starting formflow server", slog.String("addr", srv.Addr), slog.String("flow", opts.Flow))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		opts.Logger.Info("shutting down formflow server")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			opts.Logger.Warn("graceful shutdown did not complete", slog.Duration("timeout", ShutdownTimeout))
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		return nil
	}
}
