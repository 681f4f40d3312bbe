package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vecagent/internal/metrics"
	chiTransport "github.com/kailas-cloud/vecagent/internal/transport/chi"
	"github.com/kailas-cloud/vecagent/internal/usecase/pipeline"
	usageuc "github.com/kailas-cloud/vecagent/internal/usecase/usage"
	"github.com/kailas-cloud/vecagent/internal/version"
)

// pipelineRunner is what the agent and serve commands need from the pipeline.
type pipelineRunner interface {
	Run(ctx context.Context, query string, k int) (pipeline.Answer, error)
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve recommendations over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if port > 0 {
				a.cfg.HTTP.Port = port
			}

			a.logger.Info("Starting vecagent API server",
				zap.String("version", version.Version),
				zap.String("commit", version.Commit),
				zap.String("env", a.env),
				zap.Int("http_port", a.cfg.HTTP.Port),
			)

			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			svc, err := a.buildPipeline(ctx)
			if err != nil {
				return err
			}

			// Pass nil interface (not typed nil pointer!) if budget is not configured.
			var budgetReader usageuc.BudgetReader
			if t := a.budgetTracker(ctx); t != nil {
				budgetReader = t
			}
			server := chiTransport.NewServer(svc, a.buildHealth(a.embedder), a.logger).
				WithUsage(usageuc.New(budgetReader))

			r := chi.NewRouter()
			r.Use(jsonRecoverer(a.logger))
			r.Use(chiMiddleware.RequestID)
			r.Use(wideEventMiddleware(a.logger))
			r.Use(chiTransport.BearerAuthMiddleware(a.cfg.Auth.APIKeys))
			r.Use(metrics.Middleware())
			server.Routes(r)

			return serveHTTP(ctx, a, r)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port; defaults to http.port")
	return cmd
}

// serveHTTP runs the server until SIGINT or SIGTERM, then shuts it down gracefully.
func serveHTTP(ctx context.Context, a *app, h http.Handler) error {
	addr := fmt.Sprintf(":%d", a.cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  time.Duration(a.cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.HTTP.WriteTimeoutSec) * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-quit:
		a.logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Error during shutdown", zap.Error(err))
		return err
	}

	a.logger.Info("Server stopped gracefully")
	return nil
}
