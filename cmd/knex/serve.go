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
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/cognicore/knex/internal/server"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, cleanup, err := buildApp(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			if spec := cfg.Maintenance.RescoreSchedule; spec != "" {
				sched, err := scheduleRescore(a, spec, logger)
				if err != nil {
					return err
				}
				sched.Start()
				defer func() { <-sched.Stop().Done() }()
			}

			srv := &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           server.New(a.knex, logger).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return run(ctx, srv, cfg.Server.ShutdownTimeout, logger)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8000)")
	_ = c.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// run serves until ctx is cancelled, then drains in-flight requests.
func run(ctx context.Context, srv *http.Server, grace time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// scheduleRescore registers a periodic rescoring job. Overlapping runs are
// skipped.
func scheduleRescore(a *app, spec string, logger *slog.Logger) (*cron.Cron, error) {
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	rescorer := a.rescorer()
	_, err := sched.AddFunc(spec, func() {
		res, err := rescorer.Rescore(context.Background())
		if err != nil {
			logger.Error("scheduled rescore failed", "error", err)
			return
		}
		logger.Info("scheduled rescore finished",
			"processed", res.Processed,
			"updated", res.Updated,
			"errors", res.Errors,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule rescore %q: %w", spec, err)
	}
	return sched, nil
}
