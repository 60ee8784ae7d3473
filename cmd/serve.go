package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/api"
	"github.com/sojournii/sojournii/internal/reminder"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	serveAddr      string
	serveReminders bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API and /metrics",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runServe),
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().BoolVar(&serveReminders, "reminders", false, "Also run the reminder scheduler")
}

func runServe(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv, err := api.New(tr, api.Config{JWTSecret: cfg.Server.JWTSecret}, logger)
	if err != nil {
		return err
	}

	var sched *reminder.Scheduler
	if serveReminders {
		sender, err := newSender(ctx, tr)
		if err != nil {
			return err
		}
		if sched, err = reminder.NewScheduler(cfg.Reminders.Schedule, sender, logger); err != nil {
			return err
		}
		sched.Start()
	}

	var cleanup []func(context.Context)
	if sched != nil {
		cleanup = append(cleanup, sched.Stop)
	}
	return serveUntilDone(ctx, func() error { return srv.Listen(addr) }, srv.Shutdown, cleanup...)
}

// serveUntilDone runs listen until it fails or ctx ends. The cleanup funcs
// run on both paths; shutdown only when listen is still running.
func serveUntilDone(ctx context.Context, listen func() error, shutdown func(context.Context) error, cleanup ...func(context.Context)) error {
	errc := make(chan error, 1)
	go func() { errc <- listen() }()

	shutdownCtx := func() (context.Context, context.CancelFunc) {
		return context.WithTimeout(context.Background(), 30*time.Second)
	}

	select {
	case err := <-errc:
		sctx, cancel := shutdownCtx()
		defer cancel()
		for _, stop := range cleanup {
			stop(sctx)
		}
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")

	sctx, cancel := shutdownCtx()
	defer cancel()
	for _, stop := range cleanup {
		stop(sctx)
	}
	if err := shutdown(sctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
