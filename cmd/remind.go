package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sojournii/sojournii/internal/metrics"
	"github.com/sojournii/sojournii/internal/msgraph"
	"github.com/sojournii/sojournii/internal/reminder"
	"github.com/sojournii/sojournii/internal/tracker"
)

var (
	remindDryRun bool
	remindAll    bool
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Weekly reminder e-mails",
}

var remindSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send this week's reminder now",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runRemindSend),
}

var remindRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Send reminders on the configured schedule until interrupted",
	Args:  cobra.NoArgs,
	RunE:  withTracker(runRemindRun),
}

func init() {
	remindCmd.PersistentFlags().BoolVar(&remindDryRun, "dry-run", false, "Log reminders instead of sending them")
	remindSendCmd.Flags().BoolVar(&remindAll, "all", false, "Send to every user with reminders enabled")
	remindCmd.AddCommand(remindSendCmd)
	remindCmd.AddCommand(remindRunCmd)
}

// newMailer builds the configured transport.
func newMailer(ctx context.Context) (reminder.Mailer, error) {
	if remindDryRun {
		return reminder.NewLogMailer(logger), nil
	}
	switch cfg.Mail.Transport {
	case "smtp":
		if cfg.Mail.SMTP.Host == "" || cfg.Mail.From == "" {
			return nil, errors.New("smtp transport needs mail.smtp.host and mail.from")
		}
		s := cfg.Mail.SMTP
		return reminder.NewSMTPMailer(s.Host, s.Port, s.Username, s.Password, cfg.Mail.From), nil
	case "graph":
		auth, err := msgraph.NewAuth(cfg.Outlook.TenantID, cfg.Outlook.ClientID, "", logger)
		if err != nil {
			return nil, err
		}
		client, err := auth.Client(ctx)
		if err != nil {
			return nil, err
		}
		return reminder.NewGraphMailer(client), nil
	case "log", "":
		return reminder.NewLogMailer(logger), nil
	}
	return nil, fmt.Errorf("unknown mail transport %q", cfg.Mail.Transport)
}

func newSender(ctx context.Context, tr *tracker.Tracker) (*reminder.Sender, error) {
	mailer, err := newMailer(ctx)
	if err != nil {
		return nil, err
	}
	return reminder.NewSender(tr, mailer, logger), nil
}

func runRemindSend(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	sender, err := newSender(ctx, tr)
	if err != nil {
		return err
	}
	if remindAll {
		res, err := sender.SendAll(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Sent %d, skipped %d, failed %d\n", res.Sent, res.Skipped, res.Failed)
		if res.Failed > 0 {
			return fmt.Errorf("%d reminder(s) failed", res.Failed)
		}
		return nil
	}

	st, err := tr.Settings(ctx, cfg.UserID)
	if err != nil {
		return err
	}
	if err := sender.SendUser(ctx, st); err != nil {
		return err
	}
	fmt.Println("Reminder sent.")
	return nil
}

func runRemindRun(ctx context.Context, tr *tracker.Tracker, _ []string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender, err := newSender(ctx, tr)
	if err != nil {
		return err
	}
	sched, err := reminder.NewScheduler(cfg.Reminders.Schedule, sender, logger)
	if err != nil {
		return err
	}

	var srv *http.Server
	if addr := cfg.Reminders.MetricsAddr; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			logger.Info("metrics listening", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	sched.Start()
	<-ctx.Done()
	logger.Info("shutting down reminder scheduler")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sched.Stop(shutdownCtx)
	if srv != nil {
		return srv.Shutdown(shutdownCtx)
	}
	return nil
}
