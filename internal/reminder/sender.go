package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/sojournii/sojournii/internal/metrics"
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/workhours"
)

// Weeks is the tracker functionality the sender needs.
type Weeks interface {
	ReminderRecipients(ctx context.Context) ([]model.Settings, error)
	Week(ctx context.Context, userID, date string) (workhours.WeekSummary, error)
}

// Result is the outcome of one run over all users.
type Result struct {
	Sent    int
	Skipped int
	Failed  int
}

// Sender composes and delivers reminders.
type Sender struct {
	weeks    Weeks
	mailer   Mailer
	lookups  []Lookup
	logger   *slog.Logger
	attempts uint
	delay    time.Duration
}

// Option configures a Sender.
type Option func(*Sender)

// WithLookups replaces DefaultLookups.
func WithLookups(l []Lookup) Option {
	return func(s *Sender) { s.lookups = l }
}

// WithRetry sets the delivery attempts and the base backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(s *Sender) { s.attempts, s.delay = attempts, delay }
}

// NewSender delivers through mailer with 4 attempts and a 2s base delay
// unless opts say otherwise.
func NewSender(weeks Weeks, mailer Mailer, logger *slog.Logger, opts ...Option) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sender{
		weeks:    weeks,
		mailer:   mailer,
		lookups:  DefaultLookups,
		logger:   logger,
		attempts: 4,
		delay:    2 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// errNoRecipient marks users without any usable address.
var errNoRecipient = errors.New("no reminder address")

// SendUser sends the current week's reminder to one user.
func (s *Sender) SendUser(ctx context.Context, st model.Settings) error {
	to, source, ok := ResolveRecipient(st, s.lookups)
	if !ok {
		metrics.Reminders.WithLabelValues("skipped").Inc()
		s.logger.Info("no reminder address, skipping", "user", st.UserID)
		return errNoRecipient
	}
	summary, err := s.weeks.Week(ctx, st.UserID, "")
	if err != nil {
		metrics.Reminders.WithLabelValues("failed").Inc()
		return fmt.Errorf("summarising week for %s: %w", st.UserID, err)
	}
	msg, err := Compose(to, summary, st)
	if err != nil {
		metrics.Reminders.WithLabelValues("failed").Inc()
		return err
	}
	if err := s.deliver(ctx, msg); err != nil {
		metrics.Reminders.WithLabelValues("failed").Inc()
		return err
	}
	metrics.Reminders.WithLabelValues("sent").Inc()
	s.logger.Info("reminder sent", "user", st.UserID, "to", to, "source", source, "week", summary.Label)
	return nil
}

func (s *Sender) deliver(ctx context.Context, msg Message) error {
	return retry.Do(
		func() error {
			return s.mailer.Send(ctx, msg)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.MaxDelay(time.Minute),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("reminder delivery failed, retrying", "to", msg.To, "attempt", n+1, "error", err)
		}),
	)
}

// SendAll sends reminders to every user who enabled them. Failures for one
// user do not stop the others.
func (s *Sender) SendAll(ctx context.Context) (Result, error) {
	users, err := s.weeks.ReminderRecipients(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("listing reminder recipients: %w", err)
	}
	var res Result
	for _, st := range users {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := s.SendUser(ctx, st)
		switch {
		case err == nil:
			res.Sent++
		case errors.Is(err, errNoRecipient):
			res.Skipped++
		default:
			res.Failed++
			s.logger.Error("reminder failed", "user", st.UserID, "error", err)
		}
	}
	s.logger.Info("reminder run finished", "sent", res.Sent, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}
