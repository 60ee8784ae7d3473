// Package tracker is the application layer shared by the CLI, the HTTP API
// and the reminder job. It validates input, computes day totals and resolves
// weeks in the user's timezone before touching storage.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// ErrInvalidInput wraps every validation failure.
var ErrInvalidInput = errors.New("invalid input")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Defaults seed the settings of users that have never saved any.
type Defaults struct {
	Timezone string
	Contract model.ContractBaseline
}

// Tracker serves one store.
type Tracker struct {
	store    storage.Store
	logger   *slog.Logger
	defaults Defaults
	now      func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithDefaults sets the settings used for users without saved settings.
func WithDefaults(d Defaults) Option {
	return func(t *Tracker) { t.defaults = d }
}

// New returns a Tracker over store. A nil logger uses slog.Default.
func New(store storage.Store, logger *slog.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tracker{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the underlying store.
func (t *Tracker) Store() storage.Store { return t.store }

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time { return t.now() }

func checkUser(userID string) error {
	if userID == "" {
		return invalid("user id is required")
	}
	if err := storage.ValidateKey(userID); err != nil {
		return invalid("user id: %v", err)
	}
	return nil
}

func checkDate(date string) error {
	if _, err := time.Parse(timecalc.DateLayout, date); err != nil {
		return invalid("date %q must be YYYY-MM-DD", date)
	}
	return nil
}
