// Package storage persists day records, settings and retrospectives.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is a document store keyed by user. UpsertDay keeps at most one
// record per (user, date).
type Store interface {
	UpsertDay(ctx context.Context, rec model.DayRecord) (model.DayRecord, error)
	GetDay(ctx context.Context, userID, date string) (model.DayRecord, error)
	// ListDays returns the records with from <= date <= to, ordered by date.
	ListDays(ctx context.Context, userID, from, to string) ([]model.DayRecord, error)
	DeleteDay(ctx context.Context, userID, date string) error

	GetSettings(ctx context.Context, userID string) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) error
	ListSettings(ctx context.Context) ([]model.Settings, error)

	UpsertRetro(ctx context.Context, r model.Retrospective) (model.Retrospective, error)
	GetRetro(ctx context.Context, userID, weekStart string) (model.Retrospective, error)

	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendBunt     = "bunt"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string
	DatabaseURL string
}

// Open returns the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendBunt:
		return OpenBunt(opts.Dir + "/sojournii.db")
	case BackendPostgres:
		return OpenPostgres(ctx, opts.DatabaseURL)
	case BackendRedis:
		return OpenRedis(ctx, opts.DatabaseURL)
	}
	return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
}

// mergeDay carries identity and creation time over from an existing record.
func mergeDay(existing *model.DayRecord, rec model.DayRecord) model.DayRecord {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		return rec
	}
	if rec.ID == "" {
		rec.ID = timecalc.GenerateID(rec.UpdatedAt)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}
	return rec
}

func mergeRetro(existing *model.Retrospective, r model.Retrospective) model.Retrospective {
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	if existing != nil {
		r.CreatedAt = existing.CreatedAt
	} else if r.CreatedAt.IsZero() {
		r.CreatedAt = r.UpdatedAt
	}
	return r
}

// ValidateKey rejects user IDs and dates that cannot be used as key or path
// components.
func ValidateKey(parts ...string) error {
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `/\:*?`) {
			return fmt.Errorf("invalid key component %q", p)
		}
	}
	return nil
}
