package tracker

import (
	"context"

	"github.com/sojournii/sojournii/internal/metrics"
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/workhours"
)

// DayInput is a day as entered by the user.
type DayInput struct {
	Date       string         `json:"date"`
	Location   model.Location `json:"location"`
	Span       *model.Span    `json:"span,omitempty"`
	HomeSpan   *model.Span    `json:"home_span,omitempty"`
	OfficeSpan *model.Span    `json:"office_span,omitempty"`
	Break      model.Break    `json:"break"`
	Notes      *string        `json:"notes,omitempty"`
}

func validateSpan(name string, s *model.Span) error {
	if s == nil {
		return nil
	}
	for _, c := range []model.Clock{s.Start, s.End} {
		if tod := c.TimeOfDay(); tod != nil {
			if err := tod.Validate(); err != nil {
				return invalid("%s: %v", name, err)
			}
		}
	}
	return nil
}

// normalize validates in and returns the record to store.
func normalize(userID string, in DayInput) (model.DayRecord, error) {
	if err := checkUser(userID); err != nil {
		return model.DayRecord{}, err
	}
	if err := checkDate(in.Date); err != nil {
		return model.DayRecord{}, err
	}
	loc, err := model.ParseLocation(string(in.Location))
	if err != nil {
		return model.DayRecord{}, invalid("%v", err)
	}
	if in.Break.Hours < 0 || in.Break.Minutes < 0 || in.Break.Minutes > 59 {
		return model.DayRecord{}, invalid("break %dh%dm out of range", in.Break.Hours, in.Break.Minutes)
	}
	for name, s := range map[string]*model.Span{"span": in.Span, "home span": in.HomeSpan, "office span": in.OfficeSpan} {
		if err := validateSpan(name, s); err != nil {
			return model.DayRecord{}, err
		}
	}

	rec := model.DayRecord{
		UserID:   userID,
		Date:     in.Date,
		Location: loc,
		Break:    in.Break,
		Notes:    in.Notes,
	}
	if loc == model.Hybrid {
		rec.HomeSpan, rec.OfficeSpan = in.HomeSpan, in.OfficeSpan
		if !rec.HasHybridSpans() {
			// Older clients send hybrid days with a single span.
			rec.Span = in.Span
		}
	} else {
		rec.Span = in.Span
	}

	total := workhours.AggregateDay(rec)
	rec.Hours, rec.Minutes = total.Hours, total.Minutes
	return rec, nil
}

// LogDay validates and stores a day, replacing any record for the same date.
func (t *Tracker) LogDay(ctx context.Context, userID string, in DayInput) (model.DayRecord, error) {
	rec, err := normalize(userID, in)
	if err != nil {
		return model.DayRecord{}, err
	}
	rec.UpdatedAt = t.now()
	saved, err := t.store.UpsertDay(ctx, rec)
	if err != nil {
		return model.DayRecord{}, err
	}
	metrics.DayUpserts.WithLabelValues(string(saved.Location)).Inc()
	t.logger.Debug("day logged", "user", userID, "date", saved.Date,
		"location", saved.Location, "hours", saved.Hours, "minutes", saved.Minutes)
	return saved, nil
}

// GetDay returns the record for date.
func (t *Tracker) GetDay(ctx context.Context, userID, date string) (model.DayRecord, error) {
	if err := checkUser(userID); err != nil {
		return model.DayRecord{}, err
	}
	if err := checkDate(date); err != nil {
		return model.DayRecord{}, err
	}
	return t.store.GetDay(ctx, userID, date)
}

// DeleteDay removes the record for date.
func (t *Tracker) DeleteDay(ctx context.Context, userID, date string) error {
	if err := checkUser(userID); err != nil {
		return err
	}
	if err := checkDate(date); err != nil {
		return err
	}
	if err := t.store.DeleteDay(ctx, userID, date); err != nil {
		return err
	}
	t.logger.Debug("day cleared", "user", userID, "date", date)
	return nil
}

// ListDays returns the records with from <= date <= to.
func (t *Tracker) ListDays(ctx context.Context, userID, from, to string) ([]model.DayRecord, error) {
	if err := checkUser(userID); err != nil {
		return nil, err
	}
	if err := checkDate(from); err != nil {
		return nil, err
	}
	if err := checkDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, invalid("from %s is after to %s", from, to)
	}
	return t.store.ListDays(ctx, userID, from, to)
}
