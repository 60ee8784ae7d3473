package tracker

import (
	"context"
	"errors"

	"github.com/sojournii/sojournii/internal/metrics"
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/workhours"
)

// window resolves the week of date in the user's timezone. An empty date
// means the current week.
func (t *Tracker) window(st model.Settings, date string) (timecalc.WeekWindow, error) {
	if date == "" {
		return timecalc.ComputeWeek(t.now(), st.Timezone, t.logger), nil
	}
	w, err := timecalc.WeekOfDate(date, st.Timezone)
	if err != nil {
		return timecalc.WeekWindow{}, invalid("date %q must be YYYY-MM-DD", date)
	}
	return w, nil
}

// Today returns the current calendar date in the user's timezone.
func (t *Tracker) Today(ctx context.Context, userID string) (string, error) {
	st, err := t.Settings(ctx, userID)
	if err != nil {
		return "", err
	}
	return timecalc.Today(t.now(), st.Timezone, t.logger), nil
}

// Week summarises the week containing date ("" for the current week) against
// the user's contract.
func (t *Tracker) Week(ctx context.Context, userID, date string) (workhours.WeekSummary, error) {
	st, err := t.Settings(ctx, userID)
	if err != nil {
		return workhours.WeekSummary{}, err
	}
	w, err := t.window(st, date)
	if err != nil {
		return workhours.WeekSummary{}, err
	}
	return t.summarize(ctx, st, w)
}

func (t *Tracker) summarize(ctx context.Context, st model.Settings, w timecalc.WeekWindow) (workhours.WeekSummary, error) {
	days, err := t.store.ListDays(ctx, st.UserID, w.StartDate, w.EndDate)
	if err != nil {
		return workhours.WeekSummary{}, err
	}
	summary := workhours.Summarize(days, w, st.Contract)
	metrics.WeekDelta.Observe(float64(summary.Comparison.DeltaMinutes))
	return summary, nil
}

// RetroInput is the user's reflection on a week.
type RetroInput struct {
	WentWell    string   `json:"went_well"`
	ToImprove   string   `json:"to_improve"`
	ActionItems []string `json:"action_items"`
}

// SaveRetro stores the retrospective of the week containing date ("" for the
// current week). The week is resolved exactly as Week resolves it.
func (t *Tracker) SaveRetro(ctx context.Context, userID, date string, in RetroInput) (model.Retrospective, error) {
	st, err := t.Settings(ctx, userID)
	if err != nil {
		return model.Retrospective{}, err
	}
	w, err := t.window(st, date)
	if err != nil {
		return model.Retrospective{}, err
	}
	items := make([]string, 0, len(in.ActionItems))
	for _, item := range in.ActionItems {
		if item != "" {
			items = append(items, item)
		}
	}
	return t.store.UpsertRetro(ctx, model.Retrospective{
		UserID:      userID,
		WeekStart:   w.StartDate,
		WeekEnd:     w.EndDate,
		WentWell:    in.WentWell,
		ToImprove:   in.ToImprove,
		ActionItems: items,
		UpdatedAt:   t.now(),
	})
}

// Retro returns the retrospective of the week containing date. A week
// without one yields an empty retrospective for that week.
func (t *Tracker) Retro(ctx context.Context, userID, date string) (model.Retrospective, error) {
	st, err := t.Settings(ctx, userID)
	if err != nil {
		return model.Retrospective{}, err
	}
	w, err := t.window(st, date)
	if err != nil {
		return model.Retrospective{}, err
	}
	r, err := t.store.GetRetro(ctx, userID, w.StartDate)
	if errors.Is(err, storage.ErrNotFound) {
		return model.Retrospective{UserID: userID, WeekStart: w.StartDate, WeekEnd: w.EndDate, ActionItems: []string{}}, nil
	}
	return r, err
}
