package tracker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/timecalc"
	"github.com/sojournii/sojournii/internal/tracker"
)

// Sunday 2026-10-18 20:00 UTC is Monday 2026-10-19 07:00 in Sydney.
var fixedNow = time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC)

func newTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	s, err := storage.OpenBunt(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return tracker.New(s, nil,
		tracker.WithClock(func() time.Time { return fixedNow }),
		tracker.WithDefaults(tracker.Defaults{
			Timezone: "UTC",
			Contract: model.ContractBaseline{WeeklyHours: 37, WeeklyMinutes: 30},
		}),
	)
}

func span(t *testing.T, start, end string) *model.Span {
	t.Helper()
	s, err := timecalc.ParseTimeOfDay(start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := timecalc.ParseTimeOfDay(end)
	if err != nil {
		t.Fatal(err)
	}
	return &model.Span{Start: model.NewClock(s), End: model.NewClock(e)}
}

func ptr[T any](v T) *T { return &v }

func TestLogDayComputesTotal(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	rec, err := tr.LogDay(ctx, "alice", tracker.DayInput{
		Date:     "2026-10-13",
		Location: model.Office,
		Span:     span(t, "9:00AM", "5:00PM"),
		Break:    model.Break{Hours: 1},
	})
	if err != nil {
		t.Fatalf("LogDay: %v", err)
	}
	if rec.Hours != 7 || rec.Minutes != 0 {
		t.Errorf("total = %dh%dm, want 7h0m", rec.Hours, rec.Minutes)
	}

	// Logging the same date again replaces the record.
	rec2, err := tr.LogDay(ctx, "alice", tracker.DayInput{
		Date:     "2026-10-13",
		Location: model.Home,
		Span:     span(t, "9:00AM", "12:00PM"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec2.ID != rec.ID || rec2.Hours != 3 {
		t.Errorf("replacement = %+v", rec2)
	}
	days, err := tr.ListDays(ctx, "alice", "2026-10-12", "2026-10-18")
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 {
		t.Errorf("ListDays = %d records, want 1", len(days))
	}
}

func TestLogDayRejectsInvalidInput(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	bad := span(t, "9:00AM", "5:00PM")
	bad.Start.Hour = ptr(13)

	tests := []struct {
		name string
		user string
		in   tracker.DayInput
	}{
		{"no user", "", tracker.DayInput{Date: "2026-10-13", Location: model.Home}},
		{"bad date", "alice", tracker.DayInput{Date: "13.10.2026", Location: model.Home}},
		{"bad location", "alice", tracker.DayInput{Date: "2026-10-13", Location: "beach"}},
		{"break minutes", "alice", tracker.DayInput{Date: "2026-10-13", Location: model.Home, Break: model.Break{Minutes: 75}}},
		{"negative break", "alice", tracker.DayInput{Date: "2026-10-13", Location: model.Home, Break: model.Break{Hours: -1}}},
		{"hour out of range", "alice", tracker.DayInput{Date: "2026-10-13", Location: model.Home, Span: bad}},
	}
	for _, tt := range tests {
		if _, err := tr.LogDay(ctx, tt.user, tt.in); !errors.Is(err, tracker.ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tt.name, err)
		}
	}
}

func TestLogDayHybridNormalisation(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	rec, err := tr.LogDay(ctx, "alice", tracker.DayInput{
		Date:       "2026-10-14",
		Location:   model.Hybrid,
		Span:       span(t, "8:00AM", "6:00PM"),
		HomeSpan:   span(t, "9:00AM", "12:00PM"),
		OfficeSpan: span(t, "1:00PM", "5:00PM"),
		Break:      model.Break{Minutes: 30},
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Span != nil {
		t.Error("single span kept alongside explicit hybrid spans")
	}
	if rec.Hours != 6 || rec.Minutes != 30 {
		t.Errorf("hybrid total = %dh%dm, want 6h30m", rec.Hours, rec.Minutes)
	}

	legacy, err := tr.LogDay(ctx, "alice", tracker.DayInput{
		Date:     "2026-10-15",
		Location: model.Hybrid,
		Span:     span(t, "9:00AM", "5:00PM"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if legacy.Span == nil || legacy.Hours != 8 {
		t.Errorf("legacy hybrid = %+v", legacy)
	}
}

func TestDeleteDay(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	if _, err := tr.LogDay(ctx, "alice", tracker.DayInput{Date: "2026-10-13", Location: model.Home}); err != nil {
		t.Fatal(err)
	}
	if err := tr.DeleteDay(ctx, "alice", "2026-10-13"); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.GetDay(ctx, "alice", "2026-10-13"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetDay after delete err = %v", err)
	}
}

func TestWeekUsesUserTimezone(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	for _, d := range []string{"2026-10-16", "2026-10-19"} {
		if _, err := tr.LogDay(ctx, "alice", tracker.DayInput{
			Date: d, Location: model.Office, Span: span(t, "9:00AM", "5:00PM"),
		}); err != nil {
			t.Fatal(err)
		}
	}

	// Default timezone UTC: still Sunday, the week of 10-12.
	w, err := tr.Week(ctx, "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if w.Window.StartDate != "2026-10-12" || w.Totals.TotalMinutes != 480 {
		t.Errorf("UTC week = %s total %d", w.Window.StartDate, w.Totals.TotalMinutes)
	}

	if _, err := tr.UpdateSettings(ctx, "alice", tracker.SettingsInput{Timezone: ptr("Australia/Sydney")}); err != nil {
		t.Fatal(err)
	}
	w, err = tr.Week(ctx, "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if w.Window.StartDate != "2026-10-19" || w.Label != "2026-W43" {
		t.Errorf("Sydney week = %s (%s), want 2026-10-19 (2026-W43)", w.Window.StartDate, w.Label)
	}
	if w.Totals.TotalMinutes != 480 || w.Comparison.DeltaMinutes != 480-2250 {
		t.Errorf("Sydney totals = %+v, comparison %+v", w.Totals, w.Comparison)
	}

	w, err = tr.Week(ctx, "alice", "2026-10-14")
	if err != nil {
		t.Fatal(err)
	}
	if w.Window.StartDate != "2026-10-12" || len(w.Days) != 7 {
		t.Errorf("Week(2026-10-14) = %s with %d days", w.Window.StartDate, len(w.Days))
	}
	if _, err := tr.Week(ctx, "alice", "yesterday"); !errors.Is(err, tracker.ErrInvalidInput) {
		t.Errorf("Week(yesterday) err = %v", err)
	}
}

func TestRetroSharesWeekKey(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()
	if _, err := tr.UpdateSettings(ctx, "alice", tracker.SettingsInput{Timezone: ptr("Australia/Sydney")}); err != nil {
		t.Fatal(err)
	}

	saved, err := tr.SaveRetro(ctx, "alice", "", tracker.RetroInput{
		WentWell:    "focus time",
		ActionItems: []string{"book rooms", ""},
	})
	if err != nil {
		t.Fatal(err)
	}
	week, err := tr.Week(ctx, "alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if saved.WeekStart != week.Window.StartDate || saved.WeekEnd != week.Window.EndDate {
		t.Errorf("retro week %s..%s, summary week %s..%s",
			saved.WeekStart, saved.WeekEnd, week.Window.StartDate, week.Window.EndDate)
	}
	if len(saved.ActionItems) != 1 {
		t.Errorf("ActionItems = %v, want empty items dropped", saved.ActionItems)
	}

	got, err := tr.Retro(ctx, "alice", "2026-10-22")
	if err != nil {
		t.Fatal(err)
	}
	if got.WentWell != "focus time" {
		t.Errorf("Retro(2026-10-22) = %+v", got)
	}

	empty, err := tr.Retro(ctx, "alice", "2026-10-01")
	if err != nil {
		t.Fatal(err)
	}
	if empty.WeekStart != "2026-09-28" || empty.WentWell != "" {
		t.Errorf("Retro of an empty week = %+v", empty)
	}
}

func TestUpdateSettings(t *testing.T) {
	tr := newTracker(t)
	ctx := context.Background()

	st, err := tr.Settings(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if st.Timezone != "UTC" || st.Contract.Minutes() != 2250 {
		t.Errorf("default settings = %+v", st)
	}

	bad := []tracker.SettingsInput{
		{Timezone: ptr("Mars/Olympus_Mons")},
		{Contract: &model.ContractBaseline{WeeklyHours: 37, WeeklyMinutes: 90}},
		{ClerkEmail: ptr("not an address")},
		{NotificationsEmail: ptr("@")},
	}
	for _, in := range bad {
		if _, err := tr.UpdateSettings(ctx, "bob", in); !errors.Is(err, tracker.ErrInvalidInput) {
			t.Errorf("UpdateSettings(%+v) err = %v, want ErrInvalidInput", in, err)
		}
	}

	st, err = tr.UpdateSettings(ctx, "bob", tracker.SettingsInput{
		ClerkEmail:       ptr("bob@example.com"),
		RemindersEnabled: ptr(true),
	})
	if err != nil {
		t.Fatal(err)
	}
	if st.ClerkEmail != "bob@example.com" || !st.RemindersEnabled || st.Timezone != "UTC" {
		t.Errorf("updated settings = %+v", st)
	}
	if _, err := tr.UpdateSettings(ctx, "carol", tracker.SettingsInput{}); err != nil {
		t.Fatal(err)
	}

	recipients, err := tr.ReminderRecipients(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(recipients) != 1 || recipients[0].UserID != "bob" {
		t.Errorf("ReminderRecipients = %+v", recipients)
	}
}
