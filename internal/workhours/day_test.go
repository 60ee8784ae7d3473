package workhours_test

import (
	"testing"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/workhours"
)

func TestAggregateDay(t *testing.T) {
	tests := []struct {
		name string
		rec  model.DayRecord
		want workhours.DayTotal
	}{
		{
			name: "office with one hour break",
			rec:  officeDay(t, "2026-10-12", "9:00AM", "5:00PM", model.Break{Hours: 1}),
			want: workhours.DayTotal{Hours: 7, Minutes: 0},
		},
		{
			name: "home with half hour break",
			rec:  homeDay(t, "2026-10-12", "8:15AM", "4:45PM", model.Break{Minutes: 30}),
			want: workhours.DayTotal{Hours: 8, Minutes: 0},
		},
		{
			name: "hybrid split",
			rec:  hybridDay(t, "2026-10-12", [2]string{"9:00AM", "12:00PM"}, [2]string{"1:00PM", "5:00PM"}, model.Break{}),
			want: workhours.DayTotal{Hours: 7, Minutes: 0},
		},
		{
			name: "overnight shift",
			rec:  officeDay(t, "2026-10-12", "11:00PM", "2:00AM", model.Break{}),
			want: workhours.DayTotal{Hours: 3, Minutes: 0},
		},
		{
			name: "break longer than work",
			rec:  officeDay(t, "2026-10-12", "9:00AM", "9:30AM", model.Break{Hours: 1}),
			want: workhours.DayTotal{},
		},
		{
			name: "no span",
			rec:  model.DayRecord{Date: "2026-10-12", Location: model.Office, Break: model.Break{Hours: 1}},
			want: workhours.DayTotal{},
		},
	}
	for _, tt := range tests {
		got := workhours.AggregateDay(tt.rec)
		if got != tt.want {
			t.Errorf("%s: AggregateDay = %+v, want %+v", tt.name, got, tt.want)
		}
		if again := workhours.AggregateDay(tt.rec); again != got {
			t.Errorf("%s: AggregateDay not idempotent: %+v then %+v", tt.name, got, again)
		}
	}
}

func TestAggregateDayIncompleteSpan(t *testing.T) {
	rec := officeDay(t, "2026-10-12", "9:00AM", "5:00PM", model.Break{})
	rec.Span.End.Meridiem = ""
	if got := workhours.AggregateDay(rec); got != (workhours.DayTotal{}) {
		t.Errorf("AggregateDay with missing meridiem = %+v, want zero", got)
	}

	rec = hybridDay(t, "2026-10-12", [2]string{"9:00AM", "12:00PM"}, [2]string{"1:00PM", "5:00PM"}, model.Break{})
	rec.OfficeSpan.Start.Hour = nil
	if got := workhours.AggregateDay(rec); got != (workhours.DayTotal{Hours: 3}) {
		t.Errorf("AggregateDay with half hybrid = %+v, want 3h", got)
	}
}

func TestBreakdownHybrid(t *testing.T) {
	rec := hybridDay(t, "2026-10-14", [2]string{"9:00AM", "12:00PM"}, [2]string{"1:00PM", "5:00PM"}, model.Break{Minutes: 30})
	b := workhours.Breakdown(rec)
	if b.Total != 390 || b.Home != 180 || b.Office != 240 || b.Break != 30 {
		t.Errorf("Breakdown = %+v, want total 390 home 180 office 240 break 30", b)
	}
	if b.Estimated {
		t.Error("explicit spans must not be marked estimated")
	}
}

func TestBreakdownHybridFallback(t *testing.T) {
	rec := model.DayRecord{
		Date:     "2026-10-14",
		Location: model.Hybrid,
		Span:     mustSpan(t, "9:00AM", "4:01PM"),
	}
	b := workhours.Breakdown(rec)
	if b.Total != 421 || b.Home != 210 || b.Office != 211 || !b.Estimated {
		t.Errorf("Breakdown = %+v, want total 421 split 210/211 estimated", b)
	}
}
