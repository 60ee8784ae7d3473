package workhours_test

import (
	"testing"

	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/timecalc"
)

func mustSpan(t *testing.T, start, end string) *model.Span {
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

func officeDay(t *testing.T, date, start, end string, brk model.Break) model.DayRecord {
	t.Helper()
	return model.DayRecord{Date: date, Location: model.Office, Span: mustSpan(t, start, end), Break: brk}
}

func homeDay(t *testing.T, date, start, end string, brk model.Break) model.DayRecord {
	t.Helper()
	return model.DayRecord{Date: date, Location: model.Home, Span: mustSpan(t, start, end), Break: brk}
}

func hybridDay(t *testing.T, date string, home, office [2]string, brk model.Break) model.DayRecord {
	t.Helper()
	return model.DayRecord{
		Date:       date,
		Location:   model.Hybrid,
		HomeSpan:   mustSpan(t, home[0], home[1]),
		OfficeSpan: mustSpan(t, office[0], office[1]),
		Break:      brk,
	}
}
