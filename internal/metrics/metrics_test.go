package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sojournii/sojournii/internal/metrics"
)

func TestHandlerExposesCollectors(t *testing.T) {
	metrics.Register()
	metrics.Register()

	metrics.Reminders.WithLabelValues("sent").Inc()
	metrics.DayUpserts.WithLabelValues("office").Inc()
	metrics.WeekDelta.Observe(150)

	srv := httptest.NewServer(metrics.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`sojournii_reminders_total{result="sent"}`,
		`sojournii_day_upserts_total{location="office"}`,
		`sojournii_week_delta_minutes_bucket{le="240"}`,
		`sojournii_week_delta_minutes_sum`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(string(body), `user="`) {
		t.Error("week delta must not be labelled per user")
	}
}
