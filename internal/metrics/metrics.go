// Package metrics exposes the Prometheus collectors shared by the API server
// and the reminder daemon.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// DayUpserts counts saved day records by location.
	DayUpserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sojournii",
			Name:      "day_upserts_total",
			Help:      "Day records created or replaced, by location",
		},
		[]string{"location"},
	)

	// Reminders counts reminder deliveries by result: sent, failed, skipped.
	Reminders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sojournii",
			Name:      "reminders_total",
			Help:      "Weekly reminder deliveries, by result",
		},
		[]string{"result"},
	)

	// WeekDelta records each summarised week's delta against the contract,
	// in minutes. Users are not a label so the series count stays fixed.
	WeekDelta = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sojournii",
			Name:      "week_delta_minutes",
			Help:      "Logged minus contracted minutes of summarised weeks",
			Buckets:   []float64{-1200, -600, -240, -60, 0, 60, 240, 600, 1200},
		},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(DayUpserts, Reminders, WeekDelta)
	})
}

// Handler registers the collectors and returns the /metrics handler.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
