package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/sojournii/sojournii/internal/api"
	"github.com/sojournii/sojournii/internal/model"
	"github.com/sojournii/sojournii/internal/storage"
	"github.com/sojournii/sojournii/internal/tracker"
	"github.com/sojournii/sojournii/internal/workhours"
)

const secret = "test-secret"

func newServer(t *testing.T) *api.Server {
	t.Helper()
	st, err := storage.OpenBunt(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	tr := tracker.New(st, nil,
		tracker.WithClock(func() time.Time { return now }),
		tracker.WithDefaults(tracker.Defaults{
			Timezone: "UTC",
			Contract: model.ContractBaseline{WeeklyHours: 37, WeeklyMinutes: 30},
		}),
	)
	s, err := api.New(tr, api.Config{JWTSecret: secret}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func token(t *testing.T, key, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(key))
	if err != nil {
		t.Fatal(err)
	}
	return signed
}

func do(t *testing.T, s *api.Server, method, path, bearer, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := api.New(nil, api.Config{}, nil); err == nil {
		t.Error("expected error without a JWT secret")
	}
}

func TestHealthzIsPublic(t *testing.T) {
	s := newServer(t)
	if code, _ := do(t, s, http.MethodGet, "/healthz", "", ""); code != http.StatusOK {
		t.Errorf("GET /healthz = %d, want 200", code)
	}
}

func TestAPIRejectsBadTokens(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		name   string
		bearer string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong key", token(t, "other-secret", "alice")},
		{"no subject", token(t, secret, "")},
	}
	for _, tt := range tests {
		code, body := do(t, s, http.MethodGet, "/api/week", tt.bearer, "")
		if code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401 (%s)", tt.name, code, body)
		}
	}
}

func TestDayLifecycle(t *testing.T) {
	s := newServer(t)
	bearer := token(t, secret, "alice")

	body := `{"location":"office","span":{"start":{"hour":9,"minute":0,"meridiem":"AM"},"end":{"hour":5,"minute":0,"meridiem":"PM"}},"break":{"hours":1,"minutes":0}}`
	code, data := do(t, s, http.MethodPut, "/api/days/2026-10-13", bearer, body)
	if code != http.StatusOK {
		t.Fatalf("PUT day = %d: %s", code, data)
	}
	var rec model.DayRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatal(err)
	}
	if rec.Date != "2026-10-13" || rec.UserID != "alice" || rec.Hours != 7 {
		t.Errorf("PUT day returned %+v", rec)
	}

	code, data = do(t, s, http.MethodGet, "/api/week?date=2026-10-15", bearer, "")
	if code != http.StatusOK {
		t.Fatalf("GET week = %d: %s", code, data)
	}
	var week workhours.WeekSummary
	if err := json.Unmarshal(data, &week); err != nil {
		t.Fatal(err)
	}
	if week.Window.StartDate != "2026-10-12" || week.Totals.TotalMinutes != 420 {
		t.Errorf("week = %s total %d", week.Window.StartDate, week.Totals.TotalMinutes)
	}
	if week.Comparison.DeltaMinutes != 420-2250 {
		t.Errorf("delta = %d", week.Comparison.DeltaMinutes)
	}

	// Another user sees nothing.
	code, _ = do(t, s, http.MethodGet, "/api/days/2026-10-13", token(t, secret, "bob"), "")
	if code != http.StatusNotFound {
		t.Errorf("GET other user's day = %d, want 404", code)
	}

	code, data = do(t, s, http.MethodGet, "/api/days", bearer, "")
	if code != http.StatusOK || !strings.Contains(string(data), `"2026-10-13"`) {
		t.Errorf("GET days = %d: %s", code, data)
	}

	if code, _ = do(t, s, http.MethodDelete, "/api/days/2026-10-13", bearer, ""); code != http.StatusNoContent {
		t.Errorf("DELETE day = %d, want 204", code)
	}
	if code, _ = do(t, s, http.MethodDelete, "/api/days/2026-10-13", bearer, ""); code != http.StatusNotFound {
		t.Errorf("second DELETE day = %d, want 404", code)
	}
}

func TestValidationErrors(t *testing.T) {
	s := newServer(t)
	bearer := token(t, secret, "alice")

	tests := []struct {
		method, path, body string
	}{
		{http.MethodPut, "/api/days/2026-10-13", `{"location":"moon"}`},
		{http.MethodPut, "/api/days/not-a-date", `{"location":"home"}`},
		{http.MethodPut, "/api/days/2026-10-13", `{"location":`},
		{http.MethodGet, "/api/week?date=tomorrow", ""},
		{http.MethodGet, "/api/days?from=2026-10-18&to=2026-10-12", ""},
		{http.MethodPut, "/api/settings", `{"timezone":"Nowhere/City"}`},
	}
	for _, tt := range tests {
		code, data := do(t, s, tt.method, tt.path, bearer, tt.body)
		if code != http.StatusBadRequest {
			t.Errorf("%s %s = %d, want 400 (%s)", tt.method, tt.path, code, data)
		}
		if !strings.Contains(string(data), `"error"`) {
			t.Errorf("%s %s: body %s has no error field", tt.method, tt.path, data)
		}
	}
}

func TestSettingsAndRetro(t *testing.T) {
	s := newServer(t)
	bearer := token(t, secret, "alice")

	code, data := do(t, s, http.MethodPut, "/api/settings", bearer,
		`{"timezone":"Australia/Sydney","contract":{"weekly_hours":40,"weekly_minutes":0},"reminders_enabled":true}`)
	if code != http.StatusOK {
		t.Fatalf("PUT settings = %d: %s", code, data)
	}
	code, data = do(t, s, http.MethodGet, "/api/settings", bearer, "")
	var st model.Settings
	if err := json.Unmarshal(data, &st); err != nil || code != http.StatusOK {
		t.Fatalf("GET settings = %d: %s", code, data)
	}
	if st.Timezone != "Australia/Sydney" || st.Contract.Minutes() != 2400 || !st.RemindersEnabled {
		t.Errorf("settings = %+v", st)
	}

	code, data = do(t, s, http.MethodPut, "/api/retro?date=2026-10-14", bearer,
		`{"went_well":"pairing","to_improve":"estimates","action_items":["timebox"]}`)
	if code != http.StatusOK {
		t.Fatalf("PUT retro = %d: %s", code, data)
	}
	code, data = do(t, s, http.MethodGet, "/api/retro?date=2026-10-18", bearer, "")
	var r model.Retrospective
	if err := json.Unmarshal(data, &r); err != nil || code != http.StatusOK {
		t.Fatalf("GET retro = %d: %s", code, data)
	}
	if r.WeekStart != "2026-10-12" || r.WentWell != "pairing" || len(r.ActionItems) != 1 {
		t.Errorf("retro = %+v", r)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newServer(t)
	body := `{"location":"home","span":{"start":{"hour":9,"minute":0,"meridiem":"AM"},"end":{"hour":1,"minute":0,"meridiem":"PM"}}}`
	if code, data := do(t, s, http.MethodPut, "/api/days/2026-10-14", token(t, secret, "alice"), body); code != http.StatusOK {
		t.Fatalf("PUT day = %d: %s", code, data)
	}
	code, data := do(t, s, http.MethodGet, "/metrics", "", "")
	if code != http.StatusOK || !strings.Contains(string(data), `sojournii_day_upserts_total{location="home"}`) {
		t.Errorf("GET /metrics = %d: %s", code, data)
	}
}
