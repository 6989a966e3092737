package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"

	"github.com/bethellan/MaranuiCam/internal/forecast"
	"github.com/bethellan/MaranuiCam/internal/store"
)

func newTestApp(at time.Time) (*fiber.App, *store.MemoryStore, *forecast.Service, *clockwork.FakeClock) {
	app := fiber.New()
	clock := clockwork.NewFakeClockAt(at)

	svc := forecast.NewService(forecast.ProviderSet{}, forecast.Options{
		Latitude:  -41.327,
		Longitude: 174.794,
		Location:  time.UTC,
		Clock:     clock,
	})
	st := store.NewMemoryStore(24*time.Hour, clock)
	RegisterRoutes(app, svc, st, DayWindow{MaxPastDays: 7, MaxFutureDays: 7})
	return app, st, svc, clock
}

var testNoon = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// TestForecastOffsetValidation verifies that the forecast endpoint
// enforces the signed ±7 day window for the `offset` query parameter.
func TestForecastOffsetValidation(t *testing.T) {
	app, _, _, _ := newTestApp(testNoon)

	for _, offset := range []string{"8", "-8", "abc", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?offset="+offset, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("offset %q: expected status %d, got %d", offset, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

// TestForecastAssemblesOnMiss verifies that a cold store triggers an
// on-demand assembly and the result is published for later requests.
func TestForecastAssemblesOnMiss(t *testing.T) {
	app, st, svc, _ := newTestApp(testNoon)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast?offset=2", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		Offline     bool      `json:"offline"`
		Temperature []float64 `json:"temperature"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Offline {
		t.Fatal("expected offline dataset with no providers configured")
	}
	if len(body.Temperature) != forecast.HoursPerDay {
		t.Fatalf("expected %d hourly samples, got %d", forecast.HoursPerDay, len(body.Temperature))
	}

	if _, err := st.Latest(svc.RequestFor(2).Day); err != nil {
		t.Fatalf("expected dataset to be published after the miss: %v", err)
	}
}

// TestForecastServesStoredDataset verifies that a held dataset is
// returned as-is without triggering a fresh assembly.
func TestForecastServesStoredDataset(t *testing.T) {
	app, st, svc, _ := newTestApp(testNoon)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecast", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	first, err := st.Latest(svc.RequestFor(0).Day)
	if err != nil {
		t.Fatalf("expected published dataset: %v", err)
	}

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecast?offset=0", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.ID != first.ID.String() {
		t.Fatalf("expected stored dataset %s, got %s", first.ID, body.ID)
	}
}

// TestForecastOffsetTracksMidnightRollover verifies that an offset is
// re-resolved to a calendar day on every request: a dataset stored
// shortly before local midnight must not answer for the day the same
// offset means after midnight.
func TestForecastOffsetTracksMidnightRollover(t *testing.T) {
	app, _, _, clock := newTestApp(time.Date(2026, time.March, 15, 23, 50, 0, 0, time.UTC))

	fetchDay := func() time.Time {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/forecast?offset=1", nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
		}
		var body struct {
			Day time.Time `json:"day"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return body.Day
	}

	before := fetchDay()
	if want := time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC); !before.Equal(want) {
		t.Fatalf("expected dataset for %s, got %s", want, before)
	}

	clock.Advance(20 * time.Minute)

	after := fetchDay()
	if want := time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC); !after.Equal(want) {
		t.Fatalf("expected dataset for %s after rollover, got %s", want, after)
	}
}
