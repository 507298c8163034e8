package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap/zaptest"

	"github.com/bobby-s-dev/nws-forecast/internal/forecast"
	"github.com/bobby-s-dev/nws-forecast/internal/geo"
	"github.com/bobby-s-dev/nws-forecast/internal/models"
)

var testCoords = geo.Coordinates{Latitude: 38.8977, Longitude: -77.0365}

func newTestController(t *testing.T, c *fakeClient) *Controller {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewController(c, NewForecastStore(logger), nil, logger)
}

func TestControllerFetchStoresSnapshot(t *testing.T) {
	c := newTestController(t, &fakeClient{body: []byte(forecastBody)})

	snapshot, err := c.Fetch(context.Background(), testCoords)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(snapshot.Model) != 2 {
		t.Fatalf("model has %d records; want 2", len(snapshot.Model))
	}
	if snapshot.Model[0].Name != "Monday" || snapshot.Model[1].EndTime != "2024-02-20T06:00:00+00:00" {
		t.Errorf("unexpected model: %+v", snapshot.Model)
	}
	if snapshot.URL != "https://api.weather.gov/points/38.8977,-77.0365/forecast/hourly" {
		t.Errorf("URL = %q", snapshot.URL)
	}
	if snapshot.FetchID == "" {
		t.Error("FetchID is empty")
	}

	stored, ok := c.Store().Current()
	if !ok || stored.FetchID != snapshot.FetchID {
		t.Errorf("store holds %+v, %v", stored, ok)
	}
	if string(stored.Raw) != forecastBody {
		t.Error("stored raw body differs from response")
	}
}

func TestControllerFailuresKeepPreviousSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		wantErr error
	}{
		{"server error", &fakeClient{err: serverError(http.StatusInternalServerError)}, forecast.ErrServerUnavailable},
		{"client error", &fakeClient{err: serverError(http.StatusNotFound)}, forecast.ErrTransport},
		{"circuit open", &fakeClient{err: gobreaker.ErrOpenState}, forecast.ErrTransport},
		{"missing properties", &fakeClient{body: []byte(`{"type":"Feature"}`)}, forecast.ErrNotFound},
		{"invalid json", &fakeClient{body: []byte(`<html>`)}, forecast.ErrShape},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestController(t, tc.client)
			previous := models.Snapshot{FetchID: "previous", Model: models.Model{{Name: "Sunday"}}, Raw: []byte(`{}`)}
			c.Store().Replace(previous)

			_, err := c.Fetch(context.Background(), testCoords)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v; want %v", err, tc.wantErr)
			}

			stored, _ := c.Store().Current()
			if stored.FetchID != "previous" || len(stored.Model) != 1 {
				t.Errorf("store changed to %+v", stored)
			}
			if tc.client.calls != 1 {
				t.Errorf("client called %d times; want 1", tc.client.calls)
			}

			stats := c.GetStats()
			if stats["failure_count"] != 1 || stats["success_count"] != 0 {
				t.Errorf("stats = %v", stats)
			}
		})
	}
}

func TestServerErrorIsNotShapeError(t *testing.T) {
	c := newTestController(t, &fakeClient{err: serverError(http.StatusServiceUnavailable)})

	_, err := c.Fetch(context.Background(), testCoords)
	if errors.Is(err, forecast.ErrShape) {
		t.Errorf("server failure reported as shape error: %v", err)
	}
}

func TestControllerEmptyPeriods(t *testing.T) {
	c := newTestController(t, &fakeClient{body: []byte(`{"properties":{"periods":[]}}`)})

	snapshot, err := c.Fetch(context.Background(), testCoords)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snapshot.Model) != 0 {
		t.Errorf("model = %+v; want empty", snapshot.Model)
	}
	if _, ok := c.Store().Current(); !ok {
		t.Error("empty forecast was not stored")
	}
}

func TestControllerRateLimitCanceled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	fc := &fakeClient{body: []byte(forecastBody)}
	limiter := NewLimiter(0.001, 1)
	c := NewController(fc, NewForecastStore(logger), limiter, logger)

	if _, err := c.Fetch(context.Background(), testCoords); err != nil {
		t.Fatalf("first fetch error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, testCoords)
	if !errors.Is(err, forecast.ErrTransport) {
		t.Fatalf("error = %v; want ErrTransport", err)
	}
	if fc.calls != 1 {
		t.Errorf("client called %d times; want 1", fc.calls)
	}
}

func TestNewLimiter(t *testing.T) {
	if NewLimiter(0, 5) != nil {
		t.Error("NewLimiter(0) should disable limiting")
	}
	if l := NewLimiter(2, 0); l == nil || l.Burst() != 1 {
		t.Errorf("NewLimiter(2, 0) = %v; want burst 1", l)
	}
}

func TestControllerStoresForecastWithUnreadableTimes(t *testing.T) {
	body := `{"properties":{"periods":[
		{"name":"Monday","startTime":"not-a-time","temperature":40},
		{"name":"Monday Night","startTime":"2024-02-19T18:00:00+00:00","temperature":25}
	]}}`
	c := newTestController(t, &fakeClient{body: []byte(body)})

	snapshot, err := c.Fetch(context.Background(), testCoords)
	if !errors.Is(err, forecast.ErrParse) {
		t.Fatalf("error = %v; want ErrParse", err)
	}
	if len(snapshot.Model) != 2 {
		t.Fatalf("model has %d records; want 2", len(snapshot.Model))
	}
	if snapshot.Model[0].DayKnown() || !snapshot.Model[1].DayKnown() {
		t.Errorf("unexpected day buckets: %+v", snapshot.Model)
	}

	stored, ok := c.Store().Current()
	if !ok || stored.FetchID != snapshot.FetchID {
		t.Errorf("store holds %+v, %v", stored, ok)
	}
	if stats := c.GetStats(); stats["success_count"] != 1 || stats["failure_count"] != 0 {
		t.Errorf("stats = %v", stats)
	}
}

type breakerClient struct {
	fakeClient
}

func (b *breakerClient) State() string {
	return gobreaker.StateClosed.String()
}

func TestGetStatsReportsBreaker(t *testing.T) {
	logger := zaptest.NewLogger(t)

	plain := NewController(&fakeClient{}, NewForecastStore(logger), nil, logger)
	if _, ok := plain.GetStats()["circuit_breaker"]; ok {
		t.Error("breaker state reported for a client without a breaker")
	}

	guarded := NewController(&breakerClient{}, NewForecastStore(logger), nil, logger)
	if got := guarded.GetStats()["circuit_breaker"]; got != "closed" {
		t.Errorf("circuit_breaker = %v; want closed", got)
	}
}
