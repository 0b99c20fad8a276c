package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func newTestRouteService(t *testing.T, body string) *RouteService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/maps/api/directions/json", r.URL.Path)
		assert.Equal(t, "Pune", r.URL.Query().Get("origin"))
		assert.Equal(t, "Goa", r.URL.Query().Get("destination"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	svc, err := NewRouteService("AIza-test", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return svc
}

func TestGetTravelEstimate(t *testing.T) {
	svc := newTestRouteService(t, `{
		"status": "OK",
		"routes": [{"legs": [{
			"distance": {"text": "452 km", "value": 452000},
			"duration": {"text": "8 hours 55 mins", "value": 32100}
		}]}]
	}`)

	est, err := svc.GetTravelEstimate(context.Background(), "Pune", "Goa")
	require.NoError(t, err)
	assert.Equal(t, "452 km", est.Distance)
	assert.Equal(t, "8 h 55 min", est.Duration)
	assert.Equal(t, 535, est.DurationMinutes)
}

func TestGetTravelEstimateNoRoute(t *testing.T) {
	svc := newTestRouteService(t, `{"status": "ZERO_RESULTS", "routes": []}`)

	_, err := svc.GetTravelEstimate(context.Background(), "Pune", "Goa")
	require.Error(t, err)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{45 * time.Minute, "45 min"},
		{2 * time.Hour, "2 h"},
		{26*time.Hour + 5*time.Minute, "26 h 5 min"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
