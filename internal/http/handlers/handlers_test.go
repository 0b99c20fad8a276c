// README: Router-level tests for itinerary, trip and health handlers.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/ai"
	httptransport "wayfarer/internal/http"
	"wayfarer/internal/http/handlers"
	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/modules/trip"
)

// stubModel is a test double for the model client.
type stubModel struct {
	text  string
	err   error
	calls int
}

func (s *stubModel) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.text, s.err
}

type testEnv struct {
	router *gin.Engine
	model  *stubModel
	trips  *trip.Service
}

func newTestEnv(t *testing.T, opts itinerary.Options) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	model := &stubModel{text: itinerary.ExampleResponse}
	itSvc := itinerary.NewService(itinerary.NewLLMPlanner(model, itinerary.Normalizer{}), opts, nil)
	store := trip.NewMemoryStore()
	tripSvc := trip.NewService(store, true, nil)

	r := httptransport.NewRouter(httptransport.RouterDeps{
		AllowOrigins: []string{"*"},
		Itinerary:    handlers.NewItineraryHandler(itSvc),
		Trip:         handlers.NewTripHandler(tripSvc),
		Health:       handlers.NewHealthHandler(itSvc, tripSvc, "memory", nil),
	})
	return &testEnv{router: r, model: model, trips: tripSvc}
}

func liveOptions() itinerary.Options {
	return itinerary.Options{UseLLM: true, APIKeyConfigured: true, Provider: "gemini", APIKeyEnv: "GEMINI_API_KEY"}
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var goaRequest = map[string]any{
	"fromCity":     "Pune",
	"destination":  "Goa",
	"numberOfDays": 3,
	"budget":       25000,
	"familyType":   "couple",
}

type errorBody struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Hint    string  `json:"hint"`
	Raw     *string `json:"raw"`
}

func TestGenerateItinerary_ExampleResponse(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	for _, path := range []string{"/api/generate-itinerary", "/api/plan-trip"} {
		w := doRequest(env.router, http.MethodPost, path, goaRequest)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, itinerary.SourceLLM, w.Header().Get(handlers.SourceHeader))

		got := decode[itinerary.Itinerary](t, w)
		require.NotEmpty(t, got.Itinerary)
		assert.Equal(t, 1, got.Itinerary[0].Day)
		assert.Equal(t, itinerary.IntensityLow, got.Itinerary[0].TravelIntensity)
	}
	assert.Equal(t, 2, env.model.calls)
}

func TestGenerateItinerary_MissingFields(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	for _, body := range []interface{}{nil, map[string]any{"destination": "Goa"}} {
		w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", body)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "MissingFields", decode[errorBody](t, w).Error)
	}
	assert.Zero(t, env.model.calls)
}

func TestGenerateItinerary_MalformedBody(t *testing.T) {
	env := newTestEnv(t, liveOptions())
	w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", "{not json")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", decode[errorBody](t, w).Error)
}

func TestGenerateItinerary_ServerConfigError(t *testing.T) {
	opts := liveOptions()
	opts.APIKeyConfigured = false
	env := newTestEnv(t, opts)

	w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", goaRequest)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "ServerConfigError", body.Error)
	assert.Contains(t, body.Message, "GEMINI_API_KEY")
	assert.Zero(t, env.model.calls)
}

func TestGenerateItinerary_ProviderErrorStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"timeout", ai.ErrRequestTimeout, http.StatusGatewayTimeout, "RequestTimeout"},
		{"model not found", &ai.ModelUnavailableError{Tried: []string{"gemini-2.5-flash"}}, http.StatusInternalServerError, "ModelNotFound"},
		{"rate limited", &ai.ProviderError{Provider: "gemini", Status: http.StatusTooManyRequests, Message: "quota exceeded"}, http.StatusTooManyRequests, "RateLimitExceeded"},
		{"unauthorized", &ai.ProviderError{Provider: "gemini", Status: http.StatusUnauthorized, Message: "API key not valid"}, http.StatusUnauthorized, "AuthorizationError"},
		{"overloaded", &ai.ProviderError{Provider: "gemini", Status: http.StatusServiceUnavailable, Message: "model is overloaded"}, http.StatusServiceUnavailable, "ServiceUnavailable"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "InternalError"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, liveOptions())
			env.model.err = tc.err

			w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", goaRequest)
			require.Equal(t, tc.status, w.Code)
			body := decode[errorBody](t, w)
			assert.Equal(t, tc.code, body.Error)
			assert.NotEmpty(t, body.Message)
			assert.NotEmpty(t, body.Hint)
			assert.Nil(t, body.Raw)
		})
	}
}

func TestGenerateItinerary_ParsingErrorCarriesRaw(t *testing.T) {
	env := newTestEnv(t, liveOptions())
	env.model.text = "Sorry, I cannot help with that."

	w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", goaRequest)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "ParsingError", body.Error)
	require.NotNil(t, body.Raw)
	assert.Equal(t, "Sorry, I cannot help with that.", *body.Raw)
}

func TestGenerateItinerary_FallbackToMock(t *testing.T) {
	opts := liveOptions()
	opts.Fallback = true
	env := newTestEnv(t, opts)
	env.model.err = &ai.ProviderError{Provider: "gemini", Status: http.StatusServiceUnavailable, Message: "overloaded"}

	w := doRequest(env.router, http.MethodPost, "/api/generate-itinerary", goaRequest)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, itinerary.SourceMock, w.Header().Get(handlers.SourceHeader))
	assert.Len(t, decode[itinerary.Itinerary](t, w).Itinerary, 3)
}

type tripEnvelope struct {
	Message string    `json:"message"`
	Trip    trip.Trip `json:"trip"`
}

func saveTrip(t *testing.T, r *gin.Engine, destination string) tripEnvelope {
	t.Helper()
	w := doRequest(r, http.MethodPost, "/api/trips", map[string]any{
		"fromCity":     "Pune",
		"destination":  destination,
		"numberOfDays": 2,
		"budget":       10000,
		"familyType":   "solo",
		"itinerary": []map[string]any{
			{"day": 1, "title": "Arrival", "activities": []string{"Beach walk"}, "travelIntensity": "Low", "estimatedCost": 4000},
		},
		"tips": []string{"Carry sunscreen"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[tripEnvelope](t, w)
}

func TestTrips_CRUD(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	first := saveTrip(t, env.router, "Goa")
	assert.Equal(t, "Trip saved successfully", first.Message)
	assert.NotEmpty(t, first.Trip.ID)
	assert.Equal(t, trip.DefaultUserID, first.Trip.UserID)
	assert.False(t, first.Trip.GeneratedAt.IsZero())

	second := saveTrip(t, env.router, "Manali")

	w := doRequest(env.router, http.MethodGet, "/api/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]trip.Trip](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.Trip.ID, list[0].ID)

	w = doRequest(env.router, http.MethodGet, "/api/trips/"+first.Trip.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[trip.Trip](t, w)
	assert.Equal(t, "Goa", got.Destination)
	require.Len(t, got.Itinerary, 1)
	assert.Equal(t, itinerary.IntensityLow, got.Itinerary[0].TravelIntensity)

	w = doRequest(env.router, http.MethodDelete, "/api/trips/"+first.Trip.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Trip deleted successfully"}`, w.Body.String())

	w = doRequest(env.router, http.MethodGet, "/api/trips/"+first.Trip.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Trip not found", decode[errorBody](t, w).Message)

	w = doRequest(env.router, http.MethodDelete, "/api/trips/"+first.Trip.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrips_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t, liveOptions())
	w := doRequest(env.router, http.MethodGet, "/api/trips", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestTrips_DuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv(t, liveOptions())
	first := saveTrip(t, env.router, "Goa")

	w := doRequest(env.router, http.MethodPost, "/api/trips", map[string]any{
		"fromCity": "Pune", "destination": "Goa", "numberOfDays": 2, "budget": 10000, "familyType": "solo",
	})
	require.Equal(t, http.StatusOK, w.Code)
	dup := decode[tripEnvelope](t, w)
	assert.Equal(t, "Trip already saved", dup.Message)
	assert.Equal(t, first.Trip.ID, dup.Trip.ID)
}

func TestTrips_BadRequests(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	w := doRequest(env.router, http.MethodPost, "/api/trips", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(env.router, http.MethodPost, "/api/trips", map[string]any{"fromCity": "Pune"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "InvalidRequest", decode[errorBody](t, w).Error)

	w = doRequest(env.router, http.MethodGet, "/api/trips/not$an$id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrips_CreateAcceptsNumericStrings(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	w := doRequest(env.router, http.MethodPost, "/api/trips", map[string]any{
		"fromCity":     "Pune",
		"destination":  "Goa",
		"numberOfDays": "3",
		"budget":       "25000",
		"familyType":   "couple",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[tripEnvelope](t, w)
	assert.Equal(t, 3, saved.Trip.NumberOfDays)
	assert.Equal(t, 25000.0, saved.Trip.Budget)

	w = doRequest(env.router, http.MethodPost, "/api/trips", map[string]any{
		"destination":  "Goa",
		"numberOfDays": "three",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[errorBody](t, w)
	assert.Equal(t, "InvalidRequest", body.Error)
	assert.Contains(t, body.Message, "numberOfDays")
}

func TestHealthAndUnknownRoute(t *testing.T) {
	env := newTestEnv(t, liveOptions())

	w := doRequest(env.router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK","message":"Travel Planner API is running","apiKeyConfigured":true,"provider":"gemini","store":"memory"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	w = doRequest(env.router, http.MethodGet, "/api/nowhere", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"NotFound","message":"The requested endpoint does not exist"}`, w.Body.String())
}
