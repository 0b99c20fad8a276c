package itinerary

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeRequest(t *testing.T, body string) TripRequest {
	t.Helper()
	var req TripRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestTripRequestAcceptsNumericStrings(t *testing.T) {
	req := decodeRequest(t, `{"fromCity": " Pune ", "destination": "Goa", "numberOfDays": "3", "budget": "25000.50", "familyType": "couple"}`)
	assert.Equal(t, TripRequest{FromCity: "Pune", Destination: "Goa", NumberOfDays: 3, Budget: 25000.5, FamilyType: FamilyCouple}, req)
	assert.NoError(t, req.Validate())
}

func TestTripRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
		want []string
	}{
		{"all missing", `{}`, "MissingFields", []string{"fromCity", "destination", "numberOfDays", "budget", "familyType"}},
		{"blank strings", `{"fromCity": "  ", "destination": "Goa", "numberOfDays": 2, "budget": 10, "familyType": "solo"}`, "MissingFields", []string{"fromCity"}},
		{"zero days", `{"fromCity": "A", "destination": "B", "numberOfDays": 0, "budget": 10, "familyType": "solo"}`, "MissingFields", []string{"numberOfDays"}},
		{"negative budget", `{"fromCity": "A", "destination": "B", "numberOfDays": 2, "budget": -5, "familyType": "solo"}`, "InvalidFields", []string{"budget"}},
		{"fractional days", `{"fromCity": "A", "destination": "B", "numberOfDays": 2.5, "budget": 10, "familyType": "solo"}`, "InvalidFields", []string{"numberOfDays"}},
		{"text days", `{"fromCity": "A", "destination": "B", "numberOfDays": "three", "budget": 10, "familyType": "solo"}`, "InvalidFields", []string{"numberOfDays"}},
		{"unknown family", `{"fromCity": "A", "destination": "B", "numberOfDays": 2, "budget": 10, "familyType": "friends"}`, "InvalidFields", []string{"familyType"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := decodeRequest(t, tt.body).Validate()
			require.Error(t, err)

			var e *Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, http.StatusBadRequest, e.Status)
			assert.Equal(t, KindValidation, e.Kind)
			for _, field := range tt.want {
				assert.Contains(t, e.Message, field)
			}
		})
	}
}

func TestTotalEstimatedCost(t *testing.T) {
	it := Itinerary{Itinerary: []DayPlan{{EstimatedCost: 100}, {EstimatedCost: 250}}}
	assert.Equal(t, 350.0, it.TotalEstimatedCost())
}
