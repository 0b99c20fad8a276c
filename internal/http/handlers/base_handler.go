// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/itinerary"
	"wayfarer/internal/modules/trip"
)

const (
	codeNotFound       = "NotFound"
	codeInvalidRequest = "InvalidRequest"
	codeInternal       = "InternalError"

	hintRetry = "Something went wrong on our side. Please try again."
)

type errorResponse struct {
	Error   string  `json:"error"`
	Message string  `json:"message"`
	Hint    string  `json:"hint,omitempty"`
	Raw     *string `json:"raw,omitempty"`
}

// isValidID accepts the uuid-shaped ids the trip stores hand out, plus legacy hex ids.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, code, msg, hint string) {
	writeJSON(c, status, errorResponse{Error: code, Message: msg, Hint: hint})
}

func writeItineraryError(c *gin.Context, err *itinerary.Error) {
	_ = c.Error(err)
	writeJSON(c, err.Status, errorResponse{
		Error:   err.Code,
		Message: err.Message,
		Hint:    err.Hint,
		Raw:     err.Raw,
	})
}

func writeTripError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, trip.ErrNotFound):
		writeError(c, http.StatusNotFound, codeNotFound, "Trip not found", "")
	case errors.Is(err, trip.ErrInvalidTrip):
		writeError(c, http.StatusBadRequest, codeInvalidRequest, err.Error(), "")
	default:
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, codeInternal, "Failed to access saved trips", hintRetry)
	}
}
