// README: Saved trip handlers (create, list, get, delete).
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/trip"
)

type TripHandler struct {
	svc *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{svc: svc}
}

type tripResponse struct {
	Message string     `json:"message"`
	Trip    *trip.Trip `json:"trip"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req trip.Trip
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, trip.ErrInvalidTrip) {
			writeTripError(c, err)
			return
		}
		msg := "Request body must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		writeError(c, http.StatusBadRequest, codeInvalidRequest, msg, "")
		return
	}

	saved, existed, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeTripError(c, err)
		return
	}
	if existed {
		writeJSON(c, http.StatusOK, tripResponse{Message: "Trip already saved", Trip: saved})
		return
	}
	writeJSON(c, http.StatusCreated, tripResponse{Message: "Trip saved successfully", Trip: saved})
}

func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, trips)
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeTripError(c, trip.ErrNotFound)
		return
	}
	t, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, t)
}

func (h *TripHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeTripError(c, trip.ErrNotFound)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"message": "Trip deleted successfully"})
}
