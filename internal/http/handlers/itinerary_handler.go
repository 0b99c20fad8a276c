// README: Itinerary generation handler (generate-itinerary and its plan-trip alias).
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/itinerary"
)

const SourceHeader = "X-Itinerary-Source"

type ItineraryHandler struct {
	svc *itinerary.Service
}

func NewItineraryHandler(svc *itinerary.Service) *ItineraryHandler {
	return &ItineraryHandler{svc: svc}
}

func (h *ItineraryHandler) Generate(c *gin.Context) {
	var req itinerary.TripRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(c, http.StatusBadRequest, codeInvalidRequest, "Request body must be a JSON object", "")
		return
	}

	res, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		writeItineraryError(c, itinerary.Classify(err))
		return
	}
	c.Header(SourceHeader, res.Source)
	writeJSON(c, http.StatusOK, res.Itinerary)
}
