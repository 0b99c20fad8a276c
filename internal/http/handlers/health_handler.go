// README: Liveness endpoint.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wayfarer/internal/modules/itinerary"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	itineraries *itinerary.Service
	store       Pinger
	storeName   string
	logger      *zap.Logger
}

func NewHealthHandler(itineraries *itinerary.Service, store Pinger, storeName string, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{itineraries: itineraries, store: store, storeName: storeName, logger: logger}
}

type healthResponse struct {
	Status           string `json:"status"`
	Message          string `json:"message"`
	APIKeyConfigured bool   `json:"apiKeyConfigured"`
	Provider         string `json:"provider"`
	Store            string `json:"store"`
}

// Health answers 200 while the process is up; an unreachable store is reported, not fatal.
func (h *HealthHandler) Health(c *gin.Context) {
	store := h.storeName
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("store ping failed", zap.String("store", h.storeName), zap.Error(err))
			store += " (unreachable)"
		}
	}
	writeJSON(c, http.StatusOK, healthResponse{
		Status:           "OK",
		Message:          "Travel Planner API is running",
		APIKeyConfigured: h.itineraries.APIKeyConfigured(),
		Provider:         h.itineraries.Provider(),
		Store:            store,
	})
}
