package health

import (
	"context"
	"net/http"
	"time"

	"github.com/specscart/catalog-api/app/api"
	"github.com/specscart/catalog-api/pkg/logger"
)

// PingFunc checks the entity store is reachable.
type PingFunc func(ctx context.Context) error

// HealthHandler provides health check endpoint
type HealthHandler struct {
	ping    PingFunc
	timeout time.Duration
}

func NewHealthHandler(ping PingFunc) *HealthHandler {
	return &HealthHandler{ping: ping, timeout: 2 * time.Second}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Store:     "up",
		Timestamp: time.Now().UTC(),
	}
	status := http.StatusOK
	if err := h.ping(ctx); err != nil {
		logger.Error().Err(err).Msg("store ping failed")
		response.Status = "unhealthy"
		response.Store = "down"
		status = http.StatusServiceUnavailable
	}
	api.WriteJSON(w, status, response)
}
