package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// Pinger reports store connectivity.
type Pinger interface {
	Ping() error
}

// HealthStatus is the health check response. The store connectivity field
// keeps its legacy wire name for API compatibility.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"mongodb"`
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	pinger Pinger
	logger *slog.Logger
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(pinger Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{pinger: pinger, logger: logger}
}

// IndexAction handles GET /api/health. Always 200: connectivity state is a
// field value, not an error, so liveness probes stay simple.
func (h *HealthHandler) IndexAction(c *fiber.Ctx) error {
	storeStatus := "connected"
	if err := h.pinger.Ping(); err != nil {
		storeStatus = "disconnected"
		h.logger.Error("Store ping failed", slog.Any("error", err))
	}

	return c.JSON(HealthStatus{
		Status: "healthy",
		Store:  storeStatus,
	})
}
