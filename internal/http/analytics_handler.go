// Package http contains the fiber request handlers.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"loadpulse/internal/ingest"
	"loadpulse/internal/series"
	"loadpulse/internal/storage"
)

// CreateEventParams is the request body for the custom event endpoint.
type CreateEventParams struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// AnalyticsHandler serves the ingestion and series endpoints.
type AnalyticsHandler struct {
	ingest *ingest.Service
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewAnalyticsHandler creates the handler with its dependencies injected.
func NewAnalyticsHandler(svc *ingest.Service, store storage.Store, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		ingest: svc,
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the handler's clock; intended for tests.
func (h *AnalyticsHandler) WithClock(now func() time.Time) *AnalyticsHandler {
	h.now = now
	return h
}

// PageLoadCreateAction handles POST /api/analytics/pageload. The body is an
// arbitrary JSON object stored verbatim on the detail record.
func (h *AnalyticsHandler) PageLoadCreateAction(c *fiber.Ctx) error {
	now := h.now()
	meta := requestMetadata(c)

	if err := h.ingest.RecordPageLoad(now, meta, c.Body()); err != nil {
		h.logger.Error("Failed to record page load", slog.Any("error", err))
		return failure(c, err)
	}

	h.logger.Info("Recorded page load", slog.String("ip", meta.IPAddress))
	return c.JSON(fiber.Map{"success": true})
}

// EventCreateAction handles POST /api/analytics/event. Only the event name
// is required; the data payload stays opaque.
func (h *AnalyticsHandler) EventCreateAction(c *fiber.Ctx) error {
	var params CreateEventParams
	if err := c.BodyParser(&params); err != nil {
		h.logger.Error("Failed to parse event request", slog.Any("error", err))
		return failure(c, err)
	}
	if params.Event == "" {
		return failure(c, fmt.Errorf("missing event name"))
	}

	now := h.now()
	if err := h.ingest.RecordEvent(now, requestMetadata(c), params.Event, params.Data); err != nil {
		h.logger.Error("Failed to record event",
			slog.String("event", params.Event),
			slog.Any("error", err))
		return failure(c, err)
	}

	h.logger.Info("Recorded custom event", slog.String("event", params.Event))
	return c.JSON(fiber.Map{"success": true})
}

// PageLoadsIndexAction handles GET /api/analytics/pageloads: the per-minute
// page-load series for the last hour, densified to exactly 60 slots.
func (h *AnalyticsHandler) PageLoadsIndexAction(c *fiber.Ctx) error {
	now := h.now()
	startKey, endKey := series.Window(now)

	counters, err := h.store.QueryRange(storage.EventTypePageLoad, startKey, endKey)
	if err != nil {
		h.logger.Error("Failed to query page load series", slog.Any("error", err))
		return failure(c, err)
	}

	return c.JSON(series.BuildLast60Minutes(now, counters))
}

// requestMetadata extracts the detail-record attributes from the request;
// the ingestion service applies the Unknown/Direct defaults.
func requestMetadata(c *fiber.Ctx) ingest.RequestMetadata {
	return ingest.RequestMetadata{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
		Referrer:  c.Get(fiber.HeaderReferer),
	}
}

// failure converts any handler error to the uniform 500 envelope.
func failure(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
