package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genova-platform/genova_backend/internal/services/analytics"
)

// AnalyticsHandler ingests client-side events. Accepting an event always
// succeeds from the caller's point of view; persistence is asynchronous.
type AnalyticsHandler struct {
	Tracker *analytics.Tracker
}

func NewAnalyticsHandler(tracker *analytics.Tracker) *AnalyticsHandler {
	return &AnalyticsHandler{Tracker: tracker}
}

func (h *AnalyticsHandler) Routes(r fiber.Router, mw ...fiber.Handler) {
	r.Post("/analytics/events", append(mw, h.Ingest)...)
}

type IngestEventReq struct {
	EventType  string                 `json:"event_type"`
	SessionID  string                 `json:"session_id"`
	Properties map[string]interface{} `json:"properties"`
	PageURL    string                 `json:"page_url"`
}

func (h *AnalyticsHandler) Ingest(c *fiber.Ctx) error {
	var req IngestEventReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.EventType == "" {
		return fail(c, fiber.StatusBadRequest, "event_type is required")
	}

	var userID *uuid.UUID
	if raw, ok := c.Locals("userId").(string); ok && raw != "" {
		if uid, err := uuid.Parse(raw); err == nil {
			userID = &uid
		}
	}

	h.Tracker.Track(analytics.Event{
		EventType:  req.EventType,
		SessionID:  req.SessionID,
		UserID:     userID,
		Properties: req.Properties,
		PageURL:    req.PageURL,
		UserAgent:  c.Get("User-Agent"),
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
	})
}
