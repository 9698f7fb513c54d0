package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/genova-platform/genova_backend/internal/actions"
)

// AIHandler fronts the external ai-actions function. Requests are decoded
// into the tagged contract, validated, and forwarded; the response JSON is
// passed through untouched. No inference happens here.
type AIHandler struct {
	Client *actions.Client
}

func NewAIHandler(client *actions.Client) *AIHandler {
	return &AIHandler{Client: client}
}

func (h *AIHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/actions", authMiddleware...)
	g.Post("/ai", h.Invoke)
}

func (h *AIHandler) Invoke(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req actions.AIRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs, err := req.Validate()
	if err != nil {
		if errors.Is(err, actions.ErrUnknownAction) {
			return fail(c, fiber.StatusBadRequest, "Unknown action: "+req.Action)
		}
		return fail(c, fiber.StatusBadRequest, "Invalid request")
	}
	if !errs.Empty() {
		return validationFail(c, errs)
	}

	if !h.Client.Configured() {
		return fail(c, fiber.StatusServiceUnavailable, "AI features are not configured")
	}

	// attribute the call to the session, not whatever the client claims
	req.UserID = uid.String()

	raw, err := h.Client.Invoke(c.Context(), "ai-actions", req)
	if err != nil {
		log.Printf("[AI] %s failed: %v", req.Action, err)
		return fail(c, fiber.StatusBadGateway, "AI action failed")
	}

	c.Set("Content-Type", "application/json")
	return c.Send(raw)
}
