package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/realtime"
)

type AvailabilityHandler struct {
	DB     *gorm.DB
	Broker *realtime.Broker
}

func NewAvailabilityHandler(db *gorm.DB, broker *realtime.Broker) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db, Broker: broker}
}

func (h *AvailabilityHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/availability", authMiddleware...)
	g.Get("/", h.List)
	g.Post("/", h.Add)
	g.Patch("/:id", h.Update)
	g.Delete("/:id", h.Remove)
}

// List returns the caller's weekly calendar, sorted for display.
func (h *AvailabilityHandler) List(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var slots []models.AvailabilitySlot
	if err := h.DB.
		Where("expert_id = ?", uid).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return fail500(c, "Failed to fetch availability")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    slots,
	})
}

type AddSlotReq struct {
	DayOfWeek      int     `json:"day_of_week"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	EngagementType *string `json:"engagement_type"`
}

// Add creates a slot for the given day, defaulting to 09:00-17:00
// Consultation when times are omitted.
func (h *AvailabilityHandler) Add(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req AddSlotReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	slot := models.NewAvailabilitySlot(uid, req.DayOfWeek)
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.EngagementType != nil {
		slot.EngagementType = *req.EngagementType
	}

	if errs := slot.Validate(); !errs.Empty() {
		return validationFail(c, errs)
	}

	if err := h.DB.Create(&slot).Error; err != nil {
		log.Println("Error adding availability slot:", err)
		return fail500(c, "Failed to add slot")
	}

	h.Broker.Publish(c.Context(), "availability:"+uid.String(), "insert", slot)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    slot,
	})
}

type UpdateSlotReq struct {
	IsAvailable    *bool   `json:"is_available"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	EngagementType *string `json:"engagement_type"`
}

// Update edits a slot; the availability toggle flips independently of the
// time bounds.
func (h *AvailabilityHandler) Update(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	slotID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var slot models.AvailabilitySlot
	if err := h.DB.First(&slot, "id = ? AND expert_id = ?", slotID, uid).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Slot not found")
	}

	var req UpdateSlotReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	if req.IsAvailable != nil {
		slot.IsAvailable = *req.IsAvailable
	}
	if req.StartTime != nil {
		slot.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		slot.EndTime = *req.EndTime
	}
	if req.EngagementType != nil {
		slot.EngagementType = *req.EngagementType
	}

	if errs := slot.Validate(); !errs.Empty() {
		return validationFail(c, errs)
	}

	if err := h.DB.Save(&slot).Error; err != nil {
		log.Println("Error updating availability slot:", err)
		return fail500(c, "Failed to update slot")
	}

	h.Broker.Publish(c.Context(), "availability:"+uid.String(), "update", slot)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    slot,
	})
}

func (h *AvailabilityHandler) Remove(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	slotID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.Delete(&models.AvailabilitySlot{}, "id = ? AND expert_id = ?", slotID, uid)
	if res.Error != nil {
		log.Println("Error deleting availability slot:", res.Error)
		return fail500(c, "Failed to delete slot")
	}
	if res.RowsAffected == 0 {
		return fail(c, fiber.StatusNotFound, "Slot not found")
	}

	h.Broker.Publish(c.Context(), "availability:"+uid.String(), "delete", fiber.Map{"id": slotID})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Slot removed",
	})
}
