package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/realtime"
)

type ReviewHandler struct {
	DB     *gorm.DB
	Broker *realtime.Broker
}

func NewReviewHandler(db *gorm.DB, broker *realtime.Broker) *ReviewHandler {
	return &ReviewHandler{DB: db, Broker: broker}
}

func (h *ReviewHandler) Routes(r fiber.Router, authMiddleware []fiber.Handler, moderatorOnly fiber.Handler) {
	r.Get("/experts/:id/reviews", h.ListForExpert)

	g := r.Group("/reviews", authMiddleware...)
	g.Post("/", h.Create)
	g.Post("/:id/flag", h.Flag)

	mod := g.Group("/moderation", moderatorOnly)
	mod.Get("/queue", h.Queue)
	mod.Post("/:id", h.Moderate)
}

type CreateReviewReq struct {
	ExpertID  string `json:"expert_id"`
	ProjectID string `json:"project_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req CreateReviewReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := models.FieldErrors{}
	if req.Rating < 1 || req.Rating > 5 {
		errs.Add("rating", "Rating must be between 1 and 5")
	}
	expertID, perr := uuid.Parse(req.ExpertID)
	if perr != nil {
		errs.Add("expert_id", "Invalid expert id")
	}
	if !errs.Empty() {
		return validationFail(c, errs)
	}

	rev := models.Review{
		ExpertID: expertID,
		SeekerID: uid,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}
	if req.ProjectID != "" {
		if pid, err := uuid.Parse(req.ProjectID); err == nil {
			rev.ProjectID = &pid
		}
	}

	if err := h.DB.Create(&rev).Error; err != nil {
		log.Println("Error creating review:", err)
		return fail500(c, "Failed to submit review")
	}

	h.Broker.Publish(c.Context(), "reviews", "insert", rev)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    rev,
	})
}

// ListForExpert returns an expert's visible reviews; removed content is
// excluded.
func (h *ReviewHandler) ListForExpert(c *fiber.Ctx) error {
	expertID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var reviews []models.Review
	if err := h.DB.
		Preload("Seeker").
		Where("expert_id = ?", expertID).
		Where("moderation_status != ?", models.ModerationStatusRemoved).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return fail500(c, "Failed to fetch reviews")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
	})
}

func (h *ReviewHandler) Flag(c *fiber.Ctx) error {
	if _, err := getAuth(c); err != nil {
		return err
	}
	reviewID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	var rev models.Review
	if err := h.DB.First(&rev, "id = ?", reviewID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Review not found")
	}

	if err := rev.Moderation.Flag(req.Reason); err != nil {
		return lifecycleFail(c, err)
	}
	if err := h.DB.Save(&rev).Error; err != nil {
		log.Println("Error flagging review:", err)
		return fail500(c, "Failed to flag review")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rev,
	})
}

// Queue lists flagged reviews awaiting a decision. Already moderated
// items are excluded by construction: the filter is moderated_at IS NULL.
func (h *ReviewHandler) Queue(c *fiber.Ctx) error {
	var reviews []models.Review
	if err := h.DB.
		Preload("Seeker").
		Preload("Expert").
		Where("is_flagged = ?", true).
		Where("moderated_at IS NULL").
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return fail500(c, "Failed to fetch moderation queue")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    reviews,
	})
}

type ModerateReq struct {
	Action models.ModerationAction `json:"action"`
	Note   string                  `json:"note"`
}

func (h *ReviewHandler) Moderate(c *fiber.Ctx) error {
	moderatorID, err := getAuth(c)
	if err != nil {
		return err
	}
	reviewID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var req ModerateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var rev models.Review
	if err := h.DB.First(&rev, "id = ?", reviewID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Review not found")
	}

	if err := rev.Moderation.Moderate(moderatorID, req.Action, req.Note, time.Now()); err != nil {
		return lifecycleFail(c, err)
	}

	// conditional on moderated_at so a racing moderator cannot decide
	// the same item twice
	res := h.DB.Model(&models.Review{}).
		Where("id = ? AND moderated_at IS NULL", reviewID).
		Updates(map[string]interface{}{
			"moderation_status": rev.ModerationStatus,
			"is_flagged":        rev.IsFlagged,
			"flagged_reason":    rev.FlaggedReason,
			"moderated_by":      rev.ModeratedBy,
			"moderated_at":      rev.ModeratedAt,
		})
	if res.Error != nil {
		log.Println("Error moderating review:", res.Error)
		return fail500(c, "Failed to moderate review")
	}
	if res.RowsAffected == 0 {
		return lifecycleFail(c, models.ErrAlreadyModerated)
	}

	h.Broker.Publish(c.Context(), "reviews", "update", rev)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    rev,
	})
}
