package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/realtime"
)

type ProfileHandler struct {
	DB     *gorm.DB
	Broker *realtime.Broker
}

func NewProfileHandler(db *gorm.DB, broker *realtime.Broker) *ProfileHandler {
	return &ProfileHandler{DB: db, Broker: broker}
}

func (h *ProfileHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	r.Get("/experts", h.ListExperts)
	r.Get("/experts/:id", h.GetExpert)

	g := r.Group("/profile", authMiddleware...)
	g.Get("/me", h.GetMine)
	g.Patch("/me", h.UpdateMine)
}

// GetMine returns the caller's profile with the derived completion meter.
func (h *ProfileHandler) GetMine(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var profile models.ExpertProfile
	if err := h.DB.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Profile not found")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"profile": profile,
			"completion": fiber.Map{
				"items":      profile.CompletionItems(),
				"percentage": profile.CompletionPercentage(),
			},
		},
	})
}

func (h *ProfileHandler) UpdateMine(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var profile models.ExpertProfile
	if err := h.DB.Where("user_id = ?", uid).First(&profile).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Profile not found")
	}

	var req struct {
		FullName      *string          `json:"full_name"`
		Title         *string          `json:"title"`
		Location      *string          `json:"location"`
		Biography     *string          `json:"biography"`
		CareerHistory *string          `json:"career_history"`
		IsAvailable   *bool            `json:"is_available"`
		LeadTime      *models.LeadTime `json:"lead_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Title != nil {
		profile.Title = strings.TrimSpace(*req.Title)
	}
	if req.Location != nil {
		profile.Location = strings.TrimSpace(*req.Location)
	}
	if req.Biography != nil {
		profile.Biography = strings.TrimSpace(*req.Biography)
	}
	if req.CareerHistory != nil {
		profile.CareerHistory = strings.TrimSpace(*req.CareerHistory)
	}
	if req.IsAvailable != nil {
		profile.IsAvailable = *req.IsAvailable
	}
	if req.LeadTime != nil {
		if !models.ValidLeadTime(*req.LeadTime) {
			errs := models.FieldErrors{}
			errs.Add("lead_time", "Invalid lead time")
			return validationFail(c, errs)
		}
		profile.LeadTime = *req.LeadTime
	}

	if err := h.DB.Save(&profile).Error; err != nil {
		log.Println("Error updating profile:", err)
		return fail500(c, "Failed to update profile")
	}

	// completion tracker views recompute from this push
	h.Broker.Publish(c.Context(), "profiles", "update", profile)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"profile": profile,
			"completion": fiber.Map{
				"items":      profile.CompletionItems(),
				"percentage": profile.CompletionPercentage(),
			},
		},
	})
}

// ListExperts is the public expert browser, filterable by availability.
func (h *ProfileHandler) ListExperts(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	offset := (page - 1) * limit

	q := h.DB.Model(&models.ExpertProfile{})
	if c.Query("available") == "true" {
		q = q.Where("is_available = ?", true)
	}
	if loc := strings.TrimSpace(c.Query("location")); loc != "" {
		q = q.Where("location ILIKE ?", "%"+loc+"%")
	}

	var total int64
	q.Count(&total)

	var profiles []models.ExpertProfile
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&profiles).Error; err != nil {
		return fail500(c, "Failed to fetch experts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profiles,
		"meta": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// GetExpert returns one expert's public profile with review aggregates.
func (h *ProfileHandler) GetExpert(c *fiber.Ctx) error {
	expertID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var profile models.ExpertProfile
	if err := h.DB.Where("user_id = ?", expertID).First(&profile).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Profile not found")
	}

	var stats struct {
		AvgRating   float64
		ReviewCount int64
	}
	h.DB.Model(&models.Review{}).
		Where("expert_id = ?", expertID).
		Where("moderation_status != ?", models.ModerationStatusRemoved).
		Select("COALESCE(AVG(rating), 0) as avg_rating, COUNT(id) as review_count").
		Scan(&stats)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"profile":      profile,
			"rating":       stats.AvgRating,
			"review_count": stats.ReviewCount,
		},
	})
}
