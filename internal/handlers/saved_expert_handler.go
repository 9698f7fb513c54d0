package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
)

type SavedExpertHandler struct {
	DB *gorm.DB
}

func NewSavedExpertHandler(db *gorm.DB) *SavedExpertHandler {
	return &SavedExpertHandler{DB: db}
}

func (h *SavedExpertHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/saved-experts", authMiddleware...)
	g.Get("/", h.List)
	g.Post("/:expertId", h.Save)
	g.Delete("/:expertId", h.Unsave)
}

func (h *SavedExpertHandler) List(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var saved []models.SavedExpert
	if err := h.DB.
		Preload("Expert").
		Preload("Expert.ExpertProfile").
		Where("seeker_id = ?", uid).
		Order("created_at DESC").
		Find(&saved).Error; err != nil {
		return fail500(c, "Failed to fetch saved experts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    saved,
	})
}

func (h *SavedExpertHandler) Save(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	expertID, err := parseParamID(c, "expertId")
	if err != nil {
		return err
	}

	var expert models.User
	if err := h.DB.First(&expert, "id = ? AND role = ?", expertID, models.RoleExpert).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Expert not found")
	}

	rec := models.SavedExpert{SeekerID: uid, ExpertID: expertID}
	if err := h.DB.Create(&rec).Error; err != nil {
		// unique pair index makes a double-save a no-op conflict
		log.Println("Error saving expert:", err)
		return fail(c, fiber.StatusConflict, "Expert already saved")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    rec,
	})
}

func (h *SavedExpertHandler) Unsave(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	expertID, err := parseParamID(c, "expertId")
	if err != nil {
		return err
	}

	res := h.DB.Delete(&models.SavedExpert{}, "seeker_id = ? AND expert_id = ?", uid, expertID)
	if res.Error != nil {
		return fail500(c, "Failed to remove saved expert")
	}
	if res.RowsAffected == 0 {
		return fail(c, fiber.StatusNotFound, "Expert was not saved")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Removed",
	})
}
