package handlers

import (
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
)

// AdminHandler serves the admin-actions and analytics-export contracts:
// a JSON body with an "action" discriminator in, JSON (or CSV) out.
type AdminHandler struct {
	DB *gorm.DB
}

func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

func (h *AdminHandler) Routes(r fiber.Router, authMiddleware []fiber.Handler, adminOnly fiber.Handler) {
	g := r.Group("/actions", append(authMiddleware, adminOnly)...)
	g.Post("/admin", h.Invoke)
	g.Post("/analytics-export", h.Export)
}

func (h *AdminHandler) Invoke(c *fiber.Ctx) error {
	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	switch req.Action {
	case "generate_kpi_report":
		return h.kpiReport(c)
	default:
		return fail(c, fiber.StatusBadRequest, "Unknown action: "+req.Action)
	}
}

func (h *AdminHandler) kpiReport(c *fiber.Ctx) error {
	var totalUsers, totalExperts, totalSeekers int64
	h.DB.Model(&models.User{}).Count(&totalUsers)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleExpert).Count(&totalExperts)
	h.DB.Model(&models.User{}).Where("role = ?", models.RoleSeeker).Count(&totalSeekers)

	var totalInquiries, acceptedInquiries int64
	h.DB.Model(&models.Inquiry{}).Count(&totalInquiries)
	h.DB.Model(&models.Inquiry{}).Where("status = ?", models.InquiryStatusAccepted).Count(&acceptedInquiries)

	acceptanceRate := 0.0
	if totalInquiries > 0 {
		acceptanceRate = float64(acceptedInquiries) / float64(totalInquiries) * 100
	}

	var activeProjects, completedProjects int64
	h.DB.Model(&models.Project{}).Where("status = ?", models.ProjectStatusActive).Count(&activeProjects)
	h.DB.Model(&models.Project{}).Where("status = ?", models.ProjectStatusCompleted).Count(&completedProjects)

	var pendingModeration int64
	h.DB.Model(&models.Review{}).Where("is_flagged = ? AND moderated_at IS NULL", true).Count(&pendingModeration)

	var avgRating float64
	h.DB.Model(&models.Review{}).
		Where("moderation_status != ?", models.ModerationStatusRemoved).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"generated_at":       time.Now(),
			"total_users":        totalUsers,
			"total_experts":      totalExperts,
			"total_seekers":      totalSeekers,
			"total_inquiries":    totalInquiries,
			"accepted_inquiries": acceptedInquiries,
			"acceptance_rate":    acceptanceRate,
			"active_projects":    activeProjects,
			"completed_projects": completedProjects,
			"pending_moderation": pendingModeration,
			"average_rating":     avgRating,
		},
	})
}

// Export streams analytics events as CSV. The original contract also
// names pdf; that format is acknowledged and rejected explicitly.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	var req struct {
		Format string `json:"format"`
		Days   int    `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" {
		return fail(c, fiber.StatusUnprocessableEntity, "Only csv export is supported")
	}
	if req.Days <= 0 {
		req.Days = 30
	}

	since := time.Now().AddDate(0, 0, -req.Days)

	var events []models.AnalyticsEvent
	if err := h.DB.
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&events).Error; err != nil {
		log.Println("Error exporting analytics:", err)
		return fail500(c, "Failed to export analytics")
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="analytics-%s.csv"`, time.Now().Format("2006-01-02")))

	w := csv.NewWriter(c.Response().BodyWriter())
	defer w.Flush()

	_ = w.Write([]string{"id", "event_type", "session_id", "user_id", "page_url", "properties", "created_at"})
	for _, ev := range events {
		userID := ""
		if ev.UserID != nil {
			userID = ev.UserID.String()
		}
		_ = w.Write([]string{
			ev.ID.String(),
			ev.EventType,
			ev.SessionID,
			userID,
			ev.PageURL,
			string(ev.Properties),
			strconv.FormatInt(ev.CreatedAt.Unix(), 10),
		})
	}

	return nil
}
