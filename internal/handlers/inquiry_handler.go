package handlers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/realtime"
)

type InquiryHandler struct {
	DB     *gorm.DB
	Broker *realtime.Broker
}

func NewInquiryHandler(db *gorm.DB, broker *realtime.Broker) *InquiryHandler {
	return &InquiryHandler{DB: db, Broker: broker}
}

func (h *InquiryHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/inquiries", authMiddleware...)
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Patch("/:id/accept", h.Accept)
	g.Patch("/:id/decline", h.Decline)
}

type CreateInquiryReq struct {
	ExpertID           string `json:"expert_id"`
	ProjectTitle       string `json:"project_title"`
	ProjectDescription string `json:"project_description"`
	BudgetRange        string `json:"budget_range"`
	Timeline           string `json:"timeline"`
}

func (h *InquiryHandler) Create(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req CreateInquiryReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := models.FieldErrors{}
	if strings.TrimSpace(req.ProjectTitle) == "" {
		errs.Add("project_title", "Project title is required")
	}
	if strings.TrimSpace(req.ProjectDescription) == "" {
		errs.Add("project_description", "Project description is required")
	}
	if !errs.Empty() {
		return validationFail(c, errs)
	}

	expertID, err := uuid.Parse(req.ExpertID)
	if err != nil {
		errs.Add("expert_id", "Invalid expert id")
		return validationFail(c, errs)
	}

	var expert models.User
	if err := h.DB.First(&expert, "id = ? AND role = ?", expertID, models.RoleExpert).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Expert not found")
	}

	inq := models.Inquiry{
		SeekerID:           uid,
		ExpertID:           expertID,
		ProjectTitle:       strings.TrimSpace(req.ProjectTitle),
		ProjectDescription: strings.TrimSpace(req.ProjectDescription),
		BudgetRange:        req.BudgetRange,
		Timeline:           req.Timeline,
		Status:             models.InquiryStatusPending,
	}

	if err := h.DB.Create(&inq).Error; err != nil {
		log.Println("Error creating inquiry:", err)
		return fail500(c, "Failed to create inquiry")
	}

	h.Broker.Publish(c.Context(), "inquiries", "insert", inq)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    inq,
	})
}

// List returns the caller's inquiries: sent ones for seekers, received
// ones for experts, ordered newest first.
func (h *InquiryHandler) List(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	q := h.DB.Model(&models.Inquiry{}).Preload("Seeker").Preload("Expert")
	if getRole(c) == models.RoleExpert {
		q = q.Where("expert_id = ?", uid)
	} else {
		q = q.Where("seeker_id = ?", uid)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var inquiries []models.Inquiry
	if err := q.Order("created_at DESC").Find(&inquiries).Error; err != nil {
		log.Println("Error fetching inquiries:", err)
		return fail500(c, "Failed to fetch inquiries")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    inquiries,
	})
}

func (h *InquiryHandler) Accept(c *fiber.Ctx) error {
	return h.decide(c, models.InquiryStatusAccepted)
}

func (h *InquiryHandler) Decline(c *fiber.Ctx) error {
	return h.decide(c, models.InquiryStatusDeclined)
}

// decide applies the expert's accept/decline. The write is a conditional
// update on the pending status, so two racing sessions cannot both win:
// the loser's update matches zero rows and is reported as an invalid
// transition.
func (h *InquiryHandler) decide(c *fiber.Ctx, to models.InquiryStatus) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	inquiryID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var inq models.Inquiry
	if err := h.DB.First(&inq, "id = ?", inquiryID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Inquiry not found")
	}

	// validates role and current status on the loaded snapshot
	if err := inq.Decide(uid, to); err != nil {
		return lifecycleFail(c, err)
	}

	// the status write and the project it spawns commit or fail together;
	// an accepted inquiry without a workspace must not exist
	var project *models.Project
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Inquiry{}).
			Where("id = ? AND status = ?", inquiryID, models.InquiryStatusPending).
			Update("status", to)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// someone else decided first
			return models.ErrInvalidTransition
		}

		if to == models.InquiryStatusAccepted {
			p := models.Project{
				SeekerID:    inq.SeekerID,
				ExpertID:    inq.ExpertID,
				Title:       inq.ProjectTitle,
				Description: inq.ProjectDescription,
				Budget:      inq.BudgetRange,
				Deadline:    inq.Timeline,
				Status:      models.ProjectStatusActive,
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			project = &p
		}
		return nil
	})
	if err != nil {
		if err != models.ErrInvalidTransition {
			log.Println("Error updating inquiry:", err)
		}
		return lifecycleFail(c, err)
	}

	if project != nil {
		h.Broker.Publish(c.Context(), "projects", "insert", project)
	}
	h.Broker.Publish(c.Context(), "inquiries", "update", inq)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    inq,
	})
}
