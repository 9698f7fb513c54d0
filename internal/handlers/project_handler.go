package handlers

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/realtime"
)

// ProjectHandler covers the project workspace: the project itself plus
// its milestones, files, and messages.
type ProjectHandler struct {
	DB            *gorm.DB
	Hub           *realtime.Hub
	Broker        *realtime.Broker
	UploadDir     string
	PublicBaseURL string
}

func NewProjectHandler(db *gorm.DB, hub *realtime.Hub, broker *realtime.Broker, uploadDir, publicBaseURL string) *ProjectHandler {
	return &ProjectHandler{DB: db, Hub: hub, Broker: broker, UploadDir: uploadDir, PublicBaseURL: publicBaseURL}
}

func (h *ProjectHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/projects", authMiddleware...)
	g.Get("/", h.List)
	g.Get("/:id", h.Get)

	g.Get("/:id/milestones", h.ListMilestones)
	g.Post("/:id/milestones", h.CreateMilestone)
	g.Patch("/:id/milestones/:milestoneId/toggle", h.ToggleMilestone)
	g.Patch("/:id/milestones/:milestoneId/status", h.SetMilestoneStatus)

	g.Get("/:id/files", h.ListFiles)
	g.Post("/:id/files", h.UploadFile)

	g.Get("/:id/messages", h.ListMessages)
	g.Post("/:id/messages", h.SendMessage)
}

// loadMember fetches the project and verifies the caller participates.
func (h *ProjectHandler) loadMember(c *fiber.Ctx) (*models.Project, uuid.UUID, error) {
	uid, err := getAuth(c)
	if err != nil {
		return nil, uuid.Nil, err
	}
	projectID, err := parseParamID(c, "id")
	if err != nil {
		return nil, uuid.Nil, err
	}

	var project models.Project
	if err := h.DB.First(&project, "id = ?", projectID).Error; err != nil {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusNotFound, "project not found")
	}
	if !project.IsMember(uid) {
		return nil, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "access denied")
	}
	return &project, uid, nil
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var projects []models.Project
	if err := h.DB.
		Preload("Seeker").
		Preload("Expert").
		Where("seeker_id = ? OR expert_id = ?", uid, uid).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		log.Println("Error fetching projects:", err)
		return fail500(c, "Failed to fetch projects")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    projects,
	})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}

	h.DB.Preload("Seeker").Preload("Expert").Preload("Milestones").First(project, "id = ?", project.ID)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"project":  project,
			"can_edit": project.CanEdit(uid),
		},
	})
}

// ----- milestones -----

func (h *ProjectHandler) ListMilestones(c *fiber.Ctx) error {
	project, _, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var milestones []models.Milestone
	if err := h.DB.
		Where("project_id = ?", project.ID).
		Order("due_date ASC").
		Find(&milestones).Error; err != nil {
		return fail500(c, "Failed to fetch milestones")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    milestones,
	})
}

type CreateMilestoneReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
}

func (h *ProjectHandler) CreateMilestone(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}
	if !project.CanEdit(uid) {
		return lifecycleFail(c, models.ErrNotAuthorized)
	}

	var req CreateMilestoneReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Title) == "" {
		errs := models.FieldErrors{}
		errs.Add("title", "Milestone title is required")
		return validationFail(c, errs)
	}

	m := models.Milestone{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      models.MilestoneStatusPending,
	}
	if err := h.DB.Create(&m).Error; err != nil {
		log.Println("Error creating milestone:", err)
		return fail500(c, "Failed to create milestone")
	}

	h.Broker.Publish(c.Context(), "project_milestones:"+project.ID.String(), "insert", m)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    m,
	})
}

// ToggleMilestone flips pending<->completed from the checkbox affordance.
func (h *ProjectHandler) ToggleMilestone(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}
	if !project.CanEdit(uid) {
		return lifecycleFail(c, models.ErrNotAuthorized)
	}

	milestoneID, err := parseParamID(c, "milestoneId")
	if err != nil {
		return err
	}

	var m models.Milestone
	if err := h.DB.First(&m, "id = ? AND project_id = ?", milestoneID, project.ID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Milestone not found")
	}

	m.Toggle(time.Now())
	return h.saveMilestone(c, project, &m)
}

// SetMilestoneStatus exposes the full status set, including in_progress.
func (h *ProjectHandler) SetMilestoneStatus(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}
	if !project.CanEdit(uid) {
		return lifecycleFail(c, models.ErrNotAuthorized)
	}

	milestoneID, err := parseParamID(c, "milestoneId")
	if err != nil {
		return err
	}

	var req struct {
		Status models.MilestoneStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var m models.Milestone
	if err := h.DB.First(&m, "id = ? AND project_id = ?", milestoneID, project.ID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Milestone not found")
	}

	if err := m.SetStatus(req.Status, time.Now()); err != nil {
		return lifecycleFail(c, err)
	}
	return h.saveMilestone(c, project, &m)
}

func (h *ProjectHandler) saveMilestone(c *fiber.Ctx, project *models.Project, m *models.Milestone) error {
	if err := h.DB.Save(m).Error; err != nil {
		log.Println("Error updating milestone:", err)
		return fail500(c, "Failed to update milestone")
	}

	h.Broker.Publish(c.Context(), "project_milestones:"+project.ID.String(), "update", m)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    m,
	})
}

// ----- files -----

func (h *ProjectHandler) ListFiles(c *fiber.Ctx) error {
	project, _, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var files []models.ProjectFile
	if err := h.DB.
		Where("project_id = ?", project.ID).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return fail500(c, "Failed to fetch files")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    files,
	})
}

func (h *ProjectHandler) UploadFile(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "file is required")
	}
	if file.Size > 25*1024*1024 {
		return fail(c, fiber.StatusBadRequest, "File "+file.Filename+" exceeds 25MB limit")
	}

	dir := filepath.Join(h.UploadDir, "projects", project.ID.String())
	_ = os.MkdirAll(dir, 0755)

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		log.Println("Error saving project file:", err)
		return fail500(c, "Failed to save file")
	}

	publicPath := "/uploads/projects/" + project.ID.String() + "/" + filename
	if h.PublicBaseURL != "" {
		publicPath = strings.TrimRight(h.PublicBaseURL, "/") + publicPath
	}

	rec := models.ProjectFile{
		ProjectID:  project.ID,
		UploaderID: uid,
		FileName:   file.Filename,
		FileURL:    publicPath,
		FileSize:   file.Size,
		MimeType:   file.Header.Get("Content-Type"),
	}
	if err := h.DB.Create(&rec).Error; err != nil {
		log.Println("Error recording project file:", err)
		return fail500(c, "Failed to record file")
	}

	h.Broker.Publish(c.Context(), "project_files:"+project.ID.String(), "insert", rec)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    rec,
	})
}

// ----- messages -----

func (h *ProjectHandler) ListMessages(c *fiber.Ctx) error {
	project, _, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var messages []models.ProjectMessage
	if err := h.DB.
		Preload("Sender").
		Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Find(&messages).Error; err != nil {
		return fail500(c, "Failed to fetch messages")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    messages,
	})
}

func (h *ProjectHandler) SendMessage(c *fiber.Ctx) error {
	project, uid, err := h.loadMember(c)
	if err != nil {
		return err
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs := models.FieldErrors{}
		errs.Add("content", "Message content is required")
		return validationFail(c, errs)
	}

	msg := models.ProjectMessage{
		ProjectID: project.ID,
		SenderID:  uid,
		Content:   req.Content,
	}
	if err := h.DB.Create(&msg).Error; err != nil {
		log.Println("Error sending message:", err)
		return fail500(c, "Failed to send message")
	}

	h.Broker.Publish(c.Context(), "project_messages:"+project.ID.String(), "insert", msg)

	// push directly to the counterpart so an open socket hears the
	// message without a channel subscription
	other := project.ExpertID
	if uid == project.ExpertID {
		other = project.SeekerID
	}
	if payload, err := json.Marshal(realtime.ChangeEvent{
		Channel: "project_messages:" + project.ID.String(),
		Event:   "insert",
		Record:  msg,
	}); err == nil {
		h.Hub.SendToUser(other, payload)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}
