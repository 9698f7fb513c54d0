package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
	"github.com/genova-platform/genova_backend/internal/onboarding"
	"github.com/genova-platform/genova_backend/internal/realtime"
	"github.com/genova-platform/genova_backend/internal/services/analytics"
	"github.com/genova-platform/genova_backend/internal/utils"
)

// OnboardingHandler drives the five-step expert onboarding wizard. Drafts
// live in Redis until submission freezes them into an ExpertProfile.
type OnboardingHandler struct {
	DB            *gorm.DB
	Store         *onboarding.Store
	Tracker       *analytics.Tracker
	Broker        *realtime.Broker
	UploadDir     string
	PublicBaseURL string
	JWTSecret     string
	ExpiresMin    int
}

func NewOnboardingHandler(
	db *gorm.DB,
	store *onboarding.Store,
	tracker *analytics.Tracker,
	broker *realtime.Broker,
	uploadDir, publicBaseURL string,
	jwtSecret string,
	expiresMin int,
) *OnboardingHandler {
	return &OnboardingHandler{
		DB:            db,
		Store:         store,
		Tracker:       tracker,
		Broker:        broker,
		UploadDir:     uploadDir,
		PublicBaseURL: publicBaseURL,
		JWTSecret:     jwtSecret,
		ExpiresMin:    expiresMin,
	}
}

func (h *OnboardingHandler) Routes(r fiber.Router, authMiddleware ...fiber.Handler) {
	g := r.Group("/onboarding", authMiddleware...)
	g.Get("/", h.Get)
	g.Patch("/personal", h.UpdatePersonal)
	g.Patch("/experience", h.UpdateExperience)
	g.Patch("/expertise", h.UpdateExpertise)
	g.Patch("/availability", h.UpdateAvailability)
	g.Post("/photo", h.UploadPhoto)
	g.Post("/credentials", h.UploadCredential)
	g.Post("/next", h.Next)
	g.Post("/prev", h.Prev)
}

func (h *OnboardingHandler) draftFor(c *fiber.Ctx) (uuid.UUID, *onboarding.Draft, error) {
	uid, err := getAuth(c)
	if err != nil {
		return uuid.Nil, nil, err
	}
	d, err := h.Store.Get(c.Context(), uid)
	if err != nil {
		return uuid.Nil, nil, fail500(c, "Failed to load onboarding draft")
	}
	return uid, d, nil
}

func (h *OnboardingHandler) saveAndRespond(c *fiber.Ctx, uid uuid.UUID, d *onboarding.Draft) error {
	if err := h.Store.Save(c.Context(), uid, d); err != nil {
		log.Println("Error saving onboarding draft:", err)
		return fail500(c, "Failed to save onboarding draft")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"step":      d.Step,
			"step_name": onboarding.StepName(d.Step),
			"draft":     d,
		},
	})
}

func (h *OnboardingHandler) Get(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	// an existing profile means the wizard already completed
	var profile models.ExpertProfile
	if err := h.DB.Where("user_id = ?", uid).First(&profile).Error; err == nil {
		return c.JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"completed": true,
				"profile":   profile,
			},
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"completed": false,
			"step":      d.Step,
			"step_name": onboarding.StepName(d.Step),
			"draft":     d,
		},
	})
}

func (h *OnboardingHandler) UpdatePersonal(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	var req struct {
		FullName  *string `json:"full_name"`
		Title     *string `json:"title"`
		Location  *string `json:"location"`
		Biography *string `json:"biography"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	if req.FullName != nil {
		d.PersonalDetails.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Title != nil {
		d.PersonalDetails.Title = strings.TrimSpace(*req.Title)
	}
	if req.Location != nil {
		d.PersonalDetails.Location = strings.TrimSpace(*req.Location)
	}
	if req.Biography != nil {
		d.PersonalDetails.Biography = strings.TrimSpace(*req.Biography)
	}

	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) UpdateExperience(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	var req struct {
		CareerHistory *string `json:"career_history"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.CareerHistory != nil {
		d.Experience.CareerHistory = strings.TrimSpace(*req.CareerHistory)
	}

	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) UpdateExpertise(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	var req struct {
		Areas   []string `json:"areas"`
		Sectors []string `json:"sectors"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.Areas != nil {
		d.Expertise.Areas = req.Areas
	}
	if req.Sectors != nil {
		d.Expertise.Sectors = req.Sectors
	}

	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) UpdateAvailability(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	var req struct {
		IsAvailable *bool            `json:"is_available"`
		LeadTime    *models.LeadTime `json:"lead_time"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}
	if req.IsAvailable != nil {
		d.Availability.IsAvailable = *req.IsAvailable
	}
	if req.LeadTime != nil {
		if !models.ValidLeadTime(*req.LeadTime) {
			errs := models.FieldErrors{}
			errs.Add("lead_time", "Invalid lead time")
			return validationFail(c, errs)
		}
		d.Availability.LeadTime = *req.LeadTime
	}

	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) UploadPhoto(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "photo file is required")
	}
	if file.Size > 5*1024*1024 {
		return fail(c, fiber.StatusBadRequest, "Photo exceeds 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" && ext != ".webp" {
		return fail(c, fiber.StatusBadRequest, "Unsupported image format")
	}

	dir := filepath.Join(h.UploadDir, "photos")
	_ = os.MkdirAll(dir, 0755)

	filename := uuid.New().String() + ext
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		log.Println("Error saving photo:", err)
		return fail500(c, "Failed to save photo")
	}

	d.PersonalDetails.PhotoURL = h.publicPath("/uploads/photos/" + filename)
	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) UploadCredential(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("credential")
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "credential file is required")
	}
	if file.Size > 10*1024*1024 {
		return fail(c, fiber.StatusBadRequest, "Credential exceeds 10MB limit")
	}

	dir := filepath.Join(h.UploadDir, "credentials")
	_ = os.MkdirAll(dir, 0755)

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveFile(file, filepath.Join(dir, filename)); err != nil {
		log.Println("Error saving credential:", err)
		return fail500(c, "Failed to save credential")
	}

	d.Experience.CredentialRefs = append(d.Experience.CredentialRefs, h.publicPath("/uploads/credentials/"+filename))
	return h.saveAndRespond(c, uid, d)
}

// Next validates the current step and advances. Leaving the availability
// step submits: the draft becomes an ExpertProfile and the user is
// promoted to the expert role.
func (h *OnboardingHandler) Next(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	fromStep := d.Step
	if err := d.Next(); err != nil {
		var ve *onboarding.ValidationError
		if errors.As(err, &ve) {
			return validationFail(c, ve.Fields)
		}
		if errors.Is(err, onboarding.ErrTerminalStep) {
			return fail(c, fiber.StatusConflict, "Onboarding is already complete")
		}
		return fail500(c, "Something went wrong")
	}

	// observability only; a tracking failure never blocks the wizard
	h.Tracker.TrackStep(uid, "onboarding_step_completed", fromStep, onboarding.StepName(fromStep))

	if d.Complete() {
		return h.submit(c, uid, d)
	}
	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) Prev(c *fiber.Ctx) error {
	uid, d, err := h.draftFor(c)
	if err != nil {
		return err
	}

	fromStep := d.Step
	if err := d.Prev(); err != nil {
		return fail(c, fiber.StatusConflict, "Onboarding is already complete")
	}

	h.Tracker.TrackStep(uid, "onboarding_step_back", fromStep, onboarding.StepName(fromStep))
	return h.saveAndRespond(c, uid, d)
}

func (h *OnboardingHandler) submit(c *fiber.Ctx, uid uuid.UUID, d *onboarding.Draft) error {
	areas, _ := json.Marshal(d.Expertise.Areas)
	sectors, _ := json.Marshal(d.Expertise.Sectors)
	creds, _ := json.Marshal(d.Experience.CredentialRefs)

	profile := models.ExpertProfile{
		UserID:         uid,
		FullName:       d.PersonalDetails.FullName,
		Title:          d.PersonalDetails.Title,
		Location:       d.PersonalDetails.Location,
		Biography:      d.PersonalDetails.Biography,
		PhotoURL:       d.PersonalDetails.PhotoURL,
		CareerHistory:  d.Experience.CareerHistory,
		CredentialRefs: creds,
		Areas:          areas,
		Sectors:        sectors,
		IsAvailable:    d.Availability.IsAvailable,
		LeadTime:       d.Availability.LeadTime,
	}

	var u models.User
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		if err := tx.First(&u, "id = ?", uid).Error; err != nil {
			return err
		}
		u.Role = models.RoleExpert
		return tx.Save(&u).Error
	})
	if err != nil {
		log.Println("Error submitting onboarding:", err)
		return fail500(c, "Failed to complete onboarding")
	}

	_ = h.Store.Delete(c.Context(), uid)

	h.Broker.Publish(c.Context(), "profiles", "insert", profile)
	h.Tracker.Track(analytics.Event{
		EventType:  "conversion",
		UserID:     &uid,
		Properties: map[string]interface{}{"conversion_type": "expert_onboarding_completed"},
	})

	// role changed, re-issue the session token
	signed, err := utils.SignJWT(h.JWTSecret, u.ID.String(), string(u.Role), h.ExpiresMin)
	if err == nil {
		c.Cookie(&fiber.Cookie{
			Name:     "gv_token",
			Value:    signed,
			Path:     "/",
			HTTPOnly: true,
			Secure:   false,
			SameSite: "Lax",
			MaxAge:   h.ExpiresMin * 60,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Onboarding complete",
		"data": fiber.Map{
			"step":      onboarding.StepCompletion,
			"step_name": onboarding.StepName(onboarding.StepCompletion),
			"profile":   profile,
			"user": fiber.Map{
				"id":   u.ID,
				"role": u.Role,
			},
		},
	})
}

func (h *OnboardingHandler) publicPath(p string) string {
	if h.PublicBaseURL == "" {
		return p
	}
	return strings.TrimRight(h.PublicBaseURL, "/") + p
}
