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

type ForumHandler struct {
	DB     *gorm.DB
	Broker *realtime.Broker
}

func NewForumHandler(db *gorm.DB, broker *realtime.Broker) *ForumHandler {
	return &ForumHandler{DB: db, Broker: broker}
}

func (h *ForumHandler) Routes(r fiber.Router, authMiddleware []fiber.Handler, moderatorOnly fiber.Handler) {
	r.Get("/forum/categories", h.ListCategories)
	r.Get("/forum/posts", h.ListPosts)
	r.Get("/forum/posts/:id", h.GetPost)

	g := r.Group("/forum", authMiddleware...)
	g.Post("/posts", h.CreatePost)
	g.Post("/posts/:id/replies", h.CreateReply)
	g.Post("/posts/:id/flag", h.FlagPost)
	g.Post("/replies/:id/flag", h.FlagReply)

	mod := g.Group("/moderation", moderatorOnly)
	mod.Get("/queue", h.Queue)
	mod.Post("/:contentType/:id", h.Moderate)
}

func (h *ForumHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.ForumCategory
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return fail500(c, "Failed to fetch categories")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}

// ListPosts returns visible posts, newest first, optionally filtered by
// category. Removed content never leaves the moderation trail.
func (h *ForumHandler) ListPosts(c *fiber.Ctx) error {
	q := h.DB.Model(&models.ForumPost{}).
		Preload("Author").
		Preload("Category").
		Where("moderation_status != ?", models.ModerationStatusRemoved)

	if cat := c.Query("category"); cat != "" {
		q = q.Joins("JOIN forum_categories ON forum_categories.id = forum_posts.category_id").
			Where("forum_categories.name = ?", cat)
	}

	var posts []models.ForumPost
	if err := q.Order("forum_posts.created_at DESC").Find(&posts).Error; err != nil {
		log.Println("Error fetching forum posts:", err)
		return fail500(c, "Failed to fetch posts")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    posts,
	})
}

func (h *ForumHandler) GetPost(c *fiber.Ctx) error {
	postID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var post models.ForumPost
	if err := h.DB.
		Preload("Author").
		Preload("Category").
		First(&post, "id = ? AND moderation_status != ?", postID, models.ModerationStatusRemoved).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Post not found")
	}

	var replies []models.ForumReply
	h.DB.Preload("Author").
		Where("post_id = ?", postID).
		Where("moderation_status != ?", models.ModerationStatusRemoved).
		Order("created_at ASC").
		Find(&replies)
	post.Replies = replies

	return c.JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

type CreatePostReq struct {
	CategoryID string `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

func (h *ForumHandler) CreatePost(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}

	var req CreatePostReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	errs := models.FieldErrors{}
	if strings.TrimSpace(req.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		errs.Add("content", "Content is required")
	}
	categoryID, perr := uuid.Parse(req.CategoryID)
	if perr != nil {
		errs.Add("category_id", "Invalid category id")
	}
	if !errs.Empty() {
		return validationFail(c, errs)
	}

	var cat models.ForumCategory
	if err := h.DB.First(&cat, "id = ?", categoryID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Category not found")
	}

	post := models.ForumPost{
		CategoryID: categoryID,
		AuthorID:   uid,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
	}
	if err := h.DB.Create(&post).Error; err != nil {
		log.Println("Error creating forum post:", err)
		return fail500(c, "Failed to create post")
	}

	h.Broker.Publish(c.Context(), "forum_posts", "insert", post)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    post,
	})
}

func (h *ForumHandler) CreateReply(c *fiber.Ctx) error {
	uid, err := getAuth(c)
	if err != nil {
		return err
	}
	postID, err := parseParamID(c, "id")
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
		errs.Add("content", "Content is required")
		return validationFail(c, errs)
	}

	var post models.ForumPost
	if err := h.DB.First(&post, "id = ?", postID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Post not found")
	}

	reply := models.ForumReply{
		PostID:   post.ID,
		AuthorID: uid,
		Content:  req.Content,
	}
	if err := h.DB.Create(&reply).Error; err != nil {
		log.Println("Error creating forum reply:", err)
		return fail500(c, "Failed to create reply")
	}

	h.Broker.Publish(c.Context(), "forum_replies:"+post.ID.String(), "insert", reply)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    reply,
	})
}

func (h *ForumHandler) FlagPost(c *fiber.Ctx) error {
	return h.flag(c, "post")
}

func (h *ForumHandler) FlagReply(c *fiber.Ctx) error {
	return h.flag(c, "reply")
}

func (h *ForumHandler) flag(c *fiber.Ctx, contentType string) error {
	if _, err := getAuth(c); err != nil {
		return err
	}
	contentID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&req)

	if contentType == "post" {
		var post models.ForumPost
		if err := h.DB.First(&post, "id = ?", contentID).Error; err != nil {
			return fail(c, fiber.StatusNotFound, "Post not found")
		}
		if err := post.Moderation.Flag(req.Reason); err != nil {
			return lifecycleFail(c, err)
		}
		if err := h.DB.Save(&post).Error; err != nil {
			return fail500(c, "Failed to flag post")
		}
		return c.JSON(fiber.Map{"success": true, "data": post})
	}

	var reply models.ForumReply
	if err := h.DB.First(&reply, "id = ?", contentID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Reply not found")
	}
	if err := reply.Moderation.Flag(req.Reason); err != nil {
		return lifecycleFail(c, err)
	}
	if err := h.DB.Save(&reply).Error; err != nil {
		return fail500(c, "Failed to flag reply")
	}
	return c.JSON(fiber.Map{"success": true, "data": reply})
}

// Queue lists flagged, undecided forum content for moderators.
func (h *ForumHandler) Queue(c *fiber.Ctx) error {
	var posts []models.ForumPost
	h.DB.Preload("Author").
		Where("is_flagged = ? AND moderated_at IS NULL", true).
		Order("created_at ASC").
		Find(&posts)

	var replies []models.ForumReply
	h.DB.Preload("Author").
		Where("is_flagged = ? AND moderated_at IS NULL", true).
		Order("created_at ASC").
		Find(&replies)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"posts":   posts,
			"replies": replies,
		},
	})
}

// Moderate decides one flagged post or reply. Same conditional-update
// guard as review moderation.
func (h *ForumHandler) Moderate(c *fiber.Ctx) error {
	moderatorID, err := getAuth(c)
	if err != nil {
		return err
	}
	contentType := c.Params("contentType")
	if contentType != "post" && contentType != "reply" {
		return fail(c, fiber.StatusBadRequest, "content type must be post or reply")
	}
	contentID, err := parseParamID(c, "id")
	if err != nil {
		return err
	}

	var req ModerateReq
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid body")
	}

	var mod models.Moderation
	var model interface{}
	if contentType == "post" {
		var post models.ForumPost
		if err := h.DB.First(&post, "id = ?", contentID).Error; err != nil {
			return fail(c, fiber.StatusNotFound, "Post not found")
		}
		if err := post.Moderation.Moderate(moderatorID, req.Action, req.Note, time.Now()); err != nil {
			return lifecycleFail(c, err)
		}
		mod = post.Moderation
		model = &models.ForumPost{}
	} else {
		var reply models.ForumReply
		if err := h.DB.First(&reply, "id = ?", contentID).Error; err != nil {
			return fail(c, fiber.StatusNotFound, "Reply not found")
		}
		if err := reply.Moderation.Moderate(moderatorID, req.Action, req.Note, time.Now()); err != nil {
			return lifecycleFail(c, err)
		}
		mod = reply.Moderation
		model = &models.ForumReply{}
	}

	res := h.DB.Model(model).
		Where("id = ? AND moderated_at IS NULL", contentID).
		Updates(map[string]interface{}{
			"moderation_status": mod.ModerationStatus,
			"is_flagged":        mod.IsFlagged,
			"flagged_reason":    mod.FlaggedReason,
			"moderated_by":      mod.ModeratedBy,
			"moderated_at":      mod.ModeratedAt,
		})
	if res.Error != nil {
		log.Println("Error moderating forum content:", res.Error)
		return fail500(c, "Failed to moderate content")
	}
	if res.RowsAffected == 0 {
		return lifecycleFail(c, models.ErrAlreadyModerated)
	}

	h.Broker.Publish(c.Context(), "forum_moderation", "update", fiber.Map{
		"content_type": contentType,
		"content_id":   contentID,
		"status":       mod.ModerationStatus,
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"content_type": contentType,
			"content_id":   contentID,
			"status":       mod.ModerationStatus,
			"moderated_by": mod.ModeratedBy,
			"moderated_at": mod.ModeratedAt,
		},
	})
}
