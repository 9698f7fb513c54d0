package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/genova-platform/genova_backend/internal/models"
)

// ErrorHandler renders uncaught errors in the standard response envelope
// so middleware rejections and fiber.NewError short-circuits return the
// same JSON shape as handler failures.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func validationFail(c *fiber.Ctx, errs models.FieldErrors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Validation error",
		"errors":  errs,
	})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

func fail500(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusInternalServerError, message)
}

func getAuth(c *fiber.Ctx) (uuid.UUID, error) {
	rawID, ok := c.Locals("userId").(string)
	if !ok || rawID == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	uID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid user id")
	}
	return uID, nil
}

func getRole(c *fiber.Ctx) models.Role {
	raw, _ := c.Locals("role").(string)
	return models.Role(raw)
}

func parseParamID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// lifecycleFail maps the typed lifecycle errors onto response envelopes.
func lifecycleFail(c *fiber.Ctx, err error) error {
	switch err {
	case models.ErrInvalidTransition:
		return fail(c, fiber.StatusConflict, "Status transition not permitted")
	case models.ErrAlreadyModerated:
		return fail(c, fiber.StatusConflict, "Item has already been moderated")
	case models.ErrNotAuthorized:
		return fail(c, fiber.StatusForbidden, "Not permitted")
	default:
		return fail500(c, "Something went wrong")
	}
}
