package middleware

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genova-platform/genova_backend/internal/utils"
)

func TestOptionalJWTLocals(t *testing.T) {
	secret := "test-secret"

	app := fiber.New()
	app.Use(OptionalJWTLocals(secret))
	app.Get("/", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userId").(string)
		role, _ := c.Locals("role").(string)
		return c.JSON(fiber.Map{"user_id": uid, "role": role})
	})

	call := func(t *testing.T, cookie string) (string, string) {
		t.Helper()
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		if cookie != "" {
			req.Header.Set("Cookie", "gv_token="+cookie)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out struct {
			UserID string `json:"user_id"`
			Role   string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		return out.UserID, out.Role
	}

	t.Run("no cookie passes through anonymously", func(t *testing.T) {
		uid, role := call(t, "")
		assert.Empty(t, uid)
		assert.Empty(t, role)
	})

	t.Run("valid cookie attaches identity", func(t *testing.T) {
		userID := uuid.New().String()
		token, err := utils.SignJWT(secret, userID, "seeker", 60)
		require.NoError(t, err)

		uid, role := call(t, token)
		assert.Equal(t, userID, uid)
		assert.Equal(t, "seeker", role)
	})

	t.Run("forged cookie is ignored, not rejected", func(t *testing.T) {
		token, err := utils.SignJWT("other-secret", uuid.New().String(), "admin", 60)
		require.NoError(t, err)

		uid, role := call(t, token)
		assert.Empty(t, uid)
		assert.Empty(t, role)
	})
}
