package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every failure path, including middleware rejections raised as
// fiber.NewError, renders the same JSON envelope.
func TestErrorHandlerEnvelope(t *testing.T) {
	app := newTestApp()
	app.Get("/denied", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return errors.New("connection refused")
	})

	t.Run("fiber errors keep code and message", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/denied", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")

		body, _ := io.ReadAll(resp.Body)
		var out struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.False(t, out.Success)
		assert.Equal(t, "unauthorized", out.Message)
	})

	t.Run("opaque errors become a generic 500", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/broken", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		var out struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		assert.False(t, out.Success)
		assert.Equal(t, "Something went wrong", out.Message)
	})
}
