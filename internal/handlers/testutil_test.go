package handlers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/genova-platform/genova_backend/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gdb, mock
}

// authStub stands in for the JWT middleware chain in handler tests.
func authStub(uid uuid.UUID, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", uid.String())
		c.Locals("role", string(role))
		return c.Next()
	}
}

func passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}
