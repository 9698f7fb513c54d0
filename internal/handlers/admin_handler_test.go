package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genova-platform/genova_backend/internal/models"
)

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

func TestKPIReportShape(t *testing.T) {
	gdb, mock := newMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).WillReturnRows(countRows(10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).WillReturnRows(countRows(4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users"`)).WillReturnRows(countRows(6))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inquiries"`)).WillReturnRows(countRows(8))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "inquiries"`)).WillReturnRows(countRows(4))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "projects"`)).WillReturnRows(countRows(3))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "projects"`)).WillReturnRows(countRows(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "reviews"`)).WillReturnRows(countRows(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(AVG(rating), 0) FROM "reviews"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4.5))

	h := NewAdminHandler(gdb)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(uuid.New(), models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/actions/admin",
		strings.NewReader(`{"action":"generate_kpi_report"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			TotalUsers        float64 `json:"total_users"`
			TotalExperts      float64 `json:"total_experts"`
			TotalSeekers      float64 `json:"total_seekers"`
			TotalInquiries    float64 `json:"total_inquiries"`
			AcceptedInquiries float64 `json:"accepted_inquiries"`
			AcceptanceRate    float64 `json:"acceptance_rate"`
			ActiveProjects    float64 `json:"active_projects"`
			CompletedProjects float64 `json:"completed_projects"`
			PendingModeration float64 `json:"pending_moderation"`
			AverageRating     float64 `json:"average_rating"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &out))

	assert.True(t, out.Success)
	assert.Equal(t, 10.0, out.Data.TotalUsers)
	assert.Equal(t, 4.0, out.Data.TotalExperts)
	assert.Equal(t, 6.0, out.Data.TotalSeekers)
	assert.Equal(t, 50.0, out.Data.AcceptanceRate)
	assert.Equal(t, 3.0, out.Data.ActiveProjects)
	assert.Equal(t, 1.0, out.Data.PendingModeration)
	assert.Equal(t, 4.5, out.Data.AverageRating)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminInvokeUnknownAction(t *testing.T) {
	gdb, _ := newMockDB(t)

	h := NewAdminHandler(gdb)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(uuid.New(), models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/actions/admin",
		strings.NewReader(`{"action":"drop_tables"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
