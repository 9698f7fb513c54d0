package handlers

import (
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genova-platform/genova_backend/internal/models"
)

// Two moderators deciding the same review: the loser's guarded update
// matches zero rows and comes back as a conflict.
func TestReviewModerateLostRace(t *testing.T) {
	gdb, mock := newMockDB(t)
	adminID := uuid.New()
	reviewID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "expert_id", "seeker_id", "rating", "comment", "moderation_status", "is_flagged", "moderated_at"}).
		AddRow(reviewID.String(), uuid.New().String(), uuid.New().String(), 2, "unhelpful", "pending", true, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews"`)).
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "reviews"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	h := NewReviewHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(adminID, models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/reviews/moderation/"+reviewID.String(),
		strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}

// A review already stamped in the loaded snapshot is rejected before any
// write is attempted.
func TestReviewModerateAlreadyDecided(t *testing.T) {
	gdb, mock := newMockDB(t)
	adminID := uuid.New()
	reviewID := uuid.New()
	decidedAt := time.Now().Add(-time.Hour)

	rows := sqlmock.NewRows([]string{"id", "expert_id", "seeker_id", "rating", "moderation_status", "is_flagged", "moderated_at"}).
		AddRow(reviewID.String(), uuid.New().String(), uuid.New().String(), 2, "approved", false, decidedAt)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "reviews"`)).
		WillReturnRows(rows)

	h := NewReviewHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(adminID, models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/reviews/moderation/"+reviewID.String(),
		strings.NewReader(`{"action":"remove"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}
