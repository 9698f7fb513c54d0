package handlers

import (
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

// Same race guard as reviews, on forum content: a lost race on the
// moderated_at gate is a conflict.
func TestForumModeratePostLostRace(t *testing.T) {
	gdb, mock := newMockDB(t)
	adminID := uuid.New()
	postID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "category_id", "author_id", "title", "content", "moderation_status", "is_flagged", "moderated_at"}).
		AddRow(postID.String(), uuid.New().String(), uuid.New().String(), "Off topic", "spam", "pending", true, nil)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "forum_posts"`)).
		WillReturnRows(rows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "forum_posts"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	h := NewForumHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(adminID, models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/forum/moderation/post/"+postID.String(),
		strings.NewReader(`{"action":"remove","note":"spam"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestForumModerateRejectsUnknownContentType(t *testing.T) {
	gdb, _ := newMockDB(t)

	h := NewForumHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, []fiber.Handler{authStub(uuid.New(), models.RoleAdmin)}, passthrough)

	req := httptest.NewRequest(fiber.MethodPost, "/forum/moderation/comment/"+uuid.New().String(),
		strings.NewReader(`{"action":"approve"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
