package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genova-platform/genova_backend/internal/models"
)

func pendingInquiryRows(inquiryID, seekerID, expertID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "seeker_id", "expert_id", "project_title", "project_description", "status"}).
		AddRow(inquiryID.String(), seekerID.String(), expertID.String(), "Risk model", "Build a risk model", "pending")
}

// A decision that loses the race sees zero rows matched by the guarded
// update and must surface as a conflict, not a success.
func TestInquiryAcceptLostRace(t *testing.T) {
	gdb, mock := newMockDB(t)
	seekerID := uuid.New()
	expertID := uuid.New()
	inquiryID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inquiries"`)).
		WillReturnRows(pendingInquiryRows(inquiryID, seekerID, expertID))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inquiries"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	h := NewInquiryHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, authStub(expertID, models.RoleExpert))

	req := httptest.NewRequest(fiber.MethodPatch, "/inquiries/"+inquiryID.String()+"/accept", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Success)

	require.NoError(t, mock.ExpectationsWereMet())
}

// Acceptance and the project it spawns commit together: a failed project
// insert rolls the status change back and the caller sees the failure.
func TestInquiryAcceptProjectInsertFails(t *testing.T) {
	gdb, mock := newMockDB(t)
	seekerID := uuid.New()
	expertID := uuid.New()
	inquiryID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inquiries"`)).
		WillReturnRows(pendingInquiryRows(inquiryID, seekerID, expertID))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "inquiries"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "projects"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	h := NewInquiryHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, authStub(expertID, models.RoleExpert))

	req := httptest.NewRequest(fiber.MethodPatch, "/inquiries/"+inquiryID.String()+"/accept", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var out struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.False(t, out.Success)

	require.NoError(t, mock.ExpectationsWereMet())
}

// A decline by someone other than the inquiry's expert never reaches the
// database write.
func TestInquiryDeclineWrongCaller(t *testing.T) {
	gdb, mock := newMockDB(t)
	seekerID := uuid.New()
	expertID := uuid.New()
	inquiryID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inquiries"`)).
		WillReturnRows(pendingInquiryRows(inquiryID, seekerID, expertID))

	h := NewInquiryHandler(gdb, nil)
	app := newTestApp()
	h.Routes(app, authStub(seekerID, models.RoleSeeker))

	req := httptest.NewRequest(fiber.MethodPatch, "/inquiries/"+inquiryID.String()+"/decline", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, mock.ExpectationsWereMet())
}
