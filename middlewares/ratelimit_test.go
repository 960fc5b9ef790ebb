package middlewares

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"planhub-backend/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func withMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = conn.Close()
	})
	return mock
}

func limiterApp(endpointKey string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", "u1")
		return c.Next()
	})
	app.Post("/projects/:id/members/invite",
		RateLimit(endpointKey),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"message": "ok"})
		})
	return app
}

func TestRateLimitMiddlewareAllowsUnderLimit(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "endpoint", "project_id", "request_count", "window_start"}).
			AddRow(1, "u1", "POST /projects/:id/members/invite", "p1", 2, time.Now().UTC().Add(-time.Minute)))
	mock.ExpectExec(`UPDATE "rate_limit_records"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	app := limiterApp("POST /projects/:id/members/invite")
	resp, err := app.Test(httptest.NewRequest("POST", "/projects/p1/members/invite", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitMiddlewareDeniesWithRetryAfter(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "endpoint", "project_id", "request_count", "window_start"}).
			AddRow(1, "u1", "POST /projects/:id/members/invite", "p1", 10, time.Now().UTC().Add(-time.Minute)))
	mock.ExpectCommit()

	app := limiterApp("POST /projects/:id/members/invite")
	resp, err := app.Test(httptest.NewRequest("POST", "/projects/p1/members/invite", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var body struct {
		Message    string `json:"message"`
		RetryAfter int    `json:"retry_after"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Too many requests. Please try again later.", body.Message)
	assert.Greater(t, body.RetryAfter, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Store trouble must not open the gate.
func TestRateLimitMiddlewareFailsClosedOnStoreError(t *testing.T) {
	mock := withMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	app := limiterApp("POST /projects/:id/members/invite")
	resp, err := app.Test(httptest.NewRequest("POST", "/projects/p1/members/invite", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
