package middlewares

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"planhub-backend/security"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
}

func TestErrorHandlerSanitizesMemberOperationFailures(t *testing.T) {
	// Whatever a membership handler trips over, the client sees one body.
	causes := []error{
		errors.New("principal protected"),
		errors.New(`pq: duplicate key value violates unique constraint`),
		errors.New("record not found"),
		nil,
	}

	app := newTestApp()
	app.Get("/remove/:i", func(c *fiber.Ctx) error {
		i, _ := c.ParamsInt("i", 0)
		return security.OpFailed(security.OpRemove, causes[i])
	})

	var first string
	for i := range causes {
		resp, err := app.Test(httptest.NewRequest("GET", "/remove/"+string(rune('0'+i)), nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		body, _ := io.ReadAll(resp.Body)
		if i == 0 {
			first = string(body)
			assert.JSONEq(t, `{"message":"Unable to remove this member from the project."}`, first)
			continue
		}
		assert.Equal(t, first, string(body), "cause %d leaked through the sanitizer", i)
	}
}

func TestErrorHandlerPassesFiberErrorsThrough(t *testing.T) {
	app := newTestApp()
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/teapot", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}

func TestErrorHandlerHidesUnknownErrors(t *testing.T) {
	app := newTestApp()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("sensitive driver detail: host=10.0.0.5")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(body), "10.0.0.5")
	assert.JSONEq(t, `{"message":"internal server error"}`, string(body))
}
