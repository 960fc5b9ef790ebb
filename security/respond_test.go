package security

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSecureErrorResponseDefaultsTo400(t *testing.T) {
	app := fiber.New()
	app.Get("/fail", func(c *fiber.Ctx) error {
		return SendSecureErrorResponse(c, SafeMessage(OpInvite))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"Unable to send an invitation to this email address."}`, string(body))
}

func TestSendRateLimitedIncludesRetryAfter(t *testing.T) {
	app := fiber.New()
	app.Get("/limited", func(c *fiber.Ctx) error {
		return SendRateLimited(c, 540)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"Too many requests. Please try again later.","retry_after":540}`, string(body))
}

// Four different internal rejection reasons must be indistinguishable at the
// boundary: identical bodies, and mean latencies within the jitter's spread.
func TestSanitizedFailurePathsShareOneLatencyDistribution(t *testing.T) {
	reasons := []error{
		errors.New("principal protected"),
		errors.New("self invite"),
		errors.New("duplicate member"),
		errors.New("record not found"),
	}

	app := fiber.New()
	app.Get("/invite/:reason", func(c *fiber.Ctx) error {
		idx, _ := c.ParamsInt("reason", 0)
		_ = reasons[idx] // branch chosen, then discarded like a real handler
		return SendSecureErrorResponse(c, SanitizeMemberError(reasons[idx], OpInvite))
	})

	const trials = 12
	const tolerance = 50 * time.Millisecond

	means := make([]time.Duration, len(reasons))
	bodies := make([]string, len(reasons))
	for i := range reasons {
		var total time.Duration
		for n := 0; n < trials; n++ {
			req := httptest.NewRequest("GET", "/invite/"+string(rune('0'+i)), nil)
			start := time.Now()
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			total += time.Since(start)

			body, _ := io.ReadAll(resp.Body)
			bodies[i] = string(body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		}
		means[i] = total / trials
	}

	for i := 1; i < len(reasons); i++ {
		assert.Equal(t, bodies[0], bodies[i], "reason %d must produce an identical body", i)
		diff := means[i] - means[0]
		if diff < 0 {
			diff = -diff
		}
		assert.Less(t, diff, tolerance,
			"mean latency for reason %d differs from reason 0 by %s", i, diff)
	}
}
