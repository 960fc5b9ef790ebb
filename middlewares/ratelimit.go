package middlewares

import (
	"log"

	"planhub-backend/database"
	"planhub-backend/security"

	"github.com/gofiber/fiber/v2"
)

// RateLimit is the per-endpoint request guard. endpointKey is a stable string
// naming the route+method, e.g. "POST /projects/:id/members/invite"; together
// with the authenticated user and the :id project param it keys the persisted
// counter. A deny short-circuits with the uniform 429 body; the handler and
// its transaction never run, so no audit entry is written for blocked calls.
// Order: run AFTER IsAuthenticatedHeader() and BEFORE Tx() — the counter
// mutation is its own short transaction and must survive even when the
// request is later aborted or its handler rolls back.
func RateLimit(endpointKey string, cfgs ...security.RateLimitConfig) fiber.Handler {
	cfg := security.DefaultRateLimitConfig
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}
	return func(c *fiber.Ctx) error {
		userID, _ := c.Locals("userID").(string)
		projectID := c.Params("id")

		decision, err := security.CheckRateLimit(database.DB, userID, endpointKey, projectID, cfg)
		if err != nil {
			// Fail closed; the decision already carries a full-window retryAfter.
			log.Printf("rate limit store error on %s: %v", endpointKey, err)
		}
		if !decision.Allowed {
			return security.SendRateLimited(c, decision.RetryAfter)
		}
		return c.Next()
	}
}
