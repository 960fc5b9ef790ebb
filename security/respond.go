package security

import "github.com/gofiber/fiber/v2"

// SendSecureErrorResponse waits out the random jitter and then writes a
// uniform-shaped JSON error. The delay happens before the response is sent,
// so wall-clock latency carries no signal about which internal branch failed.
// Default status is 400; pass an explicit status to override.
func SendSecureErrorResponse(c *fiber.Ctx, message string, status ...int) error {
	code := fiber.StatusBadRequest
	if len(status) > 0 {
		code = status[0]
	}
	DefaultDelay()
	return c.Status(code).JSON(fiber.Map{
		"message": message,
	})
}

// SendRateLimited emits the fixed 429 rejection with the seconds the caller
// must wait before the window reopens.
func SendRateLimited(c *fiber.Ctx, retryAfter int) error {
	DefaultDelay()
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"message":     RateLimitedMessage,
		"retry_after": retryAfter,
	})
}
