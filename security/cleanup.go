package security

import (
	"time"

	"planhub-backend/models"

	"gorm.io/gorm"
)

// RateLimitRetention is how long a counter row is kept after its window
// started. Deliberately much longer than any endpoint window, so a row is
// never deleted while it could still influence an admission decision.
const RateLimitRetention = 24 * time.Hour

// CleanupExpiredRateLimits deletes counter rows older than the retention
// horizon and reports how many went. Pure deletion: live counters are never
// reset or otherwise touched, and a second run right after the first deletes
// nothing. Meant to be driven by an external timer, not the request path.
func CleanupExpiredRateLimits(db *gorm.DB) (int64, error) {
	cutoff := time.Now().UTC().Add(-RateLimitRetention)
	res := db.Where("window_start < ?", cutoff).Delete(&models.RateLimitRecord{})
	return res.RowsAffected, res.Error
}
