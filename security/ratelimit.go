package security

import (
	"math"
	"time"

	"planhub-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateLimitConfig bounds one endpoint key: at most MaxRequests admissions per
// Window for a given (user, endpoint, project).
type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

var DefaultRateLimitConfig = RateLimitConfig{
	MaxRequests: 10,
	Window:      15 * time.Minute,
}

type RateLimitDecision struct {
	Allowed    bool
	RetryAfter int // seconds until the window reopens; > 0 when denied
}

// advanceWindow applies the fixed-window algorithm to an existing counter.
// Pure so the admission math is testable without a database. It returns the
// decision plus the counter values to persist (meaningful only when allowed).
func advanceWindow(count int, windowStart, now time.Time, cfg RateLimitConfig) (RateLimitDecision, int, time.Time) {
	if now.Sub(windowStart) >= cfg.Window {
		// Window expired: restart it with this request as the first.
		return RateLimitDecision{Allowed: true}, 1, now
	}
	if count < cfg.MaxRequests {
		return RateLimitDecision{Allowed: true}, count + 1, windowStart
	}
	return RateLimitDecision{
		Allowed:    false,
		RetryAfter: retryAfterSeconds(windowStart, now, cfg.Window),
	}, count, windowStart
}

// retryAfterSeconds reports how long a denied caller must wait, rounded up
// and never below one second.
func retryAfterSeconds(windowStart, now time.Time, window time.Duration) int {
	remaining := window - now.Sub(windowStart)
	secs := int(math.Ceil(remaining.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// CheckRateLimit runs one admission decision for (userID, endpoint, projectID)
// as a single atomic unit: the row is read under FOR UPDATE and mutated in the
// same transaction, so two concurrent requests for the same key cannot both
// observe the same count. First requests insert with ON CONFLICT DO NOTHING
// and re-read under lock if they lose the insert race.
//
// Store failures fail closed: the caller receives a deny with RetryAfter equal
// to the full window, alongside the error for internal logging. Degrading to
// open would drop the enumeration/flooding protection exactly when an attacker
// can induce store pressure.
func CheckRateLimit(db *gorm.DB, userID, endpoint, projectID string, cfg RateLimitConfig) (RateLimitDecision, error) {
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		cfg = DefaultRateLimitConfig
	}

	var decision RateLimitDecision
	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var rec models.RateLimitRecord
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND endpoint = ? AND project_id = ?", userID, endpoint, projectID).
			Limit(1).Find(&rec)
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			rec = models.RateLimitRecord{
				UserId:       userID,
				Endpoint:     endpoint,
				ProjectId:    projectID,
				RequestCount: 1,
				WindowStart:  now,
			}
			ins := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "endpoint"}, {Name: "project_id"}},
				DoNothing: true,
			}).Create(&rec)
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected > 0 {
				decision = RateLimitDecision{Allowed: true}
				return nil
			}
			// Another request created the row first; lock it and fall through.
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ? AND endpoint = ? AND project_id = ?", userID, endpoint, projectID).
				First(&rec).Error; err != nil {
				return err
			}
		}

		d, count, windowStart := advanceWindow(rec.RequestCount, rec.WindowStart, now, cfg)
		decision = d
		if !d.Allowed {
			return nil
		}
		return tx.Model(&models.RateLimitRecord{}).
			Where("id = ?", rec.Id).
			Updates(map[string]any{
				"request_count": count,
				"window_start":  windowStart,
			}).Error
	})
	if err != nil {
		return RateLimitDecision{Allowed: false, RetryAfter: int(cfg.Window.Seconds())}, err
	}
	return decision, nil
}
