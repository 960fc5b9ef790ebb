package security

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceWindowAdmitsUpToMaxThenDenies(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 10, Window: 15 * time.Minute}
	now := time.Now().UTC()

	// Request 1 creates the record with count 1; requests 2..10 advance it.
	count := 1
	windowStart := now
	for i := 2; i <= 10; i++ {
		d, newCount, newStart := advanceWindow(count, windowStart, now, cfg)
		require.True(t, d.Allowed, "request %d should be admitted", i)
		count, windowStart = newCount, newStart
		assert.Equal(t, i, count)
	}

	// The 11th inside the same window is denied with a positive retryAfter.
	d, _, _ := advanceWindow(count, windowStart, now.Add(time.Minute), cfg)
	require.False(t, d.Allowed)
	assert.Greater(t, d.RetryAfter, 0)
	assert.LessOrEqual(t, d.RetryAfter, int(cfg.Window.Seconds()))
}

func TestAdvanceWindowRestartsExpiredWindow(t *testing.T) {
	cfg := RateLimitConfig{MaxRequests: 10, Window: 15 * time.Minute}
	start := time.Now().UTC().Add(-16 * time.Minute)

	d, count, windowStart := advanceWindow(10, start, time.Now().UTC(), cfg)
	require.True(t, d.Allowed, "a saturated but expired window must reopen")
	assert.Equal(t, 1, count)
	assert.True(t, windowStart.After(start))
}

func TestRetryAfterSecondsNeverBelowOne(t *testing.T) {
	now := time.Now().UTC()
	window := 15 * time.Minute

	assert.Equal(t, 1, retryAfterSeconds(now.Add(-window+10*time.Millisecond), now, window))
	assert.Equal(t, int(window.Seconds()), retryAfterSeconds(now, now, window))
}

func TestCheckRateLimitDeniesSaturatedWindow(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Now().UTC().Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "endpoint", "project_id", "request_count", "window_start"}).
			AddRow(1, "u1", "POST /projects/:id/members/invite", "p1", 10, start))
	mock.ExpectCommit()

	decision, err := CheckRateLimit(db, "u1", "POST /projects/:id/members/invite", "p1", DefaultRateLimitConfig)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, 0)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRateLimitIncrementsActiveWindow(t *testing.T) {
	db, mock := newMockDB(t)
	start := time.Now().UTC().Add(-time.Minute)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "endpoint", "project_id", "request_count", "window_start"}).
			AddRow(1, "u1", "POST /projects/:id/members/invite", "p1", 3, start))
	mock.ExpectExec(`UPDATE "rate_limit_records"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	decision, err := CheckRateLimit(db, "u1", "POST /projects/:id/members/invite", "p1", DefaultRateLimitConfig)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.Zero(t, decision.RetryAfter)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckRateLimitFirstRequestInsertsCounter(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "user_id", "endpoint", "project_id", "request_count", "window_start"}))
	mock.ExpectQuery(`INSERT INTO "rate_limit_records"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	decision, err := CheckRateLimit(db, "u1", "POST /projects/:id/members/invite", "p1", DefaultRateLimitConfig)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A store failure must come back as a deny, not an open gate.
func TestCheckRateLimitFailsClosed(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "rate_limit_records"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	decision, err := CheckRateLimit(db, "u1", "POST /projects/:id/members/invite", "p1", DefaultRateLimitConfig)
	require.Error(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, int(DefaultRateLimitConfig.Window.Seconds()), decision.RetryAfter)
}
