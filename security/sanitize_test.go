package security

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Heterogeneous raw failures a membership handler can see: ORM sentinel,
// driver-level error, business-rule rejection, wrapped error, nil.
var rawErrors = []error{
	gorm.ErrRecordNotFound,
	errors.New(`pq: duplicate key value violates unique constraint "idx_members_project_user"`),
	errors.New("principal protected"),
	fiber.NewError(fiber.StatusBadRequest, "self invite"),
	fmt.Errorf("commit failed: %w", errors.New("connection reset by peer")),
	nil,
}

func TestSanitizeCollapsesPerOperation(t *testing.T) {
	ops := []Operation{OpInvite, OpRemove, OpRoleChange, OpAccept, OpDecline}
	for _, op := range ops {
		seen := make(map[string]struct{})
		for _, raw := range rawErrors {
			seen[SanitizeMemberError(raw, op)] = struct{}{}
		}
		require.Len(t, seen, 1, "operation %s must map every raw error to one message", op)
	}
}

func TestSanitizeDistinctOperationsGetOwnMessage(t *testing.T) {
	seen := make(map[string]Operation)
	for op := range safeMessages {
		msg := SanitizeMemberError(errors.New("boom"), op)
		prev, dup := seen[msg]
		assert.False(t, dup, "operations %s and %s share a message", prev, op)
		seen[msg] = op
	}
}

func TestSanitizeUnknownOperationFallsBack(t *testing.T) {
	assert.Equal(t, fallbackMessage, SanitizeMemberError(errors.New("boom"), Operation("bogus")))
}

func TestSafeMessagesContainNoRevealingVocabulary(t *testing.T) {
	banned := []string{"exists", "registered", "not found", "owner", "already a member"}

	all := []string{RateLimitedMessage, fallbackMessage}
	for _, msg := range safeMessages {
		all = append(all, msg)
	}

	for _, msg := range all {
		lower := strings.ToLower(msg)
		for _, word := range banned {
			assert.NotContains(t, lower, word, "message %q leaks state vocabulary", msg)
		}
	}
}

func TestMemberOperationErrorUnwraps(t *testing.T) {
	cause := errors.New("root cause")
	err := OpFailed(OpInvite, cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "invite")

	var opErr *MemberOperationError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &opErr)
	assert.Equal(t, OpInvite, opErr.Op)
}
