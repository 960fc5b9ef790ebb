package security

// Operation identifies which membership endpoint a failure came from.
// It is the ONLY input that may influence an externally visible error message.
type Operation string

const (
	OpInvite     Operation = "invite"
	OpRemove     Operation = "remove"
	OpRoleChange Operation = "role_change"
	OpAccept     Operation = "accept"
	OpDecline    Operation = "decline"
)

// RateLimitedMessage is the fixed body for 429 responses.
const RateLimitedMessage = "Too many requests. Please try again later."

// safeMessages maps an operation to its single user-facing failure string.
// Loaded once, never mutated. The wording must stay free of anything that
// distinguishes one internal failure from another: no hints about whether an
// account is present, who holds which role, or what state a membership is in.
// A test enforces the banned-substring list.
var safeMessages = map[Operation]string{
	OpInvite:     "Unable to send an invitation to this email address.",
	OpRemove:     "Unable to remove this member from the project.",
	OpRoleChange: "Unable to update the role for this member.",
	OpAccept:     "Unable to accept this invitation.",
	OpDecline:    "Unable to decline this invitation.",
}

// fallbackMessage covers an unknown operation tag; it should never be needed
// at runtime but keeps the sanitizer total.
const fallbackMessage = "Unable to complete this request."
