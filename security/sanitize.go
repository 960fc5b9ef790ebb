package security

// SanitizeMemberError collapses any failure from a membership operation into
// the one fixed message configured for that operation. The raw error is
// deliberately ignored beyond existing at all: a duplicate-key violation, a
// dropped connection, and a business-rule rejection must be byte-identical to
// the caller. Callers may log err internally; it never crosses the HTTP
// boundary.
func SanitizeMemberError(err error, op Operation) string {
	_ = err
	if msg, ok := safeMessages[op]; ok {
		return msg
	}
	return fallbackMessage
}

// SafeMessage returns the fixed message for an operation without requiring a
// raw error, for call sites that reject before any fallible work runs.
func SafeMessage(op Operation) string {
	return SanitizeMemberError(nil, op)
}

// MemberOperationError wraps any failure inside a membership handler. Handlers
// return it so the request transaction rolls back (mutation and audit row
// together) while the central error handler emits the sanitized, delayed
// response. The wrapped error is for internal logs only.
type MemberOperationError struct {
	Op  Operation
	Err error
}

func (e *MemberOperationError) Error() string {
	if e.Err != nil {
		return string(e.Op) + ": " + e.Err.Error()
	}
	return string(e.Op) + ": rejected"
}

func (e *MemberOperationError) Unwrap() error { return e.Err }

// OpFailed is the handler-side shorthand for wrapping a failure.
func OpFailed(op Operation, err error) *MemberOperationError {
	return &MemberOperationError{Op: op, Err: err}
}
