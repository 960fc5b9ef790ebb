package utils

import (
	"net/mail"
	"strings"
)

// NormalizeEmail lowercases and trims an address so lookups and invitation
// matching are case-insensitive. Returns the input unchanged if it is not a
// parseable address; validation happens separately.
func NormalizeEmail(email string) string {
	e := strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(e); err != nil {
		return e
	}
	return e
}

// TrimStrings trims every string field on a pointer-to-struct DTO in place.
func TrimStrings(dto any) {
	normalizeStruct(dto, false)
}

// NormalizeDTO trims string fields and rounds float64 fields on a
// pointer-to-struct DTO. Useful for create DTOs with non-pointer fields.
func NormalizeDTO(dto any) {
	normalizeStruct(dto, true)
}
