package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "not-an-address", NormalizeEmail(" NOT-AN-ADDRESS "))
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name := "Renamed"
	archived := true
	patch := struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Archived    *bool   `json:"archived"`
		Ignored     *string `json:"-"`
	}{Name: &name, Archived: &archived, Ignored: &name}

	updates := UpdatesFromPtrDTO(&patch)
	assert.Equal(t, map[string]any{"name": "Renamed", "archived": true}, updates)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 19.99, Round2(19.985))
	assert.Equal(t, 0.0, Round2(0))
}
