package service

import (
	"strings"

	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

// Conflicts reports whether two commitments collide. Slots are opaque
// values compared by exact equality; there is deliberately no interval
// overlap arithmetic.
func Conflicts(a, b models.TimeSlot) bool {
	return a == b
}

// HasConflict reports whether any commitment occupies the same slot.
func HasConflict(slot models.TimeSlot, commitments []models.TimeSlot) bool {
	for _, c := range commitments {
		if Conflicts(slot, c) {
			return true
		}
	}
	return false
}

// ValidateSlot rejects blank slots before they enter a comparison.
func ValidateSlot(slot models.TimeSlot) error {
	if strings.TrimSpace(string(slot)) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "time slot must not be empty")
	}
	return nil
}
