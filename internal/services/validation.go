package services

import (
	"regexp"
	"strings"

	"github.com/vinfox/go_vin/internal/models"
)

// vinLength is the fixed length of every Vehicle Identification Number
const vinLength = 17

// Validator provides syntactic VIN validation. It has no network access and
// no side effects; Validate never panics for any input string.
type Validator struct {
	vinPattern *regexp.Regexp
}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	// I, O and Q are excluded from the VIN alphabet
	pattern := regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{17}$`)

	return &Validator{
		vinPattern: pattern,
	}
}

// Normalize trims surrounding whitespace and upper-cases a candidate VIN
func (v *Validator) Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate normalizes a raw token and checks it against the VIN syntax rules.
// On success it returns the immutable VinCode; on failure a
// *models.ValidationError naming the rejected token and the reason.
func (v *Validator) Validate(raw string) (models.VinCode, error) {
	normalized := v.Normalize(raw)

	if len(normalized) != vinLength {
		return "", models.NewValidationError(normalized, models.RejectionReasonBadLength)
	}

	if !v.vinPattern.MatchString(normalized) {
		return "", models.NewValidationError(normalized, models.RejectionReasonIllegalCharacter)
	}

	return models.VinCode(normalized), nil
}
