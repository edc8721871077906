package collab

import (
	"context"
	"time"

	apperrors "github.com/opengds/terminal-server-go/internal/errors"
	"github.com/opengds/terminal-server-go/internal/model"
)

// LocalApisValidator checks advance passenger information documents.
type LocalApisValidator struct{}

func NewLocalApisValidator() *LocalApisValidator {
	return &LocalApisValidator{}
}

func (v *LocalApisValidator) Validate(ctx context.Context, doc model.Document, travelDate time.Time) error {
	if doc.Type != "P" && doc.Type != "I" {
		return apperrors.ValidationError("DOCUMENT TYPE MUST BE P OR I")
	}
	if doc.Number == "" {
		return apperrors.ValidationError("DOCUMENT NUMBER REQUIRED")
	}
	if len(doc.IssuingCountry) != 3 || len(doc.Nationality) != 3 {
		return apperrors.ValidationError("COUNTRY CODES MUST BE 3 LETTERS")
	}
	if doc.Surname == "" || doc.GivenName == "" {
		return apperrors.ValidationError("DOCUMENT NAME REQUIRED")
	}
	if !doc.DateOfBirth.Before(travelDate) {
		return apperrors.ValidationError("DATE OF BIRTH MUST BE IN THE PAST")
	}
	if doc.ExpiryDate.Before(travelDate) {
		return apperrors.ValidationError("DOCUMENT EXPIRED OR EXPIRES BEFORE TRAVEL")
	}
	return nil
}
