package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/harborlight-care/leadcore/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors lets a full field-error list travel as a single error.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, len(e))
	for i, ve := range e {
		parts[i] = ve.Error()
	}
	return strings.Join(parts, "; ")
}

func ValidateSubmitLeadInput(input SubmitLeadInput) []ValidationError {
	var errors []ValidationError

	if !entity.ValidKind(input.Kind) {
		errors = append(errors, ValidationError{"kind", "must be enquiry, callback_request or download_request"})
	}

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	// Phone is mandatory for callbacks, otherwise validated only if present.
	if entity.LeadKind(input.Kind) == entity.KindCallbackRequest && strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required for callback requests"})
	} else if strings.TrimSpace(input.Phone) != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	if strings.TrimSpace(input.BirthDate) != "" {
		if !isValidDate(input.BirthDate) {
			errors = append(errors, ValidationError{"birth_date", "must be a valid date (YYYY-MM-DD)"})
		} else if isFutureDate(input.BirthDate) {
			errors = append(errors, ValidationError{"birth_date", "must not be in the future"})
		}
	}

	if input.Urgency != "" && !entity.ValidUrgency(input.Urgency) {
		errors = append(errors, ValidationError{"urgency", "must be standard, soon or immediate"})
	}

	if entity.LeadKind(input.Kind) == entity.KindDownloadRequest && strings.TrimSpace(input.ResourceID) == "" {
		errors = append(errors, ValidationError{"resource_id", "is required for download requests"})
	}

	if len(input.Message) > 5000 {
		errors = append(errors, ValidationError{"message", "must not exceed 5000 characters"})
	}

	return errors
}

func isValidPhoneNumber(phone string) bool {
	cleaned := regexp.MustCompile(`\D`).ReplaceAllString(phone, "")
	return len(cleaned) >= 7 && len(cleaned) <= 15
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

func isFutureDate(dateStr string) bool {
	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return true
	}
	return t.After(time.Now())
}
