package apperr

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var fieldValidate = validator.New()

// Validator collects field failures and reports them as one error.
// Not safe for concurrent use; create one per operation.
type Validator struct {
	errs []FieldError
}

func NewValidator() *Validator {
	return &Validator{}
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.Add(field, message)
	}
	return v
}

// MinLen counts runes of the trimmed value.
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < min {
		v.Add(field, message)
	}
	return v
}

func (v *Validator) MaxLen(field, value string, max int, message string) *Validator {
	if utf8.RuneCountInString(strings.TrimSpace(value)) > max {
		v.Add(field, message)
	}
	return v
}

func (v *Validator) Range(field string, value, min, max int, message string) *Validator {
	if value < min || value > max {
		v.Add(field, message)
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	if fieldValidate.Var(strings.TrimSpace(value), "required,email") != nil {
		v.Add(field, "Please provide a valid email address")
	}
	return v
}

// URL checks an optional link; empty values pass.
func (v *Validator) URL(field, value string) *Validator {
	value = strings.TrimSpace(value)
	if value == "" {
		return v
	}
	if fieldValidate.Var(value, "url") != nil {
		v.Add(field, fmt.Sprintf("%s must be a valid URL", field))
	}
	return v
}

func (v *Validator) UUID(field, value, message string) *Validator {
	if _, err := uuid.Parse(strings.TrimSpace(value)); err != nil {
		v.Add(field, message)
	}
	return v
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.Add(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Check adds message when failed is true.
func (v *Validator) Check(field string, failed bool, message string) *Validator {
	if failed {
		v.Add(field, message)
	}
	return v
}

func (v *Validator) Add(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// Err returns nil when every check passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return ValidationFields(v.errs...)
}
