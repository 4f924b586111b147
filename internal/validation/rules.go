// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/votesafe/internal/errors"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]{3,64}$`)
)

// WrapValidationError converts a validation failure into ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

type charClass uint8

const (
	classUpper charClass = 1 << iota
	classLower
	classNumber
	classSpecial
)

func classify(s string) charClass {
	var seen charClass
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			seen |= classUpper
		case unicode.IsLower(r):
			seen |= classLower
		case unicode.IsNumber(r):
			seen |= classNumber
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			seen |= classSpecial
		}
	}
	return seen
}

// PasswordStrength is a password policy. Length is counted in bytes.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// Validate implements validation.Rule.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}
	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.MinLength),
		)
	}

	seen := classify(s)
	requirements := []struct {
		required bool
		class    charClass
		code     string
		message  string
	}{
		{p.RequireUpper, classUpper, "validation_password_uppercase", "an uppercase letter"},
		{p.RequireLower, classLower, "validation_password_lowercase", "a lowercase letter"},
		{p.RequireNumber, classNumber, "validation_password_number", "a number"},
		{p.RequireSpecial, classSpecial, "validation_password_special", "a special character"},
	}
	for _, req := range requirements {
		if req.required && seen&req.class == 0 {
			return validation.NewError(req.code, "password must contain at least "+req.message)
		}
	}
	return nil
}

// DefaultPasswordStrength is the policy applied to voter passwords.
var DefaultPasswordStrength = PasswordStrength{
	MinLength:      8,
	RequireUpper:   true,
	RequireLower:   true,
	RequireNumber:  true,
	RequireSpecial: true,
}

// Email checks the address shape only; deliverability is not verified.
var Email = validation.NewStringRuleWithError(
	emailRegex.MatchString,
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank rejects strings that are empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Username accepts 3 to 64 letters, digits, dots, underscores or dashes.
var Username = validation.NewStringRuleWithError(
	usernameRegex.MatchString,
	validation.NewError("validation_username_format", "must be 3-64 letters, digits, '.', '_' or '-'"),
)

// Identifier validates election and candidate ids. '|' is reserved as the
// separator of the election key reference, and ids are stored verbatim so
// surrounding whitespace and control characters are rejected.
var Identifier = validation.NewStringRuleWithError(
	func(s string) bool {
		if s != strings.TrimSpace(s) || strings.Contains(s, "|") {
			return false
		}
		return !strings.ContainsFunc(s, unicode.IsControl)
	},
	validation.NewError(
		"validation_identifier",
		"must not contain '|', control characters or surrounding whitespace",
	),
)
