// Package dto provides data transfer objects for the voter login endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/votesafe/internal/validation"
)

// RegisterUserRequest contains the parameters for registering a voter.
type RegisterUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"` //nolint:gosec // request field
}

// Validate checks the shape of the request. Password policy is enforced by the use case.
func (r *RegisterUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Username, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Email, validation.Required, customValidation.NotBlank),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest carries the first factor. Identifier is a username or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"` //nolint:gosec // request field
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Identifier,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 254),
		),
		validation.Field(&r.Password, validation.Required, validation.Length(1, 1024)),
	)
}

// QRVerifyRequest returns a scanned challenge payload.
type QRVerifyRequest struct {
	UserID    string `json:"user_id"`
	Challenge string `json:"challenge"`
}

// Validate checks if the QR verify request is valid.
func (r *QRVerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.UUID),
		validation.Field(&r.Challenge, validation.Required, validation.Length(1, 512)),
	)
}

// OTPVerifyRequest carries the one-time password read from the authenticator app.
type OTPVerifyRequest struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// Validate checks if the OTP verify request is valid.
func (r *OTPVerifyRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.UserID, validation.Required, customValidation.UUID),
		validation.Field(&r.Code, validation.Required, validation.Length(1, 16)),
	)
}
