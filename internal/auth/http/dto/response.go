package dto

import (
	"time"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
)

// UserResponse represents a voter in API responses. Credentials are never included.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *authDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Email:     user.Email,
		Enabled:   user.Enabled,
		CreatedAt: user.CreatedAt,
	}
}

// RegisterUserResponse contains the new voter and the authenticator provisioning URI.
// SECURITY: The provisioning URI embeds the TOTP secret and is only returned once.
type RegisterUserResponse struct {
	User            UserResponse `json:"user"`
	ProvisioningURI string       `json:"provisioning_uri"`
}

// MapRegisterUserOutputToResponse converts a registration output to an API response.
func MapRegisterUserOutputToResponse(output *authDomain.RegisterUserOutput) RegisterUserResponse {
	return RegisterUserResponse{
		User:            MapUserToResponse(output.User),
		ProvisioningURI: output.ProvisioningURI,
	}
}

// AuthStepResponse reports the login state after a successful step.
// Fields not produced by the step are omitted.
type AuthStepResponse struct {
	State              string     `json:"state"`
	UserID             string     `json:"user_id"`
	Challenge          string     `json:"challenge,omitempty"`
	ChallengeExpiresAt *time.Time `json:"challenge_expires_at,omitempty"`
	OTPExpiresAt       *time.Time `json:"otp_expires_at,omitempty"`
	SessionID          string     `json:"session_id,omitempty"`
	SessionExpiresAt   *time.Time `json:"session_expires_at,omitempty"`
}

// MapAuthResultToResponse converts a non-declined AuthResult to an API response.
func MapAuthResultToResponse(result *authDomain.AuthResult) AuthStepResponse {
	response := AuthStepResponse{
		State:     string(result.State),
		UserID:    result.UserID.String(),
		Challenge: result.Challenge,
	}
	if !result.ChallengeExpiresAt.IsZero() {
		response.ChallengeExpiresAt = &result.ChallengeExpiresAt
	}
	if !result.OTPExpiresAt.IsZero() {
		response.OTPExpiresAt = &result.OTPExpiresAt
	}
	if result.Session != nil {
		response.SessionID = result.Session.ID
		response.SessionExpiresAt = &result.Session.ExpiresAt
	}
	return response
}

// SessionResponse describes the caller's current session. The session id is not echoed.
type SessionResponse struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapSessionToResponse converts a domain session to an API response.
func MapSessionToResponse(session *authDomain.Session) SessionResponse {
	return SessionResponse{
		UserID:    session.UserID.String(),
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	}
}
