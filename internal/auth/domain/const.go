// Package domain defines the voter authentication models: users with sealed
// TOTP secrets, QR challenges, one-time passwords, sessions and the two-factor
// state machine results.
package domain

import "time"

// AuthState is the position of a principal in the two-factor login flow.
type AuthState string

const (
	// StateUnauthenticated is the initial state and the state after any declined step.
	StateUnauthenticated AuthState = "unauthenticated"

	// StateFirstFactorComplete means credentials were accepted. A QR challenge
	// and then an OTP are still required.
	StateFirstFactorComplete AuthState = "first_factor_complete"

	// StateFullyAuthenticated means both factors succeeded and a session exists.
	StateFullyAuthenticated AuthState = "fully_authenticated"
)

// Defaults used when a configuration value is zero.
const (
	DefaultOTPValidity        = 5 * time.Minute
	DefaultOTPRateLimitWindow = time.Minute
	DefaultOTPMaxAttempts     = 3
	DefaultOTPPeriod          = 30 * time.Second
	DefaultOTPDigits          = 6
	DefaultOTPSkew            = 1
	DefaultQRExpiry           = 5 * time.Minute
	DefaultSessionTimeout     = 30 * time.Minute
)
