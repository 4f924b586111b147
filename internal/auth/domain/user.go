package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the principal that logs in. The TOTP secret is generated at
// registration and stored sealed under a master key; the plaintext secret
// never reaches the database.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	// OTPSecret is the AES-GCM sealed base32 TOTP secret.
	OTPSecret      []byte
	OTPSecretNonce []byte
	MasterKeyID    string
	Enabled        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// OTPSecretAAD binds a sealed TOTP secret to the user it belongs to.
func (u *User) OTPSecretAAD() []byte {
	return []byte("otp-secret|" + u.ID.String())
}

// RegisterUserInput contains the parameters for registering a voter.
type RegisterUserInput struct {
	Username string
	Email    string
	Password string
}

// RegisterUserOutput is returned once at registration. ProvisioningURI is the
// otpauth:// URI the voter loads into an authenticator app and is never shown again.
type RegisterUserOutput struct {
	User            *User
	ProvisioningURI string
}
