package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authService "github.com/allisson/votesafe/internal/auth/service"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
	apperrors "github.com/allisson/votesafe/internal/errors"
	customValidation "github.com/allisson/votesafe/internal/validation"
)

type userUseCase struct {
	userRepo        UserRepository
	passwordService authService.PasswordService
	totpService     authService.TOTPService
	keyManager      cryptoService.KeyManager
	masterKeyChain  *cryptoDomain.MasterKeyChain
}

// NewUserUseCase creates a UserUseCase. TOTP secrets are sealed with the
// active key of masterKeyChain.
func NewUserUseCase(
	userRepo UserRepository,
	passwordService authService.PasswordService,
	totpService authService.TOTPService,
	keyManager cryptoService.KeyManager,
	masterKeyChain *cryptoDomain.MasterKeyChain,
) UserUseCase {
	return &userUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		totpService:     totpService,
		keyManager:      keyManager,
		masterKeyChain:  masterKeyChain,
	}
}

func validateRegistration(input *authDomain.RegisterUserInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.Username, validation.Required, customValidation.Username),
		validation.Field(&input.Email, validation.Required, customValidation.Email, validation.Length(3, 254)),
		validation.Field(&input.Password, validation.Required, customValidation.DefaultPasswordStrength),
	)
	return customValidation.WrapValidationError(err)
}

func (u *userUseCase) RegisterUser(
	ctx context.Context,
	input *authDomain.RegisterUserInput,
) (*authDomain.RegisterUserOutput, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	masterKey, ok := u.masterKeyChain.Active()
	if !ok {
		return nil, cryptoDomain.ErrActiveMasterKeyNotFound
	}

	passwordHash, err := u.passwordService.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	secret, provisioningURI, err := u.totpService.GenerateSecret(input.Username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &authDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		Username:     input.Username,
		Email:        strings.ToLower(input.Email),
		PasswordHash: passwordHash,
		MasterKeyID:  masterKey.ID,
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user.OTPSecret, user.OTPSecretNonce, err = u.keyManager.Seal(masterKey, []byte(secret), user.OTPSecretAAD())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to seal otp secret")
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return &authDomain.RegisterUserOutput{
		User:            user,
		ProvisioningURI: provisioningURI,
	}, nil
}

func (u *userUseCase) GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error) {
	return u.userRepo.GetByID(ctx, id)
}

func (u *userUseCase) GetByIdentifier(ctx context.Context, identifier string) (*authDomain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, authDomain.ErrUserNotFound
	}
	if strings.Contains(identifier, "@") {
		return u.userRepo.GetByEmail(ctx, identifier)
	}
	return u.userRepo.GetByUsername(ctx, identifier)
}

func (u *userUseCase) OTPSecret(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	masterKey, ok := u.masterKeyChain.Get(user.MasterKeyID)
	if !ok {
		return "", apperrors.Wrapf(
			authDomain.ErrOTPSecretUnavailable, "master key %s not loaded", user.MasterKeyID,
		)
	}

	secret, err := u.keyManager.Open(masterKey, user.OTPSecret, user.OTPSecretNonce, user.OTPSecretAAD())
	if err != nil {
		return "", errors.Join(authDomain.ErrOTPSecretUnavailable, err)
	}
	defer cryptoDomain.Zero(secret)

	return string(secret), nil
}

func (u *userUseCase) SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (*authDomain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Enabled = enabled
	user.UpdatedAt = time.Now().UTC()
	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
