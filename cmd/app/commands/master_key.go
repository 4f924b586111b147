package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"time"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
)

const kmsParamsHelp = "\n\nFor local development, use:\n" +
	"  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\n" +
	"For production, use cloud KMS providers:\n" +
	"  --kms-provider=gcpkms --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n" +
	"  --kms-provider=awskms --kms-key-uri=\"awskms:///alias/...\"\n" +
	"  --kms-provider=azurekeyvault --kms-key-uri=\"azurekeyvault://...\""

// RunCreateMasterKey generates a 32-byte master key, encrypts it with the KMS
// key and prints the environment variables that load it. The master key wraps
// election keys and sealed OTP secrets. Plaintext key material is zeroed
// before returning.
//
// Output format:
//   - MASTER_KEYS="<keyID>:<base64-encoded-kms-ciphertext>"
//   - KMS_PROVIDER="<provider>"
//   - KMS_KEY_URI="<uri>"
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID, kmsProvider, kmsKeyURI string,
) error {
	if kmsProvider == "" || kmsKeyURI == "" {
		return fmt.Errorf("--kms-provider and --kms-key-uri are required%s", kmsParamsHelp)
	}

	// Generate default key ID if not provided
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	encodedKey, err := newWrappedMasterKey(ctx, kmsService, writer, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("master key created", slog.String("key_id", keyID), slog.String("kms_provider", kmsProvider))

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)

	return nil
}

// newWrappedMasterKey generates a random master key and returns its KMS
// ciphertext, base64 encoded.
func newWrappedMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	writer io.Writer,
	kmsKeyURI string,
) (string, error) {
	masterKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(writer, "Warning: failed to close KMS keeper: %v\n", closeErr)
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}
