package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	cryptoService "github.com/allisson/votesafe/internal/crypto/service"
)

const kmsRequiredHelp = `KMS_PROVIDER and KMS_KEY_URI are required for master key rotation

For local development, use:
  KMS_PROVIDER=localsecrets
  KMS_KEY_URI="base64key://<32-byte-base64-key>"`

// RunRotateMasterKey generates a new KMS-wrapped master key and prints
// MASTER_KEYS with the new key appended and marked active. Existing keys are
// kept so election keys and OTP secrets sealed under them still open.
func RunRotateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	keyID, kmsProvider, kmsKeyURI, existingMasterKeys, existingActiveKeyID string,
) error {
	if kmsProvider == "" || kmsKeyURI == "" {
		return errors.New(kmsRequiredHelp)
	}
	if existingMasterKeys == "" {
		return errors.New("MASTER_KEYS is not set - cannot rotate without existing keys")
	}
	if existingActiveKeyID == "" {
		return errors.New("ACTIVE_MASTER_KEY_ID is not set")
	}

	if keyID == "" {
		keyID = "master-key-" + time.Now().UTC().Format("2006-01-02")
	}
	if err := checkNewMasterKeyID(keyID, existingMasterKeys, existingActiveKeyID); err != nil {
		return err
	}

	encodedKey, err := newWrappedMasterKey(ctx, kmsService, writer, kmsKeyURI)
	if err != nil {
		return err
	}

	logger.Info("master key rotated",
		slog.String("previous_key_id", existingActiveKeyID),
		slog.String("key_id", keyID),
	)

	lines := []string{
		"# Master Key Rotation (KMS Mode)",
		"# Update these environment variables in your .env file or secrets manager",
		"",
		fmt.Sprintf("KMS_PROVIDER=%q", kmsProvider),
		fmt.Sprintf("KMS_KEY_URI=%q", kmsKeyURI),
		fmt.Sprintf("MASTER_KEYS=%q", existingMasterKeys+","+keyID+":"+encodedKey),
		fmt.Sprintf("ACTIVE_MASTER_KEY_ID=%q", keyID),
		"",
		"# Then:",
		"# 1. Restart the application",
		"# 2. Rotate election keys: app rotate-election-key --election <id>",
		fmt.Sprintf("# 3. Keep %s loaded while ballots or OTP secrets sealed under it remain", existingActiveKeyID),
	}
	_, err = fmt.Fprintln(writer, strings.Join(lines, "\n"))
	return err
}

// checkNewMasterKeyID rejects IDs that would break the MASTER_KEYS list or
// shadow a key already in it.
func checkNewMasterKeyID(keyID, existingMasterKeys, activeKeyID string) error {
	if strings.ContainsAny(keyID, ":, ") {
		return fmt.Errorf("invalid key id %q: must not contain ':', ',' or spaces", keyID)
	}

	activeFound := false
	for entry := range strings.SplitSeq(existingMasterKeys, ",") {
		id, _, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return fmt.Errorf("malformed MASTER_KEYS entry %q", id)
		}
		if id == keyID {
			return fmt.Errorf("master key %q already exists", keyID)
		}
		activeFound = activeFound || id == activeKeyID
	}
	if !activeFound {
		return fmt.Errorf("ACTIVE_MASTER_KEY_ID %q is not in MASTER_KEYS", activeKeyID)
	}
	return nil
}
