package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
	apperrors "github.com/allisson/votesafe/internal/errors"
)

// qrChallengeInfo versions the HKDF derivation of the checksum key.
const qrChallengeInfo = "qr-challenge-v1"

type qrChallengeService struct {
	key    []byte
	expiry time.Duration
}

// NewQRChallengeService derives the checksum key from masterKey and returns a
// service accepting challenges for up to expiry after issuance.
func NewQRChallengeService(masterKey *cryptoDomain.MasterKey, expiry time.Duration) (QRChallengeService, error) {
	if masterKey == nil || len(masterKey.Key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}
	if expiry <= 0 {
		expiry = authDomain.DefaultQRExpiry
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, masterKey.Key, nil, []byte(qrChallengeInfo)), key); err != nil {
		return nil, fmt.Errorf("failed to derive qr challenge key: %w", err)
	}

	return &qrChallengeService{key: key, expiry: expiry}, nil
}

func (s *qrChallengeService) Expiry() time.Duration {
	return s.expiry
}

func (s *qrChallengeService) Generate(userID uuid.UUID, issuedAt time.Time) *authDomain.QRChallenge {
	challenge := &authDomain.QRChallenge{UserID: userID, IssuedAt: issuedAt.UTC()}
	challenge.Checksum = s.checksum(challenge)
	return challenge
}

func (s *qrChallengeService) Validate(payload string, userID uuid.UUID, now time.Time) authDomain.QRVerdict {
	challenge, err := authDomain.ParseQRChallenge(payload)
	if err != nil {
		return authDomain.QRInvalid
	}

	if challenge.UserID != userID {
		return authDomain.QRInvalid
	}

	if !hmac.Equal([]byte(challenge.Checksum), []byte(s.checksum(challenge))) {
		return authDomain.QRInvalid
	}

	if challenge.IsExpired(now, s.expiry) {
		return authDomain.QRExpired
	}

	return authDomain.QRValid
}

func (s *qrChallengeService) IsExpired(payload string, now time.Time) bool {
	challenge, err := authDomain.ParseQRChallenge(payload)
	if err != nil {
		return true
	}
	return challenge.IsExpired(now, s.expiry)
}

func (s *qrChallengeService) RenderPNG(payload string, size int) ([]byte, error) {
	code, err := qr.Encode(payload, qr.M, qr.Auto)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode qr code")
	}

	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to scale qr code")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, apperrors.Wrap(err, "failed to encode png")
	}
	return buf.Bytes(), nil
}

// checksum is base64url(HMAC-SHA256(key, "userID|issuedAt")).
func (s *qrChallengeService) checksum(challenge *authDomain.QRChallenge) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(challenge.SignedContent())
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
