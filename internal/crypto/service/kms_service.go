package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"

	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// kmsSchemes are the keeper URL schemes registered above.
var kmsSchemes = []string{"awskms", "azurekeyvault", "gcpkms", "hashivault", "base64key"}

type kmsService struct{}

// NewKMSService returns a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens the keeper that wraps the master key chain.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	u, err := url.Parse(keyURI)
	if err != nil {
		return nil, fmt.Errorf("invalid KMS key URI: %w", err)
	}
	if !slices.Contains(kmsSchemes, u.Scheme) {
		return nil, fmt.Errorf("unsupported KMS scheme %q (expected one of %v)", u.Scheme, kmsSchemes)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s keeper: %w", u.Scheme, err)
	}
	return keeper, nil
}
