package service

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIDService(t *testing.T) {
	svc := NewSessionIDService()

	seen := make(map[string]struct{})
	for range 100 {
		id, err := svc.GenerateSessionID()
		require.NoError(t, err)
		assert.Len(t, id, 43)

		raw, err := base64.RawURLEncoding.DecodeString(id)
		require.NoError(t, err)
		assert.Len(t, raw, 32)

		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
