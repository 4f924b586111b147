package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/votesafe/internal/crypto/domain"
)

func TestRunRotateElectionKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	key := &cryptoDomain.ElectionKey{
		ElectionID:  "board-2026",
		Version:     2,
		Algorithm:   cryptoDomain.AESGCM,
		MasterKeyID: "master-1",
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockVoteCryptoUseCase{}
		mockUseCase.On("RotateElectionKey", ctx, "board-2026").Return(key, nil)

		var out bytes.Buffer
		err := RunRotateElectionKey(ctx, mockUseCase, logger, &out, "board-2026", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Version:    2")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockVoteCryptoUseCase{}
		mockUseCase.On("RotateElectionKey", ctx, "board-2026").Return(key, nil)

		var out bytes.Buffer
		err := RunRotateElectionKey(ctx, mockUseCase, logger, &out, "board-2026", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, float64(2), result["version"])
		require.Equal(t, "aes-gcm", result["algorithm"])
	})

	t.Run("missing-election", func(t *testing.T) {
		err := RunRotateElectionKey(ctx, &mockVoteCryptoUseCase{}, logger, &bytes.Buffer{}, "", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "--election is required")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &mockVoteCryptoUseCase{}
		mockUseCase.On("RotateElectionKey", ctx, "board-2026").Return(nil, errors.New("db down"))

		err := RunRotateElectionKey(ctx, mockUseCase, logger, &bytes.Buffer{}, "board-2026", "text")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to rotate election key")
	})
}
