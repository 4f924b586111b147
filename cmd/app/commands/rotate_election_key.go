package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoUseCase "github.com/allisson/votesafe/internal/crypto/usecase"
)

// RunRotateElectionKey adds a new key version for the election. Ballots
// sealed under older versions stay decryptable; new ballots use the new one.
func RunRotateElectionKey(
	ctx context.Context,
	voteCryptoUseCase cryptoUseCase.VoteCryptoUseCase,
	logger *slog.Logger,
	writer io.Writer,
	electionID string,
	format string,
) error {
	if electionID == "" {
		return fmt.Errorf("--election is required")
	}

	key, err := voteCryptoUseCase.RotateElectionKey(ctx, electionID)
	if err != nil {
		return fmt.Errorf("failed to rotate election key: %w", err)
	}

	logger.Info("election key rotated",
		slog.String("election_id", key.ElectionID),
		slog.Uint64("version", uint64(key.Version)),
		slog.String("algorithm", string(key.Algorithm)),
		slog.String("master_key_id", key.MasterKeyID),
	)

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"election_id":   key.ElectionID,
			"version":       key.Version,
			"algorithm":     key.Algorithm,
			"master_key_id": key.MasterKeyID,
			"created_at":    key.CreatedAt,
		})
	}

	_, _ = fmt.Fprintf(writer, "Election key rotated\n")
	_, _ = fmt.Fprintf(writer, "  Election:   %s\n", key.ElectionID)
	_, _ = fmt.Fprintf(writer, "  Version:    %d\n", key.Version)
	_, _ = fmt.Fprintf(writer, "  Algorithm:  %s\n", key.Algorithm)
	_, _ = fmt.Fprintf(writer, "  Master key: %s\n", key.MasterKeyID)
	return nil
}
