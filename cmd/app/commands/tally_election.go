package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	ballotDTO "github.com/allisson/votesafe/internal/ballot/http/dto"
	ballotUseCase "github.com/allisson/votesafe/internal/ballot/usecase"
)

// RunTallyElection decrypts and counts every ballot of the election. Ballots
// that fail decryption or integrity checks are listed and not counted.
func RunTallyElection(
	ctx context.Context,
	ballotUseCase ballotUseCase.BallotUseCase,
	logger *slog.Logger,
	writer io.Writer,
	electionID, actorID string,
	format string,
) error {
	if electionID == "" {
		return fmt.Errorf("--election is required")
	}

	result, err := ballotUseCase.Tally(ctx, electionID, actorID)
	if err != nil {
		return fmt.Errorf("failed to tally election: %w", err)
	}

	logger.Info("election tallied",
		slog.String("election_id", result.ElectionID),
		slog.Int("counted", result.Counted),
		slog.Int("rejected", len(result.Rejected)),
	)

	response := ballotDTO.MapTallyResultToResponse(result)
	if format == "json" {
		return writeJSON(writer, response)
	}

	_, _ = fmt.Fprintf(writer, "Election %s\n", response.ElectionID)
	_, _ = fmt.Fprintf(writer, "=================================\n\n")
	for _, count := range response.Results {
		_, _ = fmt.Fprintf(writer, "  %-32s %d\n", count.CandidateID, count.Votes)
	}
	_, _ = fmt.Fprintf(writer, "\nCounted:  %d\n", response.Counted)
	_, _ = fmt.Fprintf(writer, "Rejected: %d\n", len(response.Rejected))
	for _, rejected := range response.Rejected {
		_, _ = fmt.Fprintf(writer, "  - %s (%s)\n", rejected.BallotID, rejected.Reason)
	}
	return nil
}
