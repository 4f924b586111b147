package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
)

// RunSetUserEnabled enables or disables login for the user named by
// identifier (username, or email when it contains '@'). Sessions a disabled
// user still holds are ended by the server on their next request.
func RunSetUserEnabled(
	ctx context.Context,
	userUseCase authUseCase.UserUseCase,
	logger *slog.Logger,
	writer io.Writer,
	identifier string,
	enabled bool,
) error {
	if identifier == "" {
		return fmt.Errorf("--user is required")
	}

	user, err := userUseCase.GetByIdentifier(ctx, identifier)
	if err != nil {
		return fmt.Errorf("failed to find user %q: %w", identifier, err)
	}

	user, err = userUseCase.SetEnabled(ctx, user.ID, enabled)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	logger.Info("user updated",
		slog.String("user_id", user.ID.String()),
		slog.Bool("enabled", user.Enabled),
	)

	state := "disabled"
	if user.Enabled {
		state = "enabled"
	}
	_, _ = fmt.Fprintf(writer, "User %s (%s) is now %s\n", user.Username, user.ID, state)
	return nil
}
