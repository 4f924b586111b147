package commands

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	authDomain "github.com/allisson/votesafe/internal/auth/domain"
	authUseCase "github.com/allisson/votesafe/internal/auth/usecase"
)

// RunRegisterUser registers a voter and prints the provisioning URI for the
// authenticator app. The URI is shown only once. When password is empty it is
// read from the first line of streams.Reader.
func RunRegisterUser(
	ctx context.Context,
	userUseCase authUseCase.UserUseCase,
	logger *slog.Logger,
	streams IOTuple,
	username, email, password string,
	format string,
) error {
	if password == "" {
		read, err := readPassword(streams)
		if err != nil {
			return err
		}
		password = read
	}

	output, err := userUseCase.RegisterUser(ctx, &authDomain.RegisterUserInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}

	logger.Info("user registered",
		slog.String("user_id", output.User.ID.String()),
		slog.String("username", output.User.Username),
	)

	if format == "json" {
		return writeJSON(streams.Writer, map[string]any{
			"id":               output.User.ID.String(),
			"username":         output.User.Username,
			"email":            output.User.Email,
			"provisioning_uri": output.ProvisioningURI,
		})
	}

	_, _ = fmt.Fprintf(streams.Writer, "User registered\n")
	_, _ = fmt.Fprintf(streams.Writer, "  ID:       %s\n", output.User.ID)
	_, _ = fmt.Fprintf(streams.Writer, "  Username: %s\n", output.User.Username)
	_, _ = fmt.Fprintf(streams.Writer, "  Email:    %s\n\n", output.User.Email)
	_, _ = fmt.Fprintf(streams.Writer, "Provisioning URI (load into the authenticator app, shown only once):\n")
	_, _ = fmt.Fprintf(streams.Writer, "  %s\n", output.ProvisioningURI)
	return nil
}

func readPassword(streams IOTuple) (string, error) {
	_, _ = fmt.Fprint(streams.Writer, "Password: ")

	scanner := bufio.NewScanner(streams.Reader)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return "", fmt.Errorf("password is required")
	}
	_, _ = fmt.Fprintln(streams.Writer)

	password := strings.TrimRight(scanner.Text(), "\r")
	if password == "" {
		return "", fmt.Errorf("password is required")
	}
	return password, nil
}
